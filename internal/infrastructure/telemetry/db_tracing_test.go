package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type tracedProduct struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100"`
	CreatedAt time.Time
}

func setupTracedDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedProduct{}))

	return db
}

func setupSpanRecorder(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
	})
	return tp, recorder
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()

	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
	assert.Equal(t, "mysql", cfg.DBSystem)
}

func TestNewDBTracingPlugin_Defaults(t *testing.T) {
	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true}, zap.NewNop())

	assert.Equal(t, 200*time.Millisecond, plugin.config.SlowQueryThresh)
	assert.Equal(t, "mysql", plugin.config.DBSystem)
}

func TestDBTracingPlugin_Register_Disabled(t *testing.T) {
	db := setupTracedDB(t)

	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, plugin.Register(db))

	_, ok := db.Config.Plugins["otelgorm"]
	assert.False(t, ok)
}

func TestDBTracingPlugin_Register_Enabled(t *testing.T) {
	db := setupTracedDB(t)

	cfg := DefaultDBTracingConfig()
	cfg.Enabled = true
	plugin := NewDBTracingPlugin(cfg, zap.NewNop())
	require.NoError(t, plugin.Register(db))

	_, ok := db.Config.Plugins["otelgorm"]
	assert.True(t, ok)

	// Registered DB still executes queries.
	require.NoError(t, db.Create(&tracedProduct{Name: "Masala Chai"}).Error)
}

func TestDBTracingPlugin_AfterCallback_RowsAffected(t *testing.T) {
	db := setupTracedDB(t)
	tp, recorder := setupSpanRecorder(t)

	tracer := tp.Tracer("test")
	ctx, span := tracer.Start(context.Background(), "create-product")

	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true}, zap.NewNop())

	tx := db.WithContext(ctx).Create(&tracedProduct{Name: "Masala Chai"})
	require.NoError(t, tx.Error)

	plugin.afterCallback(tx)
	span.End()

	spans := recorder.Ended()
	require.NotEmpty(t, spans)

	var foundRows, foundTable bool
	for _, attr := range spans[0].Attributes() {
		switch string(attr.Key) {
		case "db.rows_affected":
			foundRows = attr.Value.AsInt64() == 1
		case "db.sql.table":
			foundTable = attr.Value.AsString() == "traced_products"
		}
	}
	assert.True(t, foundRows, "expected db.rows_affected attribute")
	assert.True(t, foundTable, "expected db.sql.table attribute")
}

func TestDBTracingPlugin_AfterCallback_SlowQuery(t *testing.T) {
	db := setupTracedDB(t)
	tp, recorder := setupSpanRecorder(t)

	tracer := tp.Tracer("test")
	ctx, span := tracer.Start(context.Background(), "slow-query")
	ctx = WithQueryStartTime(ctx)

	plugin := NewDBTracingPlugin(DBTracingConfig{
		Enabled:         true,
		SlowQueryThresh: time.Nanosecond,
	}, zap.NewNop())

	var products []tracedProduct
	tx := db.WithContext(ctx).Find(&products)
	require.NoError(t, tx.Error)

	plugin.afterCallback(tx)
	span.End()

	spans := recorder.Ended()
	require.NotEmpty(t, spans)

	var slowMarked bool
	for _, attr := range spans[0].Attributes() {
		if string(attr.Key) == "db.slow_query" && attr.Value.AsBool() {
			slowMarked = true
		}
	}
	assert.True(t, slowMarked, "expected db.slow_query attribute")

	var eventSeen bool
	for _, ev := range spans[0].Events() {
		if ev.Name == "slow_query_warning" {
			eventSeen = true
		}
	}
	assert.True(t, eventSeen, "expected slow_query_warning event")
}

func TestDBTracingPlugin_AfterCallback_NotFoundNotAnError(t *testing.T) {
	db := setupTracedDB(t)
	tp, recorder := setupSpanRecorder(t)

	tracer := tp.Tracer("test")
	ctx, span := tracer.Start(context.Background(), "missing-product")

	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true}, zap.NewNop())

	var p tracedProduct
	tx := db.WithContext(ctx).First(&p, 9999)
	require.ErrorIs(t, tx.Error, gorm.ErrRecordNotFound)

	plugin.afterCallback(tx)
	span.End()

	spans := recorder.Ended()
	require.NotEmpty(t, spans)
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)
}

func TestWithQueryStartTime(t *testing.T) {
	ctx := WithQueryStartTime(context.Background())

	startTime, ok := ctx.Value(queryStartTimeKey).(time.Time)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now(), startTime, time.Second)
}
