package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool          // Include query variables in spans, dev only
	SlowQueryThresh time.Duration // Default: 200ms
	DBSystem        string        // Default: "mysql"
}

// DefaultDBTracingConfig returns the default database tracing configuration.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		Enabled:         false,
		LogFullSQL:      false,
		SlowQueryThresh: 200 * time.Millisecond,
		DBSystem:        "mysql",
	}
}

// DBTracingPlugin wires otelgorm into a GORM instance and adds slow query
// detection on top of the otelgorm spans.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a database tracing plugin.
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}
	if cfg.DBSystem == "" {
		cfg.DBSystem = "mysql"
	}
	return &DBTracingPlugin{
		config: cfg,
		logger: logger,
	}
}

// Register installs the otelgorm plugin plus the timing callbacks on db.
// No-op when tracing is disabled.
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{
		otelgorm.WithDBName(p.config.DBSystem),
	}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}

	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	if err := p.registerTimingCallbacks(db); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
		zap.String("db_system", p.config.DBSystem),
	)

	return nil
}

type contextKey string

const queryStartTimeKey contextKey = "otel_query_start_time"

// WithQueryStartTime marks the query start for slow query detection.
// Registered automatically by the before callbacks.
func WithQueryStartTime(ctx context.Context) context.Context {
	return context.WithValue(ctx, queryStartTimeKey, time.Now())
}

func (p *DBTracingPlugin) registerTimingCallbacks(db *gorm.DB) error {
	before := func(db *gorm.DB) {
		if db.Statement.Context != nil {
			db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
		}
	}

	processors := []struct {
		suffix string
		before func(name string, fn func(*gorm.DB)) error
		after  func(name string, fn func(*gorm.DB)) error
	}{
		{"create",
			func(n string, fn func(*gorm.DB)) error { return db.Callback().Create().Before("gorm:create").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return db.Callback().Create().After("gorm:create").Register(n, fn) }},
		{"query",
			func(n string, fn func(*gorm.DB)) error { return db.Callback().Query().Before("gorm:query").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return db.Callback().Query().After("gorm:query").Register(n, fn) }},
		{"update",
			func(n string, fn func(*gorm.DB)) error { return db.Callback().Update().Before("gorm:update").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return db.Callback().Update().After("gorm:update").Register(n, fn) }},
		{"delete",
			func(n string, fn func(*gorm.DB)) error { return db.Callback().Delete().Before("gorm:delete").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return db.Callback().Delete().After("gorm:delete").Register(n, fn) }},
		{"row",
			func(n string, fn func(*gorm.DB)) error { return db.Callback().Row().Before("gorm:row").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return db.Callback().Row().After("gorm:row").Register(n, fn) }},
		{"raw",
			func(n string, fn func(*gorm.DB)) error { return db.Callback().Raw().Before("gorm:raw").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return db.Callback().Raw().After("gorm:raw").Register(n, fn) }},
	}

	for _, proc := range processors {
		if err := proc.before("otel_timing:before_"+proc.suffix, before); err != nil {
			return err
		}
		if err := proc.after("otel_timing:after_"+proc.suffix, p.afterCallback); err != nil {
			return err
		}
	}

	return nil
}

// afterCallback annotates the active span with row counts, table name and
// slow query markers, and records errors other than record-not-found.
func (p *DBTracingPlugin) afterCallback(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}

	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	if startTime, ok := ctx.Value(queryStartTimeKey).(time.Time); ok {
		elapsed := time.Since(startTime)
		if elapsed > p.config.SlowQueryThresh {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
			span.AddEvent("slow_query_warning", trace.WithAttributes(
				attribute.Int64("duration_ms", elapsed.Milliseconds()),
				attribute.Int64("threshold_ms", p.config.SlowQueryThresh.Milliseconds()),
			))
		}
	}
}
