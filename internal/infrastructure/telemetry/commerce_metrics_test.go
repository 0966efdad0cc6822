package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

type fakeStoreProvider struct {
	ids []uuid.UUID
	err error
}

func (f *fakeStoreProvider) ActiveStoreIDs(ctx context.Context) ([]uuid.UUID, error) {
	return f.ids, f.err
}

type fakeCatalogProvider struct {
	counts map[uuid.UUID]int64
	err    error
}

func (f *fakeCatalogProvider) CountLowStock(ctx context.Context, storeID uuid.UUID) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.counts[storeID], nil
}

func newTestCommerceMetrics(t *testing.T) (*CommerceMetrics, func(t *testing.T) metricdata.ResourceMetrics) {
	t.Helper()

	reader, provider := newTestMeter(t)
	cm, err := NewCommerceMetrics(CommerceMetricsConfig{
		Meter:  provider.Meter("test"),
		Logger: zap.NewNop(),
	})
	require.NoError(t, err)

	return cm, func(t *testing.T) metricdata.ResourceMetrics {
		return collectMetrics(t, reader)
	}
}

func attrValue(dp metricdata.DataPoint[int64], key attribute.Key) (string, bool) {
	v, ok := dp.Attributes.Value(key)
	if !ok {
		return "", false
	}
	return v.AsString(), true
}

func TestNewCommerceMetrics_NilMeter(t *testing.T) {
	_, err := NewCommerceMetrics(CommerceMetricsConfig{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMeterNil)
}

func TestCommerceMetrics_RecordOrderPlaced(t *testing.T) {
	cm, collect := newTestCommerceMetrics(t)
	storeID := uuid.New()

	cm.RecordOrderPlaced(context.Background(), storeID, "storefront", "INR", decimal.NewFromFloat(1499.50))

	rm := collect(t)

	orders, ok := findMetric(rm, "multistore_orders_placed_total")
	require.True(t, ok)
	orderSum := orders.Data.(metricdata.Sum[int64])
	require.Len(t, orderSum.DataPoints, 1)
	assert.Equal(t, int64(1), orderSum.DataPoints[0].Value)

	source, ok := attrValue(orderSum.DataPoints[0], AttrOrderSource)
	require.True(t, ok)
	assert.Equal(t, "storefront", source)

	revenue, ok := findMetric(rm, "multistore_order_revenue_total")
	require.True(t, ok)
	revenueSum := revenue.Data.(metricdata.Sum[int64])
	require.Len(t, revenueSum.DataPoints, 1)
	// 1499.50 rupees is 149950 paise.
	assert.Equal(t, int64(149950), revenueSum.DataPoints[0].Value)

	currency, ok := attrValue(revenueSum.DataPoints[0], AttrCurrency)
	require.True(t, ok)
	assert.Equal(t, "INR", currency)
}

func TestCommerceMetrics_RecordPayment(t *testing.T) {
	cm, collect := newTestCommerceMetrics(t)
	storeID := uuid.New()

	ctx := context.Background()
	cm.RecordPayment(ctx, storeID, "razorpay", PaymentOutcomeSuccess)
	cm.RecordPayment(ctx, storeID, "razorpay", PaymentOutcomeFailed)

	rm := collect(t)
	payments, ok := findMetric(rm, "multistore_payments_total")
	require.True(t, ok)

	sum := payments.Data.(metricdata.Sum[int64])
	// One datapoint per outcome label.
	require.Len(t, sum.DataPoints, 2)
	for _, dp := range sum.DataPoints {
		assert.Equal(t, int64(1), dp.Value)
		provider, ok := attrValue(dp, AttrPaymentProvider)
		require.True(t, ok)
		assert.Equal(t, "razorpay", provider)
	}
}

func TestCommerceMetrics_RecordWebhookEvent(t *testing.T) {
	cm, collect := newTestCommerceMetrics(t)

	cm.RecordWebhookEvent(context.Background(), "paypal", "PAYMENT.CAPTURE.COMPLETED")

	rm := collect(t)
	webhooks, ok := findMetric(rm, "multistore_payment_webhooks_total")
	require.True(t, ok)

	sum := webhooks.Data.(metricdata.Sum[int64])
	require.Len(t, sum.DataPoints, 1)

	eventType, ok := attrValue(sum.DataPoints[0], AttrWebhookEventType)
	require.True(t, ok)
	assert.Equal(t, "PAYMENT.CAPTURE.COMPLETED", eventType)
}

func TestCommerceMetrics_CollectStockMetrics(t *testing.T) {
	reader, provider := newTestMeter(t)
	storeA := uuid.New()
	storeB := uuid.New()

	cm, err := NewCommerceMetrics(CommerceMetricsConfig{
		Meter:  provider.Meter("test"),
		Logger: zap.NewNop(),
		CatalogProvider: &fakeCatalogProvider{
			counts: map[uuid.UUID]int64{storeA: 3, storeB: 0},
		},
	})
	require.NoError(t, err)

	cm.collectStockMetrics(context.Background(), &fakeStoreProvider{ids: []uuid.UUID{storeA, storeB}})

	rm := collectMetrics(t, reader)
	lowStock, ok := findMetric(rm, "multistore_low_stock_products")
	require.True(t, ok)

	gauge := lowStock.Data.(metricdata.Gauge[int64])
	require.Len(t, gauge.DataPoints, 2)

	byStore := map[string]int64{}
	for _, dp := range gauge.DataPoints {
		id, ok := attrValue(dp, AttrStoreID)
		require.True(t, ok)
		byStore[id] = dp.Value
	}
	assert.Equal(t, int64(3), byStore[storeA.String()])
	assert.Equal(t, int64(0), byStore[storeB.String()])
}

func TestCommerceMetrics_CollectStockMetrics_ProviderErrors(t *testing.T) {
	reader, provider := newTestMeter(t)

	cm, err := NewCommerceMetrics(CommerceMetricsConfig{
		Meter:           provider.Meter("test"),
		Logger:          zap.NewNop(),
		CatalogProvider: &fakeCatalogProvider{err: errors.New("db down")},
	})
	require.NoError(t, err)

	// Errors are logged and skipped, never recorded.
	cm.collectStockMetrics(context.Background(), &fakeStoreProvider{ids: []uuid.UUID{uuid.New()}})
	cm.collectStockMetrics(context.Background(), &fakeStoreProvider{err: errors.New("store list failed")})

	rm := collectMetrics(t, reader)
	if m, ok := findMetric(rm, "multistore_low_stock_products"); ok {
		gauge := m.Data.(metricdata.Gauge[int64])
		assert.Empty(t, gauge.DataPoints)
	}
}

func TestCommerceMetrics_StopIdempotent(t *testing.T) {
	cm, _ := newTestCommerceMetrics(t)

	cm.Stop()
	cm.Stop()
}
