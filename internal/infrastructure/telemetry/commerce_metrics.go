package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// CommerceMetrics tracks storefront business activity: orders placed,
// revenue, payment outcomes and per-store stock health.
type CommerceMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	ordersPlacedTotal *Counter
	orderRevenueTotal *Counter
	paymentsTotal     *Counter
	refundsTotal      *Counter
	webhooksTotal     *Counter

	lowStockProducts *Gauge

	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	catalogProvider CatalogMetricsProvider
}

// CatalogMetricsProvider reports catalog stock state for periodic gauge
// collection without coupling telemetry to the catalog domain.
type CatalogMetricsProvider interface {
	CountLowStock(ctx context.Context, storeID uuid.UUID) (int64, error)
}

// StoreProvider lists the stores to collect periodic metrics for.
type StoreProvider interface {
	ActiveStoreIDs(ctx context.Context) ([]uuid.UUID, error)
}

// CommerceMetricsConfig holds configuration for commerce metrics.
type CommerceMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CatalogProvider CatalogMetricsProvider
}

// ErrMeterNil is returned when a nil meter is supplied.
var ErrMeterNil = &MetricsError{Op: "NewCommerceMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics setup error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}

// NewCommerceMetrics creates a CommerceMetrics instance bound to the meter.
func NewCommerceMetrics(cfg CommerceMetricsConfig) (*CommerceMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cm := &CommerceMetrics{
		meter:           cfg.Meter,
		logger:          logger,
		stopChan:        make(chan struct{}),
		catalogProvider: cfg.CatalogProvider,
	}

	var err error

	cm.ordersPlacedTotal, err = NewCounter(
		cfg.Meter,
		"multistore_orders_placed_total",
		"Total number of orders placed",
		"{orders}",
	)
	if err != nil {
		return nil, err
	}

	cm.orderRevenueTotal, err = NewCounter(
		cfg.Meter,
		"multistore_order_revenue_total",
		"Total order revenue in minor currency units (paise)",
		"{paise}",
	)
	if err != nil {
		return nil, err
	}

	cm.paymentsTotal, err = NewCounter(
		cfg.Meter,
		"multistore_payments_total",
		"Total number of payment attempts",
		"{payments}",
	)
	if err != nil {
		return nil, err
	}

	cm.refundsTotal, err = NewCounter(
		cfg.Meter,
		"multistore_refunds_total",
		"Total number of refunds issued",
		"{refunds}",
	)
	if err != nil {
		return nil, err
	}

	cm.webhooksTotal, err = NewCounter(
		cfg.Meter,
		"multistore_payment_webhooks_total",
		"Total number of payment webhook events received",
		"{events}",
	)
	if err != nil {
		return nil, err
	}

	cm.lowStockProducts, err = NewGauge(
		cfg.Meter,
		"multistore_low_stock_products",
		"Number of products at or below their low stock threshold",
		"{products}",
	)
	if err != nil {
		return nil, err
	}

	return cm, nil
}

// PaymentOutcome labels a payment attempt for metrics.
type PaymentOutcome string

const (
	PaymentOutcomeSuccess PaymentOutcome = "success"
	PaymentOutcomeFailed  PaymentOutcome = "failed"
)

// RecordOrderPlaced records a placed order and its revenue. The total is
// converted to minor units so the counter stays integral.
func (cm *CommerceMetrics) RecordOrderPlaced(ctx context.Context, storeID uuid.UUID, source, currency string, total decimal.Decimal) {
	cm.ordersPlacedTotal.Inc(ctx,
		AttrStoreID.String(storeID.String()),
		AttrOrderSource.String(source),
	)

	minor := total.Mul(decimal.NewFromInt(100)).IntPart()
	cm.orderRevenueTotal.Add(ctx, minor,
		AttrStoreID.String(storeID.String()),
		AttrCurrency.String(currency),
	)
}

// RecordPayment records a payment attempt outcome.
func (cm *CommerceMetrics) RecordPayment(ctx context.Context, storeID uuid.UUID, provider string, outcome PaymentOutcome) {
	cm.paymentsTotal.Inc(ctx,
		AttrStoreID.String(storeID.String()),
		AttrPaymentProvider.String(provider),
		AttrPaymentOutcome.String(string(outcome)),
	)
}

// RecordRefund records an issued refund.
func (cm *CommerceMetrics) RecordRefund(ctx context.Context, storeID uuid.UUID, provider string) {
	cm.refundsTotal.Inc(ctx,
		AttrStoreID.String(storeID.String()),
		AttrPaymentProvider.String(provider),
	)
}

// RecordWebhookEvent records a received payment webhook event.
func (cm *CommerceMetrics) RecordWebhookEvent(ctx context.Context, provider, eventType string) {
	cm.webhooksTotal.Inc(ctx,
		AttrPaymentProvider.String(provider),
		AttrWebhookEventType.String(eventType),
	)
}

// RecordLowStockCount records the current low stock product count for a store.
func (cm *CommerceMetrics) RecordLowStockCount(ctx context.Context, storeID uuid.UUID, count int64) {
	cm.lowStockProducts.Record(ctx, count,
		AttrStoreID.String(storeID.String()),
	)
}

// StartPeriodicCollection begins collecting stock gauges for every active
// store on the given interval. Non-blocking; Stop ends collection.
func (cm *CommerceMetrics) StartPeriodicCollection(ctx context.Context, stores StoreProvider, interval time.Duration) {
	cm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}
		go cm.runPeriodicCollection(ctx, stores, interval)
	})
}

func (cm *CommerceMetrics) runPeriodicCollection(ctx context.Context, stores StoreProvider, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	cm.collectStockMetrics(ctx, stores)

	for {
		select {
		case <-cm.stopChan:
			cm.logger.Info("Stopping periodic commerce metrics collection")
			return
		case <-ctx.Done():
			cm.logger.Info("Context cancelled, stopping periodic commerce metrics collection")
			return
		case <-ticker.C:
			cm.collectStockMetrics(ctx, stores)
		}
	}
}

func (cm *CommerceMetrics) collectStockMetrics(ctx context.Context, stores StoreProvider) {
	if cm.catalogProvider == nil {
		cm.logger.Debug("No catalog provider configured, skipping stock metrics collection")
		return
	}

	storeIDs, err := stores.ActiveStoreIDs(ctx)
	if err != nil {
		cm.logger.Error("Failed to list stores for metrics collection", zap.Error(err))
		return
	}

	for _, storeID := range storeIDs {
		count, err := cm.catalogProvider.CountLowStock(ctx, storeID)
		if err != nil {
			cm.logger.Warn("Failed to count low stock products",
				zap.String("store_id", storeID.String()),
				zap.Error(err),
			)
			continue
		}
		cm.RecordLowStockCount(ctx, storeID, count)
	}
}

// Stop ends periodic collection. Safe to call multiple times.
func (cm *CommerceMetrics) Stop() {
	cm.stopOnce.Do(func() {
		close(cm.stopChan)
	})
}
