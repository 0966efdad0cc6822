package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/multistore/backend/internal/application/notification"
	"github.com/multistore/backend/internal/domain/catalog"
	"github.com/multistore/backend/internal/domain/shared"
	"github.com/multistore/backend/internal/domain/store"
	"github.com/multistore/backend/internal/infrastructure/config"
)

const (
	// trialWarningWindow is how far ahead the trial expiry scan looks
	trialWarningWindow = 3 * 24 * time.Hour
	// subscriptionWarningWindow is how far ahead the subscription expiry scan looks
	subscriptionWarningWindow = 7 * 24 * time.Hour

	// storeScanPageSize bounds how many stores a digest loads per page
	storeScanPageSize = 200
)

// StaleOrderCanceller cancels unpaid pending orders past their TTL
type StaleOrderCanceller interface {
	CancelStalePending(ctx context.Context, olderThan time.Duration, limit int) (int, error)
}

// StoreScanner is the slice of store persistence the maintenance jobs need
type StoreScanner interface {
	FindByID(ctx context.Context, id uuid.UUID) (*store.Store, error)
	FindByStatus(ctx context.Context, status store.StoreStatus, filter shared.Filter) ([]store.Store, error)
	FindTrialEndingBefore(ctx context.Context, before time.Time) ([]store.Store, error)
	FindSubscriptionEndingBefore(ctx context.Context, before time.Time) ([]store.Store, error)
}

// LowStockFinder lists tracked products at or below their low stock threshold
type LowStockFinder interface {
	FindLowStock(ctx context.Context, storeID uuid.UUID) ([]catalog.Product, error)
}

// MaintenanceExecutor executes the daily maintenance jobs
type MaintenanceExecutor struct {
	orders    StaleOrderCanceller
	stores    StoreScanner
	products  LowStockFinder
	sender    notification.Sender
	templates *notification.Templates
	ordersCfg config.OrdersConfig
	logger    *zap.Logger
}

// NewMaintenanceExecutor creates a new maintenance executor
func NewMaintenanceExecutor(
	orders StaleOrderCanceller,
	stores StoreScanner,
	products LowStockFinder,
	sender notification.Sender,
	templates *notification.Templates,
	ordersCfg config.OrdersConfig,
	logger *zap.Logger,
) *MaintenanceExecutor {
	return &MaintenanceExecutor{
		orders:    orders,
		stores:    stores,
		products:  products,
		sender:    sender,
		templates: templates,
		ordersCfg: ordersCfg,
		logger:    logger,
	}
}

// Execute implements JobExecutor
func (e *MaintenanceExecutor) Execute(ctx context.Context, job *Job) error {
	switch job.Type {
	case JobTypeStaleOrderSweep:
		return e.sweepStaleOrders(ctx)
	case JobTypeTrialExpiryScan:
		return e.scanTrialExpiry(ctx)
	case JobTypeSubscriptionExpiryScan:
		return e.scanSubscriptionExpiry(ctx)
	case JobTypeLowStockDigest:
		return e.lowStockDigest(ctx, job.StoreID)
	default:
		return fmt.Errorf("%w: %s", ErrInvalidJobType, job.Type)
	}
}

// sweepStaleOrders cancels unpaid pending orders older than the configured TTL
func (e *MaintenanceExecutor) sweepStaleOrders(ctx context.Context) error {
	cancelled, err := e.orders.CancelStalePending(ctx, e.ordersCfg.StalePendingTTL, e.ordersCfg.SweepBatchSize)
	if err != nil {
		return fmt.Errorf("stale order sweep: %w", err)
	}

	e.logger.Info("Stale order sweep completed",
		zap.Int("cancelled", cancelled),
		zap.Duration("ttl", e.ordersCfg.StalePendingTTL),
	)
	return nil
}

// scanTrialExpiry emails owners whose trial ends within the warning window
func (e *MaintenanceExecutor) scanTrialExpiry(ctx context.Context) error {
	now := time.Now()
	ending, err := e.stores.FindTrialEndingBefore(ctx, now.Add(trialWarningWindow))
	if err != nil {
		return fmt.Errorf("trial expiry scan: %w", err)
	}

	sent := 0
	for i := range ending {
		st := &ending[i]
		// Already-expired trials are handled by the suspension flow, not a warning email
		if st.TrialEndsAt == nil || st.TrialEndsAt.Before(now) {
			continue
		}
		msg := e.templates.TrialEndingSoon(st.OwnerEmail, st.Name, *st.TrialEndsAt)
		if err := e.sender.Send(ctx, msg); err != nil {
			e.logger.Error("Failed to send trial expiry warning",
				zap.String("store_id", st.ID.String()),
				zap.Error(err),
			)
			continue
		}
		sent++
	}

	e.logger.Info("Trial expiry scan completed",
		zap.Int("stores_ending", len(ending)),
		zap.Int("warnings_sent", sent),
	)
	return nil
}

// scanSubscriptionExpiry emails owners whose paid plan lapses within the warning window
func (e *MaintenanceExecutor) scanSubscriptionExpiry(ctx context.Context) error {
	now := time.Now()
	ending, err := e.stores.FindSubscriptionEndingBefore(ctx, now.Add(subscriptionWarningWindow))
	if err != nil {
		return fmt.Errorf("subscription expiry scan: %w", err)
	}

	sent := 0
	for i := range ending {
		st := &ending[i]
		if st.SubscriptionEndsAt == nil || st.SubscriptionEndsAt.Before(now) {
			continue
		}
		msg := e.templates.SubscriptionEndingSoon(st.OwnerEmail, st.Name, string(st.Plan), *st.SubscriptionEndsAt)
		if err := e.sender.Send(ctx, msg); err != nil {
			e.logger.Error("Failed to send subscription expiry warning",
				zap.String("store_id", st.ID.String()),
				zap.Error(err),
			)
			continue
		}
		sent++
	}

	e.logger.Info("Subscription expiry scan completed",
		zap.Int("stores_ending", len(ending)),
		zap.Int("warnings_sent", sent),
	)
	return nil
}

// lowStockDigest emails owners about products at or below their threshold.
// A nil storeID runs the digest for every trial and active store.
func (e *MaintenanceExecutor) lowStockDigest(ctx context.Context, storeID *uuid.UUID) error {
	if storeID != nil {
		st, err := e.stores.FindByID(ctx, *storeID)
		if err != nil {
			return fmt.Errorf("low stock digest: %w", err)
		}
		return e.digestStore(ctx, st)
	}

	for _, status := range []store.StoreStatus{store.StoreStatusTrial, store.StoreStatusActive} {
		for page := 1; ; page++ {
			batch, err := e.stores.FindByStatus(ctx, status, shared.Filter{Page: page, PageSize: storeScanPageSize})
			if err != nil {
				return fmt.Errorf("low stock digest: %w", err)
			}
			for i := range batch {
				if err := e.digestStore(ctx, &batch[i]); err != nil {
					e.logger.Error("Low stock digest failed for store",
						zap.String("store_id", batch[i].ID.String()),
						zap.Error(err),
					)
				}
			}
			if len(batch) < storeScanPageSize {
				break
			}
		}
	}
	return nil
}

// digestStore sends one alert per low item in a single store
func (e *MaintenanceExecutor) digestStore(ctx context.Context, st *store.Store) error {
	products, err := e.products.FindLowStock(ctx, st.ID)
	if err != nil {
		return err
	}

	alerts := 0
	for i := range products {
		p := &products[i]
		if p.HasVariants {
			for _, v := range p.Variants {
				if v.Quantity > p.LowStockThreshold {
					continue
				}
				msg := e.templates.LowStockAlert(st.OwnerEmail, st.Name, p.Name, p.SKU, v.SKU, v.Quantity, p.LowStockThreshold)
				if err := e.sender.Send(ctx, msg); err != nil {
					e.logger.Error("Failed to send low stock alert",
						zap.String("store_id", st.ID.String()),
						zap.String("sku", p.SKU),
						zap.String("variant_sku", v.SKU),
						zap.Error(err),
					)
					continue
				}
				alerts++
			}
			continue
		}

		msg := e.templates.LowStockAlert(st.OwnerEmail, st.Name, p.Name, p.SKU, "", p.InventoryQuantity, p.LowStockThreshold)
		if err := e.sender.Send(ctx, msg); err != nil {
			e.logger.Error("Failed to send low stock alert",
				zap.String("store_id", st.ID.String()),
				zap.String("sku", p.SKU),
				zap.Error(err),
			)
			continue
		}
		alerts++
	}

	if alerts > 0 {
		e.logger.Info("Low stock digest sent",
			zap.String("store_id", st.ID.String()),
			zap.Int("alerts", alerts),
		)
	}
	return nil
}
