package event

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/multistore/backend/internal/domain/shared"
)

// IdempotencyStore remembers processed event IDs so redelivered events are
// skipped. Satisfied by the stores in infrastructure/cache.
type IdempotencyStore interface {
	// MarkProcessed records the key and reports whether it was already
	// present. The key expires after ttl.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (alreadyProcessed bool, err error)
}

// DefaultIdempotencyTTL bounds how long processed event IDs are remembered.
// The outbox retries within seconds, so a day is generous.
const DefaultIdempotencyTTL = 24 * time.Hour

// IdempotencyMetrics tracks idempotency-related statistics
type IdempotencyMetrics struct {
	EventsProcessed atomic.Int64
	EventsDuplicate atomic.Int64
	EventsFailed    atomic.Int64
}

// IdempotencyStats is a snapshot of idempotency metrics
type IdempotencyStats struct {
	EventsProcessed int64 `json:"events_processed"`
	EventsDuplicate int64 `json:"events_duplicate"`
	EventsFailed    int64 `json:"events_failed"`
}

// Stats returns a snapshot of the current metrics
func (m *IdempotencyMetrics) Stats() IdempotencyStats {
	return IdempotencyStats{
		EventsProcessed: m.EventsProcessed.Load(),
		EventsDuplicate: m.EventsDuplicate.Load(),
		EventsFailed:    m.EventsFailed.Load(),
	}
}

// IdempotentHandler wraps an EventHandler with idempotency checking so each
// event is handled at most once even when the outbox redelivers it.
type IdempotentHandler struct {
	handler shared.EventHandler
	store   IdempotencyStore
	ttl     time.Duration
	logger  *zap.Logger
	metrics *IdempotencyMetrics
}

// IdempotentHandlerOption is a functional option for IdempotentHandler
type IdempotentHandlerOption func(*IdempotentHandler)

// WithIdempotencyTTL overrides how long processed event IDs are remembered
func WithIdempotencyTTL(ttl time.Duration) IdempotentHandlerOption {
	return func(h *IdempotentHandler) {
		h.ttl = ttl
	}
}

// WithIdempotencyMetrics sets the metrics collector
func WithIdempotencyMetrics(metrics *IdempotencyMetrics) IdempotentHandlerOption {
	return func(h *IdempotentHandler) {
		h.metrics = metrics
	}
}

// NewIdempotentHandler creates a new idempotent handler wrapper
func NewIdempotentHandler(
	handler shared.EventHandler,
	store IdempotencyStore,
	logger *zap.Logger,
	opts ...IdempotentHandlerOption,
) *IdempotentHandler {
	h := &IdempotentHandler{
		handler: handler,
		store:   store,
		ttl:     DefaultIdempotencyTTL,
		logger:  logger,
		metrics: &IdempotencyMetrics{},
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// EventTypes returns the event types this handler is interested in
func (h *IdempotentHandler) EventTypes() []string {
	return h.handler.EventTypes()
}

// Handle processes the event with idempotency checking
func (h *IdempotentHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	eventID := event.EventID().String()

	seen, err := h.store.MarkProcessed(ctx, eventID, h.ttl)
	if err != nil {
		// Better to risk duplicate processing than to drop events.
		h.logger.Warn("failed to check idempotency, processing anyway",
			zap.String("event_id", eventID),
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
	} else if seen {
		h.metrics.EventsDuplicate.Add(1)
		h.logger.Debug("duplicate event detected, skipping",
			zap.String("event_id", eventID),
			zap.String("event_type", event.EventType()),
		)
		return nil
	}

	if err := h.handler.Handle(ctx, event); err != nil {
		h.metrics.EventsFailed.Add(1)
		h.logger.Error("event handler failed",
			zap.String("event_id", eventID),
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
		// The idempotency key is kept on failure. It expires after the
		// TTL, which gives failed events a cooldown before a retry can
		// reach the handler again.
		return err
	}

	h.metrics.EventsProcessed.Add(1)
	return nil
}

// GetMetrics returns the metrics for this handler
func (h *IdempotentHandler) GetMetrics() *IdempotencyMetrics {
	return h.metrics
}

var _ shared.EventHandler = (*IdempotentHandler)(nil)

// WrapHandlersWithIdempotency wraps multiple handlers with idempotency checking
func WrapHandlersWithIdempotency(
	handlers []shared.EventHandler,
	store IdempotencyStore,
	logger *zap.Logger,
	opts ...IdempotentHandlerOption,
) []shared.EventHandler {
	wrapped := make([]shared.EventHandler, len(handlers))
	for i, h := range handlers {
		wrapped[i] = NewIdempotentHandler(h, store, logger, opts...)
	}
	return wrapped
}
