package event

import (
	"context"

	"github.com/multistore/backend/internal/domain/shared"
)

// OutboxPublisher implements shared.EventPublisher by persisting events to
// the outbox table. The OutboxProcessor later picks them up and dispatches
// them to the in-process bus, so a crash between the aggregate save and the
// handler run loses nothing.
type OutboxPublisher struct {
	repo       shared.OutboxRepository
	serializer *EventSerializer
}

// NewOutboxPublisher creates a new outbox publisher
func NewOutboxPublisher(repo shared.OutboxRepository, serializer *EventSerializer) *OutboxPublisher {
	return &OutboxPublisher{
		repo:       repo,
		serializer: serializer,
	}
}

// Publish serializes events and stores them as pending outbox entries
func (p *OutboxPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	entries := make([]*shared.OutboxEntry, 0, len(events))
	for _, event := range events {
		payload, err := p.serializer.Serialize(event)
		if err != nil {
			return err
		}
		entries = append(entries, shared.NewOutboxEntry(event, payload))
	}

	return p.repo.Save(ctx, entries...)
}

var _ shared.EventPublisher = (*OutboxPublisher)(nil)
