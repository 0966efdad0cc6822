package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/multistore/backend/internal/domain/shared"
)

// outboxEntryModel is the persistence model for domain events stored in the outbox
type outboxEntryModel struct {
	ID            uuid.UUID           `gorm:"type:char(36);primaryKey"`
	StoreID       uuid.UUID           `gorm:"type:char(36);not null;index:idx_outbox_store_status,priority:1"`
	EventID       uuid.UUID           `gorm:"type:char(36);not null;uniqueIndex"`
	EventType     string              `gorm:"type:varchar(255);not null"`
	AggregateID   uuid.UUID           `gorm:"type:char(36);not null"`
	AggregateType string              `gorm:"type:varchar(255);not null"`
	Payload       []byte              `gorm:"type:json;not null"`
	Status        shared.OutboxStatus `gorm:"type:varchar(20);default:PENDING;index:idx_outbox_store_status,priority:2;index:idx_outbox_status_created,priority:1"`
	RetryCount    int                 `gorm:"default:0"`
	MaxRetries    int                 `gorm:"default:5"`
	LastError     string              `gorm:"type:text"`
	NextRetryAt   *time.Time          `gorm:"index:idx_outbox_next_retry"`
	ProcessedAt   *time.Time
	CreatedAt     time.Time `gorm:"not null;index:idx_outbox_status_created,priority:2"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (outboxEntryModel) TableName() string {
	return "outbox_events"
}

func (m *outboxEntryModel) toDomain() *shared.OutboxEntry {
	return &shared.OutboxEntry{
		ID:            m.ID,
		StoreID:       m.StoreID,
		EventID:       m.EventID,
		EventType:     m.EventType,
		AggregateID:   m.AggregateID,
		AggregateType: m.AggregateType,
		Payload:       m.Payload,
		Status:        m.Status,
		RetryCount:    m.RetryCount,
		MaxRetries:    m.MaxRetries,
		LastError:     m.LastError,
		NextRetryAt:   m.NextRetryAt,
		ProcessedAt:   m.ProcessedAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func outboxModelFromDomain(e *shared.OutboxEntry) *outboxEntryModel {
	return &outboxEntryModel{
		ID:            e.ID,
		StoreID:       e.StoreID,
		EventID:       e.EventID,
		EventType:     e.EventType,
		AggregateID:   e.AggregateID,
		AggregateType: e.AggregateType,
		Payload:       e.Payload,
		Status:        e.Status,
		RetryCount:    e.RetryCount,
		MaxRetries:    e.MaxRetries,
		LastError:     e.LastError,
		NextRetryAt:   e.NextRetryAt,
		ProcessedAt:   e.ProcessedAt,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func outboxModelsToDomain(models []*outboxEntryModel) []*shared.OutboxEntry {
	entries := make([]*shared.OutboxEntry, len(models))
	for i, m := range models {
		entries[i] = m.toDomain()
	}
	return entries
}
