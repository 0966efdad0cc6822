package event

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/multistore/backend/internal/domain/shared"
)

// GormOutboxRepository implements OutboxRepository using GORM
type GormOutboxRepository struct {
	db *gorm.DB
}

// NewGormOutboxRepository creates a new GORM-based outbox repository
func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

// WithTx returns a new repository instance bound to the given transaction
func (r *GormOutboxRepository) WithTx(tx *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: tx}
}

// Save persists one or more outbox entries
func (r *GormOutboxRepository) Save(ctx context.Context, entries ...*shared.OutboxEntry) error {
	if len(entries) == 0 {
		return nil
	}

	models := make([]*outboxEntryModel, len(entries))
	for i, e := range entries {
		models[i] = outboxModelFromDomain(e)
	}
	return r.db.WithContext(ctx).Create(models).Error
}

// FindPending retrieves pending entries up to the specified limit
func (r *GormOutboxRepository) FindPending(ctx context.Context, limit int) ([]*shared.OutboxEntry, error) {
	var models []*outboxEntryModel
	err := r.db.WithContext(ctx).
		Where("status = ?", shared.OutboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return outboxModelsToDomain(models), nil
}

// FindRetryable retrieves failed entries that are due for retry
func (r *GormOutboxRepository) FindRetryable(ctx context.Context, before time.Time, limit int) ([]*shared.OutboxEntry, error) {
	var models []*outboxEntryModel
	err := r.db.WithContext(ctx).
		Where("status = ? AND next_retry_at <= ?", shared.OutboxStatusFailed, before).
		Order("next_retry_at ASC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return outboxModelsToDomain(models), nil
}

// MarkProcessing atomically claims entries so concurrent processors never
// dispatch the same event twice.
func (r *GormOutboxRepository) MarkProcessing(ctx context.Context, ids []uuid.UUID) ([]*shared.OutboxEntry, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var models []*outboxEntryModel

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{
				Strength: "UPDATE",
				Options:  "SKIP LOCKED",
			}).
			Where("id IN ? AND status IN ?", ids, []shared.OutboxStatus{
				shared.OutboxStatusPending,
				shared.OutboxStatusFailed,
			}).
			Find(&models).Error; err != nil {
			return err
		}

		if len(models) == 0 {
			return nil
		}

		claimedIDs := make([]uuid.UUID, len(models))
		for i, m := range models {
			claimedIDs[i] = m.ID
		}

		now := time.Now()
		if err := tx.Model(&outboxEntryModel{}).
			Where("id IN ?", claimedIDs).
			Updates(map[string]interface{}{
				"status":     shared.OutboxStatusProcessing,
				"updated_at": now,
			}).Error; err != nil {
			return err
		}

		for _, m := range models {
			m.Status = shared.OutboxStatusProcessing
			m.UpdatedAt = now
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return outboxModelsToDomain(models), nil
}

// Update updates an existing outbox entry
func (r *GormOutboxRepository) Update(ctx context.Context, entry *shared.OutboxEntry) error {
	entry.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(outboxModelFromDomain(entry)).Error
}

// DeleteOlderThan deletes sent entries processed before the cutoff
func (r *GormOutboxRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status = ? AND processed_at < ?", shared.OutboxStatusSent, before).
		Delete(&outboxEntryModel{})
	return result.RowsAffected, result.Error
}

// FindDead retrieves dead letter entries with pagination
func (r *GormOutboxRepository) FindDead(ctx context.Context, page, pageSize int) ([]*shared.OutboxEntry, int64, error) {
	var models []*outboxEntryModel
	var total int64

	if err := r.db.WithContext(ctx).
		Model(&outboxEntryModel{}).
		Where("status = ?", shared.OutboxStatusDead).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := r.db.WithContext(ctx).
		Where("status = ?", shared.OutboxStatusDead).
		Order("updated_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&models).Error; err != nil {
		return nil, 0, err
	}

	return outboxModelsToDomain(models), total, nil
}

// FindByID retrieves a single outbox entry by ID
func (r *GormOutboxRepository) FindByID(ctx context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	var model outboxEntryModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		return nil, err
	}
	return model.toDomain(), nil
}

// CountByStatus returns count of entries for each status
func (r *GormOutboxRepository) CountByStatus(ctx context.Context) (map[shared.OutboxStatus]int64, error) {
	type statusCount struct {
		Status shared.OutboxStatus
		Count  int64
	}

	var results []statusCount
	err := r.db.WithContext(ctx).
		Model(&outboxEntryModel{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[shared.OutboxStatus]int64)
	for _, res := range results {
		counts[res.Status] = res.Count
	}
	return counts, nil
}

// Ensure GormOutboxRepository implements OutboxRepository
var _ shared.OutboxRepository = (*GormOutboxRepository)(nil)
