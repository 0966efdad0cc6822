// Package storescope provides multi-tenant database scoping for GORM.
//
// Every store-owned table carries a store_id column. This package extracts
// the store ID from the request context and applies WHERE store_id = ?
// conditions so a request can never read or write another store's rows.
//
// Usage:
//
//	db := storescope.NewStoreDB(gormDB)
//	scopedDB := db.WithContext(ctx) // automatically applies store filtering
//	scopedDB.Find(&products) // WHERE store_id = 'xxx' is auto-added
package storescope

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/multistore/backend/internal/infrastructure/logger"
)

// ErrStoreIDRequired is returned when store_id is required but not found
var ErrStoreIDRequired = errors.New("store_id is required but not found in context")

// ErrInvalidStoreID is returned when store_id format is invalid
var ErrInvalidStoreID = errors.New("invalid store_id format")

// StoreScope applies store filtering to GORM queries
func StoreScope(storeID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("store_id = ?", storeID)
	}
}

// StoreScopeString applies store filtering using a string store ID
func StoreScopeString(storeID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("store_id = ?", storeID)
	}
}

// StoreDB wraps GORM DB with automatic store scoping
type StoreDB struct {
	db       *gorm.DB
	required bool
}

// NewStoreDB creates a new StoreDB that requires a store ID in context
func NewStoreDB(db *gorm.DB) *StoreDB {
	return &StoreDB{db: db, required: true}
}

// DB returns the underlying GORM DB without store scoping.
// Use with caution, this bypasses store isolation.
func (s *StoreDB) DB() *gorm.DB {
	return s.db
}

// WithContext returns a GORM DB scoped to the store from context.
// It extracts store_id from the context (set by store resolution middleware)
// and automatically applies the store filter to all queries.
//
// If store_id is not found in context and the scope is required, it returns
// a DB that will error on any operation.
func (s *StoreDB) WithContext(ctx context.Context) *gorm.DB {
	storeID := logger.GetStoreID(ctx)

	if storeID == "" {
		if s.required {
			db := s.db.WithContext(ctx)
			_ = db.AddError(ErrStoreIDRequired)
			return db
		}
		return s.db.WithContext(ctx)
	}

	if _, err := uuid.Parse(storeID); err != nil {
		db := s.db.WithContext(ctx)
		_ = db.AddError(ErrInvalidStoreID)
		return db
	}

	return s.db.WithContext(ctx).Scopes(StoreScopeString(storeID))
}

// WithStore returns a GORM DB scoped to a specific store ID.
// Use this when you have the store ID directly rather than from context.
func (s *StoreDB) WithStore(storeID uuid.UUID) *gorm.DB {
	if storeID == uuid.Nil {
		if s.required {
			db := s.db
			_ = db.AddError(ErrStoreIDRequired)
			return db
		}
		return s.db
	}
	return s.db.Scopes(StoreScope(storeID))
}

// ForStore creates a scoped DB for a specific context and store ID
func (s *StoreDB) ForStore(ctx context.Context, storeID uuid.UUID) *gorm.DB {
	return s.db.WithContext(ctx).Scopes(StoreScope(storeID))
}

// Transaction executes a function within a database transaction with store scope
func (s *StoreDB) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	storeID := logger.GetStoreID(ctx)

	if storeID == "" && s.required {
		return ErrStoreIDRequired
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if storeID != "" {
			tx = tx.Scopes(StoreScopeString(storeID))
		}
		return fn(tx)
	})
}

// Unscoped returns the underlying DB without any store scoping.
// This should only be used for platform-level operations or migrations.
func (s *StoreDB) Unscoped() *gorm.DB {
	return s.db
}

// SetRequired changes whether a store ID is mandatory
func (s *StoreDB) SetRequired(required bool) *StoreDB {
	return &StoreDB{db: s.db, required: required}
}
