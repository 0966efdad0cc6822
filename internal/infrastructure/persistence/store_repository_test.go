package persistence

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/multistore/backend/internal/domain/shared"
	"github.com/multistore/backend/internal/domain/store"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := mysql.New(mysql.Config{
		Conn:                      mockDB,
		SkipInitializeWithVersion: true,
	})

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func storeRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "slug", "subdomain", "owner_name", "owner_email",
		"status", "plan", "version", "created_at", "updated_at",
	})
}

func TestGormStoreRepository_FindByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormStoreRepository(db)
	ctx := context.Background()

	storeID := uuid.New()
	now := time.Now()

	t.Run("found", func(t *testing.T) {
		rows := storeRows().AddRow(
			storeID, "Chai Point", "chai-point", "chai-point", "Asha", "asha@example.com",
			"trial", "basic", 1, now, now,
		)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `stores` WHERE id = ? ORDER BY `stores`.`id` LIMIT ?")).
			WithArgs(storeID, 1).
			WillReturnRows(rows)

		s, err := repo.FindByID(ctx, storeID)

		require.NoError(t, err)
		assert.Equal(t, storeID, s.ID)
		assert.Equal(t, "chai-point", s.Slug)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `stores` WHERE id = ?")).
			WithArgs(storeID, 1).
			WillReturnRows(storeRows())

		_, err := repo.FindByID(ctx, storeID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormStoreRepository_FindBySlug(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormStoreRepository(db)
	ctx := context.Background()

	storeID := uuid.New()
	now := time.Now()
	rows := storeRows().AddRow(
		storeID, "Chai Point", "chai-point", "chai-point", "Asha", "asha@example.com",
		"active", "premium", 3, now, now,
	)

	// Slug lookup is lowercased before it hits the database
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `stores` WHERE slug = ? ORDER BY `stores`.`id` LIMIT ?")).
		WithArgs("chai-point", 1).
		WillReturnRows(rows)

	s, err := repo.FindBySlug(ctx, "Chai-Point")

	require.NoError(t, err)
	assert.Equal(t, storeID, s.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreRepository_FindByDomain(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormStoreRepository(db)
	ctx := context.Background()

	now := time.Now()
	rows := storeRows().AddRow(
		uuid.New(), "Chai Point", "chai-point", "chai-point", "Asha", "asha@example.com",
		"active", "premium", 1, now, now,
	)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `stores` WHERE subdomain = ? OR custom_domain = ?")).
		WithArgs("shop.chaipoint.in", "shop.chaipoint.in", 1).
		WillReturnRows(rows)

	_, err := repo.FindByDomain(ctx, "Shop.ChaiPoint.in")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreRepository_FindAll_FilterAndPagination(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormStoreRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `stores` WHERE status = ? ORDER BY name ASC LIMIT ? OFFSET ?")).
		WithArgs("active", 20, 20).
		WillReturnRows(storeRows())

	filter := shared.Filter{
		Page:     2,
		PageSize: 20,
		OrderBy:  "name",
		OrderDir: "asc",
		Filters:  map[string]interface{}{"status": "active"},
	}
	stores, err := repo.FindAll(ctx, filter)

	require.NoError(t, err)
	assert.Empty(t, stores)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreRepository_FindAll_SearchUsesLike(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormStoreRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `stores` WHERE name LIKE ? OR slug LIKE ? OR owner_email LIKE ? ORDER BY created_at DESC")).
		WithArgs("%chai%", "%chai%", "%chai%").
		WillReturnRows(storeRows())

	_, err := repo.FindAll(ctx, shared.Filter{Search: "chai"})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreRepository_FindAll_RejectsUnsafeSort(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormStoreRepository(db)
	ctx := context.Background()

	// Unknown sort fields fall back to created_at
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `stores` ORDER BY created_at DESC")).
		WillReturnRows(storeRows())

	_, err := repo.FindAll(ctx, shared.Filter{OrderBy: "name; DROP TABLE stores"})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreRepository_FindTrialEndingBefore(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormStoreRepository(db)
	ctx := context.Background()

	before := time.Now().Add(72 * time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `stores` WHERE status = ? AND trial_ends_at IS NOT NULL AND trial_ends_at < ? ORDER BY trial_ends_at ASC")).
		WithArgs(store.StoreStatusTrial, before).
		WillReturnRows(storeRows())

	stores, err := repo.FindTrialEndingBefore(ctx, before)

	require.NoError(t, err)
	assert.Empty(t, stores)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreRepository_SaveWithLock(t *testing.T) {
	ctx := context.Background()

	newVersionedStore := func(t *testing.T) *store.Store {
		s, err := store.NewStore("Chai Point", "chai-point", "Asha", "asha@example.com")
		require.NoError(t, err)
		require.NoError(t, s.Update("Chai Point Express", "Fresh chai, delivered"))
		require.Equal(t, 2, s.Version)
		return s
	}

	t.Run("persists when in-memory version is ahead", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewGormStoreRepository(db)
		s := newVersionedStore(t)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT .*version.* FROM `stores` WHERE id = \\?").
			WithArgs(s.ID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(1))
		mock.ExpectExec(regexp.QuoteMeta("UPDATE `stores` SET")).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.SaveWithLock(ctx, s)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("conflict when database version caught up", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewGormStoreRepository(db)
		s := newVersionedStore(t)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT .*version.* FROM `stores` WHERE id = \\?").
			WithArgs(s.ID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(2))
		mock.ExpectRollback()

		err := repo.SaveWithLock(ctx, s)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("conflict when guarded update matches no rows", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewGormStoreRepository(db)
		s := newVersionedStore(t)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT .*version.* FROM `stores` WHERE id = \\?").
			WithArgs(s.ID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(1))
		mock.ExpectExec(regexp.QuoteMeta("UPDATE `stores` SET")).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.SaveWithLock(ctx, s)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStoreRepository_Delete(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormStoreRepository(db)
	ctx := context.Background()

	storeID := uuid.New()

	t.Run("deletes existing store", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `stores` WHERE id = ?")).
			WithArgs(storeID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Delete(ctx, storeID)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found when nothing deleted", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `stores` WHERE id = ?")).
			WithArgs(storeID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := repo.Delete(ctx, storeID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormStoreRepository_ExistsBySlug(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormStoreRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `stores` WHERE slug = ?")).
		WithArgs("chai-point").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.ExistsBySlug(ctx, "CHAI-POINT")

	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreSettingsRepository_FindByStoreID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormStoreSettingsRepository(db)
	ctx := context.Background()

	storeID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `store_settings` WHERE store_id = ?")).
		WithArgs(storeID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "store_id"}))

	_, err := repo.FindByStoreID(ctx, storeID)

	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
