package persistence

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multistore/backend/internal/domain/shared"
)

func blogRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "store_id", "title", "slug", "status", "category",
		"version", "created_at", "updated_at",
	})
}

func TestGormBlogRepository_FindAllForStore_CategoryFilter(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormBlogRepository(db)
	ctx := context.Background()

	storeID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `blogs` WHERE store_id = ? AND category = ? ORDER BY created_at DESC LIMIT ?")).
		WithArgs(storeID, "guides", 20).
		WillReturnRows(blogRows())

	filter := shared.Filter{
		Page:     1,
		PageSize: 20,
		Filters:  map[string]interface{}{"category": "guides"},
	}
	_, err := repo.FindAllForStore(ctx, storeID, filter)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
