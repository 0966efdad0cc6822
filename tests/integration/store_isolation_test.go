package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multistore/backend/internal/domain/customer"
	"github.com/multistore/backend/internal/domain/shared"
	"github.com/multistore/backend/internal/infrastructure/persistence"
)

// TestStoreIsolation_Integration verifies that store-scoped queries never
// leak rows belonging to another store.
func TestStoreIsolation_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewSharedTestDB(t)
	ctx := context.Background()

	storeA := mustCreateStore(t, testDB)
	storeB := mustCreateStore(t, testDB)

	t.Run("products are invisible to other stores", func(t *testing.T) {
		repo := persistence.NewGormProductRepository(testDB.DB)
		p := mustCreateProduct(t, testDB, storeA.ID, "Isolated Product", "isolated-product", "ISO-001")

		_, err := repo.FindByIDForStore(ctx, storeB.ID, p.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		_, err = repo.FindBySlug(ctx, storeB.ID, "isolated-product")
		assert.ErrorIs(t, err, shared.ErrNotFound)

		items, err := repo.FindAllForStore(ctx, storeB.ID, shared.DefaultFilter())
		require.NoError(t, err)
		for _, item := range items {
			assert.NotEqual(t, p.ID, item.ID)
		}
	})

	t.Run("orders are invisible to other stores", func(t *testing.T) {
		repo := persistence.NewGormOrderRepository(testDB.DB)
		o := mustCreateOrder(t, testDB, storeA.ID, "ISO-00001")

		_, err := repo.FindByIDForStore(ctx, storeB.ID, o.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		_, err = repo.FindByOrderNumber(ctx, storeB.ID, o.OrderNumber)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("customers are invisible to other stores", func(t *testing.T) {
		repo := persistence.NewGormCustomerRepository(testDB.DB)

		c, err := customer.NewCustomer(storeA.ID, "isolated@example.com", "Iso", "Lated")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, c))

		_, err = repo.FindByIDForStore(ctx, storeB.ID, c.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		_, err = repo.FindByEmail(ctx, storeB.ID, "isolated@example.com")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("counts are store scoped", func(t *testing.T) {
		repo := persistence.NewGormProductRepository(testDB.DB)
		mustCreateProduct(t, testDB, storeA.ID, "Count Me", "count-me", "CNT-001")

		countA, err := repo.CountForStore(ctx, storeA.ID, shared.DefaultFilter())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, countA, int64(1))

		countB, err := repo.CountForStore(ctx, storeB.ID, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Zero(t, countB)
	})
}
