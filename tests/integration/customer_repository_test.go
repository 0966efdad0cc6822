package integration

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multistore/backend/internal/domain/customer"
	"github.com/multistore/backend/internal/domain/shared"
	"github.com/multistore/backend/internal/infrastructure/persistence"
)

// TestCustomerRepository_Integration exercises GormCustomerRepository against a real MySQL database
func TestCustomerRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewSharedTestDB(t)
	repo := persistence.NewGormCustomerRepository(testDB.DB)
	ctx := context.Background()

	t.Run("Save and FindByEmail", func(t *testing.T) {
		s := mustCreateStore(t, testDB)

		c, err := customer.NewCustomer(s.ID, "asha@example.com", "Asha", "Verma")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, c))

		found, err := repo.FindByEmail(ctx, s.ID, "asha@example.com")
		require.NoError(t, err)
		assert.Equal(t, c.ID, found.ID)
		assert.Equal(t, "Asha Verma", found.FullName())
		assert.True(t, found.IsActive)
	})

	t.Run("same email allowed across stores", func(t *testing.T) {
		storeA := mustCreateStore(t, testDB)
		storeB := mustCreateStore(t, testDB)

		a, err := customer.NewCustomer(storeA.ID, "shared@example.com", "First", "Customer")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, a))

		b, err := customer.NewCustomer(storeB.ID, "shared@example.com", "Second", "Customer")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, b))

		exists, err := repo.ExistsByEmail(ctx, storeA.ID, "shared@example.com")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("duplicate email within one store rejected", func(t *testing.T) {
		s := mustCreateStore(t, testDB)

		first, err := customer.NewCustomer(s.ID, "dup@example.com", "First", "Customer")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, first))

		second, err := customer.NewCustomer(s.ID, "dup@example.com", "Second", "Customer")
		require.NoError(t, err)
		assert.Error(t, repo.Save(ctx, second))
	})

	t.Run("address book survives the JSON round trip", func(t *testing.T) {
		s := mustCreateStore(t, testDB)

		c, err := customer.NewCustomer(s.ID, "addr@example.com", "Ravi", "Kumar")
		require.NoError(t, err)
		require.NoError(t, c.AddAddress("Home", testAddress(), true))
		require.NoError(t, repo.Save(ctx, c))

		found, err := repo.FindByIDForStore(ctx, s.ID, c.ID)
		require.NoError(t, err)
		require.Len(t, found.Addresses, 1)
		assert.Equal(t, "Home", found.Addresses[0].Label)
		assert.True(t, found.Addresses[0].IsDefault)
		assert.Equal(t, "Bengaluru", found.Addresses[0].Address.City)
	})

	t.Run("order statistics accumulate", func(t *testing.T) {
		s := mustCreateStore(t, testDB)

		c, err := customer.NewCustomer(s.ID, "stats@example.com", "Meena", "Iyer")
		require.NoError(t, err)
		c.RecordOrder(decimal.NewFromInt(500), time.Now())
		c.RecordOrder(decimal.NewFromInt(300), time.Now())
		require.NoError(t, repo.Save(ctx, c))

		found, err := repo.FindByIDForStore(ctx, s.ID, c.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, found.TotalOrders)
		assert.True(t, found.TotalSpent.Equal(decimal.NewFromInt(800)))
	})

	t.Run("DeleteForStore", func(t *testing.T) {
		s := mustCreateStore(t, testDB)

		c, err := customer.NewCustomer(s.ID, "gone@example.com", "To", "Delete")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, c))

		require.NoError(t, repo.DeleteForStore(ctx, s.ID, c.ID))

		_, err = repo.FindByIDForStore(ctx, s.ID, c.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
