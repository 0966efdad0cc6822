package integration

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multistore/backend/internal/domain/order"
	"github.com/multistore/backend/internal/domain/shared"
	"github.com/multistore/backend/internal/domain/shared/valueobject"
	"github.com/multistore/backend/internal/infrastructure/persistence"
)

func mustCreateOrder(t *testing.T, testDB *TestDB, storeID uuid.UUID, number string) *order.Order {
	t.Helper()

	addr := testAddress()
	o, err := order.NewOrder(storeID, number, uuid.NewString(), nil,
		"buyer@example.com", "Test Buyer", "+919876543210", addr, addr, valueobject.INR)
	require.NoError(t, err)

	_, err = o.AddItem(uuid.New(), "Cotton Kurta", "KURTA-001", "", nil, 2, mustMoney(t, "499.00"), "")
	require.NoError(t, err)

	repo := persistence.NewGormOrderRepository(testDB.DB)
	require.NoError(t, repo.Save(context.Background(), o))
	return o
}

// TestOrderRepository_Integration exercises GormOrderRepository against a real MySQL database
func TestOrderRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewSharedTestDB(t)
	repo := persistence.NewGormOrderRepository(testDB.DB)
	ctx := context.Background()

	t.Run("Save and FindByIDForStore loads items", func(t *testing.T) {
		s := mustCreateStore(t, testDB)
		o := mustCreateOrder(t, testDB, s.ID, "ORD-00001")

		found, err := repo.FindByIDForStore(ctx, s.ID, o.ID)
		require.NoError(t, err)
		assert.Equal(t, o.OrderNumber, found.OrderNumber)
		assert.Equal(t, order.OrderStatusPending, found.Status)
		require.Len(t, found.Items, 1)
		assert.Equal(t, "KURTA-001", found.Items[0].SKU)
		assert.Equal(t, 2, found.Items[0].Quantity)
		assert.True(t, found.TotalAmount.Equal(o.TotalAmount))
	})

	t.Run("FindByOrderNumber is store scoped", func(t *testing.T) {
		s := mustCreateStore(t, testDB)
		other := mustCreateStore(t, testDB)
		o := mustCreateOrder(t, testDB, s.ID, "ORD-00002")

		found, err := repo.FindByOrderNumber(ctx, s.ID, o.OrderNumber)
		require.NoError(t, err)
		assert.Equal(t, o.ID, found.ID)

		_, err = repo.FindByOrderNumber(ctx, other.ID, o.OrderNumber)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("FindByToken supports guest tracking", func(t *testing.T) {
		s := mustCreateStore(t, testDB)
		o := mustCreateOrder(t, testDB, s.ID, "ORD-00003")

		found, err := repo.FindByToken(ctx, o.OrderToken)
		require.NoError(t, err)
		assert.Equal(t, o.ID, found.ID)
	})

	t.Run("status transition round trip", func(t *testing.T) {
		s := mustCreateStore(t, testDB)
		o := mustCreateOrder(t, testDB, s.ID, "ORD-00004")

		require.NoError(t, o.Confirm())
		require.NoError(t, o.MarkPaid("razorpay", "upi", "txn_123", "pay_ref"))
		require.NoError(t, repo.Save(ctx, o))

		found, err := repo.FindByIDForStore(ctx, s.ID, o.ID)
		require.NoError(t, err)
		assert.Equal(t, order.PaymentStatusPaid, found.PaymentStatus)
		assert.Equal(t, "razorpay", found.PaymentGateway)
		assert.Equal(t, "txn_123", found.PaymentTransactionID)

		byTxn, err := repo.FindByTransactionID(ctx, "txn_123")
		require.NoError(t, err)
		assert.Equal(t, o.ID, byTxn.ID)
	})

	t.Run("CountByStatus", func(t *testing.T) {
		s := mustCreateStore(t, testDB)
		mustCreateOrder(t, testDB, s.ID, "ORD-00005")
		mustCreateOrder(t, testDB, s.ID, "ORD-00006")

		count, err := repo.CountByStatus(ctx, s.ID, order.OrderStatusPending)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})
}

// TestGenerateOrderNumber_Integration verifies sequence behavior under concurrency
func TestGenerateOrderNumber_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewSharedTestDB(t)
	repo := persistence.NewGormOrderRepository(testDB.DB)
	ctx := context.Background()

	t.Run("numbers are sequential per store", func(t *testing.T) {
		s := mustCreateStore(t, testDB)

		first, err := repo.GenerateOrderNumber(ctx, s.ID, "ORD")
		require.NoError(t, err)
		second, err := repo.GenerateOrderNumber(ctx, s.ID, "ORD")
		require.NoError(t, err)

		month := time.Now().Format("200601")
		assert.Equal(t, fmt.Sprintf("ORD-%s-00001", month), first)
		assert.Equal(t, fmt.Sprintf("ORD-%s-00002", month), second)
	})

	t.Run("stores do not share sequences", func(t *testing.T) {
		a := mustCreateStore(t, testDB)
		b := mustCreateStore(t, testDB)

		numA, err := repo.GenerateOrderNumber(ctx, a.ID, "SHOPA")
		require.NoError(t, err)
		numB, err := repo.GenerateOrderNumber(ctx, b.ID, "SHOPB")
		require.NoError(t, err)

		month := time.Now().Format("200601")
		assert.Equal(t, fmt.Sprintf("SHOPA-%s-00001", month), numA)
		assert.Equal(t, fmt.Sprintf("SHOPB-%s-00001", month), numB)
	})

	t.Run("concurrent generation never repeats a number", func(t *testing.T) {
		s := mustCreateStore(t, testDB)

		const workers = 10
		results := make(chan string, workers)
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				num, err := repo.GenerateOrderNumber(ctx, s.ID, "ORD")
				if err != nil {
					results <- fmt.Sprintf("error: %v", err)
					return
				}
				results <- num
			}()
		}
		wg.Wait()
		close(results)

		seen := make(map[string]bool)
		for num := range results {
			assert.False(t, seen[num], "duplicate order number %s", num)
			seen[num] = true
		}
		assert.Len(t, seen, workers)
	})
}
