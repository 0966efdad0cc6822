package integration

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/multistore/backend/internal/domain/shared/valueobject"
	"github.com/multistore/backend/internal/domain/store"
	"github.com/multistore/backend/internal/infrastructure/persistence"
)

// TestMain runs before any tests and handles cleanup
func TestMain(m *testing.M) {
	code := m.Run()
	CleanupSharedContainer()
	os.Exit(code)
}

// mustCreateStore persists a fresh store with a unique slug. Most tables
// carry a foreign key to stores, so tests start here.
func mustCreateStore(t *testing.T, tdb *TestDB) *store.Store {
	t.Helper()

	suffix := uuid.NewString()[:8]
	s, err := store.NewStore("Test Store "+suffix, "test-store-"+suffix, "Test Owner", "owner-"+suffix+"@example.com")
	require.NoError(t, err)

	repo := persistence.NewGormStoreRepository(tdb.DB)
	require.NoError(t, repo.Save(context.Background(), s))
	return s
}

// testAddress returns an address that passes domain validation.
func testAddress() valueobject.Address {
	return valueobject.Address{
		FirstName:    "Asha",
		LastName:     "Verma",
		AddressLine1: "12 MG Road",
		City:         "Bengaluru",
		State:        "Karnataka",
		PostalCode:   "560001",
		Country:      "IN",
		Phone:        "+919876543210",
	}
}

func mustMoney(t *testing.T, amount string) valueobject.Money {
	t.Helper()
	m, err := valueobject.NewMoneyFromString(amount, valueobject.INR)
	require.NoError(t, err)
	return m
}
