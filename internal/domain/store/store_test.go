package store

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multistore/backend/internal/domain/shared"
	"github.com/multistore/backend/internal/domain/shared/valueobject"
)

func TestNewStore(t *testing.T) {
	t.Run("creates store in trial status", func(t *testing.T) {
		s, err := NewStore("Acme Gadgets", "acme-gadgets", "Asha Rao", "asha@acme.test")

		require.NoError(t, err)
		assert.Equal(t, "Acme Gadgets", s.Name)
		assert.Equal(t, "acme-gadgets", s.Slug)
		assert.Equal(t, "acme-gadgets", s.Subdomain)
		assert.Equal(t, StoreStatusTrial, s.Status)
		assert.Equal(t, StorePlanBasic, s.Plan)
		assert.Equal(t, 100, s.Limits.MaxProducts)
		require.NotNil(t, s.TrialEndsAt)
		assert.WithinDuration(t, time.Now().AddDate(0, 0, DefaultTrialDays), *s.TrialEndsAt, time.Minute)
		assert.Len(t, s.GetDomainEvents(), 1)
	})

	t.Run("lowercases slug and email", func(t *testing.T) {
		s, err := NewStore("Acme", "Acme-Shop", "Asha Rao", "Asha@Acme.Test")

		require.NoError(t, err)
		assert.Equal(t, "acme-shop", s.Slug)
		assert.Equal(t, "asha@acme.test", s.OwnerEmail)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		s, err := NewStore("", "acme", "Asha", "asha@acme.test")

		assert.Error(t, err)
		assert.Nil(t, s)
		assert.Contains(t, err.Error(), "name cannot be empty")
	})

	t.Run("fails with invalid slug characters", func(t *testing.T) {
		s, err := NewStore("Acme", "acme shop!", "Asha", "asha@acme.test")

		assert.Error(t, err)
		assert.Nil(t, s)
		assert.Contains(t, err.Error(), "can only contain")
	})

	t.Run("fails with invalid owner email", func(t *testing.T) {
		s, err := NewStore("Acme", "acme", "Asha", "not-an-email")

		assert.Error(t, err)
		assert.Nil(t, s)
	})
}

func TestStoreChangePlan(t *testing.T) {
	t.Run("upgrade from trial activates store and resets quotas", func(t *testing.T) {
		s, err := NewStore("Acme", "acme", "Asha", "asha@acme.test")
		require.NoError(t, err)

		validUntil := time.Now().AddDate(1, 0, 0)
		err = s.ChangePlan(StorePlanPremium, validUntil)

		require.NoError(t, err)
		assert.Equal(t, StoreStatusActive, s.Status)
		assert.Equal(t, StorePlanPremium, s.Plan)
		assert.Equal(t, 1000, s.Limits.MaxProducts)
		assert.Nil(t, s.TrialEndsAt)
		require.NotNil(t, s.SubscriptionEndsAt)
	})

	t.Run("rejects unknown plan", func(t *testing.T) {
		s, _ := NewStore("Acme", "acme", "Asha", "asha@acme.test")

		err := s.ChangePlan(StorePlan("gold"), time.Now())

		assert.Error(t, err)
	})

	t.Run("rejects plan change on cancelled store", func(t *testing.T) {
		s, _ := NewStore("Acme", "acme", "Asha", "asha@acme.test")
		require.NoError(t, s.Cancel())

		err := s.ChangePlan(StorePlanEnterprise, time.Now().AddDate(1, 0, 0))

		assert.Error(t, err)
	})
}

func TestStoreStatusTransitions(t *testing.T) {
	t.Run("suspend and reactivate", func(t *testing.T) {
		s, _ := NewStore("Acme", "acme", "Asha", "asha@acme.test")

		require.NoError(t, s.Suspend())
		assert.True(t, s.IsSuspended())
		assert.False(t, s.IsOperational())

		require.NoError(t, s.Activate())
		assert.Equal(t, StoreStatusActive, s.Status)
		assert.True(t, s.IsOperational())
	})

	t.Run("suspend is not idempotent", func(t *testing.T) {
		s, _ := NewStore("Acme", "acme", "Asha", "asha@acme.test")
		require.NoError(t, s.Suspend())

		assert.Error(t, s.Suspend())
	})

	t.Run("cancelled store cannot be suspended", func(t *testing.T) {
		s, _ := NewStore("Acme", "acme", "Asha", "asha@acme.test")
		require.NoError(t, s.Cancel())

		assert.Error(t, s.Suspend())
	})

	t.Run("maintenance mode makes store non-operational", func(t *testing.T) {
		s, _ := NewStore("Acme", "acme", "Asha", "asha@acme.test")
		require.NoError(t, s.Activate())

		s.SetMaintenanceMode(true)
		assert.False(t, s.IsOperational())

		s.SetMaintenanceMode(false)
		assert.True(t, s.IsOperational())
	})
}

func TestStoreTrialExpiry(t *testing.T) {
	t.Run("expired trial is not operational", func(t *testing.T) {
		s, _ := NewStore("Acme", "acme", "Asha", "asha@acme.test")
		past := time.Now().Add(-time.Hour)
		s.TrialEndsAt = &past

		assert.True(t, s.IsTrialExpired())
		assert.False(t, s.IsOperational())
	})

	t.Run("lapsed subscription is not operational", func(t *testing.T) {
		s, _ := NewStore("Acme", "acme", "Asha", "asha@acme.test")
		require.NoError(t, s.ChangePlan(StorePlanPremium, time.Now().Add(-time.Hour)))

		assert.True(t, s.IsSubscriptionExpired())
		assert.False(t, s.IsOperational())
	})
}

func TestStoreQuotas(t *testing.T) {
	t.Run("product quota enforced per plan", func(t *testing.T) {
		s, _ := NewStore("Acme", "acme", "Asha", "asha@acme.test")

		assert.NoError(t, s.CanAddProduct(99))
		assert.ErrorIs(t, s.CanAddProduct(100), shared.ErrPlanLimitExceeded)
	})

	t.Run("monthly order quota enforced", func(t *testing.T) {
		s, _ := NewStore("Acme", "acme", "Asha", "asha@acme.test")
		require.NoError(t, s.Activate())

		assert.NoError(t, s.CanAcceptOrder(499))
		assert.ErrorIs(t, s.CanAcceptOrder(500), shared.ErrPlanLimitExceeded)
	})

	t.Run("suspended store rejects orders regardless of quota", func(t *testing.T) {
		s, _ := NewStore("Acme", "acme", "Asha", "asha@acme.test")
		require.NoError(t, s.Suspend())

		assert.ErrorIs(t, s.CanAcceptOrder(0), shared.ErrStoreSuspended)
	})
}

func TestStoreSetupComplete(t *testing.T) {
	s, _ := NewStore("Acme", "acme", "Asha", "asha@acme.test")
	s.ClearDomainEvents()

	s.MarkSetupComplete()
	assert.True(t, s.IsSetupComplete)
	assert.Len(t, s.GetDomainEvents(), 1)

	// Idempotent: no second event
	s.MarkSetupComplete()
	assert.Len(t, s.GetDomainEvents(), 1)
}

func TestNewStoreSettings(t *testing.T) {
	s, _ := NewStore("Acme", "acme", "Asha", "asha@acme.test")
	settings := NewStoreSettings(s.ID)

	assert.Equal(t, s.ID, settings.StoreID)
	assert.Equal(t, valueobject.INR, settings.Currency)
	assert.Equal(t, "ORD", settings.OrderPrefix)
	assert.True(t, settings.AutoAcceptOrders)
	assert.True(t, settings.TrackInventory)
	assert.Equal(t, 5, settings.LowStockThreshold)
}

func TestStoreSettingsOrderRules(t *testing.T) {
	s, _ := NewStore("Acme", "acme", "Asha", "asha@acme.test")
	settings := NewStoreSettings(s.ID)

	t.Run("rejects max below min", func(t *testing.T) {
		err := settings.SetOrderRules(true, "ORD", decimal.NewFromInt(500), decimal.NewFromInt(100), true)
		assert.Error(t, err)
	})

	t.Run("validates order totals against limits", func(t *testing.T) {
		err := settings.SetOrderRules(true, "AC", decimal.NewFromInt(100), decimal.NewFromInt(10000), true)
		require.NoError(t, err)

		below := valueobject.MustMoney(decimal.NewFromInt(50), valueobject.INR)
		within := valueobject.MustMoney(decimal.NewFromInt(150), valueobject.INR)
		above := valueobject.MustMoney(decimal.NewFromInt(20000), valueobject.INR)

		assert.Error(t, settings.ValidateOrderAmount(below))
		assert.NoError(t, settings.ValidateOrderAmount(within))
		assert.Error(t, settings.ValidateOrderAmount(above))
	})

	t.Run("zero max means unlimited", func(t *testing.T) {
		err := settings.SetOrderRules(true, "AC", decimal.Zero, decimal.Zero, true)
		require.NoError(t, err)

		huge := valueobject.MustMoney(decimal.NewFromInt(9999999), valueobject.INR)
		assert.NoError(t, settings.ValidateOrderAmount(huge))
	})
}

func TestStoreSettingsTaxRate(t *testing.T) {
	s, _ := NewStore("Acme", "acme", "Asha", "asha@acme.test")
	settings := NewStoreSettings(s.ID)

	t.Run("rejects out-of-range rates", func(t *testing.T) {
		assert.Error(t, settings.SetTaxRate(decimal.NewFromInt(-1)))
		assert.Error(t, settings.SetTaxRate(decimal.NewFromInt(101)))
	})

	t.Run("zero rate yields zero tax", func(t *testing.T) {
		require.NoError(t, settings.SetTaxRate(decimal.Zero))
		subtotal := valueobject.MustMoney(decimal.NewFromInt(998), valueobject.INR)
		assert.True(t, settings.TaxFor(subtotal).IsZero())
	})

	t.Run("computes tax rounded to paise", func(t *testing.T) {
		require.NoError(t, settings.SetTaxRate(decimal.NewFromInt(18)))
		subtotal := valueobject.MustMoney(decimal.NewFromInt(998), valueobject.INR)
		tax := settings.TaxFor(subtotal)
		assert.True(t, tax.Amount().Equal(decimal.NewFromFloat(179.64)))
		assert.Equal(t, valueobject.INR, tax.Currency())
	})
}

func TestStoreSettingsLocalization(t *testing.T) {
	s, _ := NewStore("Acme", "acme", "Asha", "asha@acme.test")
	settings := NewStoreSettings(s.ID)

	t.Run("accepts valid localization", func(t *testing.T) {
		err := settings.SetLocalization(valueobject.USD, "America/New_York", "en-US")
		require.NoError(t, err)
		assert.Equal(t, valueobject.USD, settings.Currency)
	})

	t.Run("rejects unknown timezone", func(t *testing.T) {
		err := settings.SetLocalization(valueobject.USD, "Mars/Olympus", "en-US")
		assert.Error(t, err)
	})

	t.Run("rejects invalid currency", func(t *testing.T) {
		err := settings.SetLocalization(valueobject.Currency("XYZ"), "UTC", "en-US")
		assert.Error(t, err)
	})
}
