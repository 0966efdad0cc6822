package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multistore/backend/internal/domain/shared"
	"github.com/multistore/backend/internal/domain/shared/valueobject"
)

func mustPrice(t *testing.T, amount int64) valueobject.Money {
	t.Helper()
	return valueobject.MustMoney(decimal.NewFromInt(amount), valueobject.INR)
}

func TestNewProduct(t *testing.T) {
	storeID := uuid.New()

	t.Run("creates draft product", func(t *testing.T) {
		p, err := NewProduct(storeID, "Cotton T-Shirt", "cotton-t-shirt", "tee-001", mustPrice(t, 499))

		require.NoError(t, err)
		assert.Equal(t, storeID, p.StoreID)
		assert.Equal(t, "cotton-t-shirt", p.Slug)
		assert.Equal(t, "TEE-001", p.SKU)
		assert.Equal(t, ProductStatusDraft, p.Status)
		assert.True(t, p.TrackInventory)
		assert.True(t, p.RequiresShipping)
		assert.Len(t, p.GetDomainEvents(), 1)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		p, err := NewProduct(storeID, "", "slug", "SKU1", mustPrice(t, 100))

		assert.Error(t, err)
		assert.Nil(t, p)
	})

	t.Run("fails with invalid slug", func(t *testing.T) {
		p, err := NewProduct(storeID, "Name", "bad slug!", "SKU1", mustPrice(t, 100))

		assert.Error(t, err)
		assert.Nil(t, p)
		assert.Contains(t, err.Error(), "can only contain")
	})

	t.Run("fails with negative price", func(t *testing.T) {
		neg := valueobject.MustMoney(decimal.NewFromInt(-1), valueobject.INR)
		p, err := NewProduct(storeID, "Name", "slug", "SKU1", neg)

		assert.Error(t, err)
		assert.Nil(t, p)
	})
}

func TestProductPricing(t *testing.T) {
	storeID := uuid.New()
	p, err := NewProduct(storeID, "Tee", "tee", "TEE-1", mustPrice(t, 499))
	require.NoError(t, err)

	t.Run("sets compare and cost prices", func(t *testing.T) {
		compare := decimal.NewFromInt(799)
		cost := decimal.NewFromInt(250)

		err := p.SetPricing(mustPrice(t, 499), &compare, &cost)

		require.NoError(t, err)
		assert.True(t, p.ComparePrice.Equal(compare))
	})

	t.Run("rejects compare price below selling price", func(t *testing.T) {
		compare := decimal.NewFromInt(100)

		err := p.SetPricing(mustPrice(t, 499), &compare, nil)

		assert.Error(t, err)
	})
}

func TestProductStock(t *testing.T) {
	storeID := uuid.New()

	t.Run("reserve and restore simple product stock", func(t *testing.T) {
		p, _ := NewProduct(storeID, "Tee", "tee", "TEE-1", mustPrice(t, 499))
		require.NoError(t, p.SetInventoryQuantity(10))

		require.NoError(t, p.ReserveStock("", 3))
		assert.Equal(t, 7, p.InventoryQuantity)

		require.NoError(t, p.RestoreStock("", 3))
		assert.Equal(t, 10, p.InventoryQuantity)
	})

	t.Run("reserve fails when out of stock", func(t *testing.T) {
		p, _ := NewProduct(storeID, "Tee", "tee", "TEE-1", mustPrice(t, 499))
		require.NoError(t, p.SetInventoryQuantity(2))

		err := p.ReserveStock("", 5)

		assert.ErrorIs(t, err, shared.ErrOutOfStock)
		assert.Equal(t, 2, p.InventoryQuantity)
	})

	t.Run("backorders allow overselling", func(t *testing.T) {
		p, _ := NewProduct(storeID, "Tee", "tee", "TEE-1", mustPrice(t, 499))
		require.NoError(t, p.SetInventoryRules(true, true, 5))
		require.NoError(t, p.SetInventoryQuantity(2))

		require.NoError(t, p.ReserveStock("", 5))
		assert.Equal(t, -3, p.InventoryQuantity)
	})

	t.Run("untracked products always in stock", func(t *testing.T) {
		p, _ := NewProduct(storeID, "Ebook", "ebook", "EB-1", mustPrice(t, 99))
		require.NoError(t, p.SetInventoryRules(false, false, 0))

		assert.True(t, p.IsInStock("", 1000))
		assert.NoError(t, p.ReserveStock("", 1000))
	})

	t.Run("low stock event emitted at threshold", func(t *testing.T) {
		p, _ := NewProduct(storeID, "Tee", "tee", "TEE-1", mustPrice(t, 499))
		require.NoError(t, p.SetInventoryQuantity(10))
		p.ClearDomainEvents()

		require.NoError(t, p.ReserveStock("", 6))

		events := p.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProductLowStock, events[0].EventType())
	})
}

func TestProductVariants(t *testing.T) {
	storeID := uuid.New()
	price := decimal.NewFromInt(599)

	newVariants := func() []ProductVariant {
		return []ProductVariant{
			{SKU: "tee-s", Options: map[string]string{"Size": "S"}, Quantity: 5},
			{SKU: "tee-m", Options: map[string]string{"Size": "M"}, Quantity: 3, Price: &price},
		}
	}

	t.Run("sets variants and normalizes SKUs", func(t *testing.T) {
		p, _ := NewProduct(storeID, "Tee", "tee", "TEE-1", mustPrice(t, 499))

		require.NoError(t, p.SetVariants([]string{"Size"}, newVariants()))
		assert.True(t, p.HasVariants)
		require.NotNil(t, p.Variants.Find("TEE-S"))
		require.NotNil(t, p.Variants.Find("tee-m"))
	})

	t.Run("rejects duplicate variant SKUs", func(t *testing.T) {
		p, _ := NewProduct(storeID, "Tee", "tee", "TEE-1", mustPrice(t, 499))
		dupes := []ProductVariant{
			{SKU: "TEE-S", Options: map[string]string{"Size": "S"}},
			{SKU: "tee-s", Options: map[string]string{"Size": "M"}},
		}

		assert.Error(t, p.SetVariants([]string{"Size"}, dupes))
	})

	t.Run("variant stock reserved independently", func(t *testing.T) {
		p, _ := NewProduct(storeID, "Tee", "tee", "TEE-1", mustPrice(t, 499))
		require.NoError(t, p.SetVariants([]string{"Size"}, newVariants()))

		require.NoError(t, p.ReserveStock("TEE-S", 2))
		assert.Equal(t, 3, p.AvailableQuantity("TEE-S"))
		assert.Equal(t, 3, p.AvailableQuantity("TEE-M"))

		assert.ErrorIs(t, p.ReserveStock("TEE-M", 4), shared.ErrOutOfStock)
	})

	t.Run("variant price overrides base price", func(t *testing.T) {
		p, _ := NewProduct(storeID, "Tee", "tee", "TEE-1", mustPrice(t, 499))
		require.NoError(t, p.SetVariants([]string{"Size"}, newVariants()))

		assert.True(t, p.VariantPrice("TEE-M").Equal(price))
		assert.True(t, p.VariantPrice("TEE-S").Equal(decimal.NewFromInt(499)))
	})

	t.Run("clearing variants reverts to simple product", func(t *testing.T) {
		p, _ := NewProduct(storeID, "Tee", "tee", "TEE-1", mustPrice(t, 499))
		require.NoError(t, p.SetVariants([]string{"Size"}, newVariants()))

		require.NoError(t, p.SetVariants(nil, nil))
		assert.False(t, p.HasVariants)
		assert.Empty(t, p.Variants)
	})
}

func TestProductLifecycle(t *testing.T) {
	storeID := uuid.New()

	t.Run("publish sets published timestamp once", func(t *testing.T) {
		p, _ := NewProduct(storeID, "Tee", "tee", "TEE-1", mustPrice(t, 499))

		require.NoError(t, p.Publish())
		assert.Equal(t, ProductStatusActive, p.Status)
		require.NotNil(t, p.PublishedAt)
		first := *p.PublishedAt

		require.NoError(t, p.Unpublish())
		require.NoError(t, p.Publish())
		assert.Equal(t, first, *p.PublishedAt)
	})

	t.Run("archived product cannot be published", func(t *testing.T) {
		p, _ := NewProduct(storeID, "Tee", "tee", "TEE-1", mustPrice(t, 499))
		require.NoError(t, p.Archive())

		assert.Error(t, p.Publish())
	})

	t.Run("archive clears featured flag", func(t *testing.T) {
		p, _ := NewProduct(storeID, "Tee", "tee", "TEE-1", mustPrice(t, 499))
		p.SetFeatured(true)

		require.NoError(t, p.Archive())
		assert.False(t, p.IsFeatured)
	})

	t.Run("digital products skip shipping", func(t *testing.T) {
		p, _ := NewProduct(storeID, "Ebook", "ebook", "EB-1", mustPrice(t, 99))

		p.MarkDigital(true)
		assert.False(t, p.RequiresShipping)
	})
}

func TestProductRecordSale(t *testing.T) {
	p, _ := NewProduct(uuid.New(), "Tee", "tee", "TEE-1", mustPrice(t, 499))

	p.RecordSale(2, decimal.NewFromInt(998))
	p.RecordSale(1, decimal.NewFromInt(499))

	assert.Equal(t, 3, p.TotalSales)
	assert.True(t, p.TotalRevenue.Equal(decimal.NewFromInt(1497)))
}
