package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase asc", "asc", "ASC"},
		{"uppercase ASC", "ASC", "ASC"},
		{"mixed case Asc", "Asc", "ASC"},
		{"lowercase desc", "desc", "DESC"},
		{"uppercase DESC", "DESC", "DESC"},
		{"empty defaults to DESC", "", "DESC"},
		{"invalid defaults to DESC", "sideways", "DESC"},
		{"injection attempt defaults to DESC", "ASC; DROP TABLE orders", "DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	t.Run("allowed field passes through", func(t *testing.T) {
		assert.Equal(t, "name", ValidateSortField("name", ProductSortFields, "created_at"))
	})

	t.Run("empty field falls back to default", func(t *testing.T) {
		assert.Equal(t, "created_at", ValidateSortField("", ProductSortFields, "created_at"))
	})

	t.Run("unknown field falls back to default", func(t *testing.T) {
		assert.Equal(t, "created_at", ValidateSortField("secret_column", ProductSortFields, "created_at"))
	})

	t.Run("injection attempt falls back to default", func(t *testing.T) {
		assert.Equal(t, "created_at", ValidateSortField("name; DROP TABLE products", ProductSortFields, "created_at"))
	})
}

func TestSortFieldWhitelists(t *testing.T) {
	t.Run("common fields present in every whitelist", func(t *testing.T) {
		whitelists := map[string]map[string]bool{
			"store":     StoreSortFields,
			"product":   ProductSortFields,
			"category":  CategorySortFields,
			"customer":  CustomerSortFields,
			"order":     OrderSortFields,
			"blog_post": BlogPostSortFields,
			"admin":     AdminUserSortFields,
		}
		for name, fields := range whitelists {
			for common := range CommonSortFields {
				assert.True(t, fields[common], "%s whitelist missing %s", name, common)
			}
		}
	})

	t.Run("reserved words are not sortable", func(t *testing.T) {
		// `group` is a reserved word in MySQL and cannot appear unquoted
		// in an ORDER BY clause.
		assert.False(t, CustomerSortFields["group"])
	})

	t.Run("domain fields are sortable", func(t *testing.T) {
		assert.True(t, StoreSortFields["slug"])
		assert.True(t, ProductSortFields["inventory_quantity"])
		assert.True(t, OrderSortFields["order_number"])
		assert.True(t, CustomerSortFields["total_spent"])
		assert.True(t, BlogPostSortFields["published_at"])
	})
}
