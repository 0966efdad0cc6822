package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// StoreSortFields contains allowed sort fields for stores
var StoreSortFields = map[string]bool{
	"id":                   true,
	"created_at":           true,
	"updated_at":           true,
	"name":                 true,
	"slug":                 true,
	"owner_email":          true,
	"status":               true,
	"plan":                 true,
	"trial_ends_at":        true,
	"subscription_ends_at": true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"name":               true,
	"slug":               true,
	"sku":                true,
	"brand":              true,
	"price":              true,
	"inventory_quantity": true,
	"status":             true,
	"is_featured":        true,
	"total_sales":        true,
	"total_revenue":      true,
}

// CategorySortFields contains allowed sort fields for categories
var CategorySortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"slug":       true,
	"level":      true,
	"sort_order": true,
	"status":     true,
}

// CustomerSortFields contains allowed sort fields for customers
var CustomerSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"email":         true,
	"first_name":    true,
	"last_name":     true,
	"total_orders":  true,
	"total_spent":   true,
	"last_login_at": true,
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"order_number":   true,
	"customer_email": true,
	"status":         true,
	"payment_status": true,
	"total_amount":   true,
	"shipped_at":     true,
	"delivered_at":   true,
}

// BlogPostSortFields contains allowed sort fields for blog posts
var BlogPostSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"title":        true,
	"slug":         true,
	"status":       true,
	"published_at": true,
}

// AdminUserSortFields contains allowed sort fields for admin users
var AdminUserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"email":         true,
	"first_name":    true,
	"role":          true,
	"status":        true,
	"last_login_at": true,
}
