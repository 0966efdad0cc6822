package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/multistore/backend/internal/domain/store"
)

// RegisterStoreRequest represents a request to register a new store
type RegisterStoreRequest struct {
	Name       string `json:"name" binding:"required,min=2,max=100"`
	Slug       string `json:"slug" binding:"required,min=2,max=50"`
	OwnerName  string `json:"owner_name" binding:"required,min=1,max=100"`
	OwnerEmail string `json:"owner_email" binding:"required,email"`
	// OwnerPassword seeds the store admin account
	OwnerPassword string `json:"owner_password" binding:"required,min=8,max=128"`
}

// UpdateStoreRequest represents a request to update a store profile
type UpdateStoreRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	LogoURL     *string `json:"logo_url" binding:"omitempty,max=500"`
	FaviconURL  *string `json:"favicon_url" binding:"omitempty,max=500"`
}

// SetBusinessInfoRequest represents a request to update business details
type SetBusinessInfoRequest struct {
	BusinessName    string `json:"business_name" binding:"max=200"`
	BusinessEmail   string `json:"business_email" binding:"omitempty,email"`
	BusinessPhone   string `json:"business_phone" binding:"max=20"`
	BusinessAddress string `json:"business_address" binding:"max=500"`
	GSTIN           string `json:"gstin" binding:"max=15"`
}

// ChangePlanRequest represents a request to change a store's plan
type ChangePlanRequest struct {
	Plan       string    `json:"plan" binding:"required,oneof=basic premium enterprise"`
	ValidUntil time.Time `json:"valid_until" binding:"required"`
}

// UpdateSettingsRequest represents a request to update store settings
type UpdateSettingsRequest struct {
	Currency          *string          `json:"currency" binding:"omitempty,len=3"`
	Timezone          *string          `json:"timezone"`
	Locale            *string          `json:"locale"`
	MetaTitle         *string          `json:"meta_title" binding:"omitempty,max=60"`
	MetaDescription   *string          `json:"meta_description" binding:"omitempty,max=160"`
	MetaKeywords      *string          `json:"meta_keywords" binding:"omitempty,max=255"`
	AutoAcceptOrders  *bool            `json:"auto_accept_orders"`
	OrderPrefix       *string          `json:"order_prefix" binding:"omitempty,min=1,max=10"`
	MinOrderAmount    *decimal.Decimal `json:"min_order_amount"`
	MaxOrderAmount    *decimal.Decimal `json:"max_order_amount"`
	AllowGuestOrders  *bool            `json:"allow_guest_orders"`
	DefaultTaxRate    *decimal.Decimal `json:"default_tax_rate"`
	TrackInventory    *bool            `json:"track_inventory"`
	AllowBackorders   *bool            `json:"allow_backorders"`
	LowStockThreshold *int             `json:"low_stock_threshold" binding:"omitempty,min=0"`
	NotificationEmail *string          `json:"notification_email" binding:"omitempty,email"`
	ThemeJSON         *string          `json:"theme_json"`
	SocialLinksJSON   *string          `json:"social_links_json"`
	BusinessHoursJSON *string          `json:"business_hours_json"`
}

// StoreListFilter represents filter options for the store list
type StoreListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=trial active suspended cancelled"`
	Plan     string `form:"plan" binding:"omitempty,oneof=basic premium enterprise"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// StoreResponse represents a store in API responses
type StoreResponse struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Slug            string     `json:"slug"`
	Description     string     `json:"description"`
	Subdomain       string     `json:"subdomain"`
	CustomDomain    string     `json:"custom_domain"`
	LogoURL         string     `json:"logo_url"`
	OwnerName       string     `json:"owner_name"`
	OwnerEmail      string     `json:"owner_email"`
	Status          string     `json:"status"`
	Plan            string     `json:"plan"`
	MaxProducts       int      `json:"max_products"`
	MaxStorageMB      int      `json:"max_storage_mb"`
	MaxOrdersPerMonth int      `json:"max_orders_per_month"`
	MaintenanceMode bool       `json:"maintenance_mode"`
	SetupComplete   bool       `json:"setup_complete"`
	TrialEndsAt     *time.Time `json:"trial_ends_at,omitempty"`
	PlanValidUntil  *time.Time `json:"plan_valid_until,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// SettingsResponse represents store settings in API responses
type SettingsResponse struct {
	StoreID           uuid.UUID       `json:"store_id"`
	Currency          string          `json:"currency"`
	Timezone          string          `json:"timezone"`
	Locale            string          `json:"locale"`
	MetaTitle         string          `json:"meta_title"`
	MetaDescription   string          `json:"meta_description"`
	AutoAcceptOrders  bool            `json:"auto_accept_orders"`
	OrderPrefix       string          `json:"order_prefix"`
	MinOrderAmount    decimal.Decimal `json:"min_order_amount"`
	MaxOrderAmount    decimal.Decimal `json:"max_order_amount"`
	AllowGuestOrders  bool            `json:"allow_guest_orders"`
	DefaultTaxRate    decimal.Decimal `json:"default_tax_rate"`
	TrackInventory    bool            `json:"track_inventory"`
	AllowBackorders   bool            `json:"allow_backorders"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	NotificationEmail string          `json:"notification_email"`
	ThemeJSON         string          `json:"theme_json"`
	SocialLinksJSON   string          `json:"social_links_json"`
	BusinessHoursJSON string          `json:"business_hours_json"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// StoreStatsResponse summarizes a store's activity
type StoreStatsResponse struct {
	ProductCount    int64           `json:"product_count"`
	CustomerCount   int64           `json:"customer_count"`
	OrderCount      int64           `json:"order_count"`
	OrdersThisMonth int64           `json:"orders_this_month"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	Currency        string          `json:"currency"`
}

// ToStoreResponse converts a domain Store to StoreResponse
func ToStoreResponse(s *store.Store) StoreResponse {
	return StoreResponse{
		ID:                s.ID,
		Name:              s.Name,
		Slug:              s.Slug,
		Description:       s.Description,
		Subdomain:         s.Subdomain,
		CustomDomain:      s.CustomDomain,
		LogoURL:           s.LogoURL,
		OwnerName:         s.OwnerName,
		OwnerEmail:        s.OwnerEmail,
		Status:            string(s.Status),
		Plan:              string(s.Plan),
		MaxProducts:       s.Limits.MaxProducts,
		MaxStorageMB:      s.Limits.MaxStorageMB,
		MaxOrdersPerMonth: s.Limits.MaxOrdersPerMonth,
		MaintenanceMode:   s.MaintenanceMode,
		SetupComplete:     s.IsSetupComplete,
		TrialEndsAt:       s.TrialEndsAt,
		PlanValidUntil:    s.SubscriptionEndsAt,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

// ToStoreResponses converts a slice of stores
func ToStoreResponses(stores []store.Store) []StoreResponse {
	responses := make([]StoreResponse, len(stores))
	for i := range stores {
		responses[i] = ToStoreResponse(&stores[i])
	}
	return responses
}

// ToSettingsResponse converts domain StoreSettings to SettingsResponse
func ToSettingsResponse(s *store.StoreSettings) SettingsResponse {
	return SettingsResponse{
		StoreID:           s.StoreID,
		Currency:          string(s.Currency),
		Timezone:          s.Timezone,
		Locale:            s.Locale,
		MetaTitle:         s.MetaTitle,
		MetaDescription:   s.MetaDescription,
		AutoAcceptOrders:  s.AutoAcceptOrders,
		OrderPrefix:       s.OrderPrefix,
		MinOrderAmount:    s.MinOrderAmount,
		MaxOrderAmount:    s.MaxOrderAmount,
		AllowGuestOrders:  s.AllowGuestOrders,
		DefaultTaxRate:    s.DefaultTaxRate,
		TrackInventory:    s.TrackInventory,
		AllowBackorders:   s.AllowBackorders,
		LowStockThreshold: s.LowStockThreshold,
		NotificationEmail: s.NotificationEmail,
		ThemeJSON:         s.ThemeConfig,
		SocialLinksJSON:   s.SocialLinks,
		BusinessHoursJSON: s.BusinessHours,
		UpdatedAt:         s.UpdatedAt,
	}
}
