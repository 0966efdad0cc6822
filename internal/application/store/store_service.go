package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/multistore/backend/internal/domain/catalog"
	"github.com/multistore/backend/internal/domain/customer"
	"github.com/multistore/backend/internal/domain/identity"
	"github.com/multistore/backend/internal/domain/order"
	"github.com/multistore/backend/internal/domain/report"
	"github.com/multistore/backend/internal/domain/shared"
	"github.com/multistore/backend/internal/domain/shared/valueobject"
	"github.com/multistore/backend/internal/domain/store"
)

// StoreService handles store registration and lifecycle operations
type StoreService struct {
	storeRepo    store.StoreRepository
	settingsRepo store.StoreSettingsRepository
	adminRepo    identity.AdminUserRepository
	productRepo  catalog.ProductRepository
	customerRepo customer.CustomerRepository
	orderRepo    order.OrderRepository
	reportRepo   report.SalesReportRepository
}

// NewStoreService creates a new StoreService
func NewStoreService(
	storeRepo store.StoreRepository,
	settingsRepo store.StoreSettingsRepository,
	adminRepo identity.AdminUserRepository,
	productRepo catalog.ProductRepository,
	customerRepo customer.CustomerRepository,
	orderRepo order.OrderRepository,
	reportRepo report.SalesReportRepository,
) *StoreService {
	return &StoreService{
		storeRepo:    storeRepo,
		settingsRepo: settingsRepo,
		adminRepo:    adminRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		orderRepo:    orderRepo,
		reportRepo:   reportRepo,
	}
}

// Register creates a new store with default settings and the owner's
// admin account
func (s *StoreService) Register(ctx context.Context, req RegisterStoreRequest) (*StoreResponse, error) {
	exists, err := s.storeRepo.ExistsBySlug(ctx, req.Slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "a store with this slug already exists")
	}

	exists, err = s.storeRepo.ExistsByOwnerEmail(ctx, req.OwnerEmail)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "this email already owns a store")
	}

	newStore, err := store.NewStore(req.Name, req.Slug, req.OwnerName, req.OwnerEmail)
	if err != nil {
		return nil, err
	}

	owner, err := identity.NewAdminUser(newStore.ID, req.OwnerEmail, req.OwnerPassword, req.OwnerName, "", identity.RoleStoreAdmin)
	if err != nil {
		return nil, err
	}

	if err := s.storeRepo.Save(ctx, newStore); err != nil {
		return nil, err
	}
	if err := s.settingsRepo.Save(ctx, store.NewStoreSettings(newStore.ID)); err != nil {
		return nil, err
	}
	if err := s.adminRepo.Save(ctx, owner); err != nil {
		return nil, err
	}

	response := ToStoreResponse(newStore)
	return &response, nil
}

// GetByID retrieves a store by ID
func (s *StoreService) GetByID(ctx context.Context, storeID uuid.UUID) (*StoreResponse, error) {
	st, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	response := ToStoreResponse(st)
	return &response, nil
}

// GetBySlug retrieves a store by slug
func (s *StoreService) GetBySlug(ctx context.Context, slug string) (*StoreResponse, error) {
	st, err := s.storeRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	response := ToStoreResponse(st)
	return &response, nil
}

// ResolveByDomain resolves a store from a request host, used by the
// tenant middleware
func (s *StoreService) ResolveByDomain(ctx context.Context, domain string) (*StoreResponse, error) {
	st, err := s.storeRepo.FindByDomain(ctx, domain)
	if err != nil {
		return nil, err
	}
	response := ToStoreResponse(st)
	return &response, nil
}

// List retrieves stores with filtering and pagination, platform-admin only
func (s *StoreService) List(ctx context.Context, filter StoreListFilter) ([]StoreResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Plan != "" {
		domainFilter.Filters["plan"] = filter.Plan
	}

	stores, err := s.storeRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.storeRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToStoreResponses(stores), total, nil
}

// Update updates the store profile
func (s *StoreService) Update(ctx context.Context, storeID uuid.UUID, req UpdateStoreRequest) (*StoreResponse, error) {
	st, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil {
		name := st.Name
		if req.Name != nil {
			name = *req.Name
		}
		description := st.Description
		if req.Description != nil {
			description = *req.Description
		}
		if err := st.Update(name, description); err != nil {
			return nil, err
		}
	}

	if req.LogoURL != nil || req.FaviconURL != nil {
		logo := st.LogoURL
		if req.LogoURL != nil {
			logo = *req.LogoURL
		}
		favicon := st.FaviconURL
		if req.FaviconURL != nil {
			favicon = *req.FaviconURL
		}
		if err := st.SetBranding(logo, favicon); err != nil {
			return nil, err
		}
	}

	if err := s.storeRepo.SaveWithLock(ctx, st); err != nil {
		return nil, err
	}

	response := ToStoreResponse(st)
	return &response, nil
}

// SetBusinessInfo updates the store's legal business details
func (s *StoreService) SetBusinessInfo(ctx context.Context, storeID uuid.UUID, req SetBusinessInfoRequest) (*StoreResponse, error) {
	st, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return nil, err
	}

	if err := st.SetBusinessInfo(req.BusinessName, req.BusinessEmail, req.BusinessPhone, req.BusinessAddress, req.GSTIN); err != nil {
		return nil, err
	}
	if err := s.storeRepo.SaveWithLock(ctx, st); err != nil {
		return nil, err
	}

	response := ToStoreResponse(st)
	return &response, nil
}

// ChangePlan moves the store to a new plan. Downgrades require current
// usage to fit the new plan's limits.
func (s *StoreService) ChangePlan(ctx context.Context, storeID uuid.UUID, req ChangePlanRequest) (*StoreResponse, error) {
	st, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return nil, err
	}

	newLimits := store.LimitsForPlan(store.StorePlan(req.Plan))
	if newLimits.MaxProducts < st.Limits.MaxProducts {
		productCount, err := s.productRepo.CountForStore(ctx, storeID, shared.DefaultFilter())
		if err != nil {
			return nil, err
		}
		if productCount > int64(newLimits.MaxProducts) {
			return nil, shared.NewDomainError("DOWNGRADE_BLOCKED", "current product count exceeds the new plan's limit")
		}
	}

	if err := st.ChangePlan(store.StorePlan(req.Plan), req.ValidUntil); err != nil {
		return nil, err
	}
	if err := s.storeRepo.SaveWithLock(ctx, st); err != nil {
		return nil, err
	}

	response := ToStoreResponse(st)
	return &response, nil
}

// Suspend suspends a store, platform-admin only
func (s *StoreService) Suspend(ctx context.Context, storeID uuid.UUID) error {
	st, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return err
	}
	if err := st.Suspend(); err != nil {
		return err
	}
	return s.storeRepo.SaveWithLock(ctx, st)
}

// Reactivate reactivates a suspended store
func (s *StoreService) Reactivate(ctx context.Context, storeID uuid.UUID) error {
	st, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return err
	}
	if err := st.Activate(); err != nil {
		return err
	}
	return s.storeRepo.SaveWithLock(ctx, st)
}

// Cancel cancels a store subscription
func (s *StoreService) Cancel(ctx context.Context, storeID uuid.UUID) error {
	st, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return err
	}
	if err := st.Cancel(); err != nil {
		return err
	}
	return s.storeRepo.SaveWithLock(ctx, st)
}

// SetMaintenanceMode toggles the storefront maintenance switch
func (s *StoreService) SetMaintenanceMode(ctx context.Context, storeID uuid.UUID, enabled bool) error {
	st, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return err
	}
	st.SetMaintenanceMode(enabled)
	return s.storeRepo.SaveWithLock(ctx, st)
}

// MarkSetupComplete records that onboarding finished
func (s *StoreService) MarkSetupComplete(ctx context.Context, storeID uuid.UUID) error {
	st, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return err
	}
	st.MarkSetupComplete()
	return s.storeRepo.SaveWithLock(ctx, st)
}

// GetSettings retrieves the store settings
func (s *StoreService) GetSettings(ctx context.Context, storeID uuid.UUID) (*SettingsResponse, error) {
	settings, err := s.settingsRepo.FindByStoreID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	response := ToSettingsResponse(settings)
	return &response, nil
}

// UpdateSettings updates the store settings
func (s *StoreService) UpdateSettings(ctx context.Context, storeID uuid.UUID, req UpdateSettingsRequest) (*SettingsResponse, error) {
	settings, err := s.settingsRepo.FindByStoreID(ctx, storeID)
	if err != nil {
		return nil, err
	}

	if req.Currency != nil || req.Timezone != nil || req.Locale != nil {
		currency := settings.Currency
		if req.Currency != nil {
			currency = valueobject.Currency(*req.Currency)
		}
		timezone := settings.Timezone
		if req.Timezone != nil {
			timezone = *req.Timezone
		}
		locale := settings.Locale
		if req.Locale != nil {
			locale = *req.Locale
		}
		if err := settings.SetLocalization(currency, timezone, locale); err != nil {
			return nil, err
		}
	}

	if req.MetaTitle != nil || req.MetaDescription != nil || req.MetaKeywords != nil {
		title := settings.MetaTitle
		if req.MetaTitle != nil {
			title = *req.MetaTitle
		}
		description := settings.MetaDescription
		if req.MetaDescription != nil {
			description = *req.MetaDescription
		}
		keywords := settings.MetaKeywords
		if req.MetaKeywords != nil {
			keywords = *req.MetaKeywords
		}
		if err := settings.SetSEO(title, description, keywords); err != nil {
			return nil, err
		}
	}

	if req.AutoAcceptOrders != nil || req.OrderPrefix != nil || req.MinOrderAmount != nil || req.MaxOrderAmount != nil || req.AllowGuestOrders != nil {
		autoAccept := settings.AutoAcceptOrders
		if req.AutoAcceptOrders != nil {
			autoAccept = *req.AutoAcceptOrders
		}
		prefix := settings.OrderPrefix
		if req.OrderPrefix != nil {
			prefix = *req.OrderPrefix
		}
		minAmount := settings.MinOrderAmount
		if req.MinOrderAmount != nil {
			minAmount = *req.MinOrderAmount
		}
		maxAmount := settings.MaxOrderAmount
		if req.MaxOrderAmount != nil {
			maxAmount = *req.MaxOrderAmount
		}
		allowGuest := settings.AllowGuestOrders
		if req.AllowGuestOrders != nil {
			allowGuest = *req.AllowGuestOrders
		}
		if err := settings.SetOrderRules(autoAccept, prefix, minAmount, maxAmount, allowGuest); err != nil {
			return nil, err
		}
	}

	if req.DefaultTaxRate != nil {
		if err := settings.SetTaxRate(*req.DefaultTaxRate); err != nil {
			return nil, err
		}
	}

	if req.TrackInventory != nil || req.AllowBackorders != nil || req.LowStockThreshold != nil {
		track := settings.TrackInventory
		if req.TrackInventory != nil {
			track = *req.TrackInventory
		}
		backorders := settings.AllowBackorders
		if req.AllowBackorders != nil {
			backorders = *req.AllowBackorders
		}
		threshold := settings.LowStockThreshold
		if req.LowStockThreshold != nil {
			threshold = *req.LowStockThreshold
		}
		if err := settings.SetInventoryRules(track, backorders, threshold); err != nil {
			return nil, err
		}
	}

	if req.NotificationEmail != nil {
		if err := settings.SetNotificationEmail(*req.NotificationEmail); err != nil {
			return nil, err
		}
	}
	if req.ThemeJSON != nil {
		settings.SetTheme(*req.ThemeJSON)
	}
	if req.SocialLinksJSON != nil {
		settings.SetSocialLinks(*req.SocialLinksJSON)
	}
	if req.BusinessHoursJSON != nil {
		settings.SetBusinessHours(*req.BusinessHoursJSON)
	}

	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}

	response := ToSettingsResponse(settings)
	return &response, nil
}

// Stats summarizes the store's catalog, customers, orders and revenue
func (s *StoreService) Stats(ctx context.Context, storeID uuid.UUID) (*StoreStatsResponse, error) {
	settings, err := s.settingsRepo.FindByStoreID(ctx, storeID)
	if err != nil {
		return nil, err
	}

	productCount, err := s.productRepo.CountForStore(ctx, storeID, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	customerCount, err := s.customerRepo.CountForStore(ctx, storeID, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	orderCount, err := s.orderRepo.CountForStore(ctx, storeID, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	ordersThisMonth, err := s.orderRepo.CountPlacedSince(ctx, storeID, startOfMonth(time.Now()))
	if err != nil {
		return nil, err
	}
	revenue, err := s.reportRepo.GetRevenueSince(ctx, storeID, time.Time{})
	if err != nil {
		return nil, err
	}

	return &StoreStatsResponse{
		ProductCount:    productCount,
		CustomerCount:   customerCount,
		OrderCount:      orderCount,
		OrdersThisMonth: ordersThisMonth,
		TotalRevenue:    revenue,
		Currency:        string(settings.Currency),
	}, nil
}

// CheckProductQuota verifies the store may add another product
func (s *StoreService) CheckProductQuota(ctx context.Context, storeID uuid.UUID) error {
	st, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return err
	}
	count, err := s.productRepo.CountForStore(ctx, storeID, shared.DefaultFilter())
	if err != nil {
		return err
	}
	return st.CanAddProduct(count)
}

// CheckOrderQuota verifies the store may accept another order this month
func (s *StoreService) CheckOrderQuota(ctx context.Context, storeID uuid.UUID) error {
	st, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return err
	}
	ordersThisMonth, err := s.orderRepo.CountPlacedSince(ctx, storeID, startOfMonth(time.Now()))
	if err != nil {
		return err
	}
	return st.CanAcceptOrder(ordersThisMonth)
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
