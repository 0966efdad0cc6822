package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/multistore/backend/internal/domain/catalog"
	"github.com/multistore/backend/internal/domain/shared"
	"github.com/multistore/backend/internal/domain/shared/valueobject"
	"github.com/multistore/backend/internal/domain/store"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo    catalog.ProductRepository
	categoryRepo   catalog.CategoryRepository
	storeRepo      store.StoreRepository
	settingsRepo   store.StoreSettingsRepository
	eventPublisher shared.EventPublisher
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	storeRepo store.StoreRepository,
	settingsRepo store.StoreSettingsRepository,
	eventPublisher shared.EventPublisher,
) *ProductService {
	return &ProductService{
		productRepo:    productRepo,
		categoryRepo:   categoryRepo,
		storeRepo:      storeRepo,
		settingsRepo:   settingsRepo,
		eventPublisher: eventPublisher,
	}
}

func (s *ProductService) publishDomainEvents(ctx context.Context, aggregate shared.AggregateRoot) {
	if s.eventPublisher == nil {
		aggregate.ClearDomainEvents()
		return
	}
	events := aggregate.GetDomainEvents()
	if len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
	}
	aggregate.ClearDomainEvents()
}

// storeCurrency resolves the store's configured currency for price validation
func (s *ProductService) storeCurrency(ctx context.Context, storeID uuid.UUID) (valueobject.Currency, error) {
	settings, err := s.settingsRepo.FindByStoreID(ctx, storeID)
	if err != nil {
		return "", err
	}
	return settings.Currency, nil
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, storeID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	st, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	productCount, err := s.productRepo.CountForStore(ctx, storeID, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	if err := st.CanAddProduct(productCount); err != nil {
		return nil, err
	}

	exists, err := s.productRepo.ExistsBySlug(ctx, storeID, req.Slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this slug already exists")
	}

	exists, err = s.productRepo.ExistsBySKU(ctx, storeID, req.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this SKU already exists")
	}

	if req.CategoryID != nil {
		_, err = s.categoryRepo.FindByIDForStore(ctx, storeID, *req.CategoryID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_CATEGORY", "Category not found")
			}
			return nil, err
		}
	}

	currency, err := s.storeCurrency(ctx, storeID)
	if err != nil {
		return nil, err
	}
	price, err := valueobject.NewMoney(req.Price, currency)
	if err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(storeID, req.Name, req.Slug, req.SKU, price)
	if err != nil {
		return nil, err
	}

	if req.ShortDescription != "" || req.Description != "" || req.Brand != "" {
		if err := product.Update(req.Name, req.ShortDescription, req.Description, req.Brand); err != nil {
			return nil, err
		}
	}
	if req.Barcode != "" {
		if err := product.SetBarcode(req.Barcode); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil {
		product.SetCategory(req.CategoryID)
	}
	if len(req.Tags) > 0 {
		product.SetTags(req.Tags)
	}
	if req.ComparePrice != nil || req.CostPrice != nil {
		if err := product.SetPricing(price, req.ComparePrice, req.CostPrice); err != nil {
			return nil, err
		}
	}
	if req.IsDigital {
		product.MarkDigital(true)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID within a store
func (s *ProductService) GetByID(ctx context.Context, storeID, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForStore(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// GetBySlug retrieves a product by slug, used by the storefront
func (s *ProductService) GetBySlug(ctx context.Context, storeID uuid.UUID, slug string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySlug(ctx, storeID, slug)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, storeID uuid.UUID, filter ProductListFilter) ([]ProductListResponse, int64, error) {
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
	if filter.CategoryID != nil {
		domainFilter.Filters["category_id"] = *filter.CategoryID
	}
	if filter.Brand != "" {
		domainFilter.Filters["brand"] = filter.Brand
	}
	if filter.Featured != nil {
		domainFilter.Filters["is_featured"] = *filter.Featured
	}
	if filter.InStock != nil {
		domainFilter.Filters["in_stock"] = *filter.InStock
	}
	if filter.MinPrice != nil {
		domainFilter.Filters["min_price"] = *filter.MinPrice
	}
	if filter.MaxPrice != nil {
		domainFilter.Filters["max_price"] = *filter.MaxPrice
	}

	products, err := s.productRepo.FindAllForStore(ctx, storeID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.CountForStore(ctx, storeID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductListResponses(products), total, nil
}

// ListFeatured returns featured active products for the storefront
func (s *ProductService) ListFeatured(ctx context.Context, storeID uuid.UUID, limit int) ([]ProductListResponse, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	products, err := s.productRepo.FindFeatured(ctx, storeID, limit)
	if err != nil {
		return nil, err
	}
	return ToProductListResponses(products), nil
}

// ListLowStock returns tracked products at or below their low stock threshold
func (s *ProductService) ListLowStock(ctx context.Context, storeID uuid.UUID) ([]ProductListResponse, error) {
	products, err := s.productRepo.FindLowStock(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return ToProductListResponses(products), nil
}

// Update updates a product's descriptive fields, category, tags and pricing
func (s *ProductService) Update(ctx context.Context, storeID, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForStore(ctx, storeID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.ShortDescription != nil || req.Description != nil || req.Brand != nil {
		name := product.Name
		if req.Name != nil {
			name = *req.Name
		}
		short := product.ShortDescription
		if req.ShortDescription != nil {
			short = *req.ShortDescription
		}
		description := product.Description
		if req.Description != nil {
			description = *req.Description
		}
		brand := product.Brand
		if req.Brand != nil {
			brand = *req.Brand
		}
		if err := product.Update(name, short, description, brand); err != nil {
			return nil, err
		}
	}

	if req.Barcode != nil {
		if err := product.SetBarcode(*req.Barcode); err != nil {
			return nil, err
		}
	}

	if req.CategoryID != nil {
		_, err = s.categoryRepo.FindByIDForStore(ctx, storeID, *req.CategoryID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_CATEGORY", "Category not found")
			}
			return nil, err
		}
		product.SetCategory(req.CategoryID)
	}

	if req.Tags != nil {
		product.SetTags(req.Tags)
	}

	if req.Price != nil || req.ComparePrice != nil || req.CostPrice != nil {
		currency, err := s.storeCurrency(ctx, storeID)
		if err != nil {
			return nil, err
		}
		priceAmount := product.Price
		if req.Price != nil {
			priceAmount = *req.Price
		}
		price, err := valueobject.NewMoney(priceAmount, currency)
		if err != nil {
			return nil, err
		}
		comparePrice := product.ComparePrice
		if req.ComparePrice != nil {
			comparePrice = req.ComparePrice
		}
		costPrice := product.CostPrice
		if req.CostPrice != nil {
			costPrice = req.CostPrice
		}
		if err := product.SetPricing(price, comparePrice, costPrice); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// UpdateInventory adjusts stock tracking rules and the absolute quantity
func (s *ProductService) UpdateInventory(ctx context.Context, storeID, id uuid.UUID, req UpdateInventoryRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForStore(ctx, storeID, id)
	if err != nil {
		return nil, err
	}

	if req.TrackInventory != nil || req.AllowBackorders != nil || req.LowStockThreshold != nil {
		track := product.TrackInventory
		if req.TrackInventory != nil {
			track = *req.TrackInventory
		}
		backorders := product.AllowBackorders
		if req.AllowBackorders != nil {
			backorders = *req.AllowBackorders
		}
		threshold := product.LowStockThreshold
		if req.LowStockThreshold != nil {
			threshold = *req.LowStockThreshold
		}
		if err := product.SetInventoryRules(track, backorders, threshold); err != nil {
			return nil, err
		}
	}

	if req.Quantity != nil {
		if err := product.SetInventoryQuantity(*req.Quantity); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// SetVariants replaces the product's variant matrix
func (s *ProductService) SetVariants(ctx context.Context, storeID, id uuid.UUID, req SetVariantsRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForStore(ctx, storeID, id)
	if err != nil {
		return nil, err
	}

	variants := make([]catalog.ProductVariant, len(req.Variants))
	for i, v := range req.Variants {
		variants[i] = catalog.ProductVariant{
			SKU:      v.SKU,
			Options:  v.Options,
			Price:    v.Price,
			Quantity: v.Quantity,
			ImageURL: v.ImageURL,
		}
	}

	if err := product.SetVariants(req.Options, variants); err != nil {
		return nil, err
	}
	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// SetImages replaces the product's image gallery
func (s *ProductService) SetImages(ctx context.Context, storeID, id uuid.UUID, req SetImagesRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForStore(ctx, storeID, id)
	if err != nil {
		return nil, err
	}

	images := make([]catalog.ProductImage, len(req.Images))
	for i, img := range req.Images {
		images[i] = catalog.ProductImage{URL: img.URL, AltText: img.AltText, Position: img.Position}
	}

	if err := product.SetImages(req.FeaturedImage, images); err != nil {
		return nil, err
	}
	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// SetSEO updates the product's meta tags
func (s *ProductService) SetSEO(ctx context.Context, storeID, id uuid.UUID, req SetSEORequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForStore(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if err := product.SetSEO(req.MetaTitle, req.MetaDescription); err != nil {
		return nil, err
	}
	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// SetShipping updates the product's shipping attributes
func (s *ProductService) SetShipping(ctx context.Context, storeID, id uuid.UUID, req SetShippingRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForStore(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if err := product.SetShipping(req.RequiresShipping, req.FreeShipping, req.WeightKG, req.LengthCM, req.WidthCM, req.HeightCM); err != nil {
		return nil, err
	}
	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// SetFeatured toggles the product's featured flag
func (s *ProductService) SetFeatured(ctx context.Context, storeID, id uuid.UUID, featured bool) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForStore(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	product.SetFeatured(featured)
	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// Publish makes the product visible on the storefront
func (s *ProductService) Publish(ctx context.Context, storeID, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForStore(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if err := product.Publish(); err != nil {
		return nil, err
	}
	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// Unpublish hides the product from the storefront
func (s *ProductService) Unpublish(ctx context.Context, storeID, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForStore(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if err := product.Unpublish(); err != nil {
		return nil, err
	}
	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// Archive retires the product permanently
func (s *ProductService) Archive(ctx context.Context, storeID, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForStore(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if err := product.Archive(); err != nil {
		return nil, err
	}
	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// BulkUpdate applies one price and/or status change to a batch of products.
// Products that reject the change are reported, not rolled back.
func (s *ProductService) BulkUpdate(ctx context.Context, storeID uuid.UUID, req BulkUpdateProductsRequest) (*BulkUpdateProductsResponse, error) {
	if req.Price == nil && req.Status == nil {
		return nil, shared.NewDomainError("EMPTY_BULK_UPDATE", "Bulk update requires a price or status change")
	}

	var currency valueobject.Currency
	if req.Price != nil {
		var err error
		currency, err = s.storeCurrency(ctx, storeID)
		if err != nil {
			return nil, err
		}
	}

	products, err := s.productRepo.FindByIDs(ctx, storeID, req.ProductIDs)
	if err != nil {
		return nil, err
	}
	found := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		found[products[i].ID] = &products[i]
	}

	resp := &BulkUpdateProductsResponse{}
	for _, id := range req.ProductIDs {
		product, ok := found[id]
		if !ok {
			resp.Failures = append(resp.Failures, BulkUpdateFailure{ProductID: id, Reason: "Product not found"})
			continue
		}
		if err := s.applyBulkChange(product, req, currency); err != nil {
			resp.Failures = append(resp.Failures, BulkUpdateFailure{ProductID: id, Reason: err.Error()})
			continue
		}
		if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
			resp.Failures = append(resp.Failures, BulkUpdateFailure{ProductID: id, Reason: err.Error()})
			continue
		}
		s.publishDomainEvents(ctx, product)
		resp.Updated++
	}
	return resp, nil
}

func (s *ProductService) applyBulkChange(product *catalog.Product, req BulkUpdateProductsRequest, currency valueobject.Currency) error {
	if req.Price != nil {
		price, err := valueobject.NewMoney(*req.Price, currency)
		if err != nil {
			return err
		}
		if err := product.SetPricing(price, product.ComparePrice, product.CostPrice); err != nil {
			return err
		}
	}
	if req.Status != nil && string(product.Status) != *req.Status {
		switch catalog.ProductStatus(*req.Status) {
		case catalog.ProductStatusActive:
			return product.Publish()
		case catalog.ProductStatusInactive:
			return product.Unpublish()
		case catalog.ProductStatusArchived:
			return product.Archive()
		}
	}
	return nil
}

// Delete deletes a product within a store
func (s *ProductService) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	if _, err := s.productRepo.FindByIDForStore(ctx, storeID, id); err != nil {
		return err
	}
	return s.productRepo.DeleteForStore(ctx, storeID, id)
}
