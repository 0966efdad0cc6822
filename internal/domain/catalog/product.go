package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/multistore/backend/internal/domain/shared"
	"github.com/multistore/backend/internal/domain/shared/valueobject"
)

// ProductStatus represents the lifecycle status of a product
type ProductStatus string

const (
	ProductStatusDraft    ProductStatus = "draft"
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
	ProductStatusArchived ProductStatus = "archived"
)

// Product represents a sellable item in a store's catalog.
// It is the aggregate root for product-related operations; variants and
// images are owned value collections stored as JSON columns.
type Product struct {
	shared.StoreAggregateRoot
	Name             string     `gorm:"type:varchar(255);not null"`
	Slug             string     `gorm:"type:varchar(300);not null;uniqueIndex:idx_product_store_slug,priority:2"`
	SKU              string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_product_store_sku,priority:2"`
	Barcode          string     `gorm:"type:varchar(50);index"`
	ShortDescription string     `gorm:"type:varchar(500)"`
	Description      string     `gorm:"type:text"`
	Brand            string     `gorm:"type:varchar(100)"`
	CategoryID       *uuid.UUID `gorm:"type:char(36);index"`
	Tags             StringList `gorm:"type:json"`

	Price        decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	ComparePrice *decimal.Decimal `gorm:"type:decimal(12,2)"` // Original price shown struck through
	CostPrice    *decimal.Decimal `gorm:"type:decimal(12,2)"` // For profit reporting

	TrackInventory    bool `gorm:"not null;default:true"`
	InventoryQuantity int  `gorm:"not null;default:0"`
	LowStockThreshold int  `gorm:"not null;default:5"`
	AllowBackorders   bool `gorm:"not null;default:false"`

	WeightKG *decimal.Decimal `gorm:"type:decimal(8,3)"`
	LengthCM *decimal.Decimal `gorm:"type:decimal(8,2)"`
	WidthCM  *decimal.Decimal `gorm:"type:decimal(8,2)"`
	HeightCM *decimal.Decimal `gorm:"type:decimal(8,2)"`

	FeaturedImage string    `gorm:"type:varchar(500)"`
	Images        ImageList `gorm:"type:json"`

	HasVariants    bool        `gorm:"not null;default:false"`
	VariantOptions StringList  `gorm:"type:json"` // Option names, e.g. ["Size","Color"]
	Variants       VariantList `gorm:"type:json"`

	Status      ProductStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	IsFeatured  bool          `gorm:"not null;default:false"`
	IsDigital   bool          `gorm:"not null;default:false"`
	PublishedAt *time.Time

	MetaTitle       string `gorm:"type:varchar(60)"`
	MetaDescription string `gorm:"type:varchar(160)"`

	RequiresShipping bool `gorm:"not null;default:true"`
	FreeShipping     bool `gorm:"not null;default:false"`
	TaxExempt        bool `gorm:"not null;default:false"`

	TotalSales   int             `gorm:"not null;default:0"`
	TotalRevenue decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product in draft status
func NewProduct(storeID uuid.UUID, name, slug, sku string, price valueobject.Money) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validateProductSlug(slug); err != nil {
		return nil, err
	}
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	p := &Product{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Name:               name,
		Slug:               strings.ToLower(strings.TrimSpace(slug)),
		SKU:                strings.ToUpper(strings.TrimSpace(sku)),
		Price:              price.Amount(),
		Status:             ProductStatusDraft,
		TrackInventory:     true,
		LowStockThreshold:  5,
		RequiresShipping:   true,
		Tags:               StringList{},
		Images:             ImageList{},
		VariantOptions:     StringList{},
		Variants:           VariantList{},
		TotalRevenue:       decimal.Zero,
	}

	p.AddDomainEvent(NewProductCreatedEvent(p))

	return p, nil
}

// Update updates the product's descriptive fields
func (p *Product) Update(name, shortDescription, description, brand string) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if len(shortDescription) > 500 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Short description cannot exceed 500 characters")
	}
	if len(brand) > 100 {
		return shared.NewDomainError("INVALID_BRAND", "Brand cannot exceed 100 characters")
	}

	p.Name = name
	p.ShortDescription = shortDescription
	p.Description = description
	p.Brand = brand
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// UpdateSKU changes the product's SKU
// Note: existing orders keep the SKU they were placed with
func (p *Product) UpdateSKU(sku string) error {
	if err := validateSKU(sku); err != nil {
		return err
	}

	p.SKU = strings.ToUpper(strings.TrimSpace(sku))
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetBarcode sets the product barcode
func (p *Product) SetBarcode(barcode string) error {
	if len(barcode) > 50 {
		return shared.NewDomainError("INVALID_BARCODE", "Barcode cannot exceed 50 characters")
	}

	p.Barcode = barcode
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetCategory assigns the product to a category
func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetTags replaces the product's tag list
func (p *Product) SetTags(tags []string) {
	if tags == nil {
		tags = []string{}
	}
	p.Tags = tags
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetPricing updates price, compare-at price, and cost price
func (p *Product) SetPricing(price valueobject.Money, comparePrice, costPrice *decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if comparePrice != nil {
		if comparePrice.IsNegative() {
			return shared.NewDomainError("INVALID_PRICE", "Compare price cannot be negative")
		}
		if comparePrice.LessThan(price.Amount()) {
			return shared.NewDomainError("INVALID_COMPARE_PRICE", "Compare price must be at least the selling price")
		}
	}
	if costPrice != nil && costPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Cost price cannot be negative")
	}

	p.Price = price.Amount()
	p.ComparePrice = comparePrice
	p.CostPrice = costPrice
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductPriceChangedEvent(p))

	return nil
}

// SetInventoryRules configures stock tracking for the product
func (p *Product) SetInventoryRules(track, allowBackorders bool, lowStockThreshold int) error {
	if lowStockThreshold < 0 {
		return shared.NewDomainError("INVALID_THRESHOLD", "Low stock threshold cannot be negative")
	}

	p.TrackInventory = track
	p.AllowBackorders = allowBackorders
	p.LowStockThreshold = lowStockThreshold
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetInventoryQuantity sets the absolute stock level
func (p *Product) SetInventoryQuantity(quantity int) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Inventory quantity cannot be negative")
	}

	p.InventoryQuantity = quantity
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	if p.TrackInventory && quantity <= p.LowStockThreshold {
		p.AddDomainEvent(NewProductLowStockEvent(p, ""))
	}

	return nil
}

// ReserveStock decrements inventory for a placed order.
// Variant SKU may be empty for simple products.
func (p *Product) ReserveStock(variantSKU string, quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if !p.TrackInventory {
		return nil
	}

	if p.HasVariants {
		v := p.Variants.Find(variantSKU)
		if v == nil {
			return shared.NewDomainError("VARIANT_NOT_FOUND", "Variant does not exist")
		}
		if v.Quantity < quantity && !p.AllowBackorders {
			return shared.ErrOutOfStock
		}
		v.Quantity -= quantity
	} else {
		if p.InventoryQuantity < quantity && !p.AllowBackorders {
			return shared.ErrOutOfStock
		}
		p.InventoryQuantity -= quantity
	}

	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	if p.AvailableQuantity(variantSKU) <= p.LowStockThreshold {
		p.AddDomainEvent(NewProductLowStockEvent(p, variantSKU))
	}

	return nil
}

// RestoreStock returns inventory after an order is cancelled or refunded
func (p *Product) RestoreStock(variantSKU string, quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if !p.TrackInventory {
		return nil
	}

	if p.HasVariants {
		v := p.Variants.Find(variantSKU)
		if v == nil {
			return shared.NewDomainError("VARIANT_NOT_FOUND", "Variant does not exist")
		}
		v.Quantity += quantity
	} else {
		p.InventoryQuantity += quantity
	}

	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// AvailableQuantity returns the sellable stock for the product or a variant
func (p *Product) AvailableQuantity(variantSKU string) int {
	if p.HasVariants {
		if v := p.Variants.Find(variantSKU); v != nil {
			return v.Quantity
		}
		return 0
	}
	return p.InventoryQuantity
}

// IsInStock reports whether the requested quantity can be sold
func (p *Product) IsInStock(variantSKU string, quantity int) bool {
	if !p.TrackInventory || p.AllowBackorders {
		return true
	}
	return p.AvailableQuantity(variantSKU) >= quantity
}

// SetVariants replaces the variant set. Option names must be set first.
func (p *Product) SetVariants(options []string, variants []ProductVariant) error {
	if len(variants) == 0 {
		p.HasVariants = false
		p.VariantOptions = StringList{}
		p.Variants = VariantList{}
		p.UpdatedAt = time.Now()
		p.IncrementVersion()
		return nil
	}

	if len(options) == 0 {
		return shared.NewDomainError("INVALID_VARIANTS", "Variant options are required when variants are set")
	}

	seen := make(map[string]bool, len(variants))
	for i := range variants {
		v := &variants[i]
		if err := validateSKU(v.SKU); err != nil {
			return err
		}
		v.SKU = strings.ToUpper(strings.TrimSpace(v.SKU))
		if seen[v.SKU] {
			return shared.NewDomainError("DUPLICATE_VARIANT_SKU", "Variant SKUs must be unique")
		}
		seen[v.SKU] = true
		if v.Price != nil && v.Price.IsNegative() {
			return shared.NewDomainError("INVALID_PRICE", "Variant price cannot be negative")
		}
		if v.Quantity < 0 {
			return shared.NewDomainError("INVALID_QUANTITY", "Variant quantity cannot be negative")
		}
		if len(v.Options) != len(options) {
			return shared.NewDomainError("INVALID_VARIANTS", "Each variant must define a value for every option")
		}
	}

	p.HasVariants = true
	p.VariantOptions = options
	p.Variants = variants
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// VariantPrice returns the effective unit price for a variant SKU
func (p *Product) VariantPrice(variantSKU string) decimal.Decimal {
	if p.HasVariants {
		if v := p.Variants.Find(variantSKU); v != nil && v.Price != nil {
			return *v.Price
		}
	}
	return p.Price
}

// SetImages replaces the product image gallery
func (p *Product) SetImages(featured string, images []ProductImage) error {
	if len(featured) > 500 {
		return shared.NewDomainError("INVALID_URL", "Image URL cannot exceed 500 characters")
	}
	for _, img := range images {
		if img.URL == "" || len(img.URL) > 500 {
			return shared.NewDomainError("INVALID_URL", "Image URL must be 1-500 characters")
		}
	}
	if images == nil {
		images = []ProductImage{}
	}

	p.FeaturedImage = featured
	p.Images = images
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetSEO sets the product's meta tags
func (p *Product) SetSEO(title, description string) error {
	if len(title) > 60 {
		return shared.NewDomainError("INVALID_META", "Meta title cannot exceed 60 characters")
	}
	if len(description) > 160 {
		return shared.NewDomainError("INVALID_META", "Meta description cannot exceed 160 characters")
	}

	p.MetaTitle = title
	p.MetaDescription = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetShipping configures physical shipping attributes
func (p *Product) SetShipping(requiresShipping, freeShipping bool, weightKG, lengthCM, widthCM, heightCM *decimal.Decimal) error {
	for _, d := range []*decimal.Decimal{weightKG, lengthCM, widthCM, heightCM} {
		if d != nil && d.IsNegative() {
			return shared.NewDomainError("INVALID_DIMENSIONS", "Shipping dimensions cannot be negative")
		}
	}

	p.RequiresShipping = requiresShipping
	p.FreeShipping = freeShipping
	p.WeightKG = weightKG
	p.LengthCM = lengthCM
	p.WidthCM = widthCM
	p.HeightCM = heightCM
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// MarkDigital marks the product as digital goods that skip shipping
func (p *Product) MarkDigital(digital bool) {
	p.IsDigital = digital
	if digital {
		p.RequiresShipping = false
	}
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetFeatured toggles storefront featuring
func (p *Product) SetFeatured(featured bool) {
	p.IsFeatured = featured
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Publish makes the product visible on the storefront
func (p *Product) Publish() error {
	if p.Status == ProductStatusArchived {
		return shared.NewDomainError("PRODUCT_ARCHIVED", "Archived products cannot be published")
	}
	if p.Status == ProductStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already published")
	}

	now := time.Now()
	p.Status = ProductStatusActive
	if p.PublishedAt == nil {
		p.PublishedAt = &now
	}
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewProductPublishedEvent(p))

	return nil
}

// Unpublish hides the product from the storefront without archiving it
func (p *Product) Unpublish() error {
	if p.Status != ProductStatusActive {
		return shared.NewDomainError("NOT_ACTIVE", "Only active products can be unpublished")
	}

	p.Status = ProductStatusInactive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Archive retires the product permanently
func (p *Product) Archive() error {
	if p.Status == ProductStatusArchived {
		return shared.NewDomainError("ALREADY_ARCHIVED", "Product is already archived")
	}

	p.Status = ProductStatusArchived
	p.IsFeatured = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// RecordSale accumulates sales counters after an order is paid
func (p *Product) RecordSale(quantity int, revenue decimal.Decimal) {
	p.TotalSales += quantity
	p.TotalRevenue = p.TotalRevenue.Add(revenue)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// IsActive returns true if the product is published
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// IsLowStock returns true if any tracked stock pool is at or below the threshold
func (p *Product) IsLowStock() bool {
	if !p.TrackInventory {
		return false
	}
	if p.HasVariants {
		for i := range p.Variants {
			if p.Variants[i].Quantity <= p.LowStockThreshold {
				return true
			}
		}
		return false
	}
	return p.InventoryQuantity <= p.LowStockThreshold
}

// GetPriceMoney returns the base price as Money in the given currency
func (p *Product) GetPriceMoney(currency valueobject.Currency) valueobject.Money {
	return valueobject.MustMoney(p.Price, currency)
}

// Validation functions

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 255 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 255 characters")
	}
	return nil
}

func validateProductSlug(slug string) error {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return shared.NewDomainError("INVALID_SLUG", "Product slug cannot be empty")
	}
	if len(slug) > 300 {
		return shared.NewDomainError("INVALID_SLUG", "Product slug cannot exceed 300 characters")
	}
	for _, r := range slug {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-') {
			return shared.NewDomainError("INVALID_SLUG", "Product slug can only contain letters, numbers, and hyphens")
		}
	}
	return nil
}

func validateSKU(sku string) error {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 100 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 100 characters")
	}
	return nil
}
