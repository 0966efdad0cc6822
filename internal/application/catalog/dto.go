package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/multistore/backend/internal/domain/catalog"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name             string           `json:"name" binding:"required,min=1,max=255"`
	Slug             string           `json:"slug" binding:"required,min=1,max=300"`
	SKU              string           `json:"sku" binding:"required,min=1,max=100"`
	Price            decimal.Decimal  `json:"price" binding:"required"`
	ComparePrice     *decimal.Decimal `json:"compare_price"`
	CostPrice        *decimal.Decimal `json:"cost_price"`
	ShortDescription string           `json:"short_description" binding:"max=500"`
	Description      string           `json:"description"`
	Brand            string           `json:"brand" binding:"max=100"`
	Barcode          string           `json:"barcode" binding:"max=50"`
	CategoryID       *uuid.UUID       `json:"category_id"`
	Tags             []string         `json:"tags"`
	IsDigital        bool             `json:"is_digital"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name             *string          `json:"name" binding:"omitempty,min=1,max=255"`
	ShortDescription *string          `json:"short_description" binding:"omitempty,max=500"`
	Description      *string          `json:"description"`
	Brand            *string          `json:"brand" binding:"omitempty,max=100"`
	Barcode          *string          `json:"barcode" binding:"omitempty,max=50"`
	CategoryID       *uuid.UUID       `json:"category_id"`
	Tags             []string         `json:"tags"`
	Price            *decimal.Decimal `json:"price"`
	ComparePrice     *decimal.Decimal `json:"compare_price"`
	CostPrice        *decimal.Decimal `json:"cost_price"`
}

// UpdateInventoryRequest adjusts stock tracking and quantity
type UpdateInventoryRequest struct {
	TrackInventory    *bool `json:"track_inventory"`
	AllowBackorders   *bool `json:"allow_backorders"`
	LowStockThreshold *int  `json:"low_stock_threshold" binding:"omitempty,min=0"`
	Quantity          *int  `json:"quantity" binding:"omitempty,min=0"`
}

// VariantRequest represents one variant row in a variant update
type VariantRequest struct {
	SKU      string            `json:"sku" binding:"required,min=1,max=100"`
	Options  map[string]string `json:"options" binding:"required"`
	Price    *decimal.Decimal  `json:"price"`
	Quantity int               `json:"quantity" binding:"min=0"`
	ImageURL string            `json:"image_url"`
}

// SetVariantsRequest replaces a product's variant matrix
type SetVariantsRequest struct {
	Options  []string         `json:"options" binding:"required,min=1"`
	Variants []VariantRequest `json:"variants" binding:"required,min=1"`
}

// ImageRequest represents one image row in an image update
type ImageRequest struct {
	URL      string `json:"url" binding:"required,max=500"`
	AltText  string `json:"alt_text" binding:"max=255"`
	Position int    `json:"position" binding:"min=0"`
}

// SetImagesRequest replaces a product's image gallery
type SetImagesRequest struct {
	FeaturedImage string         `json:"featured_image" binding:"max=500"`
	Images        []ImageRequest `json:"images"`
}

// SetSEORequest updates product meta tags
type SetSEORequest struct {
	MetaTitle       string `json:"meta_title" binding:"max=60"`
	MetaDescription string `json:"meta_description" binding:"max=160"`
}

// SetShippingRequest updates product shipping attributes
type SetShippingRequest struct {
	RequiresShipping bool             `json:"requires_shipping"`
	FreeShipping     bool             `json:"free_shipping"`
	WeightKG         *decimal.Decimal `json:"weight_kg"`
	LengthCM         *decimal.Decimal `json:"length_cm"`
	WidthCM          *decimal.Decimal `json:"width_cm"`
	HeightCM         *decimal.Decimal `json:"height_cm"`
}

// BulkUpdateProductsRequest applies one price and/or status change to many products
type BulkUpdateProductsRequest struct {
	ProductIDs []uuid.UUID      `json:"product_ids" binding:"required,min=1,max=100"`
	Price      *decimal.Decimal `json:"price"`
	Status     *string          `json:"status" binding:"omitempty,oneof=active inactive archived"`
}

// BulkUpdateFailure reports one product that could not be updated
type BulkUpdateFailure struct {
	ProductID uuid.UUID `json:"product_id"`
	Reason    string    `json:"reason"`
}

// BulkUpdateProductsResponse summarizes a bulk update
type BulkUpdateProductsResponse struct {
	Updated  int                 `json:"updated"`
	Failures []BulkUpdateFailure `json:"failures,omitempty"`
}

// ProductListFilter represents filter options for product list
type ProductListFilter struct {
	Search     string           `form:"search"`
	Status     string           `form:"status" binding:"omitempty,oneof=draft active inactive archived"`
	CategoryID *uuid.UUID       `form:"category_id"`
	Brand      string           `form:"brand"`
	Featured   *bool            `form:"featured"`
	InStock    *bool            `form:"in_stock"`
	MinPrice   *decimal.Decimal `form:"min_price"`
	MaxPrice   *decimal.Decimal `form:"max_price"`
	Page       int              `form:"page" binding:"omitempty,min=1"`
	PageSize   int              `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string           `form:"order_by"`
	OrderDir   string           `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// VariantResponse represents a product variant in API responses
type VariantResponse struct {
	SKU      string            `json:"sku"`
	Title    string            `json:"title"`
	Options  map[string]string `json:"options"`
	Price    *decimal.Decimal  `json:"price,omitempty"`
	Quantity int               `json:"quantity"`
	ImageURL string            `json:"image_url,omitempty"`
}

// ImageResponse represents a product image in API responses
type ImageResponse struct {
	URL      string `json:"url"`
	AltText  string `json:"alt_text,omitempty"`
	Position int    `json:"position"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID                uuid.UUID         `json:"id"`
	StoreID           uuid.UUID         `json:"store_id"`
	Name              string            `json:"name"`
	Slug              string            `json:"slug"`
	SKU               string            `json:"sku"`
	Barcode           string            `json:"barcode,omitempty"`
	ShortDescription  string            `json:"short_description"`
	Description       string            `json:"description"`
	Brand             string            `json:"brand,omitempty"`
	CategoryID        *uuid.UUID        `json:"category_id"`
	Tags              []string          `json:"tags"`
	Price             decimal.Decimal   `json:"price"`
	ComparePrice      *decimal.Decimal  `json:"compare_price,omitempty"`
	CostPrice         *decimal.Decimal  `json:"cost_price,omitempty"`
	TrackInventory    bool              `json:"track_inventory"`
	InventoryQuantity int               `json:"inventory_quantity"`
	LowStockThreshold int               `json:"low_stock_threshold"`
	AllowBackorders   bool              `json:"allow_backorders"`
	LowStock          bool              `json:"low_stock"`
	FeaturedImage     string            `json:"featured_image"`
	Images            []ImageResponse   `json:"images"`
	HasVariants       bool              `json:"has_variants"`
	VariantOptions    []string          `json:"variant_options"`
	Variants          []VariantResponse `json:"variants"`
	Status            string            `json:"status"`
	IsFeatured        bool              `json:"is_featured"`
	IsDigital         bool              `json:"is_digital"`
	PublishedAt       *time.Time        `json:"published_at,omitempty"`
	MetaTitle         string            `json:"meta_title,omitempty"`
	MetaDescription   string            `json:"meta_description,omitempty"`
	RequiresShipping  bool              `json:"requires_shipping"`
	FreeShipping      bool              `json:"free_shipping"`
	WeightKG          *decimal.Decimal  `json:"weight_kg,omitempty"`
	TotalSales        int               `json:"total_sales"`
	TotalRevenue      decimal.Decimal   `json:"total_revenue"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	Version           int               `json:"version"`
}

// ProductListResponse represents a list item for products
type ProductListResponse struct {
	ID                uuid.UUID        `json:"id"`
	Name              string           `json:"name"`
	Slug              string           `json:"slug"`
	SKU               string           `json:"sku"`
	CategoryID        *uuid.UUID       `json:"category_id"`
	Price             decimal.Decimal  `json:"price"`
	ComparePrice      *decimal.Decimal `json:"compare_price,omitempty"`
	FeaturedImage     string           `json:"featured_image"`
	Status            string           `json:"status"`
	IsFeatured        bool             `json:"is_featured"`
	InventoryQuantity int              `json:"inventory_quantity"`
	LowStock          bool             `json:"low_stock"`
	HasVariants       bool             `json:"has_variants"`
	CreatedAt         time.Time        `json:"created_at"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	images := make([]ImageResponse, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, ImageResponse{URL: img.URL, AltText: img.AltText, Position: img.Position})
	}
	variants := make([]VariantResponse, 0, len(p.Variants))
	for _, v := range p.Variants {
		variants = append(variants, VariantResponse{
			SKU:      v.SKU,
			Title:    v.Title(),
			Options:  v.Options,
			Price:    v.Price,
			Quantity: v.Quantity,
			ImageURL: v.ImageURL,
		})
	}

	return ProductResponse{
		ID:                p.ID,
		StoreID:           p.StoreID,
		Name:              p.Name,
		Slug:              p.Slug,
		SKU:               p.SKU,
		Barcode:           p.Barcode,
		ShortDescription:  p.ShortDescription,
		Description:       p.Description,
		Brand:             p.Brand,
		CategoryID:        p.CategoryID,
		Tags:              p.Tags,
		Price:             p.Price,
		ComparePrice:      p.ComparePrice,
		CostPrice:         p.CostPrice,
		TrackInventory:    p.TrackInventory,
		InventoryQuantity: p.InventoryQuantity,
		LowStockThreshold: p.LowStockThreshold,
		AllowBackorders:   p.AllowBackorders,
		LowStock:          p.IsLowStock(),
		FeaturedImage:     p.FeaturedImage,
		Images:            images,
		HasVariants:       p.HasVariants,
		VariantOptions:    p.VariantOptions,
		Variants:          variants,
		Status:            string(p.Status),
		IsFeatured:        p.IsFeatured,
		IsDigital:         p.IsDigital,
		PublishedAt:       p.PublishedAt,
		MetaTitle:         p.MetaTitle,
		MetaDescription:   p.MetaDescription,
		RequiresShipping:  p.RequiresShipping,
		FreeShipping:      p.FreeShipping,
		WeightKG:          p.WeightKG,
		TotalSales:        p.TotalSales,
		TotalRevenue:      p.TotalRevenue,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
		Version:           p.Version,
	}
}

// ToProductListResponse converts a domain Product to ProductListResponse
func ToProductListResponse(p *catalog.Product) ProductListResponse {
	return ProductListResponse{
		ID:                p.ID,
		Name:              p.Name,
		Slug:              p.Slug,
		SKU:               p.SKU,
		CategoryID:        p.CategoryID,
		Price:             p.Price,
		ComparePrice:      p.ComparePrice,
		FeaturedImage:     p.FeaturedImage,
		Status:            string(p.Status),
		IsFeatured:        p.IsFeatured,
		InventoryQuantity: p.InventoryQuantity,
		LowStock:          p.IsLowStock(),
		HasVariants:       p.HasVariants,
		CreatedAt:         p.CreatedAt,
	}
}

// ToProductListResponses converts a slice of domain Products to ProductListResponses
func ToProductListResponses(products []catalog.Product) []ProductListResponse {
	responses := make([]ProductListResponse, len(products))
	for i := range products {
		responses[i] = ToProductListResponse(&products[i])
	}
	return responses
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name        string     `json:"name" binding:"required,min=1,max=100"`
	Slug        string     `json:"slug" binding:"required,min=1,max=150"`
	Description string     `json:"description"`
	ImageURL    string     `json:"image_url" binding:"max=500"`
	ParentID    *uuid.UUID `json:"parent_id"`
	SortOrder   *int       `json:"sort_order"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url" binding:"omitempty,max=500"`
	SortOrder   *int    `json:"sort_order"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID           uuid.UUID  `json:"id"`
	StoreID      uuid.UUID  `json:"store_id"`
	Name         string     `json:"name"`
	Slug         string     `json:"slug"`
	Description  string     `json:"description"`
	ImageURL     string     `json:"image_url"`
	ParentID     *uuid.UUID `json:"parent_id"`
	Level        int        `json:"level"`
	SortOrder    int        `json:"sort_order"`
	Status       string     `json:"status"`
	ProductCount int64      `json:"product_count,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CategoryTreeNode represents a category with its nested children
type CategoryTreeNode struct {
	CategoryResponse
	Children []CategoryTreeNode `json:"children"`
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		StoreID:     c.StoreID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		ParentID:    c.ParentID,
		Level:       c.Level,
		SortOrder:   c.SortOrder,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ToCategoryResponses converts a slice of domain Categories to CategoryResponses
func ToCategoryResponses(categories []catalog.Category) []CategoryResponse {
	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i])
	}
	return responses
}
