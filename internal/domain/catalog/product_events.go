package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/multistore/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeProduct = "Product"

// Event type constants
const (
	EventTypeProductCreated      = "ProductCreated"
	EventTypeProductUpdated      = "ProductUpdated"
	EventTypeProductPublished    = "ProductPublished"
	EventTypeProductPriceChanged = "ProductPriceChanged"
	EventTypeProductLowStock     = "ProductLowStock"
	EventTypeProductDeleted      = "ProductDeleted"
)

// ProductCreatedEvent is published when a new product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	SKU       string    `json:"sku"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, p.ID, p.StoreID),
		ProductID:       p.ID,
		Name:            p.Name,
		Slug:            p.Slug,
		SKU:             p.SKU,
	}
}

// ProductUpdatedEvent is published when a product is updated
type ProductUpdatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	SKU       string    `json:"sku"`
}

// NewProductUpdatedEvent creates a new ProductUpdatedEvent
func NewProductUpdatedEvent(p *Product) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductUpdated, AggregateTypeProduct, p.ID, p.StoreID),
		ProductID:       p.ID,
		Name:            p.Name,
		SKU:             p.SKU,
	}
}

// ProductPublishedEvent is published when a product goes live on the storefront
type ProductPublishedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
}

// NewProductPublishedEvent creates a new ProductPublishedEvent
func NewProductPublishedEvent(p *Product) *ProductPublishedEvent {
	return &ProductPublishedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductPublished, AggregateTypeProduct, p.ID, p.StoreID),
		ProductID:       p.ID,
		Name:            p.Name,
		Slug:            p.Slug,
	}
}

// ProductPriceChangedEvent is published when a product's pricing changes
type ProductPriceChangedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	SKU       string          `json:"sku"`
	Price     decimal.Decimal `json:"price"`
}

// NewProductPriceChangedEvent creates a new ProductPriceChangedEvent
func NewProductPriceChangedEvent(p *Product) *ProductPriceChangedEvent {
	return &ProductPriceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductPriceChanged, AggregateTypeProduct, p.ID, p.StoreID),
		ProductID:       p.ID,
		SKU:             p.SKU,
		Price:           p.Price,
	}
}

// ProductLowStockEvent is published when tracked stock falls to the threshold
type ProductLowStockEvent struct {
	shared.BaseDomainEvent
	ProductID  uuid.UUID `json:"product_id"`
	Name       string    `json:"name"`
	SKU        string    `json:"sku"`
	VariantSKU string    `json:"variant_sku,omitempty"`
	Remaining  int       `json:"remaining"`
	Threshold  int       `json:"threshold"`
}

// NewProductLowStockEvent creates a new ProductLowStockEvent
func NewProductLowStockEvent(p *Product, variantSKU string) *ProductLowStockEvent {
	return &ProductLowStockEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductLowStock, AggregateTypeProduct, p.ID, p.StoreID),
		ProductID:       p.ID,
		Name:            p.Name,
		SKU:             p.SKU,
		VariantSKU:      variantSKU,
		Remaining:       p.AvailableQuantity(variantSKU),
		Threshold:       p.LowStockThreshold,
	}
}

// ProductDeletedEvent is published when a product is deleted
type ProductDeletedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	SKU       string    `json:"sku"`
}

// NewProductDeletedEvent creates a new ProductDeletedEvent
func NewProductDeletedEvent(p *Product) *ProductDeletedEvent {
	return &ProductDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductDeleted, AggregateTypeProduct, p.ID, p.StoreID),
		ProductID:       p.ID,
		Name:            p.Name,
		SKU:             p.SKU,
	}
}
