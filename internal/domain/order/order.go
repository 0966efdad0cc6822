package order

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/multistore/backend/internal/domain/shared"
	"github.com/multistore/backend/internal/domain/shared/valueobject"
)

// OptionsMap is a JSON column mapping variant option names to values
type OptionsMap map[string]string

// Value implements driver.Valuer for JSON column storage
func (m OptionsMap) Value() (driver.Value, error) {
	if m == nil {
		m = OptionsMap{}
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for JSON column storage
func (m *OptionsMap) Scan(value any) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("cannot scan %T into OptionsMap", value)
	}
}

// OrderItem is a line item on an order. It snapshots product data at
// the time of purchase so later catalog edits do not alter the order.
type OrderItem struct {
	ID             uuid.UUID       `gorm:"type:char(36);primaryKey"`
	OrderID        uuid.UUID       `gorm:"type:char(36);not null;index"`
	ProductID      uuid.UUID       `gorm:"type:char(36);not null;index"`
	ProductName    string          `gorm:"type:varchar(255);not null"`
	SKU            string          `gorm:"type:varchar(100);not null"`
	VariantSKU     string          `gorm:"type:varchar(100)"`
	VariantOptions OptionsMap      `gorm:"type:json"`
	Quantity       int             `gorm:"not null"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ImageURL       string          `gorm:"type:varchar(500)"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderItem creates a line item snapshotting the product
func NewOrderItem(orderID, productID uuid.UUID, productName, sku, variantSKU string, options map[string]string, quantity int, unitPrice valueobject.Money, imageURL string) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	qty := decimal.NewFromInt(int64(quantity))

	return &OrderItem{
		ID:             uuid.New(),
		OrderID:        orderID,
		ProductID:      productID,
		ProductName:    productName,
		SKU:            sku,
		VariantSKU:     variantSKU,
		VariantOptions: options,
		Quantity:       quantity,
		UnitPrice:      unitPrice.Amount(),
		TotalPrice:     unitPrice.Amount().Mul(qty),
		ImageURL:       imageURL,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// UpdateQuantity changes the quantity and recalculates the line total
func (i *OrderItem) UpdateQuantity(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	i.Quantity = quantity
	i.TotalPrice = i.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	i.UpdatedAt = time.Now()

	return nil
}

// StockKey identifies the inventory pool this line draws from
func (i *OrderItem) StockKey() (productID uuid.UUID, variantSKU string) {
	return i.ProductID, i.VariantSKU
}

// Order is the aggregate root for a customer purchase. Three status
// axes are tracked independently: order lifecycle, payment collection,
// and physical fulfillment.
type Order struct {
	shared.StoreAggregateRoot
	OrderNumber string `gorm:"type:varchar(50);not null;uniqueIndex"`
	OrderToken  string `gorm:"type:varchar(100);not null;index"` // For guest order lookup

	CustomerID    *uuid.UUID `gorm:"type:char(36);index"`
	IsGuestOrder  bool       `gorm:"not null;default:false"`
	CustomerEmail string     `gorm:"type:varchar(200);not null"`
	CustomerName  string     `gorm:"type:varchar(200);not null"`
	CustomerPhone string     `gorm:"type:varchar(20)"`

	BillingAddress  valueobject.Address `gorm:"type:json;not null"`
	ShippingAddress valueobject.Address `gorm:"type:json;not null"`
	SameAsBilling   bool                `gorm:"not null;default:true"`

	Items []OrderItem `gorm:"foreignKey:OrderID"`

	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ShippingAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	Currency valueobject.Currency `gorm:"type:varchar(3);not null;default:'INR'"`

	Status            OrderStatus       `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentStatus     PaymentStatus     `gorm:"type:varchar(20);not null;default:'pending';index"`
	FulfillmentStatus FulfillmentStatus `gorm:"type:varchar(20);not null;default:'unfulfilled'"`

	PaymentMethod        string `gorm:"type:varchar(50)"`
	PaymentGateway       string `gorm:"type:varchar(50)"`
	PaymentTransactionID string `gorm:"type:varchar(100);index"`
	PaymentReference     string `gorm:"type:varchar(100)"`
	RefundedAmount       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	ShippingMethod       string     `gorm:"type:varchar(100)"`
	ShippingPartner      string     `gorm:"type:varchar(50)"`
	TrackingNumber       string     `gorm:"type:varchar(100)"`
	TrackingURL          string     `gorm:"type:varchar(500)"`
	ExpectedDeliveryDate *time.Time

	CouponCode     string          `gorm:"type:varchar(50)"`
	CouponDiscount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	CustomerNotes string `gorm:"type:text"`
	AdminNotes    string `gorm:"type:text"`

	Source string `gorm:"type:varchar(20);not null;default:'website'"` // website, mobile_app, admin, api

	ConfirmedAt  *time.Time
	ShippedAt    *time.Time
	DeliveredAt  *time.Time
	CancelledAt  *time.Time
	CancelReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a pending order with a customer snapshot and addresses
func NewOrder(storeID uuid.UUID, orderNumber, orderToken string, customerID *uuid.UUID, email, name, phone string, billing, shipping valueobject.Address, currency valueobject.Currency) (*Order, error) {
	if orderNumber == "" || len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number must be 1-50 characters")
	}
	if orderToken == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_TOKEN", "Order token cannot be empty")
	}
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Customer email cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if err := billing.Validate(); err != nil {
		return nil, err
	}
	if err := shipping.Validate(); err != nil {
		return nil, err
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Unsupported currency code")
	}

	o := &Order{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		OrderNumber:        orderNumber,
		OrderToken:         orderToken,
		CustomerID:         customerID,
		IsGuestOrder:       customerID == nil,
		CustomerEmail:      email,
		CustomerName:       name,
		CustomerPhone:      phone,
		BillingAddress:     billing,
		ShippingAddress:    shipping,
		SameAsBilling:      billing == shipping,
		Items:              make([]OrderItem, 0),
		Subtotal:           decimal.Zero,
		TaxAmount:          decimal.Zero,
		ShippingAmount:     decimal.Zero,
		DiscountAmount:     decimal.Zero,
		TotalAmount:        decimal.Zero,
		RefundedAmount:     decimal.Zero,
		CouponDiscount:     decimal.Zero,
		Currency:           currency,
		Status:             OrderStatusPending,
		PaymentStatus:      PaymentStatusPending,
		FulfillmentStatus:  FulfillmentStatusUnfulfilled,
		Source:             "website",
	}

	o.AddDomainEvent(NewOrderCreatedEvent(o))

	return o, nil
}

// AddItem adds a line item. Only allowed while the order is pending.
func (o *Order) AddItem(productID uuid.UUID, productName, sku, variantSKU string, options map[string]string, quantity int, unitPrice valueobject.Money, imageURL string) (*OrderItem, error) {
	if o.Status != OrderStatusPending {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-pending order")
	}
	if unitPrice.Currency() != o.Currency {
		return nil, shared.NewDomainError("CURRENCY_MISMATCH", "Item currency does not match order currency")
	}

	// Same product+variant merges into one line
	for idx := range o.Items {
		if o.Items[idx].ProductID == productID && o.Items[idx].VariantSKU == variantSKU {
			if err := o.Items[idx].UpdateQuantity(o.Items[idx].Quantity + quantity); err != nil {
				return nil, err
			}
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return &o.Items[idx], nil
		}
	}

	item, err := NewOrderItem(o.ID, productID, productName, sku, variantSKU, options, quantity, unitPrice, imageURL)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.recalculateTotals()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return item, nil
}

// RemoveItem removes a line item. Only allowed while the order is pending.
func (o *Order) RemoveItem(itemID uuid.UUID) error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a non-pending order")
	}

	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item does not exist")
}

// SetShipping sets the shipping method and cost. Pending orders only.
func (o *Order) SetShipping(method string, cost valueobject.Money) error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Cannot change shipping on a non-pending order")
	}
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Shipping cost cannot be negative")
	}

	o.ShippingMethod = method
	o.ShippingAmount = cost.Amount()
	o.recalculateTotals()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// SetTax sets the tax amount. Pending orders only.
func (o *Order) SetTax(tax valueobject.Money) error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Cannot change tax on a non-pending order")
	}
	if tax.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Tax cannot be negative")
	}

	o.TaxAmount = tax.Amount()
	o.recalculateTotals()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// ApplyCoupon records a coupon discount. Pending orders only.
func (o *Order) ApplyCoupon(code string, discount valueobject.Money) error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Cannot apply coupon to a non-pending order")
	}
	if code == "" || len(code) > 50 {
		return shared.NewDomainError("INVALID_COUPON", "Coupon code must be 1-50 characters")
	}
	if discount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if discount.Amount().GreaterThan(o.Subtotal) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed the subtotal")
	}

	o.CouponCode = code
	o.CouponDiscount = discount.Amount()
	o.DiscountAmount = discount.Amount()
	o.recalculateTotals()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// Confirm moves the order from pending to confirmed.
// Requires at least one item and a positive total.
func (o *Order) Confirm() error {
	if !o.Status.CanTransitionTo(OrderStatusConfirmed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm order in %s status", o.Status))
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot confirm an order without items")
	}
	if o.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Order total must be positive")
	}

	now := time.Now()
	o.Status = OrderStatusConfirmed
	o.ConfirmedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderConfirmedEvent(o))

	return nil
}

// StartProcessing marks the order as being prepared for shipment
func (o *Order) StartProcessing() error {
	if !o.Status.CanTransitionTo(OrderStatusProcessing) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot process order in %s status", o.Status))
	}

	o.Status = OrderStatusProcessing
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// MarkPaid records a successful payment capture
func (o *Order) MarkPaid(gateway, method, transactionID, reference string) error {
	if !o.PaymentStatus.CanTransitionTo(PaymentStatusPaid) {
		return shared.NewDomainError("INVALID_PAYMENT_STATE", fmt.Sprintf("Cannot mark order paid from %s", o.PaymentStatus))
	}
	if transactionID == "" {
		return shared.NewDomainError("INVALID_TRANSACTION", "Transaction ID is required")
	}

	o.PaymentStatus = PaymentStatusPaid
	o.PaymentGateway = gateway
	o.PaymentMethod = method
	o.PaymentTransactionID = transactionID
	o.PaymentReference = reference
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderPaidEvent(o))

	return nil
}

// MarkPaymentFailed records a failed payment attempt
func (o *Order) MarkPaymentFailed(reason string) error {
	if !o.PaymentStatus.CanTransitionTo(PaymentStatusFailed) {
		return shared.NewDomainError("INVALID_PAYMENT_STATE", fmt.Sprintf("Cannot fail payment from %s", o.PaymentStatus))
	}

	o.PaymentStatus = PaymentStatusFailed
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderPaymentFailedEvent(o, reason))

	return nil
}

// RetryPayment resets a failed payment back to pending for another attempt
func (o *Order) RetryPayment() error {
	if o.PaymentStatus != PaymentStatusFailed {
		return shared.NewDomainError("INVALID_PAYMENT_STATE", "Only failed payments can be retried")
	}

	o.PaymentStatus = PaymentStatusPending
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// Ship records the shipment details and marks the order shipped
func (o *Order) Ship(partner, method, trackingNumber, trackingURL string, expectedDelivery *time.Time) error {
	if !o.Status.CanTransitionTo(OrderStatusShipped) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot ship order in %s status", o.Status))
	}
	if o.PaymentStatus != PaymentStatusPaid && o.PaymentMethod != "cod" {
		return shared.NewDomainError("PAYMENT_REQUIRED", "Order must be paid before shipping")
	}
	if trackingNumber == "" {
		return shared.NewDomainError("INVALID_TRACKING", "Tracking number is required")
	}

	now := time.Now()
	o.Status = OrderStatusShipped
	o.ShippingPartner = partner
	if method != "" {
		o.ShippingMethod = method
	}
	o.TrackingNumber = trackingNumber
	o.TrackingURL = trackingURL
	o.ExpectedDeliveryDate = expectedDelivery
	o.FulfillmentStatus = FulfillmentStatusFulfilled
	o.ShippedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderShippedEvent(o))

	return nil
}

// MarkDelivered completes the shipment
func (o *Order) MarkDelivered() error {
	if !o.Status.CanTransitionTo(OrderStatusDelivered) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot deliver order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusDelivered
	o.DeliveredAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderDeliveredEvent(o))

	return nil
}

// Cancel cancels the order before shipment. If stock was reserved the
// application service restores it; if payment was captured a refund is
// initiated separately.
func (o *Order) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	wasPaid := o.PaymentStatus == PaymentStatusPaid
	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderCancelledEvent(o, wasPaid))

	return nil
}

// RecordRefund applies a refund amount against the captured payment
func (o *Order) RecordRefund(amount valueobject.Money, reference string) error {
	if o.PaymentStatus != PaymentStatusPaid && o.PaymentStatus != PaymentStatusPartiallyRefunded {
		return shared.NewDomainError("INVALID_PAYMENT_STATE", "Only captured payments can be refunded")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Refund amount must be positive")
	}

	newTotal := o.RefundedAmount.Add(amount.Amount())
	if newTotal.GreaterThan(o.TotalAmount) {
		return shared.NewDomainError("REFUND_EXCEEDS_TOTAL", "Refund cannot exceed the order total")
	}

	o.RefundedAmount = newTotal
	if newTotal.Equal(o.TotalAmount) {
		o.PaymentStatus = PaymentStatusRefunded
		if o.Status == OrderStatusDelivered {
			o.Status = OrderStatusRefunded
			o.FulfillmentStatus = FulfillmentStatusReturned
		}
	} else {
		o.PaymentStatus = PaymentStatusPartiallyRefunded
	}
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderRefundedEvent(o, amount.Amount(), reference))

	return nil
}

// SetNotes sets customer-visible and internal notes
func (o *Order) SetNotes(customerNotes, adminNotes string) {
	o.CustomerNotes = customerNotes
	o.AdminNotes = adminNotes
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// SetSource records which channel placed the order
func (o *Order) SetSource(source string) error {
	switch source {
	case "website", "mobile_app", "admin", "api":
	default:
		return shared.NewDomainError("INVALID_SOURCE", "Invalid order source")
	}
	o.Source = source
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// recalculateTotals recomputes the pricing breakdown
func (o *Order) recalculateTotals() {
	subtotal := decimal.Zero
	for idx := range o.Items {
		subtotal = subtotal.Add(o.Items[idx].TotalPrice)
	}
	o.Subtotal = subtotal

	// Discount cannot exceed the subtotal
	if o.DiscountAmount.GreaterThan(subtotal) {
		o.DiscountAmount = subtotal
		o.CouponDiscount = subtotal
	}

	o.TotalAmount = subtotal.Sub(o.DiscountAmount).Add(o.TaxAmount).Add(o.ShippingAmount)
	if o.TotalAmount.IsNegative() {
		o.TotalAmount = decimal.Zero
	}
}

// GetTotalMoney returns the grand total as Money
func (o *Order) GetTotalMoney() valueobject.Money {
	return valueobject.MustMoney(o.TotalAmount, o.Currency)
}

// GetSubtotalMoney returns the item subtotal as Money
func (o *Order) GetSubtotalMoney() valueobject.Money {
	return valueobject.MustMoney(o.Subtotal, o.Currency)
}

// OutstandingRefundable returns the amount still refundable
func (o *Order) OutstandingRefundable() valueobject.Money {
	return valueobject.MustMoney(o.TotalAmount.Sub(o.RefundedAmount), o.Currency)
}

// ItemCount returns the number of line items
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// TotalQuantity returns the total units across all lines
func (o *Order) TotalQuantity() int {
	total := 0
	for idx := range o.Items {
		total += o.Items[idx].Quantity
	}
	return total
}

// GetItem returns the line item with the given ID, or nil
func (o *Order) GetItem(itemID uuid.UUID) *OrderItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}

// IsPaid returns true once payment has been captured
func (o *Order) IsPaid() bool {
	return o.PaymentStatus == PaymentStatusPaid ||
		o.PaymentStatus == PaymentStatusPartiallyRefunded ||
		o.PaymentStatus == PaymentStatusRefunded
}

// CanModify returns true while items may still be edited
func (o *Order) CanModify() bool {
	return o.Status == OrderStatusPending
}

// IsStale reports whether an unpaid pending order is older than the cutoff
func (o *Order) IsStale(cutoff time.Duration) bool {
	return o.Status == OrderStatusPending &&
		o.PaymentStatus != PaymentStatusPaid &&
		time.Since(o.CreatedAt) > cutoff
}
