package order

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/multistore/backend/internal/domain/catalog"
	"github.com/multistore/backend/internal/domain/customer"
	"github.com/multistore/backend/internal/domain/order"
	"github.com/multistore/backend/internal/domain/shared"
	"github.com/multistore/backend/internal/domain/shared/valueobject"
	"github.com/multistore/backend/internal/domain/store"
)

// OrderService handles order application logic, from storefront
// checkout through fulfillment and refunds.
type OrderService struct {
	orderRepo      order.OrderRepository
	productRepo    catalog.ProductRepository
	customerRepo   customer.CustomerRepository
	storeRepo      store.StoreRepository
	settingsRepo   store.StoreSettingsRepository
	eventPublisher shared.EventPublisher
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo order.OrderRepository,
	productRepo catalog.ProductRepository,
	customerRepo customer.CustomerRepository,
	storeRepo store.StoreRepository,
	settingsRepo store.StoreSettingsRepository,
	eventPublisher shared.EventPublisher,
) *OrderService {
	return &OrderService{
		orderRepo:      orderRepo,
		productRepo:    productRepo,
		customerRepo:   customerRepo,
		storeRepo:      storeRepo,
		settingsRepo:   settingsRepo,
		eventPublisher: eventPublisher,
	}
}

func (s *OrderService) publishDomainEvents(ctx context.Context, aggregate shared.AggregateRoot) {
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

// Checkout places a new order from the storefront. Stock is reserved
// line by line before the order is persisted; a failed line aborts the
// whole checkout without touching inventory.
func (s *OrderService) Checkout(ctx context.Context, storeID uuid.UUID, req CheckoutRequest) (*OrderResponse, error) {
	st, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return nil, err
	}

	placedThisMonth, err := s.orderRepo.CountPlacedSince(ctx, storeID, startOfMonth(time.Now()))
	if err != nil {
		return nil, err
	}
	if err := st.CanAcceptOrder(placedThisMonth); err != nil {
		return nil, err
	}

	settings, err := s.settingsRepo.FindByStoreID(ctx, storeID)
	if err != nil {
		return nil, err
	}

	cust, err := s.resolveCustomer(ctx, storeID, settings, req)
	if err != nil {
		return nil, err
	}

	orderNumber, err := s.orderRepo.GenerateOrderNumber(ctx, storeID, settings.OrderPrefix)
	if err != nil {
		return nil, err
	}

	billing := req.BillingAddress.ToAddress()
	shipping := billing
	if req.ShippingAddress != nil {
		shipping = req.ShippingAddress.ToAddress()
	}

	var customerID *uuid.UUID
	if cust != nil {
		customerID = &cust.ID
	}

	o, err := order.NewOrder(storeID, orderNumber, uuid.NewString(), customerID,
		req.CustomerEmail, req.CustomerName, req.CustomerPhone, billing, shipping, settings.Currency)
	if err != nil {
		return nil, err
	}
	if cust != nil && cust.IsGuest() {
		o.IsGuestOrder = true
	}

	reserved, err := s.addCheckoutItems(ctx, storeID, o, settings.Currency, req.Items)
	if err != nil {
		return nil, err
	}

	if !settings.DefaultTaxRate.IsZero() {
		if err := o.SetTax(settings.TaxFor(o.GetSubtotalMoney())); err != nil {
			return nil, err
		}
	}

	if req.ShippingMethod != "" || req.ShippingAmount.IsPositive() {
		cost, err := valueobject.NewMoney(req.ShippingAmount, settings.Currency)
		if err != nil {
			return nil, err
		}
		if err := o.SetShipping(req.ShippingMethod, cost); err != nil {
			return nil, err
		}
	}

	total, err := valueobject.NewMoney(o.TotalAmount, settings.Currency)
	if err != nil {
		return nil, err
	}
	if err := settings.ValidateOrderAmount(total); err != nil {
		return nil, err
	}

	if req.PaymentMethod == "cod" {
		o.PaymentMethod = "cod"
	}
	if req.CustomerNotes != "" {
		o.SetNotes(req.CustomerNotes, "")
	}
	if req.Source != "" {
		if err := o.SetSource(req.Source); err != nil {
			return nil, err
		}
	}

	if settings.AutoAcceptOrders {
		if err := o.Confirm(); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	for _, p := range reserved {
		if err := s.productRepo.SaveWithLock(ctx, p); err != nil {
			return nil, err
		}
		s.publishDomainEvents(ctx, p)
	}

	s.publishDomainEvents(ctx, o)

	response := ToOrderResponse(o)
	return &response, nil
}

// resolveCustomer looks up the customer by email, creating a guest
// record when the store allows guest checkout.
func (s *OrderService) resolveCustomer(ctx context.Context, storeID uuid.UUID, settings *store.StoreSettings, req CheckoutRequest) (*customer.Customer, error) {
	cust, err := s.customerRepo.FindByEmail(ctx, storeID, req.CustomerEmail)
	if err == nil {
		return cust, nil
	}
	if err != shared.ErrNotFound {
		return nil, err
	}

	if !settings.AllowGuestOrders {
		return nil, shared.NewDomainError("GUEST_CHECKOUT_DISABLED", "This store requires an account to place orders")
	}

	firstName, lastName := splitName(req.CustomerName)
	guest, err := customer.NewGuestCustomer(storeID, req.CustomerEmail, firstName, lastName)
	if err != nil {
		return nil, err
	}
	if req.CustomerPhone != "" {
		if err := guest.Update(firstName, lastName, req.CustomerPhone); err != nil {
			return nil, err
		}
	}
	if err := s.customerRepo.Save(ctx, guest); err != nil {
		return nil, err
	}
	return guest, nil
}

// addCheckoutItems validates each cart line, reserves stock and adds
// the snapshot to the order. Returns the products whose stock was
// touched so the caller can persist them after the order is saved.
func (s *OrderService) addCheckoutItems(ctx context.Context, storeID uuid.UUID, o *order.Order, currency valueobject.Currency, items []CheckoutItem) ([]*catalog.Product, error) {
	reserved := make([]*catalog.Product, 0, len(items))
	for _, line := range items {
		p, err := s.productRepo.FindByIDForStore(ctx, storeID, line.ProductID)
		if err != nil {
			if err == shared.ErrNotFound {
				return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE", "One or more products are no longer available")
			}
			return nil, err
		}
		if !p.IsActive() {
			return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE", "One or more products are no longer available")
		}
		if !p.IsInStock(line.VariantSKU, line.Quantity) {
			return nil, shared.ErrOutOfStock
		}

		unitPrice, err := valueobject.NewMoney(p.VariantPrice(line.VariantSKU), currency)
		if err != nil {
			return nil, err
		}

		variantOptions := map[string]string(nil)
		imageURL := p.FeaturedImage
		if line.VariantSKU != "" {
			v := p.Variants.Find(line.VariantSKU)
			if v == nil {
				return nil, shared.NewDomainError("VARIANT_NOT_FOUND", "Variant does not exist")
			}
			variantOptions = v.Options
			if v.ImageURL != "" {
				imageURL = v.ImageURL
			}
		}

		if _, err := o.AddItem(p.ID, p.Name, p.SKU, line.VariantSKU, variantOptions, line.Quantity, unitPrice, imageURL); err != nil {
			return nil, err
		}
		if err := p.ReserveStock(line.VariantSKU, line.Quantity); err != nil {
			return nil, err
		}
		reserved = append(reserved, p)
	}
	return reserved, nil
}

// GetByID gets an order by ID within a store
func (s *OrderService) GetByID(ctx context.Context, storeID, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByIDForStore(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// GetByOrderNumber gets an order by its number within a store
func (s *OrderService) GetByOrderNumber(ctx context.Context, storeID uuid.UUID, orderNumber string) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByOrderNumber(ctx, storeID, orderNumber)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// TrackByToken gets an order by its guest access token. The token is
// the only credential a guest holds, so no store scoping is applied.
func (s *OrderService) TrackByToken(ctx context.Context, token string) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// List lists orders for a store with filtering
func (s *OrderService) List(ctx context.Context, storeID uuid.UUID, filter OrderListFilter) ([]OrderListResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Search:   filter.Search,
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.PaymentStatus != "" {
		domainFilter.Filters["payment_status"] = filter.PaymentStatus
	}
	if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}
	if filter.DateFrom != nil {
		domainFilter.Filters["date_from"] = *filter.DateFrom
	}
	if filter.DateTo != nil {
		domainFilter.Filters["date_to"] = *filter.DateTo
	}

	orders, err := s.orderRepo.FindAllForStore(ctx, storeID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.CountForStore(ctx, storeID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToOrderListResponses(orders), total, nil
}

// ListByCustomer lists orders placed by a customer
func (s *OrderService) ListByCustomer(ctx context.Context, storeID, customerID uuid.UUID, filter OrderListFilter) ([]OrderListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}

	orders, err := s.orderRepo.FindByCustomer(ctx, storeID, customerID, domainFilter)
	if err != nil {
		return nil, err
	}
	return ToOrderListResponses(orders), nil
}

// Confirm accepts a pending order
func (s *OrderService) Confirm(ctx context.Context, storeID, id uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, storeID, id, func(o *order.Order) error {
		return o.Confirm()
	})
}

// StartProcessing moves a confirmed order into fulfillment
func (s *OrderService) StartProcessing(ctx context.Context, storeID, id uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, storeID, id, func(o *order.Order) error {
		return o.StartProcessing()
	})
}

// MarkPaid records a successful payment against an order. Replays of
// the same transaction ID are acknowledged without a second write.
func (s *OrderService) MarkPaid(ctx context.Context, storeID, id uuid.UUID, gateway, method, transactionID, reference string) (*OrderResponse, error) {
	if transactionID != "" {
		existing, err := s.orderRepo.FindByTransactionID(ctx, transactionID)
		if err == nil {
			if existing.ID == id {
				response := ToOrderResponse(existing)
				return &response, nil
			}
			// The gateway transaction already settled a different order.
			return nil, shared.NewDomainError("TRANSACTION_ALREADY_USED", "Transaction is already recorded against another order")
		}
		if err != shared.ErrNotFound {
			return nil, err
		}
	}

	o, err := s.orderRepo.FindByIDForStore(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if err := o.MarkPaid(gateway, method, transactionID, reference); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}

	s.recordCustomerOrder(ctx, storeID, o)
	s.publishDomainEvents(ctx, o)

	response := ToOrderResponse(o)
	return &response, nil
}

// MarkPaymentFailed records a failed payment attempt
func (s *OrderService) MarkPaymentFailed(ctx context.Context, storeID, id uuid.UUID, reason string) (*OrderResponse, error) {
	return s.transition(ctx, storeID, id, func(o *order.Order) error {
		return o.MarkPaymentFailed(reason)
	})
}

// RetryPayment resets a failed payment so the customer can try again
func (s *OrderService) RetryPayment(ctx context.Context, storeID, id uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, storeID, id, func(o *order.Order) error {
		return o.RetryPayment()
	})
}

// Ship records shipment details for an order
func (s *OrderService) Ship(ctx context.Context, storeID, id uuid.UUID, req ShipOrderRequest) (*OrderResponse, error) {
	return s.transition(ctx, storeID, id, func(o *order.Order) error {
		return o.Ship(req.Partner, req.Method, req.TrackingNumber, req.TrackingURL, req.ExpectedDelivery)
	})
}

// MarkDelivered completes fulfillment of a shipped order
func (s *OrderService) MarkDelivered(ctx context.Context, storeID, id uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, storeID, id, func(o *order.Order) error {
		return o.MarkDelivered()
	})
}

// Cancel cancels an order and restores any reserved stock
func (s *OrderService) Cancel(ctx context.Context, storeID, id uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByIDForStore(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if err := o.Cancel(req.Reason); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}

	s.restoreStock(ctx, storeID, o)
	s.publishDomainEvents(ctx, o)

	response := ToOrderResponse(o)
	return &response, nil
}

// Refund records a refund against an order. A full refund of a
// delivered order also restores stock.
func (s *OrderService) Refund(ctx context.Context, storeID, id uuid.UUID, req RefundOrderRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByIDForStore(ctx, storeID, id)
	if err != nil {
		return nil, err
	}

	amount, err := valueobject.NewMoney(req.Amount, o.Currency)
	if err != nil {
		return nil, err
	}
	if err := o.RecordRefund(amount, req.Reference); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}

	if o.Status == order.OrderStatusRefunded {
		s.restoreStock(ctx, storeID, o)
	}
	s.publishDomainEvents(ctx, o)

	response := ToOrderResponse(o)
	return &response, nil
}

// UpdateNotes sets customer and admin notes on an order
func (s *OrderService) UpdateNotes(ctx context.Context, storeID, id uuid.UUID, req UpdateNotesRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByIDForStore(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	o.SetNotes(req.CustomerNotes, req.AdminNotes)
	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// CancelStalePending cancels unpaid pending orders older than the
// cutoff. Used by the scheduler to release reserved stock.
func (s *OrderService) CancelStalePending(ctx context.Context, olderThan time.Duration, limit int) (int, error) {
	cutoff := time.Now().Add(-olderThan)
	stale, err := s.orderRepo.FindStalePending(ctx, cutoff, limit)
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for i := range stale {
		o := &stale[i]
		if err := o.Cancel("Payment not completed"); err != nil {
			continue
		}
		if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
			continue
		}
		s.restoreStock(ctx, o.StoreID, o)
		s.publishDomainEvents(ctx, o)
		cancelled++
	}
	return cancelled, nil
}

// transition applies a domain state change and saves with locking
func (s *OrderService) transition(ctx context.Context, storeID, id uuid.UUID, fn func(*order.Order) error) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByIDForStore(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(o); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, o)

	response := ToOrderResponse(o)
	return &response, nil
}

// restoreStock returns reserved inventory for every line of the order.
// Failures are tolerated; the restock is advisory, not transactional.
func (s *OrderService) restoreStock(ctx context.Context, storeID uuid.UUID, o *order.Order) {
	for i := range o.Items {
		productID, variantSKU := o.Items[i].StockKey()
		p, err := s.productRepo.FindByIDForStore(ctx, storeID, productID)
		if err != nil {
			continue
		}
		if err := p.RestoreStock(variantSKU, o.Items[i].Quantity); err != nil {
			continue
		}
		_ = s.productRepo.SaveWithLock(ctx, p)
	}
}

// recordCustomerOrder updates lifetime purchase stats after payment
func (s *OrderService) recordCustomerOrder(ctx context.Context, storeID uuid.UUID, o *order.Order) {
	if o.CustomerID == nil {
		return
	}
	cust, err := s.customerRepo.FindByIDForStore(ctx, storeID, *o.CustomerID)
	if err != nil {
		return
	}
	cust.RecordOrder(o.TotalAmount, time.Now())
	_ = s.customerRepo.Save(ctx, cust)
}

func splitName(full string) (first, last string) {
	first = full
	for i := len(full) - 1; i >= 0; i-- {
		if full[i] == ' ' {
			return full[:i], full[i+1:]
		}
	}
	return first, ""
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
