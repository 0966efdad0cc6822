package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	orderapp "github.com/multistore/backend/internal/application/order"
	"github.com/multistore/backend/internal/domain/order"
	"github.com/multistore/backend/internal/domain/payment"
	"github.com/multistore/backend/internal/domain/shared"
	"github.com/multistore/backend/internal/domain/shared/valueobject"
)

// MockGatewayConfigRepository is a mock implementation of payment.GatewayConfigRepository
type MockGatewayConfigRepository struct {
	mock.Mock
}

func (m *MockGatewayConfigRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.GatewayConfig, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.GatewayConfig), args.Error(1)
}

func (m *MockGatewayConfigRepository) FindByStoreAndType(ctx context.Context, storeID uuid.UUID, gatewayType payment.GatewayType) (*payment.GatewayConfig, error) {
	args := m.Called(ctx, storeID, gatewayType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.GatewayConfig), args.Error(1)
}

func (m *MockGatewayConfigRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID) ([]payment.GatewayConfig, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).([]payment.GatewayConfig), args.Error(1)
}

func (m *MockGatewayConfigRepository) FindEnabledForStore(ctx context.Context, storeID uuid.UUID) ([]payment.GatewayConfig, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).([]payment.GatewayConfig), args.Error(1)
}

func (m *MockGatewayConfigRepository) Save(ctx context.Context, c *payment.GatewayConfig) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockGatewayConfigRepository) DeleteForStore(ctx context.Context, storeID, id uuid.UUID) error {
	args := m.Called(ctx, storeID, id)
	return args.Error(0)
}

// MockGateway is a mock implementation of payment.Gateway
type MockGateway struct {
	mock.Mock
	gatewayType payment.GatewayType
}

func (m *MockGateway) GatewayType() payment.GatewayType {
	return m.gatewayType
}

func (m *MockGateway) CreatePayment(ctx context.Context, req *payment.CreatePaymentRequest) (*payment.CreatePaymentResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.CreatePaymentResponse), args.Error(1)
}

func (m *MockGateway) VerifyPayment(ctx context.Context, req *payment.VerifyPaymentRequest) (*payment.QueryPaymentResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.QueryPaymentResponse), args.Error(1)
}

func (m *MockGateway) QueryPayment(ctx context.Context, req *payment.QueryPaymentRequest) (*payment.QueryPaymentResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.QueryPaymentResponse), args.Error(1)
}

func (m *MockGateway) CreateRefund(ctx context.Context, req *payment.RefundRequest) (*payment.RefundResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.RefundResponse), args.Error(1)
}

func (m *MockGateway) TestCredentials(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockGateway) VerifyWebhook(ctx context.Context, payload []byte, signature string) (*payment.WebhookEvent, error) {
	args := m.Called(ctx, payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.WebhookEvent), args.Error(1)
}

// MockGatewayResolver is a mock implementation of payment.GatewayResolver
type MockGatewayResolver struct {
	mock.Mock
}

func (m *MockGatewayResolver) Resolve(ctx context.Context, storeID uuid.UUID, gatewayType payment.GatewayType) (payment.Gateway, error) {
	args := m.Called(ctx, storeID, gatewayType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(payment.Gateway), args.Error(1)
}

func (m *MockGatewayResolver) ResolveConfigured(ctx context.Context, storeID uuid.UUID, gatewayType payment.GatewayType) (payment.Gateway, error) {
	args := m.Called(ctx, storeID, gatewayType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(payment.Gateway), args.Error(1)
}

func (m *MockGatewayResolver) EnabledGateways(ctx context.Context, storeID uuid.UUID) ([]payment.GatewayType, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).([]payment.GatewayType), args.Error(1)
}

// MockOrderRepository is a mock implementation of order.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, storeID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByOrderNumber(ctx context.Context, storeID uuid.UUID, orderNumber string) (*order.Order, error) {
	args := m.Called(ctx, storeID, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByToken(ctx context.Context, token string) (*order.Order, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByTransactionID(ctx context.Context, transactionID string) (*order.Order, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, storeID, filter)
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByCustomer(ctx context.Context, storeID, customerID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, storeID, customerID, filter)
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByStatus(ctx context.Context, storeID uuid.UUID, status order.OrderStatus, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, storeID, status, filter)
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByPaymentStatus(ctx context.Context, storeID uuid.UUID, status order.PaymentStatus, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, storeID, status, filter)
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindStalePending(ctx context.Context, before time.Time, limit int) ([]order.Order, error) {
	args := m.Called(ctx, before, limit)
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) DeleteForStore(ctx context.Context, storeID, id uuid.UUID) error {
	args := m.Called(ctx, storeID, id)
	return args.Error(0)
}

func (m *MockOrderRepository) CountForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, storeID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CountByStatus(ctx context.Context, storeID uuid.UUID, status order.OrderStatus) (int64, error) {
	args := m.Called(ctx, storeID, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CountPlacedSince(ctx context.Context, storeID uuid.UUID, since time.Time) (int64, error) {
	args := m.Called(ctx, storeID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) ExistsByOrderNumber(ctx context.Context, storeID uuid.UUID, orderNumber string) (bool, error) {
	args := m.Called(ctx, storeID, orderNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) GenerateOrderNumber(ctx context.Context, storeID uuid.UUID, prefix string) (string, error) {
	args := m.Called(ctx, storeID, prefix)
	return args.String(0), args.Error(1)
}

// MockOrderRecorder is a mock implementation of OrderPaymentRecorder
type MockOrderRecorder struct {
	mock.Mock
}

func (m *MockOrderRecorder) MarkPaid(ctx context.Context, storeID, id uuid.UUID, gateway, method, transactionID, reference string) (*orderapp.OrderResponse, error) {
	args := m.Called(ctx, storeID, id, gateway, method, transactionID, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderapp.OrderResponse), args.Error(1)
}

func (m *MockOrderRecorder) MarkPaymentFailed(ctx context.Context, storeID, id uuid.UUID, reason string) (*orderapp.OrderResponse, error) {
	args := m.Called(ctx, storeID, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderapp.OrderResponse), args.Error(1)
}

func (m *MockOrderRecorder) Refund(ctx context.Context, storeID, id uuid.UUID, req orderapp.RefundOrderRequest) (*orderapp.OrderResponse, error) {
	args := m.Called(ctx, storeID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderapp.OrderResponse), args.Error(1)
}

// fakeCipher reverses nothing; it just tags values so tests can see
// encryption happened.
type fakeCipher struct{}

func (fakeCipher) Encrypt(plaintext string) (string, error) { return "enc:" + plaintext, nil }
func (fakeCipher) Decrypt(ciphertext string) (string, error) {
	if len(ciphertext) > 4 && ciphertext[:4] == "enc:" {
		return ciphertext[4:], nil
	}
	return ciphertext, nil
}

// fakeIdempotencyStore is an in-memory IdempotencyStore
type fakeIdempotencyStore struct {
	seen map[string]bool
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{seen: make(map[string]bool)}
}

func (f *fakeIdempotencyStore) MarkProcessed(_ context.Context, key string, _ time.Duration) (bool, error) {
	if f.seen[key] {
		return true, nil
	}
	f.seen[key] = true
	return false, nil
}

func (f *fakeIdempotencyStore) Forget(_ context.Context, key string) error {
	delete(f.seen, key)
	return nil
}

func newTestStoreID() uuid.UUID {
	return uuid.MustParse("11111111-1111-1111-1111-111111111111")
}

func newTestOrderID() uuid.UUID {
	return uuid.MustParse("33333333-3333-3333-3333-333333333333")
}

func newPendingPaymentOrder(storeID uuid.UUID) *order.Order {
	addr := valueobject.Address{
		FirstName: "Ravi", LastName: "Kumar", AddressLine1: "12 MG Road",
		City: "Bengaluru", State: "Karnataka", PostalCode: "560001", Country: "India",
	}
	o, _ := order.NewOrder(storeID, "ORD-00042", uuid.NewString(), nil,
		"ravi@example.com", "Ravi Kumar", "+919876543210", addr, addr, valueobject.INR)
	o.ID = newTestOrderID()
	_, _ = o.AddItem(uuid.New(), "Ceramic Mug", "MUG-001", "", nil, 2, valueobject.MustMoney(decimal.NewFromInt(499), valueobject.INR), "")
	_ = o.Confirm()
	o.ClearDomainEvents()
	return o
}

type paymentServiceMocks struct {
	resolver    *MockGatewayResolver
	gateway     *MockGateway
	configRepo  *MockGatewayConfigRepository
	orderRepo   *MockOrderRepository
	orders      *MockOrderRecorder
	idempotency *fakeIdempotencyStore
}

func newPaymentServiceWithMocks() (*PaymentService, *paymentServiceMocks) {
	m := &paymentServiceMocks{
		resolver:    new(MockGatewayResolver),
		gateway:     &MockGateway{gatewayType: payment.GatewayTypeRazorpay},
		configRepo:  new(MockGatewayConfigRepository),
		orderRepo:   new(MockOrderRepository),
		orders:      new(MockOrderRecorder),
		idempotency: newFakeIdempotencyStore(),
	}
	svc := NewPaymentService(m.resolver, m.configRepo, m.orderRepo, m.orders, m.idempotency, zap.NewNop())
	return svc, m
}

func TestGatewayConfigService_Configure_CreatesNew(t *testing.T) {
	configRepo := new(MockGatewayConfigRepository)
	svc := NewGatewayConfigService(configRepo, fakeCipher{})
	ctx := context.Background()
	storeID := newTestStoreID()

	configRepo.On("FindByStoreAndType", ctx, storeID, payment.GatewayTypeRazorpay).Return(nil, shared.ErrNotFound)
	configRepo.On("Save", ctx, mock.AnythingOfType("*payment.GatewayConfig")).Return(nil)

	resp, err := svc.Configure(ctx, storeID, ConfigureGatewayRequest{
		Type:      "razorpay",
		KeyID:     "rzp_test_abcdef123456",
		KeySecret: "secret_value",
	})

	assert.NoError(t, err)
	assert.Equal(t, "razorpay", resp.Type)
	assert.Equal(t, "Razorpay", resp.DisplayName)
	assert.False(t, resp.IsEnabled)
	assert.True(t, resp.TestMode)
	assert.NotContains(t, resp.KeyIDMasked, "abcdef123456")

	saved := configRepo.Calls[1].Arguments.Get(1).(*payment.GatewayConfig)
	assert.Equal(t, "enc:secret_value", saved.KeySecretEncrypted)
	configRepo.AssertExpectations(t)
}

func TestGatewayConfigService_Configure_RotatesExisting(t *testing.T) {
	configRepo := new(MockGatewayConfigRepository)
	svc := NewGatewayConfigService(configRepo, fakeCipher{})
	ctx := context.Background()
	storeID := newTestStoreID()

	existing, _ := payment.NewGatewayConfig(storeID, payment.GatewayTypeRazorpay, "rzp_test_old_key_0001", "enc:old")
	_ = existing.Enable()

	configRepo.On("FindByStoreAndType", ctx, storeID, payment.GatewayTypeRazorpay).Return(existing, nil)
	configRepo.On("Save", ctx, existing).Return(nil)

	resp, err := svc.Configure(ctx, storeID, ConfigureGatewayRequest{
		Type:      "razorpay",
		KeyID:     "rzp_live_new_key_0002",
		KeySecret: "new_secret",
	})

	assert.NoError(t, err)
	assert.True(t, resp.IsEnabled)
	assert.Equal(t, "enc:new_secret", existing.KeySecretEncrypted)
	assert.Equal(t, "rzp_live_new_key_0002", existing.KeyID)
}

func TestGatewayConfigService_Update_RequiresPairedRotation(t *testing.T) {
	configRepo := new(MockGatewayConfigRepository)
	svc := NewGatewayConfigService(configRepo, fakeCipher{})
	ctx := context.Background()
	storeID := newTestStoreID()

	existing, _ := payment.NewGatewayConfig(storeID, payment.GatewayTypePayPal, "client_id_abcdef0001", "enc:old")
	configRepo.On("FindByStoreAndType", ctx, storeID, payment.GatewayTypePayPal).Return(existing, nil)

	newKey := "client_id_abcdef0002"
	_, err := svc.Update(ctx, storeID, "paypal", UpdateGatewayRequest{KeyID: &newKey})

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	configRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestGatewayConfigService_EnableDisable(t *testing.T) {
	configRepo := new(MockGatewayConfigRepository)
	svc := NewGatewayConfigService(configRepo, fakeCipher{})
	ctx := context.Background()
	storeID := newTestStoreID()

	config, _ := payment.NewGatewayConfig(storeID, payment.GatewayTypeRazorpay, "rzp_test_abcdef123456", "enc:secret")

	configRepo.On("FindByStoreAndType", ctx, storeID, payment.GatewayTypeRazorpay).Return(config, nil)
	configRepo.On("Save", ctx, config).Return(nil)

	enabled, err := svc.Enable(ctx, storeID, "razorpay")
	assert.NoError(t, err)
	assert.True(t, enabled.IsEnabled)

	disabled, err := svc.Disable(ctx, storeID, "razorpay")
	assert.NoError(t, err)
	assert.False(t, disabled.IsEnabled)
}

func TestPaymentService_CreatePayment_Success(t *testing.T) {
	svc, m := newPaymentServiceWithMocks()
	ctx := context.Background()
	storeID := newTestStoreID()

	o := newPendingPaymentOrder(storeID)

	m.orderRepo.On("FindByIDForStore", ctx, storeID, o.ID).Return(o, nil)
	m.resolver.On("Resolve", ctx, storeID, payment.GatewayTypeRazorpay).Return(m.gateway, nil)
	m.gateway.On("CreatePayment", ctx, mock.MatchedBy(func(req *payment.CreatePaymentRequest) bool {
		return req.OrderNumber == "ORD-00042" && req.Amount.Equal(decimal.NewFromInt(998))
	})).Return(&payment.CreatePaymentResponse{
		GatewayOrderID: "order_Nxy123",
		GatewayType:    payment.GatewayTypeRazorpay,
		Status:         payment.GatewayPaymentStatusCreated,
		CheckoutParams: map[string]string{"key": "rzp_test_abcdef123456"},
	}, nil)

	resp, err := svc.CreatePayment(ctx, storeID, CreatePaymentRequest{OrderID: o.ID, Gateway: "razorpay"})

	assert.NoError(t, err)
	assert.Equal(t, "order_Nxy123", resp.GatewayOrderID)
	assert.True(t, resp.Amount.Equal(decimal.NewFromInt(998)))
	assert.Equal(t, "INR", resp.Currency)
	m.gateway.AssertExpectations(t)
}

func TestPaymentService_CreatePayment_CODRejected(t *testing.T) {
	svc, m := newPaymentServiceWithMocks()
	ctx := context.Background()
	storeID := newTestStoreID()

	o := newPendingPaymentOrder(storeID)
	o.PaymentMethod = "cod"

	m.orderRepo.On("FindByIDForStore", ctx, storeID, o.ID).Return(o, nil)

	_, err := svc.CreatePayment(ctx, storeID, CreatePaymentRequest{OrderID: o.ID, Gateway: "razorpay"})

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "COD_ORDER", domainErr.Code)
	m.resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentService_VerifyPayment_Success(t *testing.T) {
	svc, m := newPaymentServiceWithMocks()
	ctx := context.Background()
	storeID := newTestStoreID()

	o := newPendingPaymentOrder(storeID)

	m.orderRepo.On("FindByIDForStore", ctx, storeID, o.ID).Return(o, nil)
	m.resolver.On("Resolve", ctx, storeID, payment.GatewayTypeRazorpay).Return(m.gateway, nil)
	m.gateway.On("VerifyPayment", ctx, mock.AnythingOfType("*payment.VerifyPaymentRequest")).Return(&payment.QueryPaymentResponse{
		GatewayOrderID: "order_Nxy123",
		PaymentID:      "pay_Nxy456",
		Status:         payment.GatewayPaymentStatusCaptured,
		Amount:         decimal.NewFromInt(998),
		Currency:       "INR",
		Method:         "upi",
	}, nil)
	m.orders.On("MarkPaid", ctx, storeID, o.ID, "razorpay", "upi", "pay_Nxy456", "order_Nxy123").
		Return(&orderapp.OrderResponse{PaymentStatus: "paid"}, nil)

	resp, err := svc.VerifyPayment(ctx, storeID, VerifyPaymentRequest{
		OrderID:        o.ID,
		Gateway:        "razorpay",
		GatewayOrderID: "order_Nxy123",
		PaymentID:      "pay_Nxy456",
		Signature:      "sig",
	})

	assert.NoError(t, err)
	assert.Equal(t, "paid", resp.PaymentStatus)
	m.orders.AssertExpectations(t)
}

func TestPaymentService_VerifyPayment_AmountMismatch(t *testing.T) {
	svc, m := newPaymentServiceWithMocks()
	ctx := context.Background()
	storeID := newTestStoreID()

	o := newPendingPaymentOrder(storeID)

	m.orderRepo.On("FindByIDForStore", ctx, storeID, o.ID).Return(o, nil)
	m.resolver.On("Resolve", ctx, storeID, payment.GatewayTypeRazorpay).Return(m.gateway, nil)
	m.gateway.On("VerifyPayment", ctx, mock.AnythingOfType("*payment.VerifyPaymentRequest")).Return(&payment.QueryPaymentResponse{
		PaymentID: "pay_Nxy456",
		Status:    payment.GatewayPaymentStatusCaptured,
		Amount:    decimal.NewFromInt(500),
	}, nil)

	_, err := svc.VerifyPayment(ctx, storeID, VerifyPaymentRequest{
		OrderID: o.ID, Gateway: "razorpay", GatewayOrderID: "order_Nxy123", PaymentID: "pay_Nxy456",
	})

	assert.ErrorIs(t, err, payment.ErrPaymentCaptureMismatch)
	m.orders.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentService_VerifyPayment_NotCaptured(t *testing.T) {
	svc, m := newPaymentServiceWithMocks()
	ctx := context.Background()
	storeID := newTestStoreID()

	o := newPendingPaymentOrder(storeID)

	m.orderRepo.On("FindByIDForStore", ctx, storeID, o.ID).Return(o, nil)
	m.resolver.On("Resolve", ctx, storeID, payment.GatewayTypeRazorpay).Return(m.gateway, nil)
	m.gateway.On("VerifyPayment", ctx, mock.AnythingOfType("*payment.VerifyPaymentRequest")).Return(&payment.QueryPaymentResponse{
		PaymentID: "pay_Nxy456",
		Status:    payment.GatewayPaymentStatusFailed,
	}, nil)
	m.orders.On("MarkPaymentFailed", ctx, storeID, o.ID, mock.AnythingOfType("string")).
		Return(&orderapp.OrderResponse{PaymentStatus: "failed"}, nil)

	_, err := svc.VerifyPayment(ctx, storeID, VerifyPaymentRequest{
		OrderID: o.ID, Gateway: "razorpay", GatewayOrderID: "order_Nxy123", PaymentID: "pay_Nxy456",
	})

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PAYMENT_NOT_CAPTURED", domainErr.Code)
	m.orders.AssertExpectations(t)
}

func TestPaymentService_HandleWebhook_CapturedAndReplay(t *testing.T) {
	svc, m := newPaymentServiceWithMocks()
	ctx := context.Background()
	storeID := newTestStoreID()

	o := newPendingPaymentOrder(storeID)
	payload := []byte(`{"event":"payment.captured"}`)

	event := &payment.WebhookEvent{
		GatewayType:    payment.GatewayTypeRazorpay,
		EventID:        "evt_001",
		EventType:      payment.WebhookEventPaymentCaptured,
		GatewayOrderID: "order_Nxy123",
		PaymentID:      "pay_Nxy456",
		OrderNumber:    "ORD-00042",
		Amount:         decimal.NewFromInt(998),
	}

	m.resolver.On("Resolve", ctx, storeID, payment.GatewayTypeRazorpay).Return(m.gateway, nil)
	m.gateway.On("VerifyWebhook", ctx, payload, "sig").Return(event, nil)
	m.orderRepo.On("FindByOrderNumber", ctx, storeID, "ORD-00042").Return(o, nil)
	m.orders.On("MarkPaid", ctx, storeID, o.ID, "razorpay", "", "pay_Nxy456", "order_Nxy123").
		Return(&orderapp.OrderResponse{PaymentStatus: "paid"}, nil).Once()

	assert.NoError(t, svc.HandleWebhook(ctx, storeID, "razorpay", payload, "sig"))

	// Gateway retries with the same event ID are acknowledged silently
	assert.NoError(t, svc.HandleWebhook(ctx, storeID, "razorpay", payload, "sig"))
	m.orders.AssertNumberOfCalls(t, "MarkPaid", 1)
}

func TestPaymentService_HandleWebhook_RetryAfterFailedApply(t *testing.T) {
	svc, m := newPaymentServiceWithMocks()
	ctx := context.Background()
	storeID := newTestStoreID()

	o := newPendingPaymentOrder(storeID)
	payload := []byte(`{"event":"payment.captured"}`)

	event := &payment.WebhookEvent{
		GatewayType:    payment.GatewayTypeRazorpay,
		EventID:        "evt_003",
		EventType:      payment.WebhookEventPaymentCaptured,
		GatewayOrderID: "order_Nxy123",
		PaymentID:      "pay_Nxy456",
		OrderNumber:    "ORD-00042",
		Amount:         decimal.NewFromInt(998),
	}

	m.resolver.On("Resolve", ctx, storeID, payment.GatewayTypeRazorpay).Return(m.gateway, nil)
	m.gateway.On("VerifyWebhook", ctx, payload, "sig").Return(event, nil)
	m.orderRepo.On("FindByOrderNumber", ctx, storeID, "ORD-00042").Return(o, nil)
	m.orders.On("MarkPaid", ctx, storeID, o.ID, "razorpay", "", "pay_Nxy456", "order_Nxy123").
		Return(nil, shared.ErrConcurrencyConflict).Once()
	m.orders.On("MarkPaid", ctx, storeID, o.ID, "razorpay", "", "pay_Nxy456", "order_Nxy123").
		Return(&orderapp.OrderResponse{PaymentStatus: "paid"}, nil).Once()

	// A transient failure must not consume the event ID
	err := svc.HandleWebhook(ctx, storeID, "razorpay", payload, "sig")
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	// The gateway's retry of the same event is applied, not acked as a replay
	assert.NoError(t, svc.HandleWebhook(ctx, storeID, "razorpay", payload, "sig"))
	m.orders.AssertNumberOfCalls(t, "MarkPaid", 2)
}

func TestPaymentService_HandleWebhook_UnknownOrderAcked(t *testing.T) {
	svc, m := newPaymentServiceWithMocks()
	ctx := context.Background()
	storeID := newTestStoreID()

	payload := []byte(`{}`)
	event := &payment.WebhookEvent{
		GatewayType: payment.GatewayTypeRazorpay,
		EventID:     "evt_002",
		EventType:   payment.WebhookEventPaymentCaptured,
		OrderNumber: "ORD-99999",
	}

	m.resolver.On("Resolve", ctx, storeID, payment.GatewayTypeRazorpay).Return(m.gateway, nil)
	m.gateway.On("VerifyWebhook", ctx, payload, "sig").Return(event, nil)
	m.orderRepo.On("FindByOrderNumber", ctx, storeID, "ORD-99999").Return(nil, shared.ErrNotFound)

	err := svc.HandleWebhook(ctx, storeID, "razorpay", payload, "sig")

	assert.NoError(t, err)
	m.orders.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentService_HandleWebhook_InvalidSignature(t *testing.T) {
	svc, m := newPaymentServiceWithMocks()
	ctx := context.Background()
	storeID := newTestStoreID()

	payload := []byte(`{}`)

	m.resolver.On("Resolve", ctx, storeID, payment.GatewayTypeRazorpay).Return(m.gateway, nil)
	m.gateway.On("VerifyWebhook", ctx, payload, "bad").Return(nil, payment.ErrInvalidSignature)

	err := svc.HandleWebhook(ctx, storeID, "razorpay", payload, "bad")

	assert.ErrorIs(t, err, payment.ErrInvalidSignature)
}

func TestPaymentService_Refund_Success(t *testing.T) {
	svc, m := newPaymentServiceWithMocks()
	ctx := context.Background()
	storeID := newTestStoreID()

	o := newPendingPaymentOrder(storeID)
	_ = o.MarkPaid("razorpay", "upi", "pay_Nxy456", "order_Nxy123")
	o.ClearDomainEvents()

	m.orderRepo.On("FindByIDForStore", ctx, storeID, o.ID).Return(o, nil)
	m.resolver.On("Resolve", ctx, storeID, payment.GatewayTypeRazorpay).Return(m.gateway, nil)
	m.gateway.On("CreateRefund", ctx, mock.MatchedBy(func(req *payment.RefundRequest) bool {
		return req.PaymentID == "pay_Nxy456" && req.RefundAmount.Equal(decimal.NewFromInt(300))
	})).Return(&payment.RefundResponse{
		GatewayRefundID: "rfnd_001",
		GatewayType:     payment.GatewayTypeRazorpay,
		Status:          payment.RefundStatusSuccess,
		RefundAmount:    decimal.NewFromInt(300),
	}, nil)
	m.orders.On("Refund", ctx, storeID, o.ID, orderapp.RefundOrderRequest{
		Amount:    decimal.NewFromInt(300),
		Reference: "rfnd_001",
		Reason:    "damaged item",
	}).Return(&orderapp.OrderResponse{RefundedAmount: decimal.NewFromInt(300)}, nil)

	resp, err := svc.Refund(ctx, storeID, o.ID, RefundPaymentRequest{
		Amount: decimal.NewFromInt(300),
		Reason: "damaged item",
	})

	assert.NoError(t, err)
	assert.Equal(t, "rfnd_001", resp.GatewayRefundID)
	assert.Equal(t, "success", resp.Status)
	assert.True(t, resp.OrderRefunded.Equal(decimal.NewFromInt(300)))
	m.gateway.AssertExpectations(t)
	m.orders.AssertExpectations(t)
}

func TestPaymentService_Refund_NoCapturedPayment(t *testing.T) {
	svc, m := newPaymentServiceWithMocks()
	ctx := context.Background()
	storeID := newTestStoreID()

	o := newPendingPaymentOrder(storeID)

	m.orderRepo.On("FindByIDForStore", ctx, storeID, o.ID).Return(o, nil)

	_, err := svc.Refund(ctx, storeID, o.ID, RefundPaymentRequest{Amount: decimal.NewFromInt(100)})

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NO_CAPTURED_PAYMENT", domainErr.Code)
	m.resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentService_TestConnection_ReportsOutcome(t *testing.T) {
	ctx := context.Background()
	storeID := newTestStoreID()

	t.Run("credentials accepted", func(t *testing.T) {
		svc, m := newPaymentServiceWithMocks()
		m.resolver.On("ResolveConfigured", ctx, storeID, payment.GatewayTypeRazorpay).Return(m.gateway, nil)
		m.gateway.On("TestCredentials", ctx).Return(nil)

		resp, err := svc.TestConnection(ctx, storeID, "razorpay")

		assert.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, "razorpay", resp.Gateway)
	})

	t.Run("credentials rejected", func(t *testing.T) {
		svc, m := newPaymentServiceWithMocks()
		m.resolver.On("ResolveConfigured", ctx, storeID, payment.GatewayTypeRazorpay).Return(m.gateway, nil)
		m.gateway.On("TestCredentials", ctx).Return(errors.New("HTTP 401"))

		resp, err := svc.TestConnection(ctx, storeID, "razorpay")

		assert.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Contains(t, resp.Message, "401")
	})

	t.Run("gateway not configured", func(t *testing.T) {
		svc, m := newPaymentServiceWithMocks()
		m.resolver.On("ResolveConfigured", ctx, storeID, payment.GatewayTypePayPal).Return(nil, payment.ErrGatewayNotConfigured)

		_, err := svc.TestConnection(ctx, storeID, "paypal")

		assert.ErrorIs(t, err, payment.ErrGatewayNotConfigured)
	})
}
