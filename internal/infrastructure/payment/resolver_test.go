package payment

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/multistore/backend/internal/domain/payment"
	"github.com/multistore/backend/internal/domain/shared"
)

type mockGatewayConfigRepository struct {
	mock.Mock
}

func (m *mockGatewayConfigRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.GatewayConfig, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.GatewayConfig), args.Error(1)
}

func (m *mockGatewayConfigRepository) FindByStoreAndType(ctx context.Context, storeID uuid.UUID, gatewayType payment.GatewayType) (*payment.GatewayConfig, error) {
	args := m.Called(ctx, storeID, gatewayType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.GatewayConfig), args.Error(1)
}

func (m *mockGatewayConfigRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID) ([]payment.GatewayConfig, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payment.GatewayConfig), args.Error(1)
}

func (m *mockGatewayConfigRepository) FindEnabledForStore(ctx context.Context, storeID uuid.UUID) ([]payment.GatewayConfig, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payment.GatewayConfig), args.Error(1)
}

func (m *mockGatewayConfigRepository) Save(ctx context.Context, c *payment.GatewayConfig) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockGatewayConfigRepository) DeleteForStore(ctx context.Context, storeID, id uuid.UUID) error {
	args := m.Called(ctx, storeID, id)
	return args.Error(0)
}

// fakeCipher strips an "enc:" prefix so decryption is visible in asserts
type fakeCipher struct{}

func (fakeCipher) Encrypt(plaintext string) (string, error) {
	return "enc:" + plaintext, nil
}

func (fakeCipher) Decrypt(ciphertext string) (string, error) {
	if !strings.HasPrefix(ciphertext, "enc:") {
		return "", errors.New("bad ciphertext")
	}
	return strings.TrimPrefix(ciphertext, "enc:"), nil
}

func enabledConfig(gatewayType payment.GatewayType) *payment.GatewayConfig {
	return &payment.GatewayConfig{
		Type:                   gatewayType,
		KeyID:                  "key-id",
		KeySecretEncrypted:     "enc:key-secret",
		WebhookSecretEncrypted: "enc:webhook-secret",
		IsEnabled:              true,
		TestMode:               true,
	}
}

func TestConfigGatewayResolver_Resolve_Razorpay(t *testing.T) {
	repo := new(mockGatewayConfigRepository)
	resolver := NewConfigGatewayResolver(repo, fakeCipher{})
	storeID := uuid.New()

	repo.On("FindByStoreAndType", mock.Anything, storeID, payment.GatewayTypeRazorpay).
		Return(enabledConfig(payment.GatewayTypeRazorpay), nil)

	gw, err := resolver.Resolve(context.Background(), storeID, payment.GatewayTypeRazorpay)
	require.NoError(t, err)

	rzp, ok := gw.(*RazorpayGateway)
	require.True(t, ok)
	assert.Equal(t, payment.GatewayTypeRazorpay, rzp.GatewayType())
	assert.Equal(t, "key-id", rzp.keyID)
	assert.Equal(t, "key-secret", rzp.keySecret)
	assert.Equal(t, "webhook-secret", rzp.webhookSecret)
}

func TestConfigGatewayResolver_Resolve_PayPalSandbox(t *testing.T) {
	repo := new(mockGatewayConfigRepository)
	resolver := NewConfigGatewayResolver(repo, fakeCipher{})
	storeID := uuid.New()

	repo.On("FindByStoreAndType", mock.Anything, storeID, payment.GatewayTypePayPal).
		Return(enabledConfig(payment.GatewayTypePayPal), nil)

	gw, err := resolver.Resolve(context.Background(), storeID, payment.GatewayTypePayPal)
	require.NoError(t, err)

	pp, ok := gw.(*PayPalGateway)
	require.True(t, ok)
	assert.Equal(t, payment.GatewayTypePayPal, pp.GatewayType())
	assert.Equal(t, "key-id", pp.clientID)
	assert.Equal(t, "webhook-secret", pp.webhookID)
	assert.Equal(t, paypalSandboxBaseURL, pp.client.BaseURL)
}

func TestConfigGatewayResolver_Resolve_NotConfigured(t *testing.T) {
	repo := new(mockGatewayConfigRepository)
	resolver := NewConfigGatewayResolver(repo, fakeCipher{})
	storeID := uuid.New()

	repo.On("FindByStoreAndType", mock.Anything, storeID, payment.GatewayTypeRazorpay).
		Return(nil, shared.ErrNotFound)

	_, err := resolver.Resolve(context.Background(), storeID, payment.GatewayTypeRazorpay)
	assert.ErrorIs(t, err, payment.ErrGatewayNotConfigured)
}

func TestConfigGatewayResolver_Resolve_Disabled(t *testing.T) {
	repo := new(mockGatewayConfigRepository)
	resolver := NewConfigGatewayResolver(repo, fakeCipher{})
	storeID := uuid.New()

	cfg := enabledConfig(payment.GatewayTypeRazorpay)
	cfg.IsEnabled = false
	repo.On("FindByStoreAndType", mock.Anything, storeID, payment.GatewayTypeRazorpay).
		Return(cfg, nil)

	_, err := resolver.Resolve(context.Background(), storeID, payment.GatewayTypeRazorpay)
	assert.ErrorIs(t, err, payment.ErrGatewayNotEnabled)
}

func TestConfigGatewayResolver_ResolveConfigured_IgnoresEnabledFlag(t *testing.T) {
	repo := new(mockGatewayConfigRepository)
	resolver := NewConfigGatewayResolver(repo, fakeCipher{})
	storeID := uuid.New()

	cfg := enabledConfig(payment.GatewayTypeRazorpay)
	cfg.IsEnabled = false
	repo.On("FindByStoreAndType", mock.Anything, storeID, payment.GatewayTypeRazorpay).
		Return(cfg, nil)

	gateway, err := resolver.ResolveConfigured(context.Background(), storeID, payment.GatewayTypeRazorpay)
	require.NoError(t, err)
	assert.Equal(t, payment.GatewayTypeRazorpay, gateway.GatewayType())
}

func TestConfigGatewayResolver_Resolve_InvalidType(t *testing.T) {
	repo := new(mockGatewayConfigRepository)
	resolver := NewConfigGatewayResolver(repo, fakeCipher{})

	_, err := resolver.Resolve(context.Background(), uuid.New(), payment.GatewayType("stripe"))
	assert.ErrorIs(t, err, payment.ErrPaymentInvalidGatewayType)
	repo.AssertNotCalled(t, "FindByStoreAndType")
}

func TestConfigGatewayResolver_Resolve_BadCiphertext(t *testing.T) {
	repo := new(mockGatewayConfigRepository)
	resolver := NewConfigGatewayResolver(repo, fakeCipher{})
	storeID := uuid.New()

	cfg := enabledConfig(payment.GatewayTypeRazorpay)
	cfg.KeySecretEncrypted = "garbage"
	repo.On("FindByStoreAndType", mock.Anything, storeID, payment.GatewayTypeRazorpay).
		Return(cfg, nil)

	_, err := resolver.Resolve(context.Background(), storeID, payment.GatewayTypeRazorpay)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decrypt gateway secret")
}

func TestConfigGatewayResolver_EnabledGateways(t *testing.T) {
	repo := new(mockGatewayConfigRepository)
	resolver := NewConfigGatewayResolver(repo, fakeCipher{})
	storeID := uuid.New()

	repo.On("FindEnabledForStore", mock.Anything, storeID).
		Return([]payment.GatewayConfig{
			*enabledConfig(payment.GatewayTypeRazorpay),
			*enabledConfig(payment.GatewayTypePayPal),
		}, nil)

	types, err := resolver.EnabledGateways(context.Background(), storeID)
	require.NoError(t, err)
	assert.Equal(t, []payment.GatewayType{payment.GatewayTypeRazorpay, payment.GatewayTypePayPal}, types)
}
