package shipping

import (
	"context"

	"github.com/google/uuid"

	orderapp "github.com/multistore/backend/internal/application/order"
)

// SecretCipher encrypts courier credentials at rest.
// Implemented in infrastructure/crypto.
type SecretCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// OrderShipmentRecorder applies fulfillment transitions to orders.
// Satisfied by *order.OrderService.
type OrderShipmentRecorder interface {
	Ship(ctx context.Context, storeID, id uuid.UUID, req orderapp.ShipOrderRequest) (*orderapp.OrderResponse, error)
	MarkDelivered(ctx context.Context, storeID, id uuid.UUID) (*orderapp.OrderResponse, error)
}
