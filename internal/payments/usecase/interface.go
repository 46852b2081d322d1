// Package usecase implements the payment business logic: the simulated
// checkout capture, the escrow hold, the status projection and the release
// sweep. Only use cases mutate payment state.
package usecase

import (
	"context"

	"github.com/google/uuid"

	ordersDomain "github.com/souqdz/marketplace/internal/orders/domain"
	paymentsDomain "github.com/souqdz/marketplace/internal/payments/domain"
)

// PaymentRepository defines payment persistence operations.
type PaymentRepository interface {
	Create(ctx context.Context, payment *paymentsDomain.Payment) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*paymentsDomain.Payment, error)
	GetByOrderIDForUpdate(ctx context.Context, orderID uuid.UUID) (*paymentsDomain.Payment, error)
	Update(ctx context.Context, payment *paymentsDomain.Payment) error
	ListHeldUnreleased(ctx context.Context, limit int) ([]*paymentsDomain.Payment, error)
}

// OrderRepository defines the order operations the payment flow needs: the
// lifecycle check during the sweep and the denormalized payment status.
type OrderRepository interface {
	GetByID(ctx context.Context, orderID uuid.UUID) (*ordersDomain.Order, error)
	Update(ctx context.Context, order *ordersDomain.Order) error
}

// InitiateResult is returned by InitiatePayment: the pending payment plus an
// opaque reference the fake checkout page embeds.
type InitiateResult struct {
	Payment     *paymentsDomain.Payment
	CheckoutRef string
}

// StatusProjection is the cached read model served by GetPaymentStatus.
type StatusProjection struct {
	Status     paymentsDomain.Status `json:"status"`
	EscrowHeld bool                  `json:"escrow_held"`
}

// PaymentUseCase defines the interface for payment management business logic.
type PaymentUseCase interface {
	// InitiatePayment creates a pending payment for the order with the
	// placeholder card suffix. A non-positive amount falls back to the
	// order's delivery amount.
	InitiatePayment(ctx context.Context, orderID uuid.UUID, amount float64) (*InitiateResult, error)
	// SubmitPayment captures the simulated card entry: the payment becomes
	// paid and escrow-held. Only the last four digits of the card number
	// are retained.
	SubmitPayment(ctx context.Context, orderID uuid.UUID, cardNumber string) (*paymentsDomain.Payment, error)
	GetPaymentStatus(ctx context.Context, orderID uuid.UUID) (*StatusProjection, error)
	// ReleaseEscrow sweeps held payments once and returns how many were
	// released to sellers.
	ReleaseEscrow(ctx context.Context) (int, error)
}
