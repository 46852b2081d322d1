package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/souqdz/marketplace/internal/metrics"
	paymentsDomain "github.com/souqdz/marketplace/internal/payments/domain"
)

// MockPaymentUseCase is a mock implementation of PaymentUseCase
type MockPaymentUseCase struct {
	mock.Mock
}

func (m *MockPaymentUseCase) InitiatePayment(
	ctx context.Context,
	orderID uuid.UUID,
	amount float64,
) (*InitiateResult, error) {
	args := m.Called(ctx, orderID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*InitiateResult), args.Error(1)
}

func (m *MockPaymentUseCase) SubmitPayment(
	ctx context.Context,
	orderID uuid.UUID,
	cardNumber string,
) (*paymentsDomain.Payment, error) {
	args := m.Called(ctx, orderID, cardNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentsDomain.Payment), args.Error(1)
}

func (m *MockPaymentUseCase) GetPaymentStatus(
	ctx context.Context,
	orderID uuid.UUID,
) (*StatusProjection, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*StatusProjection), args.Error(1)
}

func (m *MockPaymentUseCase) ReleaseEscrow(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func TestPaymentUseCaseWithMetrics_PassesThrough(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.Must(uuid.NewV7())
	payment := heldPayment(orderID, time.Now().UTC())

	next := &MockPaymentUseCase{}
	next.On("SubmitPayment", ctx, orderID, "4111111111114242").Return(payment, nil)
	next.On("ReleaseEscrow", ctx).Return(3, nil)
	next.On("GetPaymentStatus", ctx, orderID).
		Return(&StatusProjection{Status: paymentsDomain.StatusPaid, EscrowHeld: true}, nil)

	decorated := NewPaymentUseCaseWithMetrics(next, metrics.NewNoOpBusinessMetrics())

	got, err := decorated.SubmitPayment(ctx, orderID, "4111111111114242")
	require.NoError(t, err)
	assert.Equal(t, payment.ID, got.ID)

	released, err := decorated.ReleaseEscrow(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, released)

	projection, err := decorated.GetPaymentStatus(ctx, orderID)
	require.NoError(t, err)
	assert.True(t, projection.EscrowHeld)
	next.AssertExpectations(t)
}

func TestPaymentUseCaseWithMetrics_PropagatesErrors(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.Must(uuid.NewV7())

	next := &MockPaymentUseCase{}
	next.On("GetPaymentStatus", ctx, orderID).Return(nil, paymentsDomain.ErrPaymentNotFound)

	decorated := NewPaymentUseCaseWithMetrics(next, metrics.NewNoOpBusinessMetrics())

	_, err := decorated.GetPaymentStatus(ctx, orderID)
	assert.ErrorIs(t, err, paymentsDomain.ErrPaymentNotFound)
}
