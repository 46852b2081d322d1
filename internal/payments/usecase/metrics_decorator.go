package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/souqdz/marketplace/internal/metrics"
	paymentsDomain "github.com/souqdz/marketplace/internal/payments/domain"
)

// paymentUseCaseWithMetrics decorates PaymentUseCase with metrics instrumentation.
type paymentUseCaseWithMetrics struct {
	next    PaymentUseCase
	metrics metrics.BusinessMetrics
}

// NewPaymentUseCaseWithMetrics wraps a PaymentUseCase with metrics recording.
func NewPaymentUseCaseWithMetrics(useCase PaymentUseCase, m metrics.BusinessMetrics) PaymentUseCase {
	return &paymentUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (p *paymentUseCaseWithMetrics) record(
	ctx context.Context,
	operation string,
	start time.Time,
	err error,
) {
	status := "success"
	if err != nil {
		status = "error"
	}
	p.metrics.RecordOperation(ctx, "payments", operation, status)
	p.metrics.RecordDuration(ctx, "payments", operation, time.Since(start), status)
}

// InitiatePayment records metrics for payment initiation operations.
func (p *paymentUseCaseWithMetrics) InitiatePayment(
	ctx context.Context,
	orderID uuid.UUID,
	amount float64,
) (*InitiateResult, error) {
	start := time.Now()
	result, err := p.next.InitiatePayment(ctx, orderID, amount)
	p.record(ctx, "payment_initiate", start, err)
	return result, err
}

// SubmitPayment records metrics for payment capture operations.
func (p *paymentUseCaseWithMetrics) SubmitPayment(
	ctx context.Context,
	orderID uuid.UUID,
	cardNumber string,
) (*paymentsDomain.Payment, error) {
	start := time.Now()
	payment, err := p.next.SubmitPayment(ctx, orderID, cardNumber)
	p.record(ctx, "payment_submit", start, err)
	return payment, err
}

// GetPaymentStatus records metrics for status projection reads.
func (p *paymentUseCaseWithMetrics) GetPaymentStatus(
	ctx context.Context,
	orderID uuid.UUID,
) (*StatusProjection, error) {
	start := time.Now()
	projection, err := p.next.GetPaymentStatus(ctx, orderID)
	p.record(ctx, "payment_status", start, err)
	return projection, err
}

// ReleaseEscrow records metrics for escrow sweep runs.
func (p *paymentUseCaseWithMetrics) ReleaseEscrow(ctx context.Context) (int, error) {
	start := time.Now()
	released, err := p.next.ReleaseEscrow(ctx)
	p.record(ctx, "escrow_release", start, err)
	return released, err
}
