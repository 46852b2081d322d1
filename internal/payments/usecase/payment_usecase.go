package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	validationlib "github.com/jellydator/validation"

	"github.com/souqdz/marketplace/internal/cache"
	"github.com/souqdz/marketplace/internal/clock"
	"github.com/souqdz/marketplace/internal/database"
	ordersDomain "github.com/souqdz/marketplace/internal/orders/domain"
	paymentsDomain "github.com/souqdz/marketplace/internal/payments/domain"
	"github.com/souqdz/marketplace/internal/validation"
)

// Config holds payment use case configuration.
type Config struct {
	SweepBatchSize int
	CacheTTL       time.Duration
}

// DefaultConfig returns the stock payment configuration.
func DefaultConfig() Config {
	return Config{
		SweepBatchSize: 100,
		CacheTTL:       30 * time.Second,
	}
}

// PaymentUseCaseImpl implements business logic for the escrow payment flow.
type PaymentUseCaseImpl struct {
	config      Config
	txManager   database.TxManager
	paymentRepo PaymentRepository
	orderRepo   OrderRepository
	decider     paymentsDomain.EscrowDecider
	statusCache cache.Cache
	clock       clock.Clock
	logger      *slog.Logger
}

// NewPaymentUseCase creates a new PaymentUseCaseImpl.
func NewPaymentUseCase(
	config Config,
	txManager database.TxManager,
	paymentRepo PaymentRepository,
	orderRepo OrderRepository,
	decider paymentsDomain.EscrowDecider,
	statusCache cache.Cache,
	clk clock.Clock,
	logger *slog.Logger,
) *PaymentUseCaseImpl {
	return &PaymentUseCaseImpl{
		config:      config,
		txManager:   txManager,
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		decider:     decider,
		statusCache: statusCache,
		clock:       clk,
		logger:      logger,
	}
}

// InitiatePayment creates a pending payment for the order. The card suffix
// stays at the placeholder until a real submission arrives.
func (uc *PaymentUseCaseImpl) InitiatePayment(
	ctx context.Context,
	orderID uuid.UUID,
	amount float64,
) (*InitiateResult, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if amount <= 0 {
		amount = order.DeliveryAmount
	}
	if err := validation.WrapValidationError(
		validationlib.Validate(amount, validationlib.Min(0.01).Error("payment amount must be positive")),
	); err != nil {
		return nil, err
	}

	payment := &paymentsDomain.Payment{
		ID:        uuid.Must(uuid.NewV7()),
		OrderID:   order.ID,
		Amount:    amount,
		Status:    paymentsDomain.StatusPending,
		CardLast4: paymentsDomain.PlaceholderCardLast4,
		CreatedAt: uc.clock.Now(),
	}

	if err := uc.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info("payment initiated",
			slog.String("payment_id", payment.ID.String()),
			slog.String("order_id", order.ID.String()),
			slog.Float64("amount", amount),
		)
	}

	return &InitiateResult{
		Payment:     payment,
		CheckoutRef: checkoutRef(payment.ID),
	}, nil
}

// SubmitPayment captures the simulated card entry. The full card number is
// validated, truncated to its last four digits and discarded. It must never
// reach persistence or logs.
func (uc *PaymentUseCaseImpl) SubmitPayment(
	ctx context.Context,
	orderID uuid.UUID,
	cardNumber string,
) (*paymentsDomain.Payment, error) {
	if err := validation.WrapValidationError(
		validationlib.Validate(cardNumber, validationlib.Required, validation.CardNumber{}),
	); err != nil {
		return nil, err
	}
	cardLast4 := paymentsDomain.TruncateCardNumber(cardNumber)

	var payment *paymentsDomain.Payment
	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		payment, err = uc.paymentRepo.GetByOrderIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		// State is re-checked under the row lock
		switch payment.Status {
		case paymentsDomain.StatusPending:
		case paymentsDomain.StatusPaid:
			return paymentsDomain.ErrPaymentAlreadyPaid
		default:
			return fmt.Errorf("%w: payment is %s", paymentsDomain.ErrPaymentNotInitiated, payment.Status)
		}

		if !paymentsDomain.CanHold(payment, cardLast4) {
			return paymentsDomain.ErrPaymentNotInitiated
		}

		payment.Status = paymentsDomain.StatusPaid
		payment.CardLast4 = cardLast4
		payment.EscrowHeld = true

		if err := uc.paymentRepo.Update(ctx, payment); err != nil {
			return err
		}
		return uc.markOrderPaymentStatus(ctx, orderID, ordersDomain.PaymentStatusPaid)
	})
	if err != nil {
		return nil, err
	}

	uc.invalidateStatus(ctx, orderID)

	if uc.logger != nil {
		uc.logger.Info("payment captured",
			slog.String("payment_id", payment.ID.String()),
			slog.String("order_id", orderID.String()),
			slog.String("card_last4", payment.CardLast4),
		)
	}
	return payment, nil
}

// GetPaymentStatus returns the {status, escrowHeld} projection, served from
// the cache when fresh.
func (uc *PaymentUseCaseImpl) GetPaymentStatus(
	ctx context.Context,
	orderID uuid.UUID,
) (*StatusProjection, error) {
	key := cache.PaymentStatusKey(orderID.String())

	if cached, found, err := uc.statusCache.Get(ctx, key); err == nil && found {
		var projection StatusProjection
		if err := json.Unmarshal([]byte(cached), &projection); err == nil {
			return &projection, nil
		}
	}

	payment, err := uc.paymentRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	projection := &StatusProjection{
		Status:     payment.Status,
		EscrowHeld: payment.EscrowHeld,
	}

	if encoded, err := json.Marshal(projection); err == nil {
		if err := uc.statusCache.Set(ctx, key, string(encoded), uc.config.CacheTTL); err != nil && uc.logger != nil {
			uc.logger.Warn("failed to cache payment status", slog.Any("error", err))
		}
	}
	return projection, nil
}

// ReleaseEscrow sweeps held payments once: refunds those whose order entered
// the return flow, releases those past the hold period, skips the rest. The
// candidate scan is a snapshot; each row is then reprocessed under its own
// transaction, so a failed row rolls back alone and the sweep keeps going.
// Returns the number of payments released to sellers. Safe to run repeatedly.
func (uc *PaymentUseCaseImpl) ReleaseEscrow(ctx context.Context) (int, error) {
	now := uc.clock.Now()

	candidates, err := uc.paymentRepo.ListHeldUnreleased(ctx, uc.config.SweepBatchSize)
	if err != nil {
		return 0, err
	}

	released := 0
	var touched []uuid.UUID

	for _, candidate := range candidates {
		action, err := uc.sweepRow(ctx, candidate.OrderID, now)
		if err != nil {
			if uc.logger != nil {
				uc.logger.Error("escrow sweep row failed",
					slog.String("payment_id", candidate.ID.String()),
					slog.String("order_id", candidate.OrderID.String()),
					slog.Any("error", err),
				)
			}
			continue
		}
		if action == paymentsDomain.ActionRelease {
			released++
		}
		if action != paymentsDomain.ActionNone {
			touched = append(touched, candidate.OrderID)
		}
	}

	for _, orderID := range touched {
		uc.invalidateStatus(ctx, orderID)
	}

	if uc.logger != nil && released > 0 {
		uc.logger.Info("escrow sweep finished", slog.Int("released", released))
	}
	return released, nil
}

// sweepRow opens a transaction for one candidate, re-reads the payment under
// a row lock, and applies the state machine. The payment may have been
// refunded or released since the snapshot scan, in which case nothing
// happens. An error rolls back only this row's transaction.
func (uc *PaymentUseCaseImpl) sweepRow(
	ctx context.Context,
	orderID uuid.UUID,
	now time.Time,
) (paymentsDomain.Action, error) {
	action := paymentsDomain.ActionNone

	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		payment, err := uc.paymentRepo.GetByOrderIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if !payment.EscrowHeld || payment.Status != paymentsDomain.StatusPaid || payment.ReleasedAt != nil {
			return nil
		}

		action, err = uc.sweepOne(ctx, payment, now)
		return err
	})
	if err != nil {
		return paymentsDomain.ActionNone, err
	}
	return action, nil
}

// sweepOne re-runs the state machine for a single held payment and applies
// the resulting action.
func (uc *PaymentUseCaseImpl) sweepOne(
	ctx context.Context,
	payment *paymentsDomain.Payment,
	now time.Time,
) (paymentsDomain.Action, error) {
	order, err := uc.orderRepo.GetByID(ctx, payment.OrderID)
	if err != nil {
		// A soft-deleted order leaves the payment gated by time alone
		order = nil
	}

	action := uc.decider.Decide(payment, order, now)
	switch action {
	case paymentsDomain.ActionRelease:
		amount := payment.Amount
		payment.EscrowHeld = false
		payment.ReleasedToSellerAmount = &amount
		payment.ReleasedAt = &now
		if err := uc.paymentRepo.Update(ctx, payment); err != nil {
			return paymentsDomain.ActionNone, err
		}

	case paymentsDomain.ActionRefund:
		amount := payment.Amount
		payment.EscrowHeld = false
		payment.Status = paymentsDomain.StatusRefunded
		payment.RefundAmount = &amount
		if err := uc.paymentRepo.Update(ctx, payment); err != nil {
			return paymentsDomain.ActionNone, err
		}
		if order != nil {
			if err := uc.finishRefundedOrder(ctx, order); err != nil {
				return paymentsDomain.ActionNone, err
			}
		}
	}

	return action, nil
}

// finishRefundedOrder moves the order to its terminal refunded state and
// mirrors the refund on the denormalized payment status.
func (uc *PaymentUseCaseImpl) finishRefundedOrder(
	ctx context.Context,
	order *ordersDomain.Order,
) error {
	order.PaymentStatus = ordersDomain.PaymentStatusRefunded
	if order.OrderStatus.CanTransitionTo(ordersDomain.OrderStatusRefunded) {
		order.OrderStatus = ordersDomain.OrderStatusRefunded
	}
	return uc.orderRepo.Update(ctx, order)
}

func (uc *PaymentUseCaseImpl) markOrderPaymentStatus(
	ctx context.Context,
	orderID uuid.UUID,
	status ordersDomain.PaymentStatus,
) error {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	order.PaymentStatus = status
	return uc.orderRepo.Update(ctx, order)
}

// invalidateStatus drops the cached projection. Best effort.
func (uc *PaymentUseCaseImpl) invalidateStatus(ctx context.Context, orderID uuid.UUID) {
	key := cache.PaymentStatusKey(orderID.String())
	if err := uc.statusCache.Delete(ctx, key); err != nil && uc.logger != nil {
		uc.logger.Warn("failed to invalidate payment status cache",
			slog.String("order_id", orderID.String()),
			slog.Any("error", err),
		)
	}
}

// checkoutRef derives the opaque reference embedded in the fake checkout
// page from the payment ID.
func checkoutRef(paymentID uuid.UUID) string {
	return "chk_" + paymentID.String()
}
