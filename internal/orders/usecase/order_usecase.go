package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	validationlib "github.com/jellydator/validation"

	"github.com/souqdz/marketplace/internal/clock"
	notificationsDomain "github.com/souqdz/marketplace/internal/notifications/domain"
	ordersDomain "github.com/souqdz/marketplace/internal/orders/domain"
	"github.com/souqdz/marketplace/internal/validation"
)

// OrderUseCaseImpl implements business logic for order management.
type OrderUseCaseImpl struct {
	orderRepo OrderRepository
	enqueuer  NotificationEnqueuer
	clock     clock.Clock
	logger    *slog.Logger
}

// NewOrderUseCase creates a new OrderUseCaseImpl.
func NewOrderUseCase(
	orderRepo OrderRepository,
	enqueuer NotificationEnqueuer,
	clk clock.Clock,
	logger *slog.Logger,
) *OrderUseCaseImpl {
	return &OrderUseCaseImpl{
		orderRepo: orderRepo,
		enqueuer:  enqueuer,
		clock:     clk,
		logger:    logger,
	}
}

// Create validates the input, persists a new order in status new and
// enqueues a WhatsApp confirmation when the customer prefers WhatsApp.
func (uc *OrderUseCaseImpl) Create(
	ctx context.Context,
	input CreateOrderInput,
) (*ordersDomain.Order, error) {
	if err := validateCreateOrderInput(input); err != nil {
		return nil, err
	}

	order := &ordersDomain.Order{
		ID:               uuid.Must(uuid.NewV7()),
		ShopID:           input.ShopID,
		ProductID:        input.ProductID,
		CreatedBy:        input.CreatedBy,
		CustomerName:     input.CustomerName,
		CustomerPhone:    input.CustomerPhone,
		CustomerAddress:  input.CustomerAddress,
		ContactPref:      ordersDomain.ContactPref(input.ContactPref),
		DeliveryAgencyID: input.DeliveryAgencyID,
		DeliveryAmount:   input.DeliveryAmount,
		PaymentStatus:    ordersDomain.PaymentStatusPending,
		OrderStatus:      ordersDomain.OrderStatusNew,
		RiskLevel:        riskLevelOrDefault(input.RiskLevel),
		RiskProbability:  input.RiskProbability,
		CreatedAt:        uc.clock.Now(),
	}

	if err := uc.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	uc.enqueueConfirmation(ctx, order)

	if uc.logger != nil {
		uc.logger.Info("order created",
			slog.String("order_id", order.ID.String()),
			slog.String("shop_id", order.ShopID),
		)
	}
	return order, nil
}

// Get retrieves an order by its ID.
func (uc *OrderUseCaseImpl) Get(
	ctx context.Context,
	orderID uuid.UUID,
) (*ordersDomain.Order, error) {
	return uc.orderRepo.GetByID(ctx, orderID)
}

// List retrieves active orders, optionally filtered by shop.
func (uc *OrderUseCaseImpl) List(
	ctx context.Context,
	shopID string,
	limit, offset int,
) ([]*ordersDomain.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return uc.orderRepo.List(ctx, shopID, limit, offset)
}

// Update applies the provided customer-facing fields to an order.
func (uc *OrderUseCaseImpl) Update(
	ctx context.Context,
	orderID uuid.UUID,
	input UpdateOrderInput,
) (*ordersDomain.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if input.CustomerName != nil {
		order.CustomerName = *input.CustomerName
	}
	if input.CustomerPhone != nil {
		order.CustomerPhone = *input.CustomerPhone
	}
	if input.CustomerAddress != nil {
		order.CustomerAddress = *input.CustomerAddress
	}
	if input.ContactPref != nil {
		order.ContactPref = ordersDomain.ContactPref(*input.ContactPref)
	}
	if input.DeliveryAgencyID != nil {
		order.DeliveryAgencyID = *input.DeliveryAgencyID
	}
	if input.DeliveryAmount != nil {
		order.DeliveryAmount = *input.DeliveryAmount
	}

	if err := validateOrderFields(order); err != nil {
		return nil, err
	}

	if err := uc.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Delete soft-deletes an order. The row survives for payment references.
func (uc *OrderUseCaseImpl) Delete(ctx context.Context, orderID uuid.UUID) error {
	if _, err := uc.orderRepo.GetByID(ctx, orderID); err != nil {
		return err
	}
	return uc.orderRepo.Delete(ctx, orderID)
}

// Confirm moves the order from new to confirmed.
func (uc *OrderUseCaseImpl) Confirm(
	ctx context.Context,
	orderID uuid.UUID,
) (*ordersDomain.Order, error) {
	return uc.transition(ctx, orderID, ordersDomain.OrderStatusConfirmed)
}

// MarkShipped moves the order from confirmed to shipped.
func (uc *OrderUseCaseImpl) MarkShipped(
	ctx context.Context,
	orderID uuid.UUID,
) (*ordersDomain.Order, error) {
	return uc.transition(ctx, orderID, ordersDomain.OrderStatusShipped)
}

// MarkDelivered moves the order from shipped to delivered.
func (uc *OrderUseCaseImpl) MarkDelivered(
	ctx context.Context,
	orderID uuid.UUID,
) (*ordersDomain.Order, error) {
	return uc.transition(ctx, orderID, ordersDomain.OrderStatusDelivered)
}

// RequestReturn moves the order from delivered to return_requested.
func (uc *OrderUseCaseImpl) RequestReturn(
	ctx context.Context,
	orderID uuid.UUID,
) (*ordersDomain.Order, error) {
	return uc.transition(ctx, orderID, ordersDomain.OrderStatusReturnRequested)
}

// transition applies a single forward status move, rejecting illegal ones.
func (uc *OrderUseCaseImpl) transition(
	ctx context.Context,
	orderID uuid.UUID,
	target ordersDomain.OrderStatus,
) (*ordersDomain.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.OrderStatus.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s -> %s", ordersDomain.ErrIllegalTransition, order.OrderStatus, target)
	}

	order.OrderStatus = target
	if err := uc.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info("order status changed",
			slog.String("order_id", order.ID.String()),
			slog.String("order_status", string(target)),
		)
	}
	return order, nil
}

// enqueueConfirmation enqueues the WhatsApp confirmation job. Best effort
// only, a queue failure is logged and never surfaces to the caller.
func (uc *OrderUseCaseImpl) enqueueConfirmation(ctx context.Context, order *ordersDomain.Order) {
	if uc.enqueuer == nil || order.ContactPref != ordersDomain.ContactPrefWhatsApp {
		return
	}

	payload := notificationsDomain.ConfirmationWhatsAppPayload{
		RecipientPhone: order.CustomerPhone,
		OrderSummary:   fmt.Sprintf("Order %s, product %s", order.ID, order.ProductID),
	}
	if _, err := uc.enqueuer.Enqueue(ctx, notificationsDomain.JobSendConfirmationWhatsApp, payload); err != nil {
		if uc.logger != nil {
			uc.logger.Warn("failed to enqueue order confirmation",
				slog.String("order_id", order.ID.String()),
				slog.Any("error", err),
			)
		}
	}
}

func validateCreateOrderInput(input CreateOrderInput) error {
	err := validationlib.ValidateStruct(&input,
		validationlib.Field(&input.ShopID, validationlib.Required),
		validationlib.Field(&input.ProductID, validationlib.Required),
		validationlib.Field(&input.CustomerName, validationlib.Required),
		validationlib.Field(&input.CustomerPhone, validationlib.Required, validation.PhoneNumber{}),
		validationlib.Field(&input.CustomerAddress, validationlib.Required),
		validationlib.Field(&input.ContactPref, validationlib.Required,
			validation.OneOf{Choices: contactPrefChoices()}),
		validationlib.Field(&input.DeliveryAmount, validationlib.Min(0.0)),
		validationlib.Field(&input.RiskLevel,
			validationlib.When(input.RiskLevel != "", validation.OneOf{Choices: riskLevelChoices()})),
		validationlib.Field(&input.RiskProbability, validationlib.Min(0.0), validationlib.Max(1.0)),
	)
	return validation.WrapValidationError(err)
}

func validateOrderFields(order *ordersDomain.Order) error {
	err := validationlib.ValidateStruct(order,
		validationlib.Field(&order.CustomerName, validationlib.Required),
		validationlib.Field(&order.CustomerPhone, validationlib.Required, validation.PhoneNumber{}),
		validationlib.Field(&order.CustomerAddress, validationlib.Required),
		validationlib.Field(&order.ContactPref, validation.OneOf{Choices: contactPrefChoices()}),
		validationlib.Field(&order.DeliveryAmount, validationlib.Min(0.0)),
	)
	return validation.WrapValidationError(err)
}

func contactPrefChoices() []string {
	choices := make([]string, 0, len(ordersDomain.ContactPrefValues))
	for _, v := range ordersDomain.ContactPrefValues {
		choices = append(choices, string(v))
	}
	return choices
}

func riskLevelChoices() []string {
	choices := make([]string, 0, len(ordersDomain.RiskLevelValues))
	for _, v := range ordersDomain.RiskLevelValues {
		choices = append(choices, string(v))
	}
	return choices
}

func riskLevelOrDefault(level string) ordersDomain.RiskLevel {
	if level == "" {
		return ordersDomain.RiskLevelLow
	}
	return ordersDomain.RiskLevel(level)
}
