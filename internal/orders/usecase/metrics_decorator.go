package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/souqdz/marketplace/internal/metrics"
	ordersDomain "github.com/souqdz/marketplace/internal/orders/domain"
)

// orderUseCaseWithMetrics decorates OrderUseCase with metrics instrumentation.
type orderUseCaseWithMetrics struct {
	next    OrderUseCase
	metrics metrics.BusinessMetrics
}

// NewOrderUseCaseWithMetrics wraps an OrderUseCase with metrics recording.
func NewOrderUseCaseWithMetrics(useCase OrderUseCase, m metrics.BusinessMetrics) OrderUseCase {
	return &orderUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (o *orderUseCaseWithMetrics) record(
	ctx context.Context,
	operation string,
	start time.Time,
	err error,
) {
	status := "success"
	if err != nil {
		status = "error"
	}
	o.metrics.RecordOperation(ctx, "orders", operation, status)
	o.metrics.RecordDuration(ctx, "orders", operation, time.Since(start), status)
}

// Create records metrics for order creation operations.
func (o *orderUseCaseWithMetrics) Create(
	ctx context.Context,
	input CreateOrderInput,
) (*ordersDomain.Order, error) {
	start := time.Now()
	order, err := o.next.Create(ctx, input)
	o.record(ctx, "order_create", start, err)
	return order, err
}

// Get records metrics for order retrieval operations.
func (o *orderUseCaseWithMetrics) Get(
	ctx context.Context,
	orderID uuid.UUID,
) (*ordersDomain.Order, error) {
	start := time.Now()
	order, err := o.next.Get(ctx, orderID)
	o.record(ctx, "order_get", start, err)
	return order, err
}

// List records metrics for order listing operations.
func (o *orderUseCaseWithMetrics) List(
	ctx context.Context,
	shopID string,
	limit, offset int,
) ([]*ordersDomain.Order, error) {
	start := time.Now()
	orders, err := o.next.List(ctx, shopID, limit, offset)
	o.record(ctx, "order_list", start, err)
	return orders, err
}

// Update records metrics for order update operations.
func (o *orderUseCaseWithMetrics) Update(
	ctx context.Context,
	orderID uuid.UUID,
	input UpdateOrderInput,
) (*ordersDomain.Order, error) {
	start := time.Now()
	order, err := o.next.Update(ctx, orderID, input)
	o.record(ctx, "order_update", start, err)
	return order, err
}

// Delete records metrics for order soft-delete operations.
func (o *orderUseCaseWithMetrics) Delete(ctx context.Context, orderID uuid.UUID) error {
	start := time.Now()
	err := o.next.Delete(ctx, orderID)
	o.record(ctx, "order_delete", start, err)
	return err
}

// Confirm records metrics for order confirmation operations.
func (o *orderUseCaseWithMetrics) Confirm(
	ctx context.Context,
	orderID uuid.UUID,
) (*ordersDomain.Order, error) {
	start := time.Now()
	order, err := o.next.Confirm(ctx, orderID)
	o.record(ctx, "order_confirm", start, err)
	return order, err
}

// MarkShipped records metrics for ship transitions.
func (o *orderUseCaseWithMetrics) MarkShipped(
	ctx context.Context,
	orderID uuid.UUID,
) (*ordersDomain.Order, error) {
	start := time.Now()
	order, err := o.next.MarkShipped(ctx, orderID)
	o.record(ctx, "order_mark_shipped", start, err)
	return order, err
}

// MarkDelivered records metrics for delivery transitions.
func (o *orderUseCaseWithMetrics) MarkDelivered(
	ctx context.Context,
	orderID uuid.UUID,
) (*ordersDomain.Order, error) {
	start := time.Now()
	order, err := o.next.MarkDelivered(ctx, orderID)
	o.record(ctx, "order_mark_delivered", start, err)
	return order, err
}

// RequestReturn records metrics for return request transitions.
func (o *orderUseCaseWithMetrics) RequestReturn(
	ctx context.Context,
	orderID uuid.UUID,
) (*ordersDomain.Order, error) {
	start := time.Now()
	order, err := o.next.RequestReturn(ctx, orderID)
	o.record(ctx, "order_request_return", start, err)
	return order, err
}
