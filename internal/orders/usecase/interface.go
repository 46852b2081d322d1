// Package usecase implements the order business logic and orchestrates order
// domain operations. Only use cases mutate order state.
package usecase

import (
	"context"

	"github.com/google/uuid"

	notificationsDomain "github.com/souqdz/marketplace/internal/notifications/domain"
	ordersDomain "github.com/souqdz/marketplace/internal/orders/domain"
)

// OrderRepository defines order persistence operations.
type OrderRepository interface {
	Create(ctx context.Context, order *ordersDomain.Order) error
	GetByID(ctx context.Context, orderID uuid.UUID) (*ordersDomain.Order, error)
	Update(ctx context.Context, order *ordersDomain.Order) error
	Delete(ctx context.Context, orderID uuid.UUID) error
	List(ctx context.Context, shopID string, limit, offset int) ([]*ordersDomain.Order, error)
}

// NotificationEnqueuer enqueues notification jobs. Enqueueing is
// fire-and-forget from the order path: a queue failure never rolls back
// order state.
type NotificationEnqueuer interface {
	Enqueue(ctx context.Context, name notificationsDomain.JobName, payload any) (uuid.UUID, error)
}

// CreateOrderInput carries the fields accepted when creating an order.
type CreateOrderInput struct {
	ShopID           string
	ProductID        string
	CreatedBy        string
	CustomerName     string
	CustomerPhone    string
	CustomerAddress  string
	ContactPref      string
	DeliveryAgencyID string
	DeliveryAmount   float64
	RiskLevel        string
	RiskProbability  float64
}

// UpdateOrderInput carries the mutable customer-facing fields of an order.
type UpdateOrderInput struct {
	CustomerName     *string
	CustomerPhone    *string
	CustomerAddress  *string
	ContactPref      *string
	DeliveryAgencyID *string
	DeliveryAmount   *float64
}

// OrderUseCase defines the interface for order management business logic.
type OrderUseCase interface {
	Create(ctx context.Context, input CreateOrderInput) (*ordersDomain.Order, error)
	Get(ctx context.Context, orderID uuid.UUID) (*ordersDomain.Order, error)
	List(ctx context.Context, shopID string, limit, offset int) ([]*ordersDomain.Order, error)
	Update(ctx context.Context, orderID uuid.UUID, input UpdateOrderInput) (*ordersDomain.Order, error)
	Delete(ctx context.Context, orderID uuid.UUID) error
	Confirm(ctx context.Context, orderID uuid.UUID) (*ordersDomain.Order, error)
	MarkShipped(ctx context.Context, orderID uuid.UUID) (*ordersDomain.Order, error)
	MarkDelivered(ctx context.Context, orderID uuid.UUID) (*ordersDomain.Order, error)
	RequestReturn(ctx context.Context, orderID uuid.UUID) (*ordersDomain.Order, error)
}
