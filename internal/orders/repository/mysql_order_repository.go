package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/souqdz/marketplace/internal/database"
	apperrors "github.com/souqdz/marketplace/internal/errors"
	ordersDomain "github.com/souqdz/marketplace/internal/orders/domain"
)

// MySQLOrderRepository implements Order persistence for MySQL databases.
type MySQLOrderRepository struct {
	db *sql.DB
}

// NewMySQLOrderRepository creates a new MySQL Order repository instance.
func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

// Create inserts a new order into the MySQL database.
func (m *MySQLOrderRepository) Create(ctx context.Context, order *ordersDomain.Order) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO orders (` + orderColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		order.ID,
		order.ShopID,
		order.ProductID,
		order.CreatedBy,
		order.CustomerName,
		order.CustomerPhone,
		order.CustomerAddress,
		order.ContactPref,
		order.DeliveryAgencyID,
		order.DeliveryAmount,
		order.PaymentStatus,
		order.OrderStatus,
		order.RiskLevel,
		order.RiskProbability,
		order.CreatedAt,
		order.DeletedAt,
	)
	if err != nil {
		return apperrors.Wrap(translateError(err), "failed to create order")
	}
	return nil
}

// GetByID retrieves an order by its ID, ignoring soft-deleted rows.
func (m *MySQLOrderRepository) GetByID(
	ctx context.Context,
	orderID uuid.UUID,
) (*ordersDomain.Order, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + orderColumns + `
			  FROM orders
			  WHERE id = ? AND deleted_at IS NULL`

	return scanOrder(querier.QueryRowContext(ctx, query, orderID))
}

// Update persists the order's mutable fields.
func (m *MySQLOrderRepository) Update(ctx context.Context, order *ordersDomain.Order) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE orders
			  SET customer_name = ?, customer_phone = ?, customer_address = ?,
			      contact_pref = ?, delivery_agency_id = ?, delivery_amount = ?,
			      payment_status = ?, order_status = ?, risk_level = ?, risk_probability = ?
			  WHERE id = ? AND deleted_at IS NULL`

	result, err := querier.ExecContext(
		ctx,
		query,
		order.CustomerName,
		order.CustomerPhone,
		order.CustomerAddress,
		order.ContactPref,
		order.DeliveryAgencyID,
		order.DeliveryAmount,
		order.PaymentStatus,
		order.OrderStatus,
		order.RiskLevel,
		order.RiskProbability,
		order.ID,
	)
	if err != nil {
		return apperrors.Wrap(translateError(err), "failed to update order")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to update order")
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete performs a soft delete on an order by setting the deleted_at timestamp.
func (m *MySQLOrderRepository) Delete(ctx context.Context, orderID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE orders
			  SET deleted_at = ?
			  WHERE id = ? AND deleted_at IS NULL`

	_, err := querier.ExecContext(ctx, query, time.Now().UTC(), orderID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete order")
	}
	return nil
}

// List retrieves active orders newest first, optionally filtered by shop.
func (m *MySQLOrderRepository) List(
	ctx context.Context,
	shopID string,
	limit, offset int,
) ([]*ordersDomain.Order, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + orderColumns + `
			  FROM orders
			  WHERE deleted_at IS NULL AND (? = '' OR shop_id = ?)
			  ORDER BY created_at DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, shopID, shopID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list orders")
	}
	defer rows.Close() //nolint:errcheck

	var orders []*ordersDomain.Order
	for rows.Next() {
		order, err := scanOrderRow(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to list orders")
	}
	return orders, nil
}
