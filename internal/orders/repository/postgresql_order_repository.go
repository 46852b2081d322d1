// Package repository implements data persistence for orders.
// Repositories support both PostgreSQL and MySQL with soft deletion: orders
// are never hard-deleted while a payment may still reference them.
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

const orderColumns = `id, shop_id, product_id, created_by, customer_name, customer_phone,
			  customer_address, contact_pref, delivery_agency_id, delivery_amount,
			  payment_status, order_status, risk_level, risk_probability, created_at, deleted_at`

// PostgreSQLOrderRepository implements Order persistence for PostgreSQL databases.
type PostgreSQLOrderRepository struct {
	db *sql.DB
}

// NewPostgreSQLOrderRepository creates a new PostgreSQL Order repository instance.
func NewPostgreSQLOrderRepository(db *sql.DB) *PostgreSQLOrderRepository {
	return &PostgreSQLOrderRepository{db: db}
}

// Create inserts a new order into the PostgreSQL database.
func (p *PostgreSQLOrderRepository) Create(ctx context.Context, order *ordersDomain.Order) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO orders (` + orderColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

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
func (p *PostgreSQLOrderRepository) GetByID(
	ctx context.Context,
	orderID uuid.UUID,
) (*ordersDomain.Order, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + orderColumns + `
			  FROM orders
			  WHERE id = $1 AND deleted_at IS NULL`

	return scanOrder(querier.QueryRowContext(ctx, query, orderID))
}

// Update persists the order's mutable fields.
func (p *PostgreSQLOrderRepository) Update(ctx context.Context, order *ordersDomain.Order) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE orders
			  SET customer_name = $1, customer_phone = $2, customer_address = $3,
			      contact_pref = $4, delivery_agency_id = $5, delivery_amount = $6,
			      payment_status = $7, order_status = $8, risk_level = $9, risk_probability = $10
			  WHERE id = $11 AND deleted_at IS NULL`

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
func (p *PostgreSQLOrderRepository) Delete(ctx context.Context, orderID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE orders
			  SET deleted_at = $1
			  WHERE id = $2 AND deleted_at IS NULL`

	_, err := querier.ExecContext(ctx, query, time.Now().UTC(), orderID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete order")
	}
	return nil
}

// List retrieves active orders newest first, optionally filtered by shop.
func (p *PostgreSQLOrderRepository) List(
	ctx context.Context,
	shopID string,
	limit, offset int,
) ([]*ordersDomain.Order, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + orderColumns + `
			  FROM orders
			  WHERE deleted_at IS NULL AND ($1 = '' OR shop_id = $1)
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, shopID, limit, offset)
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
