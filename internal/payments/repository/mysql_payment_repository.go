package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/souqdz/marketplace/internal/database"
	apperrors "github.com/souqdz/marketplace/internal/errors"
	paymentsDomain "github.com/souqdz/marketplace/internal/payments/domain"
)

// MySQLPaymentRepository implements Payment persistence for MySQL databases.
type MySQLPaymentRepository struct {
	db *sql.DB
}

// NewMySQLPaymentRepository creates a new MySQL Payment repository instance.
func NewMySQLPaymentRepository(db *sql.DB) *MySQLPaymentRepository {
	return &MySQLPaymentRepository{db: db}
}

// Create inserts a new payment into the MySQL database.
// A unique index on order_id enforces at most one payment per order.
func (m *MySQLPaymentRepository) Create(
	ctx context.Context,
	payment *paymentsDomain.Payment,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO payments (` + paymentColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		payment.ID,
		payment.OrderID,
		payment.Amount,
		payment.Status,
		payment.CardLast4,
		payment.EscrowHeld,
		payment.RefundAmount,
		payment.ReleasedToSellerAmount,
		payment.ReleasedAt,
		payment.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(translatePaymentError(err), "failed to create payment")
	}
	return nil
}

// GetByOrderID retrieves the payment attached to an order.
func (m *MySQLPaymentRepository) GetByOrderID(
	ctx context.Context,
	orderID uuid.UUID,
) (*paymentsDomain.Payment, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + paymentColumns + `
			  FROM payments
			  WHERE order_id = ?`

	return scanPayment(querier.QueryRowContext(ctx, query, orderID))
}

// GetByOrderIDForUpdate retrieves the payment attached to an order with a row
// lock. Must run inside a transaction started via TxManager.
func (m *MySQLPaymentRepository) GetByOrderIDForUpdate(
	ctx context.Context,
	orderID uuid.UUID,
) (*paymentsDomain.Payment, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + paymentColumns + `
			  FROM payments
			  WHERE order_id = ?
			  FOR UPDATE`

	return scanPayment(querier.QueryRowContext(ctx, query, orderID))
}

// Update persists the payment's mutable fields.
func (m *MySQLPaymentRepository) Update(
	ctx context.Context,
	payment *paymentsDomain.Payment,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE payments
			  SET amount = ?, status = ?, card_last4 = ?, escrow_held = ?,
			      refund_amount = ?, released_to_seller_amount = ?, released_at = ?
			  WHERE id = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		payment.Amount,
		payment.Status,
		payment.CardLast4,
		payment.EscrowHeld,
		payment.RefundAmount,
		payment.ReleasedToSellerAmount,
		payment.ReleasedAt,
		payment.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update payment")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to update payment")
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListHeldUnreleased retrieves payments still held in escrow, oldest first.
// SKIP LOCKED leaves out rows a concurrent sweep is processing; the result
// is a snapshot and callers must re-check each row under its own lock.
func (m *MySQLPaymentRepository) ListHeldUnreleased(
	ctx context.Context,
	limit int,
) ([]*paymentsDomain.Payment, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + paymentColumns + `
			  FROM payments
			  WHERE escrow_held = TRUE AND status = ? AND released_at IS NULL
			  ORDER BY created_at ASC
			  LIMIT ?
			  FOR UPDATE SKIP LOCKED`

	rows, err := querier.QueryContext(ctx, query, paymentsDomain.StatusPaid, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list held payments")
	}
	defer rows.Close() //nolint:errcheck

	var payments []*paymentsDomain.Payment
	for rows.Next() {
		payment, err := scanPaymentRow(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to list held payments")
	}
	return payments, nil
}
