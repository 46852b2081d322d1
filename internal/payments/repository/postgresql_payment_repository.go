// Package repository implements data persistence for payments.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/souqdz/marketplace/internal/database"
	apperrors "github.com/souqdz/marketplace/internal/errors"
	paymentsDomain "github.com/souqdz/marketplace/internal/payments/domain"
)

const paymentColumns = `id, order_id, amount, status, card_last4, escrow_held,
			  refund_amount, released_to_seller_amount, released_at, created_at`

// PostgreSQLPaymentRepository implements Payment persistence for PostgreSQL databases.
type PostgreSQLPaymentRepository struct {
	db *sql.DB
}

// NewPostgreSQLPaymentRepository creates a new PostgreSQL Payment repository instance.
func NewPostgreSQLPaymentRepository(db *sql.DB) *PostgreSQLPaymentRepository {
	return &PostgreSQLPaymentRepository{db: db}
}

// Create inserts a new payment into the PostgreSQL database.
// A unique index on order_id enforces at most one payment per order.
func (p *PostgreSQLPaymentRepository) Create(
	ctx context.Context,
	payment *paymentsDomain.Payment,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO payments (` + paymentColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

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
func (p *PostgreSQLPaymentRepository) GetByOrderID(
	ctx context.Context,
	orderID uuid.UUID,
) (*paymentsDomain.Payment, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + paymentColumns + `
			  FROM payments
			  WHERE order_id = $1`

	return scanPayment(querier.QueryRowContext(ctx, query, orderID))
}

// GetByOrderIDForUpdate retrieves the payment attached to an order with a row
// lock. Must run inside a transaction started via TxManager.
func (p *PostgreSQLPaymentRepository) GetByOrderIDForUpdate(
	ctx context.Context,
	orderID uuid.UUID,
) (*paymentsDomain.Payment, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + paymentColumns + `
			  FROM payments
			  WHERE order_id = $1
			  FOR UPDATE`

	return scanPayment(querier.QueryRowContext(ctx, query, orderID))
}

// Update persists the payment's mutable fields.
func (p *PostgreSQLPaymentRepository) Update(
	ctx context.Context,
	payment *paymentsDomain.Payment,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE payments
			  SET amount = $1, status = $2, card_last4 = $3, escrow_held = $4,
			      refund_amount = $5, released_to_seller_amount = $6, released_at = $7
			  WHERE id = $8`

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
func (p *PostgreSQLPaymentRepository) ListHeldUnreleased(
	ctx context.Context,
	limit int,
) ([]*paymentsDomain.Payment, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + paymentColumns + `
			  FROM payments
			  WHERE escrow_held = TRUE AND status = $1 AND released_at IS NULL
			  ORDER BY created_at ASC
			  LIMIT $2
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

// paymentScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type paymentScanner interface {
	Scan(dest ...any) error
}

func scanPayment(row *sql.Row) (*paymentsDomain.Payment, error) {
	payment, err := scanPaymentRow(row)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, paymentsDomain.ErrPaymentNotFound
		}
		return nil, err
	}
	return payment, nil
}

func scanPaymentRow(scanner paymentScanner) (*paymentsDomain.Payment, error) {
	var payment paymentsDomain.Payment
	err := scanner.Scan(
		&payment.ID,
		&payment.OrderID,
		&payment.Amount,
		&payment.Status,
		&payment.CardLast4,
		&payment.EscrowHeld,
		&payment.RefundAmount,
		&payment.ReleasedToSellerAmount,
		&payment.ReleasedAt,
		&payment.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to scan payment")
	}
	return &payment, nil
}

// translatePaymentError maps driver-specific duplicate key errors to ErrConflict.
func translatePaymentError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return apperrors.ErrConflict
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return apperrors.ErrConflict
	}

	return err
}
