package repository

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"

	apperrors "github.com/souqdz/marketplace/internal/errors"
	ordersDomain "github.com/souqdz/marketplace/internal/orders/domain"
)

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row *sql.Row) (*ordersDomain.Order, error) {
	order, err := scanOrderRow(row)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, ordersDomain.ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func scanOrderRow(scanner rowScanner) (*ordersDomain.Order, error) {
	var order ordersDomain.Order
	err := scanner.Scan(
		&order.ID,
		&order.ShopID,
		&order.ProductID,
		&order.CreatedBy,
		&order.CustomerName,
		&order.CustomerPhone,
		&order.CustomerAddress,
		&order.ContactPref,
		&order.DeliveryAgencyID,
		&order.DeliveryAmount,
		&order.PaymentStatus,
		&order.OrderStatus,
		&order.RiskLevel,
		&order.RiskProbability,
		&order.CreatedAt,
		&order.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to scan order")
	}
	return &order, nil
}

// translateError maps driver-specific duplicate key errors to ErrConflict.
func translateError(err error) error {
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
