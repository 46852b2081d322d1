package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/souqdz/marketplace/internal/errors"
	"github.com/souqdz/marketplace/internal/payments/domain"
	"github.com/souqdz/marketplace/internal/testutil"
)

func makeTestPayment(orderID uuid.UUID, createdAt time.Time) *domain.Payment {
	return &domain.Payment{
		ID:         uuid.Must(uuid.NewV7()),
		OrderID:    orderID,
		Amount:     2500,
		Status:     domain.StatusPaid,
		CardLast4:  "4242",
		EscrowHeld: true,
		CreatedAt:  createdAt,
	}
}

func TestNewPostgreSQLPaymentRepository(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)

	repo := NewPostgreSQLPaymentRepository(db)
	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestPostgreSQLPaymentRepository_CreateAndGet(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLPaymentRepository(db)
	ctx := context.Background()

	orderID := testutil.CreateTestOrder(t, db, "postgres", "shop-1")
	payment := makeTestPayment(orderID, time.Now().UTC())

	err := repo.Create(ctx, payment)
	require.NoError(t, err)

	got, err := repo.GetByOrderID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, payment.ID, got.ID)
	assert.Equal(t, "4242", got.CardLast4)
	assert.True(t, got.EscrowHeld)
	assert.Nil(t, got.ReleasedAt)
	assert.Nil(t, got.ReleasedToSellerAmount)
}

func TestPostgreSQLPaymentRepository_Create_DuplicateOrder(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLPaymentRepository(db)
	ctx := context.Background()

	orderID := testutil.CreateTestOrder(t, db, "postgres", "shop-1")

	err := repo.Create(ctx, makeTestPayment(orderID, time.Now().UTC()))
	require.NoError(t, err)

	// Second payment for the same order violates the unique order_id index
	err = repo.Create(ctx, makeTestPayment(orderID, time.Now().UTC()))
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestPostgreSQLPaymentRepository_GetByOrderID_NotFound(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLPaymentRepository(db)
	ctx := context.Background()

	_, err := repo.GetByOrderID(ctx, uuid.Must(uuid.NewV7()))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPostgreSQLPaymentRepository_Update(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLPaymentRepository(db)
	ctx := context.Background()

	orderID := testutil.CreateTestOrder(t, db, "postgres", "shop-1")
	payment := makeTestPayment(orderID, time.Now().UTC())
	require.NoError(t, repo.Create(ctx, payment))

	now := time.Now().UTC().Truncate(time.Microsecond)
	amount := payment.Amount
	payment.ReleasedToSellerAmount = &amount
	payment.ReleasedAt = &now
	payment.EscrowHeld = false

	err := repo.Update(ctx, payment)
	require.NoError(t, err)

	got, err := repo.GetByOrderID(ctx, orderID)
	require.NoError(t, err)
	assert.False(t, got.EscrowHeld)
	require.NotNil(t, got.ReleasedToSellerAmount)
	assert.Equal(t, amount, *got.ReleasedToSellerAmount)
	require.NotNil(t, got.ReleasedAt)
}

func TestPostgreSQLPaymentRepository_Update_NotFound(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLPaymentRepository(db)
	ctx := context.Background()

	err := repo.Update(ctx, makeTestPayment(uuid.Must(uuid.NewV7()), time.Now().UTC()))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPostgreSQLPaymentRepository_ListHeldUnreleased(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLPaymentRepository(db)
	ctx := context.Background()

	order1 := testutil.CreateTestOrder(t, db, "postgres", "shop-1")
	order2 := testutil.CreateTestOrder(t, db, "postgres", "shop-2")
	order3 := testutil.CreateTestOrder(t, db, "postgres", "shop-3")

	// Oldest held payment first
	held1 := makeTestPayment(order1, time.Now().UTC().Add(-72*time.Hour))
	held2 := makeTestPayment(order2, time.Now().UTC().Add(-24*time.Hour))

	// Released payments are excluded from the sweep scan
	released := makeTestPayment(order3, time.Now().UTC().Add(-96*time.Hour))
	releasedAt := time.Now().UTC()
	released.ReleasedAt = &releasedAt
	released.ReleasedToSellerAmount = &released.Amount
	released.EscrowHeld = false

	require.NoError(t, repo.Create(ctx, held1))
	require.NoError(t, repo.Create(ctx, held2))
	require.NoError(t, repo.Create(ctx, released))

	payments, err := repo.ListHeldUnreleased(ctx, 10)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, held1.ID, payments[0].ID)
	assert.Equal(t, held2.ID, payments[1].ID)
}
