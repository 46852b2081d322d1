package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/souqdz/marketplace/internal/errors"
	"github.com/souqdz/marketplace/internal/orders/domain"
	"github.com/souqdz/marketplace/internal/testutil"
)

func makeTestOrder(shopID string) *domain.Order {
	return &domain.Order{
		ID:               uuid.Must(uuid.NewV7()),
		ShopID:           shopID,
		ProductID:        "product-1",
		CreatedBy:        "seller-1",
		CustomerName:     "Amina B",
		CustomerPhone:    "+213555000111",
		CustomerAddress:  "12 Rue Didouche, Algiers",
		ContactPref:      domain.ContactPrefWhatsApp,
		DeliveryAgencyID: "agency-1",
		DeliveryAmount:   500,
		PaymentStatus:    domain.PaymentStatusPending,
		OrderStatus:      domain.OrderStatusNew,
		RiskLevel:        domain.RiskLevelLow,
		RiskProbability:  0.05,
		CreatedAt:        time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestNewPostgreSQLOrderRepository(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)

	repo := NewPostgreSQLOrderRepository(db)
	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestPostgreSQLOrderRepository_CreateAndGet(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLOrderRepository(db)
	ctx := context.Background()

	order := makeTestOrder("shop-1")
	err := repo.Create(ctx, order)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
	assert.Equal(t, order.CustomerName, got.CustomerName)
	assert.Equal(t, domain.OrderStatusNew, got.OrderStatus)
	assert.Nil(t, got.DeletedAt)
}

func TestPostgreSQLOrderRepository_Create_Duplicate(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLOrderRepository(db)
	ctx := context.Background()

	order := makeTestOrder("shop-1")
	err := repo.Create(ctx, order)
	require.NoError(t, err)

	err = repo.Create(ctx, order)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestPostgreSQLOrderRepository_GetByID_NotFound(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLOrderRepository(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, uuid.Must(uuid.NewV7()))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPostgreSQLOrderRepository_Update(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLOrderRepository(db)
	ctx := context.Background()

	order := makeTestOrder("shop-1")
	err := repo.Create(ctx, order)
	require.NoError(t, err)

	order.OrderStatus = domain.OrderStatusConfirmed
	order.CustomerAddress = "5 Boulevard Zirout, Algiers"
	err = repo.Update(ctx, order)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, got.OrderStatus)
	assert.Equal(t, "5 Boulevard Zirout, Algiers", got.CustomerAddress)
}

func TestPostgreSQLOrderRepository_Update_NotFound(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLOrderRepository(db)
	ctx := context.Background()

	order := makeTestOrder("shop-1")
	err := repo.Update(ctx, order)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPostgreSQLOrderRepository_Delete(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLOrderRepository(db)
	ctx := context.Background()

	order := makeTestOrder("shop-1")
	err := repo.Create(ctx, order)
	require.NoError(t, err)

	err = repo.Delete(ctx, order.ID)
	require.NoError(t, err)

	// Soft-deleted orders are invisible to reads
	_, err = repo.GetByID(ctx, order.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPostgreSQLOrderRepository_List(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLOrderRepository(db)
	ctx := context.Background()

	order1 := makeTestOrder("shop-1")
	order2 := makeTestOrder("shop-2")
	require.NoError(t, repo.Create(ctx, order1))
	require.NoError(t, repo.Create(ctx, order2))

	all, err := repo.List(ctx, "", 10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := repo.List(ctx, "shop-2", 10, 0)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, order2.ID, filtered[0].ID)
}
