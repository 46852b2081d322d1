package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/souqdz/marketplace/internal/cache"
	"github.com/souqdz/marketplace/internal/clock"
	apperrors "github.com/souqdz/marketplace/internal/errors"
	ordersDomain "github.com/souqdz/marketplace/internal/orders/domain"
	paymentsDomain "github.com/souqdz/marketplace/internal/payments/domain"
)

// MockTxManager is a mock implementation of database.TxManager
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Get(0) != nil {
		return args.Error(0)
	}
	// Execute the function to test the logic inside
	return fn(ctx)
}

// MockPaymentRepository is a mock implementation of PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *paymentsDomain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByOrderID(
	ctx context.Context,
	orderID uuid.UUID,
) (*paymentsDomain.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentsDomain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetByOrderIDForUpdate(
	ctx context.Context,
	orderID uuid.UUID,
) (*paymentsDomain.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentsDomain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Update(ctx context.Context, payment *paymentsDomain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) ListHeldUnreleased(
	ctx context.Context,
	limit int,
) ([]*paymentsDomain.Payment, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*paymentsDomain.Payment), args.Error(1)
}

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) GetByID(
	ctx context.Context,
	orderID uuid.UUID,
) (*ordersDomain.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordersDomain.Order), args.Error(1)
}

func (m *MockOrderRepository) Update(ctx context.Context, order *ordersDomain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

// fakeCache is an in-memory Cache for observing reads and invalidations.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]string{}}
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, found := f.entries[key]
	return value, found, nil
}

func (f *fakeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = value
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, key)
	return nil
}

func deliveredOrder(orderID uuid.UUID) *ordersDomain.Order {
	return &ordersDomain.Order{
		ID:            orderID,
		ShopID:        "shop-1",
		OrderStatus:   ordersDomain.OrderStatusDelivered,
		PaymentStatus: ordersDomain.PaymentStatusPaid,
	}
}

func heldPayment(orderID uuid.UUID, createdAt time.Time) *paymentsDomain.Payment {
	return &paymentsDomain.Payment{
		ID:         uuid.Must(uuid.NewV7()),
		OrderID:    orderID,
		Amount:     2500,
		Status:     paymentsDomain.StatusPaid,
		CardLast4:  "4242",
		EscrowHeld: true,
		CreatedAt:  createdAt,
	}
}

func newTestUseCase(
	txManager *MockTxManager,
	paymentRepo *MockPaymentRepository,
	orderRepo *MockOrderRepository,
	decider paymentsDomain.EscrowDecider,
	statusCache cache.Cache,
	clk clock.Clock,
) *PaymentUseCaseImpl {
	if statusCache == nil {
		statusCache = cache.NewNoOpCache()
	}
	return NewPaymentUseCase(
		DefaultConfig(), txManager, paymentRepo, orderRepo, decider, statusCache, clk, nil,
	)
}

func TestInitiatePayment(t *testing.T) {
	now := time.Now().UTC()
	ctx := context.Background()
	orderID := uuid.Must(uuid.NewV7())

	orderRepo := &MockOrderRepository{}
	paymentRepo := &MockPaymentRepository{}
	orderRepo.On("GetByID", ctx, orderID).Return(deliveredOrder(orderID), nil)
	paymentRepo.On("Create", ctx, mock.AnythingOfType("*domain.Payment")).Return(nil)

	uc := newTestUseCase(&MockTxManager{}, paymentRepo, orderRepo,
		paymentsDomain.NewEscrowDecider(), nil, clock.NewFixed(now))

	result, err := uc.InitiatePayment(ctx, orderID, 2500)
	require.NoError(t, err)
	assert.Equal(t, paymentsDomain.StatusPending, result.Payment.Status)
	assert.Equal(t, paymentsDomain.PlaceholderCardLast4, result.Payment.CardLast4)
	assert.False(t, result.Payment.EscrowHeld)
	assert.Equal(t, now, result.Payment.CreatedAt)
	assert.Equal(t, "chk_"+result.Payment.ID.String(), result.CheckoutRef)
}

func TestInitiatePayment_OrderNotFound(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.Must(uuid.NewV7())

	orderRepo := &MockOrderRepository{}
	orderRepo.On("GetByID", ctx, orderID).Return(nil, ordersDomain.ErrOrderNotFound)

	uc := newTestUseCase(&MockTxManager{}, &MockPaymentRepository{}, orderRepo,
		paymentsDomain.NewEscrowDecider(), nil, clock.NewSystem())

	_, err := uc.InitiatePayment(ctx, orderID, 2500)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestInitiatePayment_FallsBackToDeliveryAmount(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.Must(uuid.NewV7())

	order := deliveredOrder(orderID)
	order.DeliveryAmount = 750

	orderRepo := &MockOrderRepository{}
	paymentRepo := &MockPaymentRepository{}
	orderRepo.On("GetByID", ctx, orderID).Return(order, nil)
	paymentRepo.On("Create", ctx, mock.AnythingOfType("*domain.Payment")).Return(nil)

	uc := newTestUseCase(&MockTxManager{}, paymentRepo, orderRepo,
		paymentsDomain.NewEscrowDecider(), nil, clock.NewSystem())

	result, err := uc.InitiatePayment(ctx, orderID, 0)
	require.NoError(t, err)
	assert.Equal(t, 750.0, result.Payment.Amount)
}

func TestInitiatePayment_SecondInitiationConflicts(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.Must(uuid.NewV7())

	orderRepo := &MockOrderRepository{}
	paymentRepo := &MockPaymentRepository{}
	orderRepo.On("GetByID", ctx, orderID).Return(deliveredOrder(orderID), nil)
	paymentRepo.On("Create", ctx, mock.AnythingOfType("*domain.Payment")).
		Return(apperrors.ErrConflict)

	uc := newTestUseCase(&MockTxManager{}, paymentRepo, orderRepo,
		paymentsDomain.NewEscrowDecider(), nil, clock.NewSystem())

	_, err := uc.InitiatePayment(ctx, orderID, 2500)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestSubmitPayment(t *testing.T) {
	now := time.Now().UTC()
	ctx := context.Background()
	orderID := uuid.Must(uuid.NewV7())

	payment := heldPayment(orderID, now)
	payment.Status = paymentsDomain.StatusPending
	payment.EscrowHeld = false
	payment.CardLast4 = paymentsDomain.PlaceholderCardLast4

	order := deliveredOrder(orderID)
	order.PaymentStatus = ordersDomain.PaymentStatusPending

	txManager := &MockTxManager{}
	paymentRepo := &MockPaymentRepository{}
	orderRepo := &MockOrderRepository{}
	statusCache := newFakeCache()

	// Stale projection that must be invalidated by the capture
	_ = statusCache.Set(ctx, cache.PaymentStatusKey(orderID.String()), `{"status":"pending"}`, time.Minute)

	txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	paymentRepo.On("GetByOrderIDForUpdate", ctx, orderID).Return(payment, nil)
	paymentRepo.On("Update", ctx, payment).Return(nil)
	orderRepo.On("GetByID", ctx, orderID).Return(order, nil)
	orderRepo.On("Update", ctx, order).Return(nil)

	uc := newTestUseCase(txManager, paymentRepo, orderRepo,
		paymentsDomain.NewEscrowDecider(), statusCache, clock.NewFixed(now))

	got, err := uc.SubmitPayment(ctx, orderID, "4111111111114242")
	require.NoError(t, err)

	assert.Equal(t, paymentsDomain.StatusPaid, got.Status)
	assert.True(t, got.EscrowHeld)
	// Only the last four digits survive
	assert.Equal(t, "4242", got.CardLast4)
	assert.Equal(t, ordersDomain.PaymentStatusPaid, order.PaymentStatus)

	_, found, _ := statusCache.Get(ctx, cache.PaymentStatusKey(orderID.String()))
	assert.False(t, found, "stale status projection should be invalidated")
}

func TestSubmitPayment_RejectsBadCardNumbers(t *testing.T) {
	uc := newTestUseCase(&MockTxManager{}, &MockPaymentRepository{}, &MockOrderRepository{},
		paymentsDomain.NewEscrowDecider(), nil, clock.NewSystem())
	ctx := context.Background()
	orderID := uuid.Must(uuid.NewV7())

	for _, cardNumber := range []string{"", "1234", "41111111111142ab", "12345678901234567890"} {
		_, err := uc.SubmitPayment(ctx, orderID, cardNumber)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput, "card number %q", cardNumber)
	}
}

func TestSubmitPayment_NotInitiated(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.Must(uuid.NewV7())

	txManager := &MockTxManager{}
	paymentRepo := &MockPaymentRepository{}
	txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	paymentRepo.On("GetByOrderIDForUpdate", ctx, orderID).
		Return(nil, paymentsDomain.ErrPaymentNotFound)

	uc := newTestUseCase(txManager, paymentRepo, &MockOrderRepository{},
		paymentsDomain.NewEscrowDecider(), nil, clock.NewSystem())

	_, err := uc.SubmitPayment(ctx, orderID, "4111111111114242")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSubmitPayment_AlreadyPaid(t *testing.T) {
	now := time.Now().UTC()
	ctx := context.Background()
	orderID := uuid.Must(uuid.NewV7())

	payment := heldPayment(orderID, now) // already paid and held

	txManager := &MockTxManager{}
	paymentRepo := &MockPaymentRepository{}
	txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	paymentRepo.On("GetByOrderIDForUpdate", ctx, orderID).Return(payment, nil)

	uc := newTestUseCase(txManager, paymentRepo, &MockOrderRepository{},
		paymentsDomain.NewEscrowDecider(), nil, clock.NewFixed(now))

	_, err := uc.SubmitPayment(ctx, orderID, "4111111111114242")
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	paymentRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestGetPaymentStatus_ReadThrough(t *testing.T) {
	now := time.Now().UTC()
	ctx := context.Background()
	orderID := uuid.Must(uuid.NewV7())

	payment := heldPayment(orderID, now)

	paymentRepo := &MockPaymentRepository{}
	paymentRepo.On("GetByOrderID", ctx, orderID).Return(payment, nil).Once()

	statusCache := newFakeCache()
	uc := newTestUseCase(&MockTxManager{}, paymentRepo, &MockOrderRepository{},
		paymentsDomain.NewEscrowDecider(), statusCache, clock.NewFixed(now))

	// First read populates the cache
	projection, err := uc.GetPaymentStatus(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, paymentsDomain.StatusPaid, projection.Status)
	assert.True(t, projection.EscrowHeld)

	cached, found, _ := statusCache.Get(ctx, cache.PaymentStatusKey(orderID.String()))
	require.True(t, found)
	var cachedProjection StatusProjection
	require.NoError(t, json.Unmarshal([]byte(cached), &cachedProjection))
	assert.Equal(t, *projection, cachedProjection)

	// Second read is served from the cache, repository is hit once
	projection, err = uc.GetPaymentStatus(ctx, orderID)
	require.NoError(t, err)
	assert.True(t, projection.EscrowHeld)
	paymentRepo.AssertNumberOfCalls(t, "GetByOrderID", 1)
}

func TestGetPaymentStatus_NotFound(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.Must(uuid.NewV7())

	paymentRepo := &MockPaymentRepository{}
	paymentRepo.On("GetByOrderID", ctx, orderID).Return(nil, paymentsDomain.ErrPaymentNotFound)

	uc := newTestUseCase(&MockTxManager{}, paymentRepo, &MockOrderRepository{},
		paymentsDomain.NewEscrowDecider(), newFakeCache(), clock.NewSystem())

	_, err := uc.GetPaymentStatus(ctx, orderID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
