package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "github.com/souqdz/marketplace/internal/errors"
	ordersDomain "github.com/souqdz/marketplace/internal/orders/domain"
	"github.com/souqdz/marketplace/internal/orders/http/dto"
	ordersUseCase "github.com/souqdz/marketplace/internal/orders/usecase"
)

// MockOrderUseCase is a mock implementation of usecase.OrderUseCase
type MockOrderUseCase struct {
	mock.Mock
}

func (m *MockOrderUseCase) Create(
	ctx context.Context,
	input ordersUseCase.CreateOrderInput,
) (*ordersDomain.Order, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordersDomain.Order), args.Error(1)
}

func (m *MockOrderUseCase) Get(
	ctx context.Context,
	orderID uuid.UUID,
) (*ordersDomain.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordersDomain.Order), args.Error(1)
}

func (m *MockOrderUseCase) List(
	ctx context.Context,
	shopID string,
	limit, offset int,
) ([]*ordersDomain.Order, error) {
	args := m.Called(ctx, shopID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ordersDomain.Order), args.Error(1)
}

func (m *MockOrderUseCase) Update(
	ctx context.Context,
	orderID uuid.UUID,
	input ordersUseCase.UpdateOrderInput,
) (*ordersDomain.Order, error) {
	args := m.Called(ctx, orderID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordersDomain.Order), args.Error(1)
}

func (m *MockOrderUseCase) Delete(ctx context.Context, orderID uuid.UUID) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *MockOrderUseCase) Confirm(
	ctx context.Context,
	orderID uuid.UUID,
) (*ordersDomain.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordersDomain.Order), args.Error(1)
}

func (m *MockOrderUseCase) MarkShipped(
	ctx context.Context,
	orderID uuid.UUID,
) (*ordersDomain.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordersDomain.Order), args.Error(1)
}

func (m *MockOrderUseCase) MarkDelivered(
	ctx context.Context,
	orderID uuid.UUID,
) (*ordersDomain.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordersDomain.Order), args.Error(1)
}

func (m *MockOrderUseCase) RequestReturn(
	ctx context.Context,
	orderID uuid.UUID,
) (*ordersDomain.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordersDomain.Order), args.Error(1)
}

// setupTestHandler creates a test handler with mocked dependencies.
func setupTestHandler(t *testing.T) (*OrderHandler, *MockOrderUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockUseCase := new(MockOrderUseCase)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewOrderHandler(mockUseCase, logger), mockUseCase
}

func createTestContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	return c, w
}

func testOrder(orderID uuid.UUID) *ordersDomain.Order {
	return &ordersDomain.Order{
		ID:               orderID,
		ShopID:           "shop-1",
		ProductID:        "product-1",
		CreatedBy:        "user-1",
		CustomerName:     "Amina Benali",
		CustomerPhone:    "+213555123456",
		CustomerAddress:  "12 Rue Didouche Mourad, Algiers",
		ContactPref:      ordersDomain.ContactPrefWhatsApp,
		DeliveryAgencyID: "agency-1",
		DeliveryAmount:   600,
		PaymentStatus:    ordersDomain.PaymentStatusPending,
		OrderStatus:      ordersDomain.OrderStatusNew,
		RiskLevel:        ordersDomain.RiskLevelLow,
		RiskProbability:  0.1,
		CreatedAt:        time.Now().UTC(),
	}
}

func validCreateRequest() dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		ShopID:           "shop-1",
		ProductID:        "product-1",
		CreatedBy:        "user-1",
		CustomerName:     "Amina Benali",
		CustomerPhone:    "+213555123456",
		CustomerAddress:  "12 Rue Didouche Mourad, Algiers",
		ContactPref:      "whatsapp",
		DeliveryAgencyID: "agency-1",
		DeliveryAmount:   600,
	}
}

func TestOrderHandler_CreateHandler(t *testing.T) {
	t.Run("Success_ValidRequest", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		orderID := uuid.Must(uuid.NewV7())
		request := validCreateRequest()

		mockUseCase.On("Create", mock.Anything, request.ToInput()).
			Return(testOrder(orderID), nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/orders", request)
		handler.CreateHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response dto.OrderResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, orderID.String(), response.ID)
		assert.Equal(t, "new", response.OrderStatus)
		assert.Equal(t, "pending", response.PaymentStatus)

		mockUseCase.AssertExpectations(t)
	})

	t.Run("MissingRequiredField_Returns422", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		request := validCreateRequest()
		request.CustomerPhone = ""

		c, w := createTestContext(http.MethodPost, "/v1/orders", request)
		handler.CreateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("MalformedJSON_Returns400", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		req := httptest.NewRequest(http.MethodPost, "/v1/orders", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")
		c.Request = req

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrderHandler_GetHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		orderID := uuid.Must(uuid.NewV7())
		mockUseCase.On("Get", mock.Anything, orderID).Return(testOrder(orderID), nil).Once()

		c, w := createTestContext(http.MethodGet, "/v1/orders/"+orderID.String(), nil)
		c.Params = gin.Params{{Key: "orderID", Value: orderID.String()}}

		handler.GetHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("NotFound_Returns404", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		orderID := uuid.Must(uuid.NewV7())
		mockUseCase.On("Get", mock.Anything, orderID).Return(nil, apperrors.ErrNotFound).Once()

		c, w := createTestContext(http.MethodGet, "/v1/orders/"+orderID.String(), nil)
		c.Params = gin.Params{{Key: "orderID", Value: orderID.String()}}

		handler.GetHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("InvalidUUID_Returns422", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		c, w := createTestContext(http.MethodGet, "/v1/orders/not-a-uuid", nil)
		c.Params = gin.Params{{Key: "orderID", Value: "not-a-uuid"}}

		handler.GetHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})
}

func TestOrderHandler_ListHandler(t *testing.T) {
	t.Run("Success_WithShopFilter", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		orders := []*ordersDomain.Order{testOrder(uuid.Must(uuid.NewV7()))}
		mockUseCase.On("List", mock.Anything, "shop-1", 10, 5).Return(orders, nil).Once()

		c, w := createTestContext(http.MethodGet, "/v1/orders?shopId=shop-1&limit=10&offset=5", nil)
		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.ListOrdersResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Len(t, response.Data, 1)

		mockUseCase.AssertExpectations(t)
	})

	t.Run("DefaultsWhenParamsAbsent", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("List", mock.Anything, "", 50, 0).
			Return([]*ordersDomain.Order{}, nil).Once()

		c, w := createTestContext(http.MethodGet, "/v1/orders", nil)
		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("InvalidLimit_Returns422", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		c, w := createTestContext(http.MethodGet, "/v1/orders?limit=abc", nil)
		handler.ListHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestOrderHandler_UpdateHandler(t *testing.T) {
	handler, mockUseCase := setupTestHandler(t)

	orderID := uuid.Must(uuid.NewV7())
	name := "Updated Name"
	request := dto.UpdateOrderRequest{CustomerName: &name}

	updated := testOrder(orderID)
	updated.CustomerName = name

	mockUseCase.On("Update", mock.Anything, orderID, request.ToInput()).
		Return(updated, nil).Once()

	c, w := createTestContext(http.MethodPatch, "/v1/orders/"+orderID.String(), request)
	c.Params = gin.Params{{Key: "orderID", Value: orderID.String()}}

	handler.UpdateHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.OrderResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, name, response.CustomerName)
}

func TestOrderHandler_DeleteHandler(t *testing.T) {
	handler, mockUseCase := setupTestHandler(t)

	orderID := uuid.Must(uuid.NewV7())
	mockUseCase.On("Delete", mock.Anything, orderID).Return(nil).Once()

	c, w := createTestContext(http.MethodDelete, "/v1/orders/"+orderID.String(), nil)
	c.Params = gin.Params{{Key: "orderID", Value: orderID.String()}}

	handler.DeleteHandler(c)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestOrderHandler_Transitions(t *testing.T) {
	orderID := uuid.Must(uuid.NewV7())

	cases := []struct {
		name       string
		mockMethod string
		status     ordersDomain.OrderStatus
		invoke     func(h *OrderHandler, c *gin.Context)
	}{
		{"Confirm", "Confirm", ordersDomain.OrderStatusConfirmed, (*OrderHandler).ConfirmHandler},
		{"Ship", "MarkShipped", ordersDomain.OrderStatusShipped, (*OrderHandler).ShipHandler},
		{"Deliver", "MarkDelivered", ordersDomain.OrderStatusDelivered, (*OrderHandler).DeliverHandler},
		{"Return", "RequestReturn", ordersDomain.OrderStatusReturnRequested, (*OrderHandler).RequestReturnHandler},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler, mockUseCase := setupTestHandler(t)

			result := testOrder(orderID)
			result.OrderStatus = tc.status
			mockUseCase.On(tc.mockMethod, mock.Anything, orderID).Return(result, nil).Once()

			c, w := createTestContext(http.MethodPost, "/v1/orders/"+orderID.String(), nil)
			c.Params = gin.Params{{Key: "orderID", Value: orderID.String()}}

			tc.invoke(handler, c)

			assert.Equal(t, http.StatusOK, w.Code)

			var response dto.OrderResponse
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, string(tc.status), response.OrderStatus)

			mockUseCase.AssertExpectations(t)
		})
	}

	t.Run("InvalidUUID_RejectedBeforeUseCase", func(t *testing.T) {
		// A nil use case proves parsing happens before anything else is touched.
		handler := NewOrderHandler(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

		for _, tc := range cases {
			c, w := createTestContext(http.MethodPost, "/v1/orders/not-a-uuid", nil)
			c.Params = gin.Params{{Key: "orderID", Value: "not-a-uuid"}}

			assert.NotPanics(t, func() { tc.invoke(handler, c) }, tc.name)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code, tc.name)
		}
	})

	t.Run("IllegalTransition_Returns409", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("Confirm", mock.Anything, orderID).
			Return(nil, apperrors.Wrap(apperrors.ErrInvalidState, "delivered -> confirmed")).Once()

		c, w := createTestContext(http.MethodPost, "/v1/orders/"+orderID.String()+"/confirm", nil)
		c.Params = gin.Params{{Key: "orderID", Value: orderID.String()}}

		handler.ConfirmHandler(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}
