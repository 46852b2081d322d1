// Package http provides HTTP handlers for order management operations.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/souqdz/marketplace/internal/httputil"
	ordersDomain "github.com/souqdz/marketplace/internal/orders/domain"
	"github.com/souqdz/marketplace/internal/orders/http/dto"
	ordersUseCase "github.com/souqdz/marketplace/internal/orders/usecase"
	customValidation "github.com/souqdz/marketplace/internal/validation"
)

// OrderHandler handles HTTP requests for order management operations.
type OrderHandler struct {
	orderUseCase ordersUseCase.OrderUseCase
	logger       *slog.Logger
}

// NewOrderHandler creates a new order handler with required dependencies.
func NewOrderHandler(orderUseCase ordersUseCase.OrderUseCase, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orderUseCase: orderUseCase,
		logger:       logger,
	}
}

// CreateHandler creates a new order.
// POST /v1/orders
// Returns 201 Created with the order.
func (h *OrderHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	order, err := h.orderUseCase.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapOrderToResponse(order))
}

// GetHandler retrieves an order by id.
// GET /v1/orders/:orderID
// Returns 200 OK with the order.
func (h *OrderHandler) GetHandler(c *gin.Context) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}

	order, err := h.orderUseCase.Get(c.Request.Context(), orderID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapOrderToResponse(order))
}

// ListHandler retrieves orders, optionally filtered by shop.
// GET /v1/orders?shopId=S&limit=50&offset=0
// Returns 200 OK with the order list.
func (h *OrderHandler) ListHandler(c *gin.Context) {
	limit, ok := h.parseIntQuery(c, "limit", 50)
	if !ok {
		return
	}
	offset, ok := h.parseIntQuery(c, "offset", 0)
	if !ok {
		return
	}

	orders, err := h.orderUseCase.List(c.Request.Context(), c.Query("shopId"), limit, offset)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapOrdersToListResponse(orders))
}

// UpdateHandler updates the mutable customer-facing fields of an order.
// PATCH /v1/orders/:orderID
// Returns 200 OK with the updated order.
func (h *OrderHandler) UpdateHandler(c *gin.Context) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}

	var req dto.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	order, err := h.orderUseCase.Update(c.Request.Context(), orderID, req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapOrderToResponse(order))
}

// DeleteHandler soft deletes an order.
// DELETE /v1/orders/:orderID
// Returns 204 No Content.
func (h *OrderHandler) DeleteHandler(c *gin.Context) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}

	if err := h.orderUseCase.Delete(c.Request.Context(), orderID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// ConfirmHandler moves an order from new to confirmed.
// POST /v1/orders/:orderID/confirm
// Returns 200 OK with the updated order.
func (h *OrderHandler) ConfirmHandler(c *gin.Context) {
	h.transition(c, func(ctx context.Context, orderID uuid.UUID) (*ordersDomain.Order, error) {
		return h.orderUseCase.Confirm(ctx, orderID)
	})
}

// ShipHandler moves an order from confirmed to shipped.
// POST /v1/orders/:orderID/ship
// Returns 200 OK with the updated order.
func (h *OrderHandler) ShipHandler(c *gin.Context) {
	h.transition(c, func(ctx context.Context, orderID uuid.UUID) (*ordersDomain.Order, error) {
		return h.orderUseCase.MarkShipped(ctx, orderID)
	})
}

// DeliverHandler moves an order from shipped to delivered.
// POST /v1/orders/:orderID/deliver
// Returns 200 OK with the updated order.
func (h *OrderHandler) DeliverHandler(c *gin.Context) {
	h.transition(c, func(ctx context.Context, orderID uuid.UUID) (*ordersDomain.Order, error) {
		return h.orderUseCase.MarkDelivered(ctx, orderID)
	})
}

// RequestReturnHandler moves a delivered order to return_requested.
// POST /v1/orders/:orderID/return
// Returns 200 OK with the updated order.
func (h *OrderHandler) RequestReturnHandler(c *gin.Context) {
	h.transition(c, func(ctx context.Context, orderID uuid.UUID) (*ordersDomain.Order, error) {
		return h.orderUseCase.RequestReturn(ctx, orderID)
	})
}

func (h *OrderHandler) transition(
	c *gin.Context,
	fn func(ctx context.Context, orderID uuid.UUID) (*ordersDomain.Order, error),
) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}

	order, err := fn(c.Request.Context(), orderID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapOrderToResponse(order))
}

func (h *OrderHandler) parseOrderID(c *gin.Context) (uuid.UUID, bool) {
	orderID, err := uuid.Parse(c.Param("orderID"))
	if err != nil {
		httputil.HandleValidationErrorGin(
			c,
			fmt.Errorf("invalid order id: must be a uuid"),
			h.logger,
		)
		return uuid.Nil, false
	}
	return orderID, true
}

func (h *OrderHandler) parseIntQuery(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		httputil.HandleValidationErrorGin(
			c,
			fmt.Errorf("invalid %s parameter: must be an integer", name),
			h.logger,
		)
		return 0, false
	}
	return value, true
}
