// Package http provides HTTP handlers for the payment and escrow operations,
// including the simulated checkout page used in place of a real gateway.
package http

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/souqdz/marketplace/internal/httputil"
	"github.com/souqdz/marketplace/internal/payments/http/dto"
	paymentsUseCase "github.com/souqdz/marketplace/internal/payments/usecase"
	customValidation "github.com/souqdz/marketplace/internal/validation"
)

// checkoutPage is the simulated card entry form. It posts the card number to
// the submit endpoint for the same order.
var checkoutPage = template.Must(template.New("checkout").Parse(`<!DOCTYPE html>
<html>
<head><title>Checkout</title></head>
<body>
<h1>Checkout</h1>
<p>Order {{.OrderID}}</p>
<form method="POST" action="/v1/payments/{{.OrderID}}/submit">
  <label for="cardNumber">Card number</label>
  <input type="text" id="cardNumber" name="cardNumber" autocomplete="off" />
  <button type="submit">Pay</button>
</form>
</body>
</html>
`))

// PaymentHandler handles HTTP requests for payment operations.
type PaymentHandler struct {
	paymentUseCase paymentsUseCase.PaymentUseCase
	logger         *slog.Logger
}

// NewPaymentHandler creates a new payment handler with required dependencies.
func NewPaymentHandler(paymentUseCase paymentsUseCase.PaymentUseCase, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentUseCase: paymentUseCase,
		logger:         logger,
	}
}

// InitiateHandler creates a pending payment for an order.
// POST /v1/payments/:orderID/initiate
// Returns 201 Created with the payment and a checkout reference.
func (h *PaymentHandler) InitiateHandler(c *gin.Context) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}

	// The body is optional; an absent or zero amount charges the order's
	// delivery amount.
	var req dto.InitiatePaymentRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httputil.HandleBadRequestGin(c, err, h.logger)
			return
		}
		if err := req.Validate(); err != nil {
			httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
			return
		}
	}

	result, err := h.paymentUseCase.InitiatePayment(c.Request.Context(), orderID, req.Amount)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.InitiatePaymentResponse{
		Payment:     dto.MapPaymentToResponse(result.Payment),
		CheckoutRef: result.CheckoutRef,
	}
	c.JSON(http.StatusCreated, response)
}

// FakeCheckoutHandler serves the simulated card entry page.
// GET /v1/payments/:orderID/checkout
// Returns 200 OK with an HTML form posting to the submit endpoint.
func (h *PaymentHandler) FakeCheckoutHandler(c *gin.Context) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := checkoutPage.Execute(&buf, map[string]string{"OrderID": orderID.String()}); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// SubmitHandler captures the simulated card entry and moves the payment to
// paid with escrow held. Accepts JSON or the checkout page's form encoding.
// POST /v1/payments/:orderID/submit
// Returns 200 OK with the updated payment (card number reduced to last four).
func (h *PaymentHandler) SubmitHandler(c *gin.Context) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}

	var req dto.SubmitPaymentRequest
	if err := c.ShouldBind(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	payment, err := h.paymentUseCase.SubmitPayment(c.Request.Context(), orderID, req.CardNumber)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapPaymentToResponse(payment))
}

// StatusHandler serves the cached payment status projection.
// GET /v1/payments/:orderID/status
// Returns 200 OK with the status and escrow flag.
func (h *PaymentHandler) StatusHandler(c *gin.Context) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}

	projection, err := h.paymentUseCase.GetPaymentStatus(c.Request.Context(), orderID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, projection)
}

// ReleaseEscrowHandler runs one escrow sweep on demand.
// POST /v1/payments/release-escrow
// Returns 200 OK with the number of payments released.
func (h *PaymentHandler) ReleaseEscrowHandler(c *gin.Context) {
	released, err := h.paymentUseCase.ReleaseEscrow(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ReleaseEscrowResponse{Released: released})
}

func (h *PaymentHandler) parseOrderID(c *gin.Context) (uuid.UUID, bool) {
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
