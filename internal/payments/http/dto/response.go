// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	paymentsDomain "github.com/souqdz/marketplace/internal/payments/domain"
)

// PaymentResponse represents a payment in API responses.
// Only the last four card digits ever appear here.
type PaymentResponse struct {
	ID                     string     `json:"id"`
	OrderID                string     `json:"orderId"`
	Amount                 float64    `json:"amount"`
	Status                 string     `json:"status"`
	CardLast4              string     `json:"cardLast4"`
	EscrowHeld             bool       `json:"escrowHeld"`
	RefundAmount           *float64   `json:"refundAmount,omitempty"`
	ReleasedToSellerAmount *float64   `json:"releasedToSellerAmount,omitempty"`
	ReleasedAt             *time.Time `json:"releasedAt,omitempty"`
	CreatedAt              time.Time  `json:"createdAt"`
}

// MapPaymentToResponse converts a domain payment to an API response.
func MapPaymentToResponse(payment *paymentsDomain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:                     payment.ID.String(),
		OrderID:                payment.OrderID.String(),
		Amount:                 payment.Amount,
		Status:                 string(payment.Status),
		CardLast4:              payment.CardLast4,
		EscrowHeld:             payment.EscrowHeld,
		RefundAmount:           payment.RefundAmount,
		ReleasedToSellerAmount: payment.ReleasedToSellerAmount,
		ReleasedAt:             payment.ReleasedAt,
		CreatedAt:              payment.CreatedAt,
	}
}

// InitiatePaymentResponse is returned when a payment is initiated.
type InitiatePaymentResponse struct {
	Payment     PaymentResponse `json:"payment"`
	CheckoutRef string          `json:"checkoutRef"`
}

// ReleaseEscrowResponse reports the outcome of a manual escrow sweep.
type ReleaseEscrowResponse struct {
	Released int `json:"released"`
}
