// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"
)

// InitiatePaymentRequest contains the parameters for initiating a payment.
// A zero amount means the order's delivery amount is charged.
type InitiatePaymentRequest struct {
	Amount float64 `json:"amount"`
}

// Validate checks if the initiate payment request is valid.
func (r *InitiatePaymentRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Amount, validation.Min(0.0)),
	)
}

// SubmitPaymentRequest contains the simulated card entry.
// SECURITY: CardNumber must never be logged or echoed back; only its last
// four digits survive past the use case boundary.
type SubmitPaymentRequest struct {
	CardNumber string `json:"cardNumber" form:"cardNumber"`
}

// Validate checks if the submit payment request is valid. Card number shape
// is enforced by the use case.
func (r *SubmitPaymentRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.CardNumber, validation.Required),
	)
}
