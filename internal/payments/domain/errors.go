// Package domain defines core payment domain models and errors.
package domain

import (
	"github.com/souqdz/marketplace/internal/errors"
)

// Payment-specific error definitions.
var (
	// ErrPaymentNotFound indicates no payment exists for the order.
	ErrPaymentNotFound = errors.Wrap(errors.ErrNotFound, "payment not found")

	// ErrPaymentNotInitiated indicates a submission arrived before any payment
	// record was created for the order.
	ErrPaymentNotInitiated = errors.Wrap(errors.ErrInvalidState, "payment not initiated for order")

	// ErrPaymentAlreadyPaid indicates the payment was already captured.
	ErrPaymentAlreadyPaid = errors.Wrap(errors.ErrInvalidState, "payment already paid")
)
