// Package domain defines core order domain models and errors.
package domain

import (
	"github.com/souqdz/marketplace/internal/errors"
)

// Order-specific error definitions.
var (
	// ErrOrderNotFound indicates the order does not exist or was soft-deleted.
	ErrOrderNotFound = errors.Wrap(errors.ErrNotFound, "order not found")

	// ErrIllegalTransition indicates a backward or skipping order status move.
	ErrIllegalTransition = errors.Wrap(errors.ErrInvalidState, "illegal order status transition")
)
