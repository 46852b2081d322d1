// Package domain defines core notification domain models and errors.
package domain

import (
	"github.com/souqdz/marketplace/internal/errors"
)

// Notification-specific error definitions.
var (
	// ErrJobNotFound indicates the notification job does not exist.
	ErrJobNotFound = errors.Wrap(errors.ErrNotFound, "notification job not found")

	// ErrNoHandler indicates no handler is registered for the job's kind.
	ErrNoHandler = errors.New("no handler registered for job kind")
)
