// Package usecase implements the one-time password flow used to verify
// customer email addresses. Codes are never stored in plain text; callers
// receive an Argon2id hash and an expiry and are responsible for enforcing
// both on verification.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	notificationsDomain "github.com/souqdz/marketplace/internal/notifications/domain"
)

// NotificationEnqueuer queues the email that delivers the code.
type NotificationEnqueuer interface {
	Enqueue(ctx context.Context, name notificationsDomain.JobName, payload any) (uuid.UUID, error)
}

// IssueOTPResult carries everything the caller needs to later verify a code.
// The plain code itself only travels through the notification job payload.
type IssueOTPResult struct {
	CodeHash  string
	ExpiresAt time.Time
}

// OTPUseCase issues and verifies one-time passwords.
type OTPUseCase interface {
	// IssueOTP generates a code for email, queues its delivery and returns
	// the code hash together with the expiry the caller must enforce.
	IssueOTP(ctx context.Context, email string) (*IssueOTPResult, error)

	// VerifyOTP reports whether code matches a previously issued hash.
	// Expiry is the caller's concern; this only checks the code itself.
	VerifyOTP(code string, codeHash string) bool
}
