// Package domain defines the notification job queue domain entities and types.
// Jobs are fire-and-forget: callers receive a job ID at enqueue time and never
// await delivery; outcomes are visible only on the queue's own event stream.
package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// JobName identifies a category of notification work with its own payload
// shape and registered handler.
type JobName string

const (
	// JobSendOTPEmail delivers a one-time password by email. The 1-minute
	// validity of the code is enforced by the caller, not the queue.
	JobSendOTPEmail JobName = "SEND_OTP_EMAIL"
	// JobSendConfirmationWhatsApp delivers an order confirmation over WhatsApp.
	// The wire name keeps the legacy spelling for queue compatibility.
	JobSendConfirmationWhatsApp JobName = "SEND_CONFIRMATION_WHATTSUP"
	// JobSendWelcomeEmail delivers a welcome email; bulk enqueues are accepted
	// as one job per recipient.
	JobSendWelcomeEmail JobName = "SEND_WELCOME_EMAIL"
)

// JobNameValues lists every recognized job name.
var JobNameValues = []JobName{JobSendOTPEmail, JobSendConfirmationWhatsApp, JobSendWelcomeEmail}

// JobStatus represents the delivery outcome of a job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Retention and retry policy, fixed by design.
const (
	// MaxAttempts is the total delivery attempts before a job is marked failed.
	MaxAttempts = 3
	// Backoff is the fixed delay between attempts (not exponential).
	Backoff = 5000 * time.Millisecond
	// KeepCompleted is how many completed jobs are retained.
	KeepCompleted = 3000
	// KeepFailed is how many failed jobs are retained for inspection.
	KeepFailed = 1000
)

// Job is a queued notification work item. The queue owns the job while it is
// in flight; callers only ever hold the ID.
type Job struct {
	// ID is the unique identifier for the job.
	ID uuid.UUID
	// Name selects the handler and payload shape.
	Name JobName
	// Payload is the JSON-encoded payload for the job's kind.
	Payload string
	// AttemptsMade counts delivery attempts so far.
	AttemptsMade int
	// Status is the job's delivery outcome.
	Status JobStatus
	// LastError records the most recent handler failure, if any.
	LastError *string
	// NextAttemptAt is when the job becomes due for (re)delivery.
	NextAttemptAt time.Time
	// ProcessedAt is when the job reached a terminal status.
	ProcessedAt *time.Time
	// CreatedAt is the UTC timestamp when the job was enqueued.
	CreatedAt time.Time
	// UpdatedAt is the UTC timestamp of the last mutation.
	UpdatedAt time.Time
}

// OTPEmailPayload is the payload for JobSendOTPEmail.
type OTPEmailPayload struct {
	RecipientEmail string `json:"recipientEmail"`
	OTPCode        string `json:"otpCode"`
}

// ConfirmationWhatsAppPayload is the payload for JobSendConfirmationWhatsApp.
type ConfirmationWhatsAppPayload struct {
	RecipientPhone string `json:"recipientPhone"`
	OrderSummary   string `json:"orderSummary"`
}

// WelcomeEmailPayload is the payload for JobSendWelcomeEmail.
type WelcomeEmailPayload struct {
	RecipientEmail string `json:"recipientEmail"`
	FirstName      string `json:"firstName"`
}

// NewJob builds a pending job for name with the given typed payload.
// The payload type is chosen explicitly by the caller per job kind; nothing
// here inspects payload shape to decide behavior.
func NewJob(name JobName, payload any, now time.Time) (*Job, error) {
	if !validJobName(name) {
		return nil, fmt.Errorf("unknown job name: %s", name)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode job payload: %w", err)
	}

	return &Job{
		ID:            uuid.Must(uuid.NewV7()),
		Name:          name,
		Payload:       string(raw),
		Status:        JobStatusPending,
		NextAttemptAt: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func validJobName(name JobName) bool {
	for _, n := range JobNameValues {
		if n == name {
			return true
		}
	}
	return false
}
