// Package usecase implements the notification queue business logic: enqueueing
// jobs, the background worker loop with retry and retention, and the job event
// stream.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/souqdz/marketplace/internal/notifications/domain"
)

// JobRepository defines notification job persistence operations.
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) error
	GetByID(ctx context.Context, jobID uuid.UUID) (*domain.Job, error)
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]*domain.Job, error)
	Update(ctx context.Context, job *domain.Job) error
	TrimByStatus(ctx context.Context, status domain.JobStatus, keep int) (int64, error)
}

// Handler processes a single claimed job. Implementations live in the channel
// package, one per job kind.
type Handler interface {
	Handle(ctx context.Context, job *domain.Job) error
}

// QueueUseCase defines the interface for enqueueing notification jobs.
type QueueUseCase interface {
	Enqueue(ctx context.Context, name domain.JobName, payload any) (uuid.UUID, error)
	EnqueueWelcomeBatch(ctx context.Context, recipients []domain.WelcomeEmailPayload) ([]uuid.UUID, error)
	GetJob(ctx context.Context, jobID uuid.UUID) (*domain.Job, error)
}

// WorkerUseCase defines the interface for the background job worker.
type WorkerUseCase interface {
	Start(ctx context.Context) error
	ProcessJobs(ctx context.Context) error
}

// EventPublisher publishes job lifecycle events to the event stream.
type EventPublisher interface {
	Publish(ctx context.Context, event JobEvent) error
}
