package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/souqdz/marketplace/internal/clock"
	"github.com/souqdz/marketplace/internal/notifications/domain"
)

// NotificationQueueUseCase implements business logic for enqueueing jobs.
type NotificationQueueUseCase struct {
	jobRepo   JobRepository
	publisher EventPublisher
	clock     clock.Clock
	logger    *slog.Logger
}

// NewNotificationQueueUseCase creates a new NotificationQueueUseCase.
func NewNotificationQueueUseCase(
	jobRepo JobRepository,
	publisher EventPublisher,
	clk clock.Clock,
	logger *slog.Logger,
) *NotificationQueueUseCase {
	return &NotificationQueueUseCase{
		jobRepo:   jobRepo,
		publisher: publisher,
		clock:     clk,
		logger:    logger,
	}
}

// Enqueue creates a pending job due immediately and returns its ID.
func (uc *NotificationQueueUseCase) Enqueue(
	ctx context.Context,
	name domain.JobName,
	payload any,
) (uuid.UUID, error) {
	job, err := domain.NewJob(name, payload, uc.clock.Now())
	if err != nil {
		return uuid.Nil, err
	}

	if err := uc.jobRepo.Create(ctx, job); err != nil {
		return uuid.Nil, err
	}

	uc.publishEvent(ctx, job, JobEventEnqueued)

	if uc.logger != nil {
		uc.logger.Info("job enqueued",
			slog.String("job_id", job.ID.String()),
			slog.String("job_name", string(job.Name)),
		)
	}
	return job.ID, nil
}

// EnqueueWelcomeBatch enqueues one welcome email job per recipient. A failure
// on one recipient aborts the batch and returns the IDs enqueued so far.
func (uc *NotificationQueueUseCase) EnqueueWelcomeBatch(
	ctx context.Context,
	recipients []domain.WelcomeEmailPayload,
) ([]uuid.UUID, error) {
	jobIDs := make([]uuid.UUID, 0, len(recipients))
	for _, recipient := range recipients {
		jobID, err := uc.Enqueue(ctx, domain.JobSendWelcomeEmail, recipient)
		if err != nil {
			return jobIDs, err
		}
		jobIDs = append(jobIDs, jobID)
	}
	return jobIDs, nil
}

// GetJob retrieves a job by its ID.
func (uc *NotificationQueueUseCase) GetJob(
	ctx context.Context,
	jobID uuid.UUID,
) (*domain.Job, error) {
	return uc.jobRepo.GetByID(ctx, jobID)
}

// publishEvent emits a job lifecycle event. Publishing is best effort and
// never fails the caller.
func (uc *NotificationQueueUseCase) publishEvent(
	ctx context.Context,
	job *domain.Job,
	kind JobEventKind,
) {
	if uc.publisher == nil {
		return
	}
	event := JobEvent{
		JobID:   job.ID,
		JobName: job.Name,
		Kind:    kind,
	}
	if err := uc.publisher.Publish(ctx, event); err != nil && uc.logger != nil {
		uc.logger.Warn("failed to publish job event",
			slog.String("job_id", job.ID.String()),
			slog.Any("error", err),
		)
	}
}
