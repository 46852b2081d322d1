package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/souqdz/marketplace/internal/clock"
	"github.com/souqdz/marketplace/internal/database"
	"github.com/souqdz/marketplace/internal/notifications/domain"
)

// WorkerConfig holds job worker configuration.
type WorkerConfig struct {
	Interval      time.Duration
	BatchSize     int
	MaxAttempts   int
	Backoff       time.Duration
	KeepCompleted int
	KeepFailed    int
}

// DefaultWorkerConfig returns the stock worker policy.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		Interval:      time.Second,
		BatchSize:     50,
		MaxAttempts:   domain.MaxAttempts,
		Backoff:       domain.Backoff,
		KeepCompleted: domain.KeepCompleted,
		KeepFailed:    domain.KeepFailed,
	}
}

// Worker claims due jobs, dispatches them to the handler registered for their
// kind, and applies the retry and retention policy.
type Worker struct {
	config    WorkerConfig
	txManager database.TxManager
	jobRepo   JobRepository
	handlers  map[domain.JobName]Handler
	publisher EventPublisher
	clock     clock.Clock
	logger    *slog.Logger
}

// NewWorker creates a new Worker.
func NewWorker(
	config WorkerConfig,
	txManager database.TxManager,
	jobRepo JobRepository,
	handlers map[domain.JobName]Handler,
	publisher EventPublisher,
	clk clock.Clock,
	logger *slog.Logger,
) *Worker {
	return &Worker{
		config:    config,
		txManager: txManager,
		jobRepo:   jobRepo,
		handlers:  handlers,
		publisher: publisher,
		clock:     clk,
		logger:    logger,
	}
}

// Start runs the job processing loop until the context is canceled.
func (w *Worker) Start(ctx context.Context) error {
	if w.logger != nil {
		w.logger.Info("starting notification worker",
			slog.Duration("interval", w.config.Interval),
			slog.Int("batch_size", w.config.BatchSize),
			slog.Int("max_attempts", w.config.MaxAttempts),
		)
	}

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if w.logger != nil {
				w.logger.Info("stopping notification worker")
			}
			return ctx.Err()
		case <-ticker.C:
			if err := w.ProcessJobs(ctx); err != nil {
				if w.logger != nil {
					w.logger.Error("failed to process jobs", slog.Any("error", err))
				}
			}
		}
	}
}

// ProcessJobs claims and processes one batch of due jobs in a transaction,
// then trims terminal jobs beyond the retention policy. A handler failure
// marks the job for retry and never aborts the batch.
func (w *Worker) ProcessJobs(ctx context.Context) error {
	err := w.txManager.WithTx(ctx, func(ctx context.Context) error {
		now := w.clock.Now()

		jobs, err := w.jobRepo.ClaimDue(ctx, now, w.config.BatchSize)
		if err != nil {
			return err
		}

		if len(jobs) == 0 {
			return nil
		}

		if w.logger != nil {
			w.logger.Info("processing jobs", slog.Int("count", len(jobs)))
		}

		for _, job := range jobs {
			if err := w.processJob(ctx, job); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	return w.trimTerminalJobs(ctx)
}

// processJob runs one job attempt and persists the outcome.
func (w *Worker) processJob(ctx context.Context, job *domain.Job) error {
	now := w.clock.Now()
	job.AttemptsMade++
	job.UpdatedAt = now

	handleErr := w.handle(ctx, job)
	if handleErr == nil {
		job.Status = domain.JobStatusCompleted
		job.ProcessedAt = &now
		job.LastError = nil

		if err := w.jobRepo.Update(ctx, job); err != nil {
			return err
		}
		w.publishEvent(ctx, job, JobEventCompleted)
		return nil
	}

	if w.logger != nil {
		w.logger.Error("job attempt failed",
			slog.String("job_id", job.ID.String()),
			slog.String("job_name", string(job.Name)),
			slog.Int("attempt", job.AttemptsMade),
			slog.Any("error", handleErr),
		)
	}

	errorMsg := handleErr.Error()
	job.LastError = &errorMsg

	if job.AttemptsMade >= w.config.MaxAttempts {
		job.Status = domain.JobStatusFailed
		job.ProcessedAt = &now

		if err := w.jobRepo.Update(ctx, job); err != nil {
			return err
		}
		w.publishEvent(ctx, job, JobEventFailed)
		return nil
	}

	// Fixed backoff between attempts
	job.NextAttemptAt = now.Add(w.config.Backoff)
	return w.jobRepo.Update(ctx, job)
}

func (w *Worker) handle(ctx context.Context, job *domain.Job) error {
	handler, ok := w.handlers[job.Name]
	if !ok {
		return domain.ErrNoHandler
	}
	return handler.Handle(ctx, job)
}

// trimTerminalJobs drops the oldest completed and failed jobs beyond the
// retention limits.
func (w *Worker) trimTerminalJobs(ctx context.Context) error {
	removed, err := w.jobRepo.TrimByStatus(ctx, domain.JobStatusCompleted, w.config.KeepCompleted)
	if err != nil {
		return err
	}
	if removed > 0 && w.logger != nil {
		w.logger.Info("trimmed completed jobs", slog.Int64("removed", removed))
	}

	removed, err = w.jobRepo.TrimByStatus(ctx, domain.JobStatusFailed, w.config.KeepFailed)
	if err != nil {
		return err
	}
	if removed > 0 && w.logger != nil {
		w.logger.Info("trimmed failed jobs", slog.Int64("removed", removed))
	}
	return nil
}

func (w *Worker) publishEvent(ctx context.Context, job *domain.Job, kind JobEventKind) {
	if w.publisher == nil {
		return
	}
	event := JobEvent{
		JobID:   job.ID,
		JobName: job.Name,
		Kind:    kind,
	}
	if err := w.publisher.Publish(ctx, event); err != nil && w.logger != nil {
		w.logger.Warn("failed to publish job event",
			slog.String("job_id", job.ID.String()),
			slog.Any("error", err),
		)
	}
}
