// Package repository implements data persistence for notification jobs.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/souqdz/marketplace/internal/database"
	apperrors "github.com/souqdz/marketplace/internal/errors"
	notificationsDomain "github.com/souqdz/marketplace/internal/notifications/domain"
)

const jobColumns = `id, name, payload, attempts_made, status, last_error,
			  next_attempt_at, processed_at, created_at, updated_at`

// PostgreSQLJobRepository implements notification job persistence for PostgreSQL databases.
type PostgreSQLJobRepository struct {
	db *sql.DB
}

// NewPostgreSQLJobRepository creates a new PostgreSQL job repository instance.
func NewPostgreSQLJobRepository(db *sql.DB) *PostgreSQLJobRepository {
	return &PostgreSQLJobRepository{db: db}
}

// Create inserts a new job into the PostgreSQL database.
func (p *PostgreSQLJobRepository) Create(
	ctx context.Context,
	job *notificationsDomain.Job,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO notification_jobs (` + jobColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := querier.ExecContext(
		ctx,
		query,
		job.ID,
		job.Name,
		job.Payload,
		job.AttemptsMade,
		job.Status,
		job.LastError,
		job.NextAttemptAt,
		job.ProcessedAt,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create notification job")
	}
	return nil
}

// GetByID retrieves a job by its ID.
func (p *PostgreSQLJobRepository) GetByID(
	ctx context.Context,
	jobID uuid.UUID,
) (*notificationsDomain.Job, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + jobColumns + `
			  FROM notification_jobs
			  WHERE id = $1`

	return scanJob(querier.QueryRowContext(ctx, query, jobID))
}

// ClaimDue retrieves pending jobs whose next attempt time has passed, oldest
// first. Rows are locked with SKIP LOCKED so concurrent workers never claim
// the same job twice. Must run inside a transaction started via TxManager.
func (p *PostgreSQLJobRepository) ClaimDue(
	ctx context.Context,
	now time.Time,
	limit int,
) ([]*notificationsDomain.Job, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + jobColumns + `
			  FROM notification_jobs
			  WHERE status = $1 AND next_attempt_at <= $2
			  ORDER BY next_attempt_at ASC
			  LIMIT $3
			  FOR UPDATE SKIP LOCKED`

	rows, err := querier.QueryContext(ctx, query, notificationsDomain.JobStatusPending, now, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to claim due jobs")
	}
	defer rows.Close() //nolint:errcheck

	var jobs []*notificationsDomain.Job
	for rows.Next() {
		job, err := scanJobRow(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to claim due jobs")
	}
	return jobs, nil
}

// Update persists the job's mutable fields.
func (p *PostgreSQLJobRepository) Update(
	ctx context.Context,
	job *notificationsDomain.Job,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE notification_jobs
			  SET attempts_made = $1, status = $2, last_error = $3,
			      next_attempt_at = $4, processed_at = $5, updated_at = $6
			  WHERE id = $7`

	result, err := querier.ExecContext(
		ctx,
		query,
		job.AttemptsMade,
		job.Status,
		job.LastError,
		job.NextAttemptAt,
		job.ProcessedAt,
		job.UpdatedAt,
		job.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update notification job")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to update notification job")
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// TrimByStatus deletes the oldest jobs in the given terminal status beyond
// keep, preserving the most recently processed ones. Returns the number of
// rows removed.
func (p *PostgreSQLJobRepository) TrimByStatus(
	ctx context.Context,
	status notificationsDomain.JobStatus,
	keep int,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM notification_jobs
			  WHERE id IN (
			      SELECT id FROM notification_jobs
			      WHERE status = $1
			      ORDER BY processed_at DESC
			      OFFSET $2
			  )`

	result, err := querier.ExecContext(ctx, query, status, keep)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to trim notification jobs")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to trim notification jobs")
	}
	return affected, nil
}

// jobScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type jobScanner interface {
	Scan(dest ...any) error
}

func scanJob(row *sql.Row) (*notificationsDomain.Job, error) {
	job, err := scanJobRow(row)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, notificationsDomain.ErrJobNotFound
		}
		return nil, err
	}
	return job, nil
}

func scanJobRow(scanner jobScanner) (*notificationsDomain.Job, error) {
	var job notificationsDomain.Job
	err := scanner.Scan(
		&job.ID,
		&job.Name,
		&job.Payload,
		&job.AttemptsMade,
		&job.Status,
		&job.LastError,
		&job.NextAttemptAt,
		&job.ProcessedAt,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to scan notification job")
	}
	return &job, nil
}
