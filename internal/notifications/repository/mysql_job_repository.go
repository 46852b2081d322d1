package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/souqdz/marketplace/internal/database"
	apperrors "github.com/souqdz/marketplace/internal/errors"
	notificationsDomain "github.com/souqdz/marketplace/internal/notifications/domain"
)

// MySQLJobRepository implements notification job persistence for MySQL databases.
type MySQLJobRepository struct {
	db *sql.DB
}

// NewMySQLJobRepository creates a new MySQL job repository instance.
func NewMySQLJobRepository(db *sql.DB) *MySQLJobRepository {
	return &MySQLJobRepository{db: db}
}

// Create inserts a new job into the MySQL database.
func (m *MySQLJobRepository) Create(
	ctx context.Context,
	job *notificationsDomain.Job,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO notification_jobs (` + jobColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

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
func (m *MySQLJobRepository) GetByID(
	ctx context.Context,
	jobID uuid.UUID,
) (*notificationsDomain.Job, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + jobColumns + `
			  FROM notification_jobs
			  WHERE id = ?`

	return scanJob(querier.QueryRowContext(ctx, query, jobID))
}

// ClaimDue retrieves pending jobs whose next attempt time has passed, oldest
// first. Rows are locked with SKIP LOCKED so concurrent workers never claim
// the same job twice. Must run inside a transaction started via TxManager.
func (m *MySQLJobRepository) ClaimDue(
	ctx context.Context,
	now time.Time,
	limit int,
) ([]*notificationsDomain.Job, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + jobColumns + `
			  FROM notification_jobs
			  WHERE status = ? AND next_attempt_at <= ?
			  ORDER BY next_attempt_at ASC
			  LIMIT ?
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
func (m *MySQLJobRepository) Update(
	ctx context.Context,
	job *notificationsDomain.Job,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE notification_jobs
			  SET attempts_made = ?, status = ?, last_error = ?,
			      next_attempt_at = ?, processed_at = ?, updated_at = ?
			  WHERE id = ?`

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
// rows removed. MySQL cannot delete from a table it selects from directly,
// so the candidate IDs go through a derived table.
func (m *MySQLJobRepository) TrimByStatus(
	ctx context.Context,
	status notificationsDomain.JobStatus,
	keep int,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM notification_jobs
			  WHERE id IN (
			      SELECT id FROM (
			          SELECT id FROM notification_jobs
			          WHERE status = ?
			          ORDER BY processed_at DESC
			          LIMIT 18446744073709551615 OFFSET ?
			      ) AS stale
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
