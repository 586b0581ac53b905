package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/kernelci/lava-bridge/internal/worker/domain"
)

// Storage handles all database operations for the worker
type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStorage creates a new Storage instance
func NewStorage(db *sqlx.DB, logger *slog.Logger) *Storage {
	return &Storage{
		db:     db,
		logger: logger,
	}
}

// ClaimJob attempts to claim a job using optimistic locking
// (PENDING -> GENERATING). Returns the job on success, or
// ErrJobAlreadyClaimed if another worker got there first.
func (s *Storage) ClaimJob(ctx context.Context, jobID, workerID string) (*domain.Job, error) {
	query := `
		UPDATE jobs
		SET status = $1,
		    worker_id = $2,
		    started_at = NOW(),
		    updated_at = NOW()
		WHERE job_id = $3
		  AND status = $4
		RETURNING job_id, device_type, plan, params, callback, retry_count, max_retries
	`

	var job domain.Job
	var callback sql.NullString

	err := s.db.QueryRowContext(ctx, query, domain.JobStatusGenerating, workerID, jobID, domain.JobStatusPending).Scan(
		&job.JobID,
		&job.DeviceType,
		&job.Plan,
		&job.Params,
		&callback,
		&job.RetryCount,
		&job.MaxRetries,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("Failed to claim job - already claimed or not found",
				slog.String("job_id", jobID),
				slog.String("worker_id", workerID),
			)
			return nil, domain.ErrJobAlreadyClaimed
		}
		return nil, fmt.Errorf("failed to claim job: %w", err)
	}

	job.Status = domain.JobStatusGenerating
	if callback.Valid {
		job.Callback = callback.String
	}

	s.logger.Info("Job claimed",
		slog.String("job_id", jobID),
		slog.String("worker_id", workerID),
		slog.String("plan", job.Plan),
	)

	return &job, nil
}

// MarkSubmitted records a successful submission: the computed job name,
// the rendered file path and the scheduler's job identifier.
func (s *Storage) MarkSubmitted(ctx context.Context, jobID, name, jobFile, lavaJobID string) error {
	query := `
		UPDATE jobs
		SET status = $1,
		    name = $2,
		    job_file = $3,
		    lava_job_id = $4,
		    completed_at = NOW(),
		    updated_at = NOW()
		WHERE job_id = $5
	`

	result, err := s.db.ExecContext(ctx, query, domain.JobStatusSubmitted, name, jobFile, lavaJobID, jobID)
	if err != nil {
		return fmt.Errorf("failed to mark job submitted: %w", err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return domain.ErrJobNotFound
	}

	return nil
}

// MarkFailed records a permanent failure.
func (s *Storage) MarkFailed(ctx context.Context, jobID, errorMsg string) error {
	query := `
		UPDATE jobs
		SET status = $1,
		    error_message = $2,
		    completed_at = NOW(),
		    updated_at = NOW()
		WHERE job_id = $3
	`

	if _, err := s.db.ExecContext(ctx, query, domain.JobStatusFailed, errorMsg, jobID); err != nil {
		return fmt.Errorf("failed to mark job failed: %w", err)
	}

	return nil
}

// Requeue returns a job to PENDING after a transient failure and bumps
// its retry counter so the redelivered message can be claimed again.
func (s *Storage) Requeue(ctx context.Context, jobID, errorMsg string) error {
	query := `
		UPDATE jobs
		SET status = $1,
		    error_message = $2,
		    retry_count = retry_count + 1,
		    updated_at = NOW()
		WHERE job_id = $3
	`

	if _, err := s.db.ExecContext(ctx, query, domain.JobStatusPending, errorMsg, jobID); err != nil {
		return fmt.Errorf("failed to requeue job: %w", err)
	}

	return nil
}
