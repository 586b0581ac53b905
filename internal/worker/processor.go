package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/kernelci/lava-bridge/internal/lava"
	"github.com/kernelci/lava-bridge/internal/metrics"
	"github.com/kernelci/lava-bridge/internal/worker/domain"
)

// processJob claims a queued job, generates its LAVA definition, writes
// it to the output directory and submits it to the scheduler.
func (w *Worker) processJob(ctx context.Context, msg *domain.JobMessage) error {
	w.logger.Info("Processing job",
		slog.String("job_id", msg.JobID),
		slog.String("worker_id", w.workerID),
	)

	job, err := w.storage.ClaimJob(ctx, msg.JobID, w.workerID)
	if err != nil {
		if errors.Is(err, domain.ErrJobAlreadyClaimed) {
			w.logger.Warn("Job already claimed, skipping",
				slog.String("job_id", msg.JobID),
			)
			return err
		}
		// Database errors may be transient
		return domain.NewRetryableError(fmt.Errorf("failed to claim job: %w", err))
	}

	jobCtx, cancel := context.WithTimeout(ctx, w.jobTimeout)
	defer cancel()

	start := time.Now()
	name, lavaJobID, err := w.generateAndSubmit(jobCtx, job)
	metrics.GenerateDuration.WithLabelValues(job.Plan).Observe(time.Since(start).Seconds())

	if err != nil {
		return w.recordFailure(ctx, job, err)
	}

	jobFile := filepath.Join(w.outputDir, name+".yaml")
	if err := w.storage.MarkSubmitted(ctx, job.JobID, name, jobFile, lavaJobID); err != nil {
		w.logger.Error("Failed to record submission",
			slog.String("job_id", job.JobID),
			slog.String("lava_job_id", lavaJobID),
			slog.String("error", err.Error()),
		)
		// The job IS submitted; don't requeue and submit it twice
		return nil
	}

	metrics.JobsSubmitted.WithLabelValues(job.Plan).Inc()

	w.logger.Info("Job submitted",
		slog.String("job_id", job.JobID),
		slog.String("name", name),
		slog.String("lava_job_id", lavaJobID),
	)

	return nil
}

// generateAndSubmit runs the job descriptor builder for one claimed job
// and returns the computed job name and the scheduler's job id.
func (w *Worker) generateAndSubmit(ctx context.Context, job *domain.Job) (string, string, error) {
	params := lava.Params{}
	if err := json.Unmarshal([]byte(job.Params), &params); err != nil {
		return "", "", fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
	}

	var opts *lava.CallbackOptions
	if job.Callback != "" {
		opts = &lava.CallbackOptions{}
		if err := json.Unmarshal([]byte(job.Callback), opts); err != nil {
			return "", "", fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
		}
	}

	device, ok := w.lab.Device(job.DeviceType)
	if !ok {
		return "", "", fmt.Errorf("%w: unknown device type %q", domain.ErrInvalidPayload, job.DeviceType)
	}

	plan, ok := w.lab.Plan(job.Plan)
	if !ok {
		return "", "", fmt.Errorf("%w: unknown test plan %q", domain.ErrInvalidPayload, job.Plan)
	}

	definition, err := w.runtime.Generate(params, device, plan, opts)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate job definition: %w", err)
	}

	name := params.String("name")
	jobPath := filepath.Join(w.outputDir, lava.JobFileName(params))
	if err := os.WriteFile(jobPath, []byte(definition), 0o644); err != nil {
		return "", "", domain.NewRetryableError(fmt.Errorf("failed to write job file: %w", err))
	}

	lavaJobID, err := w.runtime.Submit(ctx, jobPath)
	if err != nil {
		return "", "", domain.NewRetryableError(fmt.Errorf("failed to submit job: %w", err))
	}

	return name, lavaJobID, nil
}

// recordFailure persists a failed attempt and decides whether it should
// be retried. Generation errors (malformed defconfig, missing template
// or parameter) are permanent; IO and scheduler errors are retried until
// the job's retry budget runs out.
func (w *Worker) recordFailure(ctx context.Context, job *domain.Job, jobErr error) error {
	var retryable *domain.RetryableError
	if errors.As(jobErr, &retryable) && job.RetryCount < job.MaxRetries {
		if err := w.storage.Requeue(ctx, job.JobID, jobErr.Error()); err != nil {
			w.logger.Error("Failed to requeue job",
				slog.String("job_id", job.JobID),
				slog.String("error", err.Error()),
			)
		}

		metrics.JobRetries.WithLabelValues(job.Plan).Inc()

		w.logger.Info("Job will be retried",
			slog.String("job_id", job.JobID),
			slog.Int("retry_count", job.RetryCount),
			slog.Int("max_retries", job.MaxRetries),
		)

		return jobErr
	}

	if err := w.storage.MarkFailed(ctx, job.JobID, jobErr.Error()); err != nil {
		w.logger.Error("Failed to update job status to FAILED",
			slog.String("job_id", job.JobID),
			slog.String("error", err.Error()),
		)
	}

	metrics.JobsFailed.WithLabelValues(job.Plan, failureReason(jobErr)).Inc()

	if errors.As(jobErr, &retryable) {
		w.logger.Warn("Job exceeded max retries",
			slog.String("job_id", job.JobID),
			slog.Int("retry_count", job.RetryCount),
			slog.Int("max_retries", job.MaxRetries),
		)
		return fmt.Errorf("%w: %v", domain.ErrMaxRetriesExceeded, jobErr)
	}

	return jobErr
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, lava.ErrMalformedConfigName):
		return "malformed_config"
	case errors.Is(err, lava.ErrTemplateNotFound):
		return "template_not_found"
	case errors.Is(err, domain.ErrInvalidPayload):
		return "invalid_payload"
	default:
		return "other"
	}
}
