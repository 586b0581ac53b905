package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kernelci/lava-bridge/internal/api/domain"
	"github.com/kernelci/lava-bridge/internal/api/dto"
	"github.com/kernelci/lava-bridge/internal/api/model"
	"github.com/kernelci/lava-bridge/internal/api/storage"
	"github.com/kernelci/lava-bridge/internal/metrics"
)

// SubmitJob handles POST /api/v1/jobs
// Validates the request against the lab configuration, persists the job
// record and queues it for generation and submission.
func (h *JobHandler) SubmitJob(c *gin.Context) {
	var req dto.SubmitJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	if _, ok := h.lab.Device(req.DeviceType); !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": domain.ErrUnknownDevice.Error(),
		})
		return
	}

	if _, ok := h.lab.Plan(req.Plan); !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": domain.ErrUnknownPlan.Error(),
		})
		return
	}

	// device_type and plan are part of the parameter mapping the
	// templates reference, so mirror them into params.
	req.Params["device_type"] = req.DeviceType
	req.Params["plan"] = req.Plan

	params, err := json.Marshal(req.Params)
	if err != nil {
		h.logger.Error("Failed to encode job params", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid job params",
		})
		return
	}

	job := model.Job{
		JobID:      uuid.New().String(),
		DeviceType: req.DeviceType,
		Plan:       req.Plan,
		Params:     string(params),
		Status:     domain.JobStatusPending,
		MaxRetries: h.maxRetries,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if req.Callback != nil {
		callback, err := json.Marshal(req.Callback)
		if err != nil {
			h.logger.Error("Failed to encode callback options", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid callback options",
			})
			return
		}
		job.Callback.String = string(callback)
		job.Callback.Valid = true
	}

	if err := h.store.CreateJob(c.Request.Context(), &job); err != nil {
		h.logger.Error("Failed to create job", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create job",
		})
		return
	}

	message, _ := json.Marshal(map[string]string{"job_id": job.JobID})
	if err := h.publisher.PublishWithRetry(c.Request.Context(), message, "application/json"); err != nil {
		h.logger.Error("Failed to queue job",
			slog.String("job_id", job.JobID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to queue job",
		})
		return
	}

	metrics.JobsReceived.WithLabelValues(job.Plan).Inc()

	h.logger.Info("Job queued",
		slog.String("job_id", job.JobID),
		slog.String("device_type", job.DeviceType),
		slog.String("plan", job.Plan),
	)

	c.JSON(http.StatusAccepted, jobToDTO(&job))
}

// GetJob handles GET /api/v1/jobs/:job_id
// Retrieves detailed information about a specific job
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID := c.Param("job_id")

	if _, err := uuid.Parse(jobID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "job_id must be a valid UUID",
		})
		return
	}

	job, err := h.store.GetJobByID(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Job not found",
			})
			return
		}
		h.logger.Error("Failed to get job", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get job",
		})
		return
	}

	c.JSON(http.StatusOK, jobToDTO(job))
}

// ListJobs handles GET /api/v1/jobs
// Lists jobs with optional filtering and cursor pagination
func (h *JobHandler) ListJobs(c *gin.Context) {
	var req dto.ListJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return
	}

	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	if req.PageSize > 100 {
		req.PageSize = 100
	}

	cursor, err := DecodeJobCursor(req.Cursor)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid cursor",
		})
		return
	}

	filter := storage.JobFilter{
		DeviceType: req.DeviceType,
		Plan:       req.Plan,
		Status:     req.Status,
		PageSize:   req.PageSize,
		Cursor:     cursor,
	}

	jobs, err := h.store.ListJobs(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list jobs", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list jobs",
		})
		return
	}

	// One extra row was fetched to detect whether more results exist.
	hasMore := len(jobs) > req.PageSize
	if hasMore {
		jobs = jobs[:req.PageSize]
	}

	jobResponse := make([]dto.JobDTO, len(jobs))
	for i := range jobs {
		jobResponse[i] = *jobToDTO(&jobs[i])
	}

	var nextCursor string
	if hasMore {
		lastJob := jobs[len(jobs)-1]
		nextCursor = EncodeJobCursor(&storage.JobCursor{
			CreatedAt: lastJob.CreatedAt,
			JobID:     lastJob.JobID,
		})
	}

	c.JSON(http.StatusOK, dto.ListJobsResponse{
		Jobs:       jobResponse,
		NextCursor: nextCursor,
	})
}

func jobToDTO(job *model.Job) *dto.JobDTO {
	return &dto.JobDTO{
		JobID:        job.JobID,
		Name:         job.Name.String,
		DeviceType:   job.DeviceType,
		Plan:         job.Plan,
		Status:       job.Status,
		LavaJobID:    job.LavaJobID.String,
		JobFile:      job.JobFile.String,
		ErrorMessage: job.ErrorMessage.String,
		CreatedAt:    job.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    job.UpdatedAt.Format(time.RFC3339),
	}
}
