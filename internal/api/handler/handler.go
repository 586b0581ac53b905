package handler

import (
	"context"
	"log/slog"

	"github.com/kernelci/lava-bridge/internal/api/model"
	"github.com/kernelci/lava-bridge/internal/api/storage"
	"github.com/kernelci/lava-bridge/internal/lab"
)

// JobStore is the slice of the storage layer the handlers need.
type JobStore interface {
	CreateJob(ctx context.Context, job *model.Job) error
	GetJobByID(ctx context.Context, jobID string) (*model.Job, error)
	ListJobs(ctx context.Context, filter storage.JobFilter) ([]model.Job, error)
}

// Publisher hands job ids to the worker queue.
type Publisher interface {
	PublishWithRetry(ctx context.Context, body []byte, contentType string) error
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger     *slog.Logger
	Store      JobStore
	Publisher  Publisher
	Lab        *lab.Config
	MaxRetries int
}

// JobHandler handles job-related HTTP requests
type JobHandler struct {
	logger     *slog.Logger
	store      JobStore
	publisher  Publisher
	lab        *lab.Config
	maxRetries int
}

// NewJobHandler creates a new JobHandler instance
func NewJobHandler(deps *Dependencies) *JobHandler {
	return &JobHandler{
		logger:     deps.Logger,
		store:      deps.Store,
		publisher:  deps.Publisher,
		lab:        deps.Lab,
		maxRetries: deps.MaxRetries,
	}
}
