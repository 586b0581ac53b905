package domain

import (
	"errors"
)

// Job lifecycle: the API creates PENDING records, the worker moves them
// to GENERATING while rendering, then SUBMITTED (with the LAVA id) or
// FAILED.
const (
	JobStatusPending    = "PENDING"
	JobStatusGenerating = "GENERATING"
	JobStatusSubmitted  = "SUBMITTED"
	JobStatusFailed     = "FAILED"
)

var (
	ErrJobNotFound   = errors.New("job not found")
	ErrUnknownDevice = errors.New("unknown device type")
	ErrUnknownPlan   = errors.New("unknown test plan")
)
