package domain

// Job status constants
const (
	JobStatusPending    = "PENDING"
	JobStatusGenerating = "GENERATING"
	JobStatusSubmitted  = "SUBMITTED"
	JobStatusFailed     = "FAILED"
)
