package dto

type SubmitJobRequest struct {
	DeviceType string         `json:"device_type" binding:"required"`
	Plan       string         `json:"plan" binding:"required"`
	Params     map[string]any `json:"params" binding:"required"`
	Callback   *CallbackDTO   `json:"callback"`
}

// CallbackDTO mirrors the scheduler's completion-webhook options.
type CallbackDTO struct {
	ID      string `json:"id" binding:"required"`
	Type    string `json:"type"`
	URL     string `json:"url" binding:"required,url"`
	Dataset string `json:"dataset"`
}

type ListJobsRequest struct {
	DeviceType string `form:"device_type"`
	Plan       string `form:"plan"`
	Status     string `form:"status"`
	PageSize   int    `form:"page_size"`
	Cursor     string `form:"cursor"`
}

type ListJobsResponse struct {
	Jobs       []JobDTO `json:"jobs"`
	NextCursor string   `json:"next_cursor,omitempty"`
}

type JobDTO struct {
	JobID        string `json:"job_id"`
	Name         string `json:"name,omitempty"`
	DeviceType   string `json:"device_type"`
	Plan         string `json:"plan"`
	Status       string `json:"status"`
	LavaJobID    string `json:"lava_job_id,omitempty"`
	JobFile      string `json:"job_file,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}
