package domain

// Job represents a job from the database for worker processing
type Job struct {
	JobID      string
	DeviceType string
	Plan       string
	Params     string // JSON parameter mapping
	Callback   string // JSON callback options, may be empty
	Status     string
	RetryCount int
	MaxRetries int
}

// JobMessage represents a job message from RabbitMQ
type JobMessage struct {
	JobID       string `json:"job_id"`
	DeliveryTag uint64 `json:"-"`
}
