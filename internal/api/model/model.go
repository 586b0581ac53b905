package model

import (
	"database/sql"
	"time"
)

// Job is one LAVA job submission record. Params and Callback hold the
// caller-supplied values as JSON; Name, JobFile and LavaJobID are filled
// in by the worker once the definition has been generated and submitted.
type Job struct {
	JobID        string         `db:"job_id"`
	Name         sql.NullString `db:"name"`
	DeviceType   string         `db:"device_type"`
	Plan         string         `db:"plan"`
	Params       string         `db:"params"`
	Callback     sql.NullString `db:"callback"`
	Status       string         `db:"status"`
	LavaJobID    sql.NullString `db:"lava_job_id"`
	JobFile      sql.NullString `db:"job_file"`
	ErrorMessage sql.NullString `db:"error_message"`
	RetryCount   int            `db:"retry_count"`
	MaxRetries   int            `db:"max_retries"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}
