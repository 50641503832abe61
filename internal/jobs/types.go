// Package jobs defines the asynchronous receipt-scan job model and the queue
// contracts it moves through. The abstractions allow swapping the in-memory
// queue for Cloud Tasks or Pub/Sub without touching the handlers.
package jobs

import (
	"context"
	"time"

	"github.com/spendwise/spendwise/internal/receipts"
)

// JobStatus is the lifecycle state of a job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusRetrying  JobStatus = "retrying"
)

// ScanReceiptJob asks a worker to scan one uploaded receipt. Result is filled
// in by the worker on success and polled by the client.
type ScanReceiptJob struct {
	JobID    string `json:"job_id"`
	UserID   string `json:"user_id"`
	GCSURI   string `json:"gcs_uri"`
	MimeType string `json:"mime_type"`

	Status      JobStatus            `json:"status"`
	Result      *receipts.ScanResult `json:"result,omitempty"`
	Error       string               `json:"error,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	StartedAt   *time.Time           `json:"started_at,omitempty"`
	CompletedAt *time.Time           `json:"completed_at,omitempty"`
	RetryCount  int                  `json:"retry_count"`
	MaxRetries  int                  `json:"max_retries"`
}

// JobHandler processes one job. A returned error marks the job for retry
// until MaxRetries is exhausted; on success the handler is expected to have
// set job.Result.
type JobHandler func(ctx context.Context, job *ScanReceiptJob) error

// Publisher enqueues scan jobs.
type Publisher interface {
	PublishScanReceipt(ctx context.Context, job *ScanReceiptJob) error
	Close() error
}

// Consumer runs handlers against enqueued jobs.
type Consumer interface {
	Start(ctx context.Context, handler JobHandler) error
	Stop(ctx context.Context) error
}

// JobStore tracks job state so clients can poll for results.
type JobStore interface {
	SaveJob(ctx context.Context, job *ScanReceiptJob) error
	GetJob(ctx context.Context, jobID string) (*ScanReceiptJob, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]*ScanReceiptJob, error)
}

// JobFilter narrows ListJobs results.
type JobFilter struct {
	UserID string
	Status JobStatus
	Limit  int
	Offset int
}
