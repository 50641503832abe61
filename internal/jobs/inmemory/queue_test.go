package inmemory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spendwise/spendwise/internal/jobs"
	"github.com/spendwise/spendwise/internal/receipts"
)

func waitForStatus(t *testing.T, store *Store, jobID string, want jobs.JobStatus) *jobs.ScanReceiptJob {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		job, err := store.GetJob(context.Background(), jobID)
		if err == nil && job.Status == want {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s never reached status %s", jobID, want)
	return nil
}

func TestQueueProcessesJob(t *testing.T) {
	store := NewStore()
	queue := NewQueue(4, 2, store)
	defer queue.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := queue.Start(ctx, func(_ context.Context, job *jobs.ScanReceiptJob) error {
		job.Result = &receipts.ScanResult{Amount: "45.67"}
		return nil
	})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	job := &jobs.ScanReceiptJob{UserID: "u1", GCSURI: "gs://b/r.png", MimeType: "image/png"}
	if err := queue.PublishScanReceipt(ctx, job); err != nil {
		t.Fatalf("PublishScanReceipt() error = %v", err)
	}
	if job.JobID == "" {
		t.Fatal("publishing must assign a job ID")
	}

	done := waitForStatus(t, store, job.JobID, jobs.JobStatusCompleted)
	if done.Result == nil || done.Result.Amount != "45.67" {
		t.Errorf("Result = %+v, want the handler's scan result", done.Result)
	}
	if done.CompletedAt == nil {
		t.Error("CompletedAt not set on completion")
	}
}

func TestQueueRetriesThenFails(t *testing.T) {
	store := NewStore()
	queue := NewQueue(4, 1, store)
	defer queue.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	attempts := make(chan struct{}, 16)
	err := queue.Start(ctx, func(context.Context, *jobs.ScanReceiptJob) error {
		attempts <- struct{}{}
		return errors.New("scan failed")
	})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	job := &jobs.ScanReceiptJob{UserID: "u1", GCSURI: "gs://b/r.png", MaxRetries: 1}
	if err := queue.PublishScanReceipt(ctx, job); err != nil {
		t.Fatalf("PublishScanReceipt() error = %v", err)
	}

	failed := waitForStatus(t, store, job.JobID, jobs.JobStatusFailed)
	if failed.Error == "" {
		t.Error("failed job must record the handler error")
	}
	if got := len(attempts); got != 2 {
		t.Errorf("handler ran %d times, want 2 (initial + one retry)", got)
	}
}

func TestQueueRejectsAfterClose(t *testing.T) {
	queue := NewQueue(1, 1, NewStore())
	if err := queue.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	err := queue.PublishScanReceipt(context.Background(), &jobs.ScanReceiptJob{})
	if err == nil {
		t.Fatal("PublishScanReceipt() must fail on a closed queue")
	}
}

func TestStoreListJobs(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	base := time.Now()
	for i, in := range []struct {
		id     string
		userID string
		status jobs.JobStatus
	}{
		{"j1", "u1", jobs.JobStatusCompleted},
		{"j2", "u1", jobs.JobStatusPending},
		{"j3", "u2", jobs.JobStatusPending},
	} {
		job := &jobs.ScanReceiptJob{
			JobID:     in.id,
			UserID:    in.userID,
			Status:    in.status,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := store.SaveJob(ctx, job); err != nil {
			t.Fatalf("SaveJob(%s) error = %v", in.id, err)
		}
	}

	got, err := store.ListJobs(ctx, jobs.JobFilter{UserID: "u1"})
	if err != nil {
		t.Fatalf("ListJobs() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListJobs(u1) returned %d jobs, want 2", len(got))
	}
	if got[0].JobID != "j2" {
		t.Errorf("newest job first: got %s, want j2", got[0].JobID)
	}

	got, err = store.ListJobs(ctx, jobs.JobFilter{Status: jobs.JobStatusPending, Limit: 1})
	if err != nil {
		t.Fatalf("ListJobs() error = %v", err)
	}
	if len(got) != 1 || got[0].Status != jobs.JobStatusPending {
		t.Errorf("status filter with limit returned %+v", got)
	}
}
