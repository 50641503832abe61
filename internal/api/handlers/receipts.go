package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/spendwise/spendwise/internal/api/middleware"
	"github.com/spendwise/spendwise/internal/jobs"
	"github.com/spendwise/spendwise/internal/receipts"
)

// maxReceiptSize caps uploads at 10 MiB; receipt photos and PDFs are far
// smaller.
const maxReceiptSize = 10 << 20

// ReceiptsHandler serves receipt upload and scan endpoints.
type ReceiptsHandler struct {
	blobs     receipts.BlobStore
	publisher jobs.Publisher
	log       zerolog.Logger
}

// NewReceiptsHandler creates the handler.
func NewReceiptsHandler(blobs receipts.BlobStore, publisher jobs.Publisher, log zerolog.Logger) *ReceiptsHandler {
	return &ReceiptsHandler{blobs: blobs, publisher: publisher, log: log}
}

// Upload handles POST /api/receipts. The receipt file is read from the
// "receipt" multipart field, stored, and a scan job is enqueued. Clients poll
// the returned job ID for the extracted fields.
func (h *ReceiptsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(maxReceiptSize); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, header, err := r.FormFile("receipt")
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "receipt file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxReceiptSize))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to read receipt upload")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	objectName := fmt.Sprintf("receipts/%s/%s", time.Now().Format("2006/01/02"), uuid.NewString()+"-"+header.Filename)
	uri, err := h.blobs.Upload(ctx, objectName, data)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to store receipt")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to store file")
		return
	}

	job := &jobs.ScanReceiptJob{
		UserID:   middleware.UserID(ctx),
		GCSURI:   uri,
		MimeType: mimeType,
	}
	if err := h.publisher.PublishScanReceipt(ctx, job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue scan job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue scan job")
		return
	}

	h.log.Info().Str("job_id", job.JobID).Str("uri", uri).Msg("Receipt scan enqueued")
	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id":  job.JobID,
		"gcs_uri": uri,
		"status":  string(job.Status),
	})
}

// JobsHandler serves scan job polling endpoints.
type JobsHandler struct {
	store jobs.JobStore
	log   zerolog.Logger
}

// NewJobsHandler creates the handler.
func NewJobsHandler(store jobs.JobStore, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{store: store, log: log}
}

// Get handles GET /api/jobs/{id}.
func (h *JobsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	job, err := h.store.GetJob(ctx, r.PathValue("id"))
	if err != nil || job.UserID != middleware.UserID(ctx) {
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, job)
}

// List handles GET /api/jobs.
func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	filter := jobs.JobFilter{
		UserID: middleware.UserID(ctx),
		Status: jobs.JobStatus(query.Get("status")),
	}
	if raw := query.Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			filter.Limit = limit
		}
	}
	if raw := query.Get("offset"); raw != "" {
		if offset, err := strconv.Atoi(raw); err == nil {
			filter.Offset = offset
		}
	}

	list, err := h.store.ListJobs(ctx, filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  list,
		"count": len(list),
	})
}
