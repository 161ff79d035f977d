package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"visiflow/backend/services/ingest-service/internal/metrics"
	"visiflow/backend/services/ingest-service/internal/models"
)

// BatchProcessor runs a batch of records through the per-record pipeline.
type BatchProcessor interface {
	ProcessBatch(ctx context.Context, records []models.InputRecord) []models.OutputRecord
}

// Archiver hands accepted records to the partitioned lake sink.
type Archiver interface {
	Archive(ctx context.Context, rec models.OutputRecord) error
}

// Broadcaster pushes accepted payloads to live dashboard clients.
type Broadcaster interface {
	Broadcast(data []byte)
}

// IngestHandler handles POST /v1/telemetry/batch. The response is always
// a full result batch; individual record failures surface per record, not
// as an HTTP error.
type IngestHandler struct {
	processor BatchProcessor
	archiver  Archiver
	stream    Broadcaster
	logger    *zap.Logger
}

// NewIngestHandler returns the batch ingestion handler. archiver and
// stream may be nil when the corresponding sink is disabled.
func NewIngestHandler(processor BatchProcessor, archiver Archiver, stream Broadcaster, logger *zap.Logger) *IngestHandler {
	return &IngestHandler{
		processor: processor,
		archiver:  archiver,
		stream:    stream,
		logger:    logger,
	}
}

type batchRequest struct {
	Records []models.InputRecord `json:"records"`
}

type batchResponse struct {
	Records []models.OutputRecord `json:"records"`
}

// ServeHTTP processes one ingestion batch.
func (h *IngestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	start := time.Now()
	outputs := h.processor.ProcessBatch(r.Context(), req.Records)
	metrics.ObserveBatch(time.Since(start))
	for _, out := range outputs {
		metrics.IncRecord(out.Result)
	}

	writeJSON(w, http.StatusOK, batchResponse{Records: outputs})

	go h.dispatch(outputs)
}

// dispatch forwards accepted records to the lake sink and the live
// stream. Runs after the response is written; failures are logged and
// counted, never reported to the producer.
func (h *IngestHandler) dispatch(outputs []models.OutputRecord) {
	ctx := context.Background()
	for _, out := range outputs {
		if out.Result != models.ResultOk {
			continue
		}

		if h.stream != nil {
			if payload, err := base64.StdEncoding.DecodeString(out.Data); err == nil {
				h.stream.Broadcast(payload)
			}
		}

		if h.archiver != nil {
			if err := h.archiver.Archive(ctx, out); err != nil {
				metrics.IncArchiveFailure()
				h.logger.Error("lake archive failed",
					zap.String("record_id", out.RecordID),
					zap.Error(err))
			}
		}
	}
}
