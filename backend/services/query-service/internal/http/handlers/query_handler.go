package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"visiflow/backend/services/query-service/internal/metrics"
	"visiflow/backend/services/query-service/internal/repository"
)

// RowFetcher reads filtered telemetry rows.
type RowFetcher interface {
	Rows(ctx context.Context, p repository.QueryParams) ([]map[string]any, error)
}

// QueryHandler handles GET /v1/data for the dashboard. Bad input gets a
// structured 400; internal failures get a generic 500 with detail only in
// the log.
type QueryHandler struct {
	repo   RowFetcher
	logger *zap.Logger
}

// NewQueryHandler returns the telemetry query handler.
func NewQueryHandler(repo RowFetcher, logger *zap.Logger) *QueryHandler {
	return &QueryHandler{repo: repo, logger: logger}
}

type errorResponse struct {
	Message string `json:"message"`
}

// ServeHTTP serves one dashboard query.
func (h *QueryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	deviceID := q.Get("device_id")
	metric := q.Get("metric")
	startDate := q.Get("start_date")
	endDate := q.Get("end_date")

	if deviceID == "" || metric == "" || startDate == "" || endDate == "" {
		metrics.IncQuery(metrics.ResultBadRequest)
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Message: "missing required parameters: device_id, metric, start_date, end_date",
		})
		return
	}

	allowed, ok := repository.Allowed(metric)
	if !ok {
		metrics.IncQuery(metrics.ResultBadRequest)
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Message: fmt.Sprintf("invalid metric %q, allowed values: %s",
				metric, strings.Join(repository.MetricNames(), ", ")),
		})
		return
	}

	rows, err := h.repo.Rows(r.Context(), repository.QueryParams{
		DeviceID:  deviceID,
		Metric:    allowed,
		StartDate: startDate,
		EndDate:   endDate,
		StartTime: q.Get("start_time"),
		EndTime:   q.Get("end_time"),
	})
	if err != nil {
		metrics.IncQuery(metrics.ResultError)
		h.logger.Error("telemetry query failed",
			zap.String("device_id", deviceID),
			zap.String("metric", metric),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Message: "an internal server error occurred",
		})
		return
	}

	metrics.IncQuery(metrics.ResultSuccess)
	writeJSON(w, http.StatusOK, rows)
}
