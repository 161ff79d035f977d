package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const timestampColumn = "timestamp"

// QueryParams filter a telemetry read. StartTime/EndTime narrow each day
// to a time-of-day window and are applied only when both are set.
type QueryParams struct {
	DeviceID  string
	Metric    Metric
	StartDate string
	EndDate   string
	StartTime string
	EndTime   string
}

// TelemetryQuery reads metric rows for the dashboard.
type TelemetryQuery struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewTelemetryQuery returns a query over the injected pool.
func NewTelemetryQuery(pool *pgxpool.Pool, timeout time.Duration) *TelemetryQuery {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &TelemetryQuery{pool: pool, timeout: timeout}
}

// Rows returns matching rows newest first, serialized as column→value
// maps ready for JSON encoding.
func (q *TelemetryQuery) Rows(ctx context.Context, p QueryParams) ([]map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	sql, args := buildQuery(p)
	rows, err := q.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("telemetry query: %w", err)
	}
	defer rows.Close()

	columns := append([]string{timestampColumn}, p.Metric.Columns...)
	results := make([]map[string]any, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("telemetry query: scan: %w", err)
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if ts, ok := values[i].(time.Time); ok {
				row[col] = ts.Format("2006-01-02 15:04:05")
				continue
			}
			row[col] = values[i]
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("telemetry query: %w", err)
	}
	return results, nil
}

// buildQuery assembles the filtered select. The end date is inclusive:
// rows up to but excluding the following midnight match.
func buildQuery(p QueryParams) (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(timestampColumn)
	sb.WriteString(", ")
	sb.WriteString(strings.Join(p.Metric.Columns, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(p.Metric.Table)
	sb.WriteString(" WHERE device_id = $1 AND timestamp >= $2 AND timestamp < ($3::date + interval '1 day')")

	args := []any{p.DeviceID, p.StartDate, p.EndDate}
	if p.StartTime != "" && p.EndTime != "" {
		sb.WriteString(" AND timestamp::time >= $4 AND timestamp::time <= $5")
		args = append(args, p.StartTime, p.EndTime)
	}

	sb.WriteString(" ORDER BY timestamp DESC")
	return sb.String(), args
}
