package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"visiflow/backend/services/ingest-service/internal/models"
)

// Persister writes one reading's metric rows inside a single transaction
// on a single pooled connection. Any failure rolls the whole record back;
// the connection is released on every path.
type Persister struct {
	pool    *pgxpool.Pool
	timeout time.Duration
	logger  *zap.Logger
}

// NewPersister returns a persister over the injected pool.
func NewPersister(pool *pgxpool.Pool, timeout time.Duration, logger *zap.Logger) *Persister {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Persister{pool: pool, timeout: timeout, logger: logger}
}

// Persist stores every metric family the reading fully satisfies. A
// reading that satisfies no family commits an empty transaction and
// succeeds, matching the ingestion contract: presence decides writes.
func (p *Persister) Persist(ctx context.Context, rec *models.Reading) error {
	writes := writesFor(rec)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("persist: acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("persist: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, w := range writes {
		if _, err := tx.Exec(ctx, w.sql, w.args...); err != nil {
			p.logger.Error("metric insert failed",
				zap.String("device_id", rec.DeviceID),
				zap.String("family", w.family),
				zap.Error(err))
			return fmt.Errorf("persist: insert %s: %w", w.family, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("persist: commit: %w", err)
	}
	return nil
}
