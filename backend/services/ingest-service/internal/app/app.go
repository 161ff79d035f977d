package app

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"visiflow/backend/libs/db"
	libredis "visiflow/backend/libs/redis"
	"visiflow/backend/services/ingest-service/internal/archive"
	"visiflow/backend/services/ingest-service/internal/config"
	httpserver "visiflow/backend/services/ingest-service/internal/http"
	"visiflow/backend/services/ingest-service/internal/http/handlers"
	"visiflow/backend/services/ingest-service/internal/metrics"
	"visiflow/backend/services/ingest-service/internal/persist"
	"visiflow/backend/services/ingest-service/internal/processor"
	"visiflow/backend/services/ingest-service/internal/registry"
	"visiflow/backend/services/ingest-service/internal/stream"
)

// App wires ingest service dependencies.
type App struct {
	server *httpserver.Server
	pool   *pgxpool.Pool
	redis  *goredis.Client
	logger *zap.Logger
}

// New constructs application components.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	metrics.Init()

	pool, err := db.NewPool(ctx, cfg.Database.DSN, int32(cfg.Database.MaxConns))
	if err != nil {
		return nil, err
	}

	redisClient, err := libredis.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		pool.Close()
		return nil, err
	}

	policy, err := registry.ParsePolicy(cfg.Validation.Policy)
	if err != nil {
		pool.Close()
		redisClient.Close()
		return nil, err
	}

	deviceRegistry := registry.NewRegistry(redisClient, cfg.Validation.KeyPrefix, cfg.Validation.Timeout)
	validator := registry.NewValidator(deviceRegistry, policy, logger)
	persister := persist.NewPersister(pool, cfg.Persist.Timeout, logger)
	proc := processor.NewProcessor(validator, persister, logger)

	var archiver handlers.Archiver
	if cfg.ArchiveEnabled() {
		sink, err := archive.NewSink(ctx, archive.Config{
			Bucket:          cfg.Archive.Bucket,
			Region:          cfg.Archive.Region,
			Prefix:          cfg.Archive.Prefix,
			Endpoint:        cfg.Archive.Endpoint,
			AccessKeyID:     cfg.Archive.AccessKeyID,
			SecretAccessKey: cfg.Archive.SecretAccessKey,
			UsePathStyle:    cfg.Archive.UsePathStyle,
			Timeout:         cfg.Archive.Timeout,
		}, logger)
		if err != nil {
			pool.Close()
			redisClient.Close()
			return nil, err
		}
		archiver = sink
	} else {
		logger.Warn("lake archive disabled: no bucket configured")
	}

	hub := stream.NewHub(logger)

	routes := httpserver.Routes{
		Batch:   handlers.NewIngestHandler(proc, archiver, hub, logger),
		Live:    hub,
		Health:  handlers.NewHealthHandler(),
		Metrics: metrics.Handler(),
	}

	router := httpserver.NewRouter(routes)
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server: server,
		pool:   pool,
		redis:  redisClient,
		logger: logger,
	}, nil
}

// Run starts serving HTTP requests.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis client", zap.Error(err))
		}
	}
}
