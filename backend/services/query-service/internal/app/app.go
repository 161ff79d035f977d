package app

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"visiflow/backend/libs/db"
	"visiflow/backend/services/query-service/internal/config"
	httpserver "visiflow/backend/services/query-service/internal/http"
	"visiflow/backend/services/query-service/internal/http/handlers"
	"visiflow/backend/services/query-service/internal/metrics"
	"visiflow/backend/services/query-service/internal/repository"
)

// App wires query service dependencies.
type App struct {
	server *httpserver.Server
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// New constructs application components.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	metrics.Init()

	pool, err := db.NewPool(ctx, cfg.Database.DSN, int32(cfg.Database.MaxConns))
	if err != nil {
		return nil, err
	}

	telemetryQuery := repository.NewTelemetryQuery(pool, cfg.Database.Timeout)
	queryHandler := handlers.NewQueryHandler(telemetryQuery, logger)

	policy := httpserver.NewOriginPolicy(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedSuffixes)
	routes := httpserver.Routes{
		Data:    httpserver.CORS(policy, logger, queryHandler),
		Health:  handlers.NewHealthHandler(),
		Metrics: metrics.Handler(),
	}

	router := httpserver.NewRouter(routes)
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server: server,
		pool:   pool,
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
}
