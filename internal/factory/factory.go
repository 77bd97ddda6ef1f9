package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mcoot/kickoff/internal/api"
	"github.com/mcoot/kickoff/internal/dependencies/clock"
	"github.com/mcoot/kickoff/internal/dependencies/random"
	"github.com/mcoot/kickoff/internal/metrics"
	"github.com/mcoot/kickoff/internal/services/admin"
	"github.com/mcoot/kickoff/internal/services/fixture"
	"github.com/mcoot/kickoff/internal/services/roster"
	"github.com/mcoot/kickoff/internal/storage"
	"github.com/mcoot/kickoff/internal/storage/memory"
	mongostorage "github.com/mcoot/kickoff/internal/storage/mongo"
	redisstorage "github.com/mcoot/kickoff/internal/storage/redis"
	sqlitestorage "github.com/mcoot/kickoff/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeMongo  = "mongo"
	StorageTypeSQLite = "sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Metrics receives counters from services and middleware
	Metrics        metrics.Metrics
	MetricsHandler http.Handler

	// Services
	Gate    *admin.Gate
	Roster  *roster.Service
	Fixture *fixture.Service

	Logger *slog.Logger
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend
	// If empty, defaults to "memory"
	StorageType string
	// Backend settings, required for the matching StorageType
	RedisConfig  *redisstorage.Config
	MongoConfig  *mongostorage.Config
	SQLiteConfig *sqlitestorage.Config
	// AdminConfig holds the admin secret; a zero value disables admin actions
	AdminConfig admin.Config
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := newStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// A private registry keeps repeated App construction (tests) from
	// colliding on the global one
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metricsSvc := metrics.NewService(reg)

	gate, err := admin.New(cfg.AdminConfig, metricsSvc, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	app := newWithDependencies(store, clock.New(), random.New(), metricsSvc, gate, logger)
	app.MetricsHandler = metrics.NewHandler(reg)
	return app, nil
}

func newStorage(ctx context.Context, cfg Config) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	case StorageTypeMongo:
		if cfg.MongoConfig == nil {
			return nil, errors.New("MongoConfig required when StorageType is mongo")
		}
		return mongostorage.New(ctx, *cfg.MongoConfig)
	case StorageTypeSQLite:
		if cfg.SQLiteConfig == nil {
			return nil, errors.New("SQLiteConfig required when StorageType is sqlite")
		}
		return sqlitestorage.New(ctx, *cfg.SQLiteConfig)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be memory, redis, mongo or sqlite", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	m metrics.Metrics,
	gate *admin.Gate,
	logger *slog.Logger,
) *App {
	return &App{
		Storage: store,
		Clock:   clk,
		Random:  rnd,
		Metrics: m,
		Gate:    gate,
		Roster:  roster.New(store, clk, rnd, m, logger),
		Fixture: fixture.New(store, m, logger),
		Logger:  logger,
	}
}

// Router builds the HTTP handler for the app
func (a *App) Router(allowedOrigins []string) http.Handler {
	return api.NewRouter(api.RouterConfig{
		Logger:         a.Logger,
		Roster:         a.Roster,
		Fixture:        a.Fixture,
		Gate:           a.Gate,
		Store:          a.Storage,
		Metrics:        a.Metrics,
		MetricsHandler: a.MetricsHandler,
		AllowedOrigins: allowedOrigins,
	})
}

// Close releases the storage backend
func (a *App) Close() error {
	return a.Storage.Close()
}
