package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/kickoff/internal/api/handler"
	apimiddleware "github.com/mcoot/kickoff/internal/api/middleware"
	"github.com/mcoot/kickoff/internal/metrics"
	"github.com/mcoot/kickoff/internal/middleware"
	"github.com/mcoot/kickoff/internal/services/admin"
	"github.com/mcoot/kickoff/internal/services/fixture"
	"github.com/mcoot/kickoff/internal/services/roster"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	Roster         *roster.Service
	Fixture        *fixture.Service
	Gate           *admin.Gate
	Store          handler.Pinger
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	// AllowedOrigins defaults to apimiddleware.DefaultAllowedOrigins
	AllowedOrigins []string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.Roster, cfg.Gate)
	matchHandler := handler.NewMatchHandler(cfg.Fixture)
	adminHandler := handler.NewAdminHandler(cfg.Gate)
	healthHandler := handler.NewHealthHandler(cfg.Store, cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Logging(cfg.Logger))
	api.Use(apimiddleware.Recovery(cfg.Logger))
	if cfg.Metrics != nil {
		api.Use(middleware.Metrics(cfg.Metrics))
	}

	// Player routes; fixed paths before /players/{id}
	api.HandleFunc("/players", playerHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/players", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/check-status", playerHandler.CheckStatus).Methods(http.MethodGet)
	api.HandleFunc("/players/unvote", playerHandler.Unregister).Methods(http.MethodPost)
	api.HandleFunc("/players/split", playerHandler.SplitTeams).Methods(http.MethodPut)
	api.HandleFunc("/players/{id}/pay", playerHandler.TogglePaid).Methods(http.MethodPut)
	api.HandleFunc("/players/{id}", playerHandler.Delete).Methods(http.MethodDelete)

	// Admin
	api.HandleFunc("/login", adminHandler.Login).Methods(http.MethodPost)

	// Match routes (no admin gate)
	api.HandleFunc("/match", matchHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/match", matchHandler.Upsert).Methods(http.MethodPost)

	api.HandleFunc("/health", healthHandler.Get).Methods(http.MethodGet)

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler).Methods(http.MethodGet)
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = apimiddleware.DefaultAllowedOrigins
	}

	// CORS wraps the router so preflights are answered before route matching
	return apimiddleware.CORS(origins)(r)
}
