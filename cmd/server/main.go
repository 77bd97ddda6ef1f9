package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/kickoff/internal/api"
	"github.com/mcoot/kickoff/internal/config"
	"github.com/mcoot/kickoff/internal/factory"
	"github.com/mcoot/kickoff/internal/logging"
	"github.com/mcoot/kickoff/internal/services/admin"
	mongostorage "github.com/mcoot/kickoff/internal/storage/mongo"
	redisstorage "github.com/mcoot/kickoff/internal/storage/redis"
	sqlitestorage "github.com/mcoot/kickoff/internal/storage/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stdout)
	if err != nil {
		slog.Error("failed to create logger", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())

	app, err := factory.New(ctx, factoryConfig(cfg, logger))
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		cancel()
		os.Exit(1)
	}

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Port = cfg.Port
	server := api.NewServer(app.Router(cfg.AllowedOrigins), serverConfig, logger)

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.StorageType),
	)

	// Wait for shutdown or error
	exitCode := 0
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			exitCode = 1
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			exitCode = 1
		}
	}

	if err := app.Close(); err != nil {
		logger.Error("failed to close storage", slog.String("error", err.Error()))
		exitCode = 1
	}

	cancel()
	logger.Info("server stopped")
	os.Exit(exitCode)
}

func factoryConfig(cfg config.Config, logger *slog.Logger) factory.Config {
	adminCfg := admin.DefaultConfig()
	adminCfg.Password = cfg.AdminPassword
	adminCfg.PasswordHash = cfg.AdminPasswordHash

	fc := factory.Config{
		Logger:      logger,
		StorageType: cfg.StorageType,
		AdminConfig: adminCfg,
	}

	switch cfg.StorageType {
	case config.StorageRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		fc.RedisConfig = &redisCfg
	case config.StorageMongo:
		mongoCfg := mongostorage.DefaultConfig()
		mongoCfg.URI = cfg.MongoURI
		mongoCfg.Database = cfg.MongoDatabase
		fc.MongoConfig = &mongoCfg
	case config.StorageSQLite:
		sqliteCfg := sqlitestorage.DefaultConfig()
		sqliteCfg.Path = cfg.SQLitePath
		fc.SQLiteConfig = &sqliteCfg
	}

	return fc
}
