// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/mcoot/kickoff/internal/logging"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageMongo  = "mongo"
	StorageSQLite = "sqlite"
)

// Config is the server configuration
type Config struct {
	Port int

	AdminPassword     string
	AdminPasswordHash string

	StorageType    string
	RedisURL       string
	MongoURI       string
	MongoDatabase  string
	SQLitePath     string
	AllowedOrigins []string
	LogFormat      string
	LogLevel       slog.Level
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		Port:          5000,
		StorageType:   StorageMemory,
		MongoDatabase: "kickoff",
		SQLitePath:    "kickoff.db",
		LogFormat:     logging.FormatJSON,
		LogLevel:      slog.LevelInfo,
	}
}

// Load reads an optional .env file, then the environment
func Load() (Config, error) {
	// Missing .env is normal outside local development
	_ = godotenv.Load()
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from the given variable lookup
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	if v := get("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("invalid PORT %q", v)
		}
		cfg.Port = port
	}

	// Passwords are taken verbatim
	cfg.AdminPassword, _ = lookup("ADMIN_PASSWORD")
	cfg.AdminPasswordHash = get("ADMIN_PASSWORD_HASH")

	if v := get("STORAGE_TYPE"); v != "" {
		cfg.StorageType = strings.ToLower(v)
	}
	cfg.RedisURL = get("REDIS_URL")
	cfg.MongoURI = get("MONGODB")
	if v := get("MONGODB_DATABASE"); v != "" {
		cfg.MongoDatabase = v
	}
	if v := get("SQLITE_PATH"); v != "" {
		cfg.SQLitePath = v
	}

	if v := get("CORS_ORIGINS"); v != "" {
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}

	if v := get("LOG_FORMAT"); v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}
	level, err := logging.ParseLevel(get("LOG_LEVEL"))
	if err != nil {
		return Config{}, err
	}
	cfg.LogLevel = level

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings required by the chosen storage backend
func (c Config) Validate() error {
	switch c.StorageType {
	case StorageMemory:
	case StorageRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL required when STORAGE_TYPE=redis")
		}
	case StorageMongo:
		if c.MongoURI == "" {
			return errors.New("MONGODB required when STORAGE_TYPE=mongo")
		}
	case StorageSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH required when STORAGE_TYPE=sqlite")
		}
	default:
		return fmt.Errorf("invalid STORAGE_TYPE %q: must be one of memory, redis, mongo, sqlite", c.StorageType)
	}

	switch c.LogFormat {
	case logging.FormatJSON, logging.FormatText:
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q", c.LogFormat)
	}
	return nil
}
