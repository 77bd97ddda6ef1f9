package mongo

import "time"

// Config holds MongoDB connection settings
type Config struct {
	URI      string
	Database string
	// ConnectTimeout bounds the initial connect and ping
	ConnectTimeout time.Duration
}

// DefaultConfig returns the default MongoDB configuration
func DefaultConfig() Config {
	return Config{
		URI:            "mongodb://localhost:27017",
		Database:       "kickoff",
		ConnectTimeout: 10 * time.Second,
	}
}
