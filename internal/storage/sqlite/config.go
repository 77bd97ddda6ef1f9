package sqlite

// Config holds SQLite settings
type Config struct {
	// Path is the database file; ":memory:" keeps everything in process
	Path string
	// BusyTimeoutMillis is how long a writer waits on a locked database
	BusyTimeoutMillis int
}

// DefaultConfig returns the default SQLite configuration
func DefaultConfig() Config {
	return Config{
		Path:              "kickoff.db",
		BusyTimeoutMillis: 5000,
	}
}
