package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Config holds CLI configuration
type Config struct {
	ServerURL    string
	AdminPass    string
	ClientID     string
	ClientIDFile string
	Output       string
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:    getEnvOrDefault("KICKOFF_SERVER", "http://localhost:5000"),
		AdminPass:    os.Getenv("KICKOFF_ADMIN_PASS"),
		ClientID:     os.Getenv("KICKOFF_CLIENT_ID"),
		ClientIDFile: getEnvOrDefault("KICKOFF_CLIENT_ID_FILE", defaultClientIDFile()),
		Output:       "text",
	}
}

// EnsureClientID returns the device id used for registrations, creating
// and persisting a new one the first time it is needed
func (c *Config) EnsureClientID() (string, error) {
	if c.ClientID != "" {
		return c.ClientID, nil
	}

	data, err := os.ReadFile(c.ClientIDFile)
	if err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			c.ClientID = id
			return id, nil
		}
	} else if !os.IsNotExist(err) {
		return "", err
	}

	id := uuid.NewString()
	if err := os.MkdirAll(filepath.Dir(c.ClientIDFile), 0700); err != nil {
		return "", err
	}
	if err := os.WriteFile(c.ClientIDFile, []byte(id), 0600); err != nil {
		return "", err
	}

	c.ClientID = id
	return id, nil
}

// RequireAdminPass returns the admin password or an error naming how to set it
func (c *Config) RequireAdminPass() (string, error) {
	if c.AdminPass == "" {
		return "", errors.New("admin password required: pass --admin-pass or set KICKOFF_ADMIN_PASS")
	}
	return c.AdminPass, nil
}

func defaultClientIDFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".kickoff/client_id"
	}
	return filepath.Join(home, ".kickoff", "client_id")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
