// Package admin guards privileged roster actions behind a shared password.
package admin

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/kickoff/internal/metrics"
)

// bcrypt ignores everything past this many bytes
const maxBcryptPasswordLength = 72

// ErrInvalidAdminPassword is returned for any rejected admin password
var ErrInvalidAdminPassword = errors.New("invalid admin password")

// Actions a password is checked for, used to label logs and metrics
const (
	ActionTogglePaid = "pay"
	ActionDelete     = "delete"
	ActionSplit      = "split"
	ActionLogin      = "login"
)

// Config holds the configured admin secret. PasswordHash takes precedence
// over Password when both are set. PasswordHash is a bcrypt hash of the raw
// password, so it only admits passwords of up to 72 bytes.
type Config struct {
	Password     string
	PasswordHash string
	// Cost is the bcrypt cost used when hashing Password
	Cost int
}

// DefaultConfig returns default gate configuration
func DefaultConfig() Config {
	return Config{
		Cost: bcrypt.DefaultCost,
	}
}

// Gate checks caller-supplied admin passwords against the configured secret
type Gate struct {
	hash []byte
	// set when hash covers the SHA-256 digest rather than the password
	digested bool

	metrics metrics.Metrics
	logger  *slog.Logger
}

// New creates a Gate. With no password configured every check fails.
func New(cfg Config, m metrics.Metrics, logger *slog.Logger) (*Gate, error) {
	g := &Gate{metrics: m, logger: logger}

	switch {
	case cfg.PasswordHash != "":
		if _, err := bcrypt.Cost([]byte(cfg.PasswordHash)); err != nil {
			return nil, fmt.Errorf("invalid admin password hash: %w", err)
		}
		g.hash = []byte(cfg.PasswordHash)
	case cfg.Password != "":
		cost := cfg.Cost
		if cost == 0 {
			cost = DefaultConfig().Cost
		}
		hash, err := bcrypt.GenerateFromPassword(digest(cfg.Password), cost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		g.hash = hash
		g.digested = true
	default:
		logger.Warn("no admin password configured, admin actions are disabled")
	}

	return g, nil
}

// Enabled reports whether an admin secret is configured
func (g *Gate) Enabled() bool {
	return len(g.hash) > 0
}

// Verify checks supplied against the secret for the given action
func (g *Gate) Verify(action, supplied string) error {
	if g.Enabled() && supplied != "" && g.matches(supplied) {
		return nil
	}

	g.metrics.IncAdminAuthFailures(action)
	g.logger.Warn("admin password rejected", slog.String("action", action))
	return ErrInvalidAdminPassword
}

// matches compares the whole of supplied, never a 72-byte prefix of it
func (g *Gate) matches(supplied string) bool {
	candidate := []byte(supplied)
	if g.digested {
		candidate = digest(supplied)
	} else if len(candidate) > maxBcryptPasswordLength {
		return false
	}
	return bcrypt.CompareHashAndPassword(g.hash, candidate) == nil
}

// digest maps a password of any length to 64 hex bytes for bcrypt
func digest(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(hex.EncodeToString(sum[:]))
}
