// Package fixture keeps the single upcoming match record.
package fixture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/kickoff/internal/metrics"
	"github.com/mcoot/kickoff/internal/model"
	"github.com/mcoot/kickoff/internal/storage"
)

// ErrInvalidTime is returned when a match time cannot be parsed
var ErrInvalidTime = errors.New("invalid match time")

// timeLayouts are accepted for match times; the last two are what a
// browser datetime-local input produces and are read as UTC
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseTime parses a match time. An empty string means no time.
func ParseTime(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidTime, value)
}

// Service manages the match record
type Service struct {
	storage storage.Storage
	metrics metrics.Metrics
	logger  *slog.Logger
}

// New creates a new fixture Service
func New(storage storage.Storage, metrics metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		metrics: metrics,
		logger:  logger,
	}
}

// Get returns the match, or an empty default if none has been saved
func (s *Service) Get(ctx context.Context) (*model.Match, error) {
	match, err := s.storage.GetMatch(ctx)
	if err != nil {
		if errors.Is(err, model.ErrMatchNotFound) {
			return model.DefaultMatch(), nil
		}
		return nil, err
	}
	return match, nil
}

// Upsert overwrites both match fields, creating the record if needed
func (s *Service) Upsert(ctx context.Context, location string, kickoff *time.Time) (*model.Match, error) {
	match := &model.Match{Location: location}
	if kickoff != nil {
		t := kickoff.UTC().Truncate(time.Millisecond)
		match.Time = &t
	}

	if err := s.storage.SaveMatch(ctx, match); err != nil {
		return nil, err
	}

	s.metrics.IncMatchUpdates()
	attrs := []any{slog.String("location", match.Location)}
	if match.Time != nil {
		attrs = append(attrs, slog.Time("time", *match.Time))
	}
	s.logger.Info("match updated", attrs...)

	return match.Clone(), nil
}
