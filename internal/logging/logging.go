// Package logging builds the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
)

// Output formats
const (
	FormatJSON = "json"
	FormatText = "text"
)

// ParseLevel converts a level name (debug, info, warn, error) to a slog.Level
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if name == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.ToUpper(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", name)
	}
	return level, nil
}

// New creates a logger writing to w. JSON suits log collectors; text is
// the coloured console format for local runs.
func New(format string, level slog.Level, w io.Writer) (*slog.Logger, error) {
	switch strings.ToLower(format) {
	case "", FormatJSON:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})), nil
	case FormatText:
		handler := charmlog.NewWithOptions(w, charmlog.Options{
			Level:           charmLevel(level),
			ReportTimestamp: true,
			TimeFormat:      time.Kitchen,
		})
		return slog.New(handler), nil
	default:
		return nil, fmt.Errorf("invalid log format %q: must be %q or %q", format, FormatJSON, FormatText)
	}
}

func charmLevel(level slog.Level) charmlog.Level {
	switch {
	case level <= slog.LevelDebug:
		return charmlog.DebugLevel
	case level <= slog.LevelInfo:
		return charmlog.InfoLevel
	case level <= slog.LevelWarn:
		return charmlog.WarnLevel
	default:
		return charmlog.ErrorLevel
	}
}
