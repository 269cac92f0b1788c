package config

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger for the given environment. Production
// emits JSON at info level for log shipping; everything else stays human
// readable at debug level with source locations.
func NewLogger(env string) *slog.Logger {
	if env == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: env == "development",
	}))
}
