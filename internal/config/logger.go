package config

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger. Production emits JSON at Info for log
// shippers; everything else is human-readable text at Debug with source
// locations for station debugging.
func NewLogger(env string) *slog.Logger {
	opts := &slog.HandlerOptions{}

	var handler slog.Handler
	switch env {
	case "production":
		opts.Level = slog.LevelInfo
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		opts.Level = slog.LevelDebug
		opts.AddSource = true
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler).With(slog.String("service", "quickroll"))
}
