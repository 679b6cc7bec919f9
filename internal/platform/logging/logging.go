// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup installs the default slog logger. Production emits JSON so log
// shippers can parse it; every other environment uses the text handler.
func Setup(environment string) *slog.Logger {
	return SetupWriter(os.Stdout, environment)
}

func SetupWriter(w io.Writer, environment string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var handler slog.Handler
	if environment == "production" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(w, opts)
	}
	logger := slog.New(handler).With("service", "onboarding")
	slog.SetDefault(logger)
	return logger
}
