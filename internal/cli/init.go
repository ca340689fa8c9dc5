// Package cli holds the startup steps shared by cmd/smartbudget and
// cmd/smartbudget-worker.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"smartbudget/internal/config"
	applog "smartbudget/internal/log"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// NewLogger builds the process logger for a component at the configured
// level and installs it as the slog default. An unknown level falls back to info.
func NewLogger(cfg *config.Config, component string, out io.Writer) *applog.Logger {
	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := applog.New(applog.Config{
		Level:     level,
		Component: component,
		Format:    applog.FormatText,
		Output:    out,
	})
	applog.SetDefault(logger)
	return logger
}

// Bootstrap loads .env and the environment configuration, sets up logging
// and validates the result. It exits the process on validation failure.
func Bootstrap(component string) (*config.Config, *applog.Logger) {
	LoadEnvFile()
	cfg := config.Load()
	logger := NewLogger(cfg, component, os.Stdout)
	if err := cfg.Validate(); err != nil {
		Fatal(logger, "Configuration validation failed", err)
	}
	return cfg, logger
}

// Fatal logs msg with err and exits with status 1.
func Fatal(logger *applog.Logger, msg string, err error, args ...any) {
	logger.Error(msg, append([]any{applog.FieldError, err}, args...)...)
	os.Exit(1)
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
