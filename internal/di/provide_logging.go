package di

import (
	"context"
	"os"

	"github.com/rs/zerolog"
)

// ProvideLogger creates a new zerolog.Logger configured for the runtime
// environment. When LOG_FORMAT=json it emits JSON lines (for CI pipelines);
// otherwise it uses console format with pretty printing.
func ProvideLogger() zerolog.Logger {
	if os.Getenv("LOG_FORMAT") == "json" {
		return zerolog.New(os.Stdout).
			Level(zerolog.InfoLevel).
			With().
			Timestamp().
			Logger()
	}

	// Running in terminal - use console format with colors
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Logger()
}

// ProvideContext returns a background context carrying the application logger.
func ProvideContext() context.Context {
	logger := ProvideLogger()
	return logger.WithContext(context.Background())
}
