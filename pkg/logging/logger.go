// Package logging configures the global zerolog logger and carries the
// request id of an inbound HTTP request into the components it reaches.
package logging

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	// LevelDebug logs debug messages and above.
	LevelDebug LogLevel = "debug"

	// LevelInfo logs info messages and above.
	LevelInfo LogLevel = "info"

	// LevelWarn logs warning messages and above.
	LevelWarn LogLevel = "warn"

	// LevelError logs error messages only.
	LevelError LogLevel = "error"
)

// Field names shared by every component.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldLocationID = "location_id"
	FieldEndpoint   = "endpoint"
	FieldEventType  = "event_type"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level LogLevel

	// Pretty enables human-readable console output (default: false for JSON).
	Pretty bool

	// Output is the writer to output logs to (default: os.Stderr).
	Output io.Writer
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Pretty: false,
		Output: os.Stderr,
	}
}

// Setup configures the global zerolog logger.
func Setup(cfg Config) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output}
	}

	logger := zerolog.New(output).With().Timestamp().Logger()
	log.Logger = logger

	return logger
}

// parseLevel converts LogLevel to zerolog.Level.
func parseLevel(level LogLevel) zerolog.Level {
	switch strings.ToLower(string(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger creates a new logger with the given component name.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str(FieldComponent, component).Logger()
}

type requestIDKey struct{}

// WithRequestID returns a copy of ctx carrying the inbound request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request id carried by ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// For returns logger tagged with the request id carried by ctx. Outside a
// request (CLI, background work) logger is returned unchanged.
func For(ctx context.Context, logger zerolog.Logger) zerolog.Logger {
	id := RequestID(ctx)
	if id == "" {
		return logger
	}
	return logger.With().Str(FieldRequestID, id).Logger()
}

// Log Level Guidelines:
//
// Debug: cache hits and misses, each upstream page fetched, request flow
// Info: aggregations computed, webhook events accepted, server startup/shutdown
// Warn: cache store failures (request continues as a miss), rejected webhook
// signatures, upstream 4xx responses
// Error: 5xx responses returned to clients, upstream transport failures
//
// Context Fields:
//   - component: emitting package (NewLogger)
//   - request_id: X-Request-ID of the inbound request (For)
//   - location_id: location being aggregated
//   - endpoint: Square API path
//   - key / pattern: cache key or invalidation pattern
//   - event_type: webhook event type
