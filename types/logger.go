package types

// Logger is the structured logger used across cqlprobe.
//
// Each method takes a message followed by alternating key/value pairs, the
// same convention as zap.SugaredLogger's Infow family and log/slog.
// internal/logging provides a no-op implementation and a zap adapter.
type Logger interface {
	// Debug logs a message at debug level.
	Debug(msg string, keysAndValues ...any)

	// Info logs a message at info level.
	Info(msg string, keysAndValues ...any)

	// Warn logs a message at warn level.
	Warn(msg string, keysAndValues ...any)

	// Error logs a message at error level.
	Error(msg string, keysAndValues ...any)
}
