package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/arloliu/cqlprobe/types"
)

// ZapLogger adapts a zap.SugaredLogger to types.Logger.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// Compile-time assertion that ZapLogger implements types.Logger.
var _ types.Logger = (*ZapLogger)(nil)

// NewZapLogger builds a production zap logger writing JSON to stderr.
//
// Stdout is left to the probe's human-readable progress lines.
//
// Parameters:
//   - level: Minimum level name ("debug", "info", "warn", "error")
//
// Returns:
//   - *ZapLogger: The logger
//   - error: Error if the level is unknown
func NewZapLogger(level string) (*ZapLogger, error) {
	return NewZapLoggerTo(os.Stderr, level)
}

// NewZapLoggerTo builds a zap logger writing JSON lines to w.
//
// The encoder is zap's production encoder with an ISO8601 "ts" field.
//
// Parameters:
//   - w: Destination of log lines
//   - level: Minimum level name ("debug", "info", "warn", "error")
//
// Returns:
//   - *ZapLogger: The logger
//   - error: Error if the level is unknown
func NewZapLoggerTo(w io.Writer, level string) (*ZapLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("cqlprobe: invalid log level %q: %w", level, err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "ts"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(w), lvl)

	return WrapZap(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))), nil
}

// WrapZap wraps an existing zap logger.
//
// Parameters:
//   - logger: The zap logger to adapt
//
// Returns:
//   - *ZapLogger: An adapter implementing types.Logger
func WrapZap(logger *zap.Logger) *ZapLogger {
	return &ZapLogger{sugar: logger.Sugar()}
}

// Debug logs at debug level.
func (l *ZapLogger) Debug(msg string, keysAndValues ...any) {
	l.sugar.Debugw(msg, keysAndValues...)
}

// Info logs at info level.
func (l *ZapLogger) Info(msg string, keysAndValues ...any) {
	l.sugar.Infow(msg, keysAndValues...)
}

// Warn logs at warn level.
func (l *ZapLogger) Warn(msg string, keysAndValues ...any) {
	l.sugar.Warnw(msg, keysAndValues...)
}

// Error logs at error level.
func (l *ZapLogger) Error(msg string, keysAndValues ...any) {
	l.sugar.Errorw(msg, keysAndValues...)
}

// Sync flushes buffered entries. Errors from syncing stderr are ignored.
func (l *ZapLogger) Sync() {
	_ = l.sugar.Sync()
}
