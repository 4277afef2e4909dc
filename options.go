package cqlprobe

import (
	"io"
	"os"

	"github.com/arloliu/cqlprobe/internal/logging"
	"github.com/arloliu/cqlprobe/internal/metrics"
	"github.com/arloliu/cqlprobe/report"
	"github.com/arloliu/cqlprobe/types"
)

// Config holds the settings shared by Connect and Runner.
type Config struct {
	Output      io.Writer
	Logger      types.Logger
	Metrics     types.MetricsCollector
	Consistency types.Consistency
	Report      *report.Report
}

// DefaultConfig returns a Config with defaults.
//
// Defaults:
//   - Output: os.Stdout
//   - Logger: no-op
//   - Metrics: no-op
//   - Consistency: One
//   - Report: nil (nothing recorded)
//
// Returns:
//   - *Config: Configuration with default settings
func DefaultConfig() *Config {
	return &Config{
		Output:      os.Stdout,
		Logger:      logging.NewNopLogger(),
		Metrics:     metrics.NewNopMetrics(),
		Consistency: types.One,
	}
}

// Option configures a Config.
type Option func(*Config)

// WithOutput sets where progress lines and query results are printed.
//
// Parameters:
//   - w: Destination writer (nil keeps the default)
//
// Returns:
//   - Option: Configuration option
func WithOutput(w io.Writer) Option {
	return func(c *Config) {
		if w != nil {
			c.Output = w
		}
	}
}

// WithLogger sets the structured logger.
//
// Parameters:
//   - logger: Logger implementation (e.g., logging.NewZapLogger)
//
// Returns:
//   - Option: Configuration option
func WithLogger(logger types.Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithMetrics sets the metrics collector.
//
// If not set, a no-op collector is used that discards all metrics.
// Use contrib/metrics/vm.New() for VictoriaMetrics integration.
//
// Parameters:
//   - collector: The metrics collector implementation
//
// Returns:
//   - Option: Configuration option
func WithMetrics(collector types.MetricsCollector) Option {
	return func(c *Config) {
		if collector != nil {
			c.Metrics = collector
		}
	}
}

// WithConsistency sets the consistency level of every statement.
func WithConsistency(level types.Consistency) Option {
	return func(c *Config) {
		c.Consistency = level
	}
}

// WithReport records every step into r.
//
// The runner finishes the report when Run returns.
//
// Parameters:
//   - r: The report to fill
//
// Returns:
//   - Option: Configuration option
func WithReport(r *report.Report) Option {
	return func(c *Config) {
		c.Report = r
	}
}

func buildConfig(opts []Option) *Config {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}

	return config
}
