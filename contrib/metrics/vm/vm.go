package vm

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/VictoriaMetrics/metrics"

	"github.com/arloliu/cqlprobe/types"
)

// Option configures a Collector.
type Option func(*Collector)

// WithPrefix sets the metric name prefix.
//
// Default: "cqlprobe"
//
// Parameters:
//   - prefix: The prefix to use for all metric names
//
// Returns:
//   - Option: A configuration option
func WithPrefix(prefix string) Option {
	return func(c *Collector) {
		c.prefix = prefix
	}
}

// WithMetricsSet sets the metrics set to use.
//
// If provided, the collector will register metrics with this set instead of
// creating a new one. The caller is responsible for exposing this set
// (e.g., via metrics.WritePrometheus or a custom handler).
//
// Parameters:
//   - set: The metrics set to use
//
// Returns:
//   - Option: A configuration option
func WithMetricsSet(set *metrics.Set) Option {
	return func(c *Collector) {
		c.set = set
	}
}

type stepMetrics struct {
	total    *metrics.Counter
	errors   *metrics.Counter
	duration *metrics.Histogram
	rows     *metrics.Counter
}

// Collector implements types.MetricsCollector using VictoriaMetrics.
//
// All metrics are pre-created at initialization time, one series per step.
// Thread-safe for concurrent use.
type Collector struct {
	set    *metrics.Set
	prefix string

	connectTotal    *metrics.Counter
	connectErrors   *metrics.Counter
	connectDuration *metrics.Histogram

	steps map[types.Step]*stepMetrics

	lastRunSuccess   atomic.Int64
	lastRunTimestamp atomic.Int64
}

// Compile-time assertion that Collector implements types.MetricsCollector.
var _ types.MetricsCollector = (*Collector)(nil)

// New creates a new VictoriaMetrics-based metrics collector.
//
// The collector creates its own metrics.Set and registers it globally unless
// WithMetricsSet is given.
//
// Parameters:
//   - opts: Configuration options (e.g., WithPrefix)
//
// Returns:
//   - *Collector: A new metrics collector ready for use
//
// Example:
//
//	collector := vm.New(vm.WithPrefix("probe"))
//	runner, _ := cqlprobe.NewRunner(session,
//	    cqlprobe.WithMetrics(collector),
//	)
func New(opts ...Option) *Collector {
	c := &Collector{
		prefix: "cqlprobe",
		steps:  make(map[types.Step]*stepMetrics),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.set == nil {
		c.set = metrics.NewSet()
		metrics.RegisterSet(c.set)
	}

	c.initMetrics()

	return c
}

// initMetrics pre-creates all metrics with the configured prefix.
func (c *Collector) initMetrics() {
	p := c.prefix

	c.connectTotal = c.set.NewCounter(p + "_connect_total")
	c.connectErrors = c.set.NewCounter(p + "_connect_errors_total")
	c.connectDuration = c.set.NewHistogram(p + "_connect_duration_seconds")

	for _, step := range types.StatementSteps() {
		c.steps[step] = &stepMetrics{
			total:    c.set.NewCounter(fmt.Sprintf(`%s_statement_total{step="%s"}`, p, step)),
			errors:   c.set.NewCounter(fmt.Sprintf(`%s_statement_errors_total{step="%s"}`, p, step)),
			duration: c.set.NewHistogram(fmt.Sprintf(`%s_statement_duration_seconds{step="%s"}`, p, step)),
			rows:     c.set.NewCounter(fmt.Sprintf(`%s_rows_returned_total{step="%s"}`, p, step)),
		}
	}

	c.set.NewGauge(p+"_last_run_success", func() float64 {
		return float64(c.lastRunSuccess.Load())
	})
	c.set.NewGauge(p+"_last_run_timestamp_seconds", func() float64 {
		return float64(c.lastRunTimestamp.Load())
	})
}

// Set returns the underlying metrics set.
func (c *Collector) Set() *metrics.Set {
	return c.set
}

// Handler returns an HTTP handler that exposes metrics in Prometheus format.
//
// Example:
//
//	http.HandleFunc("/metrics", collector.Handler)
func (c *Collector) Handler(w http.ResponseWriter, _ *http.Request) {
	c.set.WritePrometheus(w)
}

// WritePrometheus writes all metrics in Prometheus format to the given writer.
//
// Parameters:
//   - w: The writer to write metrics to
func (c *Collector) WritePrometheus(w io.Writer) {
	c.set.WritePrometheus(w)
}

// WriteFile writes all metrics to path in Prometheus text format.
//
// The file is written next to path and renamed into place, so a
// node_exporter textfile collector never reads a partial file.
//
// Parameters:
//   - path: Destination file
//
// Returns:
//   - error: Error if the file cannot be written
func (c *Collector) WriteFile(path string) error {
	var buf bytes.Buffer
	c.set.WritePrometheus(&buf)

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("cqlprobe: failed to create metrics file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("cqlprobe: failed to write metrics file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cqlprobe: failed to write metrics file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil { //nolint:gosec // read by node_exporter
		return fmt.Errorf("cqlprobe: failed to write metrics file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("cqlprobe: failed to move metrics file into place: %w", err)
	}

	return nil
}

// MarkRun records the outcome and end time of a run.
//
// Parameters:
//   - success: Whether the run succeeded
//   - at: When the run ended
func (c *Collector) MarkRun(success bool, at time.Time) {
	val := int64(0)
	if success {
		val = 1
	}
	c.lastRunSuccess.Store(val)
	c.lastRunTimestamp.Store(at.Unix())
}

// ----------------------
// Connection
// ----------------------

// IncConnectTotal increments the session creation attempts counter.
func (c *Collector) IncConnectTotal() {
	c.connectTotal.Inc()
}

// IncConnectError increments the failed session creation counter.
func (c *Collector) IncConnectError() {
	c.connectErrors.Inc()
}

// ObserveConnectDuration records the time spent creating the session in seconds.
func (c *Collector) ObserveConnectDuration(seconds float64) {
	c.connectDuration.Update(seconds)
}

// ----------------------
// Statements
// ----------------------

// IncStatementTotal increments the executed statements counter.
func (c *Collector) IncStatementTotal(step types.Step) {
	if m, ok := c.steps[step]; ok {
		m.total.Inc()
	}
}

// IncStatementError increments the failed statements counter.
func (c *Collector) IncStatementError(step types.Step) {
	if m, ok := c.steps[step]; ok {
		m.errors.Inc()
	}
}

// ObserveStatementDuration records a statement duration in seconds.
func (c *Collector) ObserveStatementDuration(step types.Step, seconds float64) {
	if m, ok := c.steps[step]; ok {
		m.duration.Update(seconds)
	}
}

// AddRowsReturned adds the number of rows a read statement returned.
func (c *Collector) AddRowsReturned(step types.Step, n int) {
	if m, ok := c.steps[step]; ok && n > 0 {
		m.rows.Add(n)
	}
}
