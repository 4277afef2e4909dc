// Package vm provides a VictoriaMetrics-based implementation of the MetricsCollector interface.
//
// This package uses github.com/VictoriaMetrics/metrics for lightweight,
// high-performance Prometheus-compatible metrics collection.
//
// # Basic Usage
//
// Create a collector with default prefix "cqlprobe":
//
//	collector := vm.New()
//	runner, _ := cqlprobe.NewRunner(session,
//	    cqlprobe.WithMetrics(collector),
//	)
//
// # Custom Prefix
//
// Use WithPrefix to customize the metric name prefix:
//
//	collector := vm.New(vm.WithPrefix("myapp"))
//
// This produces metrics like:
//   - myapp_statement_total{step="insert"}
//   - myapp_connect_duration_seconds
//
// # Exposing Metrics
//
// A probe usually exits right after the run, so the simplest way to ship
// metrics is a node_exporter textfile:
//
//	collector.MarkRun(err == nil, time.Now())
//	if err := collector.WriteFile("/var/lib/node_exporter/cqlprobe.prom"); err != nil {
//	    log.Print(err)
//	}
//
// Handler and WritePrometheus serve the same data over HTTP or any writer.
//
// # Metrics Provided
//
// Connection:
//   - {prefix}_connect_total - Counter of session creation attempts
//   - {prefix}_connect_errors_total - Counter of failed session creations
//   - {prefix}_connect_duration_seconds - Histogram of session creation time
//
// Statements, labelled with step (create_keyspace, create_table, insert,
// select, update, delete):
//   - {prefix}_statement_total{step} - Counter of executed statements
//   - {prefix}_statement_errors_total{step} - Counter of failed statements
//   - {prefix}_statement_duration_seconds{step} - Histogram of statement latencies
//   - {prefix}_rows_returned_total{step} - Counter of rows read
//
// Run:
//   - {prefix}_last_run_success - Gauge (1=success, 0=failure)
//   - {prefix}_last_run_timestamp_seconds - Gauge of the last run end time
//
// # Performance Notes
//
// All metrics are pre-created at initialization time with the NewXXX
// pattern instead of GetOrCreateXXX. Unknown steps are ignored.
//
// The metrics are registered with a dedicated Set that is registered
// globally, allowing standard Prometheus scraping.
package vm
