// Package metrics provides internal metrics utilities for cqlprobe.
package metrics

import "github.com/arloliu/cqlprobe/types"

// NopMetrics is a no-op metrics collector that discards all metrics.
//
// This is used as the default metrics collector when no collector is configured,
// avoiding nil checks throughout the codebase.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements types.MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNopMetrics creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A collector that discards all metrics
func NewNopMetrics() *NopMetrics {
	return &NopMetrics{}
}

// ----------------------
// Connection
// ----------------------

// IncConnectTotal discards the metric.
func (m *NopMetrics) IncConnectTotal() {}

// IncConnectError discards the metric.
func (m *NopMetrics) IncConnectError() {}

// ObserveConnectDuration discards the metric.
func (m *NopMetrics) ObserveConnectDuration(_ float64) {}

// ----------------------
// Statements
// ----------------------

// IncStatementTotal discards the metric.
func (m *NopMetrics) IncStatementTotal(_ types.Step) {}

// IncStatementError discards the metric.
func (m *NopMetrics) IncStatementError(_ types.Step) {}

// ObserveStatementDuration discards the metric.
func (m *NopMetrics) ObserveStatementDuration(_ types.Step, _ float64) {}

// AddRowsReturned discards the metric.
func (m *NopMetrics) AddRowsReturned(_ types.Step, _ int) {}
