package testutil

import (
	"sync"

	"github.com/arloliu/cqlprobe/types"
)

// TestMetricsCollector is a types.MetricsCollector that records every call
// for assertions.
type TestMetricsCollector struct {
	mu sync.RWMutex

	ConnectTotal    int64
	ConnectErrors   int64
	ConnectDuration []float64

	StatementTotal    map[types.Step]int64
	StatementErrors   map[types.Step]int64
	StatementDuration map[types.Step][]float64
	RowsReturned      map[types.Step]int64
}

// Compile-time assertion that TestMetricsCollector implements types.MetricsCollector.
var _ types.MetricsCollector = (*TestMetricsCollector)(nil)

// NewTestMetricsCollector creates a new test metrics collector.
func NewTestMetricsCollector() *TestMetricsCollector {
	return &TestMetricsCollector{
		StatementTotal:    make(map[types.Step]int64),
		StatementErrors:   make(map[types.Step]int64),
		StatementDuration: make(map[types.Step][]float64),
		RowsReturned:      make(map[types.Step]int64),
	}
}

// IncConnectTotal records a connection attempt.
func (m *TestMetricsCollector) IncConnectTotal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConnectTotal++
}

// IncConnectError records a failed connection.
func (m *TestMetricsCollector) IncConnectError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConnectErrors++
}

// ObserveConnectDuration records a connection duration.
func (m *TestMetricsCollector) ObserveConnectDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConnectDuration = append(m.ConnectDuration, seconds)
}

// IncStatementTotal records an executed statement.
func (m *TestMetricsCollector) IncStatementTotal(step types.Step) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StatementTotal[step]++
}

// IncStatementError records a failed statement.
func (m *TestMetricsCollector) IncStatementError(step types.Step) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StatementErrors[step]++
}

// ObserveStatementDuration records a statement duration.
func (m *TestMetricsCollector) ObserveStatementDuration(step types.Step, seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StatementDuration[step] = append(m.StatementDuration[step], seconds)
}

// AddRowsReturned records rows returned by a read.
func (m *TestMetricsCollector) AddRowsReturned(step types.Step, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RowsReturned[step] += int64(n)
}

// GetStatementTotal returns the executed statement count for step.
func (m *TestMetricsCollector) GetStatementTotal(step types.Step) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.StatementTotal[step]
}

// GetStatementErrors returns the failed statement count for step.
func (m *TestMetricsCollector) GetStatementErrors(step types.Step) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.StatementErrors[step]
}

// GetRowsReturned returns the rows returned for step.
func (m *TestMetricsCollector) GetRowsReturned(step types.Step) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.RowsReturned[step]
}

// Reset clears all recorded values.
func (m *TestMetricsCollector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ConnectTotal = 0
	m.ConnectErrors = 0
	m.ConnectDuration = nil
	m.StatementTotal = make(map[types.Step]int64)
	m.StatementErrors = make(map[types.Step]int64)
	m.StatementDuration = make(map[types.Step][]float64)
	m.RowsReturned = make(map[types.Step]int64)
}
