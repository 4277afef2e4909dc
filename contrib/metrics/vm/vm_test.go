package vm

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/cqlprobe/types"
)

func newTestCollector(opts ...Option) *Collector {
	return New(append([]Option{WithMetricsSet(metrics.NewSet())}, opts...)...)
}

func TestCollectorStatementMetrics(t *testing.T) {
	c := newTestCollector(WithPrefix("probe"))

	c.IncStatementTotal(types.StepInsert)
	c.IncStatementTotal(types.StepSelect)
	c.IncStatementTotal(types.StepSelect)
	c.IncStatementError(types.StepSelect)
	c.ObserveStatementDuration(types.StepSelect, 0.004)
	c.AddRowsReturned(types.StepSelect, 1)

	var buf bytes.Buffer
	c.WritePrometheus(&buf)
	out := buf.String()

	assert.Contains(t, out, `probe_statement_total{step="insert"} 1`)
	assert.Contains(t, out, `probe_statement_total{step="select"} 2`)
	assert.Contains(t, out, `probe_statement_errors_total{step="select"} 1`)
	assert.Contains(t, out, `probe_rows_returned_total{step="select"} 1`)
	assert.Contains(t, out, `probe_statement_duration_seconds_count{step="select"} 1`)
	assert.Contains(t, out, `probe_statement_total{step="delete"} 0`)
}

func TestCollectorConnectMetrics(t *testing.T) {
	c := newTestCollector()

	c.IncConnectTotal()
	c.IncConnectError()
	c.ObserveConnectDuration(1.5)

	var buf bytes.Buffer
	c.WritePrometheus(&buf)
	out := buf.String()

	assert.Contains(t, out, "cqlprobe_connect_total 1")
	assert.Contains(t, out, "cqlprobe_connect_errors_total 1")
	assert.Contains(t, out, "cqlprobe_connect_duration_seconds_count 1")
}

func TestCollectorIgnoresUnknownStep(t *testing.T) {
	c := newTestCollector()

	assert.NotPanics(t, func() {
		c.IncStatementTotal(types.StepConnect)
		c.IncStatementError(types.Step("truncate"))
		c.ObserveStatementDuration(types.Step("truncate"), 1)
		c.AddRowsReturned(types.Step("truncate"), 1)
	})

	var buf bytes.Buffer
	c.WritePrometheus(&buf)
	assert.NotContains(t, buf.String(), "truncate")
}

func TestCollectorMarkRun(t *testing.T) {
	c := newTestCollector()
	at := time.Unix(1_700_000_000, 0)

	c.MarkRun(true, at)

	var buf bytes.Buffer
	c.WritePrometheus(&buf)
	assert.Contains(t, buf.String(), "cqlprobe_last_run_success 1")
	assert.Contains(t, buf.String(), "cqlprobe_last_run_timestamp_seconds 1.7e+09")

	c.MarkRun(false, at)
	buf.Reset()
	c.WritePrometheus(&buf)
	assert.Contains(t, buf.String(), "cqlprobe_last_run_success 0")
}

func TestCollectorWriteFile(t *testing.T) {
	c := newTestCollector()
	c.IncStatementTotal(types.StepDelete)

	dir := t.TempDir()
	path := filepath.Join(dir, "cqlprobe.prom")
	require.NoError(t, c.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `cqlprobe_statement_total{step="delete"} 1`)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must not be left behind")
}

func TestCollectorWriteFileMissingDir(t *testing.T) {
	c := newTestCollector()

	err := c.WriteFile(filepath.Join(t.TempDir(), "missing", "cqlprobe.prom"))
	require.Error(t, err)
}
