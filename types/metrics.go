package types

// MetricsCollector defines methods for collecting probe metrics.
//
// All statement-scoped methods accept a Step parameter for labeling.
//
// Example usage with VictoriaMetrics (via contrib/metrics/vm):
//
//	import vmmetrics "github.com/arloliu/cqlprobe/contrib/metrics/vm"
//
//	collector := vmmetrics.New(vmmetrics.WithPrefix("myapp"))
//	runner, _ := cqlprobe.NewRunner(session,
//	    cqlprobe.WithMetrics(collector),
//	)
//
//	// Dump after the run
//	collector.WritePrometheus(os.Stdout)
type MetricsCollector interface {
	// ----------------------
	// Connection
	// ----------------------

	// IncConnectTotal increments the session creation attempts counter.
	IncConnectTotal()

	// IncConnectError increments the failed session creation counter.
	IncConnectError()

	// ObserveConnectDuration records the time spent creating the session in seconds.
	ObserveConnectDuration(seconds float64)

	// ----------------------
	// Statements
	// ----------------------

	// IncStatementTotal increments the executed statements counter.
	IncStatementTotal(step Step)

	// IncStatementError increments the failed statements counter.
	IncStatementError(step Step)

	// ObserveStatementDuration records a statement duration in seconds.
	ObserveStatementDuration(step Step, seconds float64)

	// AddRowsReturned adds the number of rows a read statement returned.
	AddRowsReturned(step Step, n int)
}
