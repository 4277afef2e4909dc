// Package cqlprobe checks that a Cassandra-compatible database (Apache
// Cassandra, ScyllaDB, Amazon Keyspaces) is reachable over TLS with password
// authentication, and that a small create/read/update/delete script succeeds.
//
// # Script
//
// Run issues, in order and over a single session:
//
//   - CREATE KEYSPACE IF NOT EXISTS aws_cassandra_test (SimpleStrategy, RF 1)
//   - CREATE TABLE IF NOT EXISTS aws_cassandra_test.table_test
//   - INSERT the row 534a87db-df22-48eb-901b-4fac9c392954
//   - SELECT it and print it
//   - UPDATE its description
//   - SELECT it and print it
//   - DELETE it
//
// The first failing statement ends the run. Nothing is retried or rolled back.
//
// # Basic Usage
//
//	target := cqlprobe.Target{
//	    URI:        "cassandra.us-east-1.amazonaws.com:9142",
//	    CACertPath: "/etc/ssl/sf-class2-root.crt",
//	    Dial:       dialOpts,
//	}
//
//	session, err := cqlprobe.Connect(target, v1.DialSession)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer session.Close()
//
//	runner, err := cqlprobe.NewRunner(session)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := runner.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// The session belongs to the caller. Runner never closes it.
//
// # Error Handling
//
// Connect returns an error wrapping types.ErrTLSConfig when the CA file is
// unusable, and a *types.StepError wrapping types.ErrConnect when the session
// cannot be created. Statement failures are *types.StepError values wrapping
// types.ErrQuery, or types.ErrDecode when a returned row cannot be mapped:
//
//	var stepErr *types.StepError
//	if errors.As(err, &stepErr) {
//	    log.Printf("step %s failed: %v", stepErr.Step, stepErr.Cause)
//	}
//
// The driver error stays reachable through errors.Is and errors.As.
//
// # Output
//
// Progress lines ("Inserting......", "Query result: ...") go to the writer set
// with WithOutput, os.Stdout by default. Structured logs go to the logger set
// with WithLogger and are discarded by default.
package cqlprobe
