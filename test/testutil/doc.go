// Package testutil provides testing utilities for cqlprobe.
//
// # Sessions
//
//   - MemorySession: in-memory cql.Session holding the probe table
//   - SlowSession: wraps a session and delays every execution
//
// # Containers
//
// StartCQLCluster starts a single ScyllaDB or Cassandra node with
// testcontainers-go. It prefers ScyllaDB and falls back to Cassandra when
// Linux AIO slots are exhausted.
//
//	cluster, err := testutil.StartCQLCluster(ctx, testutil.DefaultCQLClusterOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cluster.Terminate(ctx)
//
// # NATS
//
// StartEmbeddedNATS runs an in-process NATS server with JetStream for tests
// of the report publisher.
package testutil
