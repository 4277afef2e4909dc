// Package cql provides adapter interfaces for CQL (Cassandra Query Language)
// database drivers.
//
// This package defines the narrow surface the probe script needs from a
// driver, allowing cqlprobe to run against different gocql versions.
//
// # Interfaces
//
//   - Session: Wraps a database session for executing queries
//   - Query: Represents a CQL query with bind parameters
//   - Iter: Iterates over query results
//   - Scanner: database/sql-style row scanning
//
// # Adapters
//
// Driver-specific adapters are provided in subpackages:
//
//   - [github.com/arloliu/cqlprobe/adapter/cql/v1]: Adapter for gocql v1.x
//   - [github.com/arloliu/cqlprobe/adapter/cql/v2]: Adapter for apache/cassandra-gocql-driver v2.x
//
// Each adapter offers Dial, which opens a session from DialOptions, and
// NewSession, which wraps a session the caller already owns.
//
// # Usage
//
//	opts := cql.DefaultDialOptions()
//	opts.Host = "cassandra.us-east-1.amazonaws.com"
//	opts.Port = 9142
//	opts.TLS = tlsConfig
//
//	session, err := v1.Dial(opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer session.Close()
package cql
