// Package v2 provides the cqlprobe adapter for the Apache Cassandra Go driver
// v2 (github.com/apache/cassandra-gocql-driver/v2).
//
// The API mirrors package v1; pick one with the --driver flag.
package v2
