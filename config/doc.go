// Package config loads cqlprobe settings from flags, the environment and an
// optional YAML file.
//
// Connection parameters come from the environment (or the matching flags):
//
//	CASSANDRA_URI            host[:port] of the node, port 9042 by default
//	CASSANDRA_SSL_CERT_PATH  PEM file with the CA certificate to trust
//	CASSANDRA_USER           user name for password authentication
//	CASSANDRA_PASSWORD       password for password authentication
//
// Tunables (driver, consistency, timeouts, logging, metrics, NATS) can also
// be set in a YAML file passed with --config or CQLPROBE_CONFIG:
//
//	driver: v2
//	consistency: LOCAL_QUORUM
//	connect_timeout: 15s
//	timeout: 10s
//	num_conns: 1
//	host_verification: true
//	log_level: debug
//	metrics_file: /var/lib/node_exporter/cqlprobe.prom
//	nats:
//	  url: nats://localhost:4222
//	  stream: cqlprobe-reports
//	  subject_prefix: cqlprobe.report
//
// Precedence is defaults, then the file, then flags and environment. The file
// cannot carry the URI or credentials; unknown keys are rejected.
package config
