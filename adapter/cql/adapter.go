// Package cql provides CQL-specific adapter interfaces for different gocql versions.
package cql

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/arloliu/cqlprobe/types"
)

// Consistency is re-exported from the types package for convenience.
type Consistency = types.Consistency

// Re-export consistency level constants for convenience.
const (
	Any         = types.Any
	One         = types.One
	Two         = types.Two
	Three       = types.Three
	Quorum      = types.Quorum
	All         = types.All
	LocalQuorum = types.LocalQuorum
	EachQuorum  = types.EachQuorum
	Serial      = types.Serial
	LocalSerial = types.LocalSerial
	LocalOne    = types.LocalOne
)

// Session represents a raw CQL session from the underlying driver.
//
// This interface is implemented by adapters for gocql v1 and v2.
// It provides the low-level operations the probe script issues.
type Session interface {
	// Query creates a new query for the given statement.
	//
	// Parameters:
	//   - stmt: CQL statement with ? placeholders
	//   - values: Values to bind to placeholders
	//
	// Returns:
	//   - Query: A query builder
	Query(stmt string, values ...any) Query

	// Close terminates the session.
	Close()
}

// Query represents a raw CQL query from the underlying driver.
type Query interface {
	// Consistency sets the consistency level.
	Consistency(c Consistency) Query

	// ExecContext executes the query with context.
	ExecContext(ctx context.Context) error

	// IterContext returns an iterator for results with context.
	IterContext(ctx context.Context) Iter

	// Release returns the query to a pool (if applicable).
	Release()
}

// Iter represents a raw CQL iterator from the underlying driver.
type Iter interface {
	// Scanner returns a database/sql-style scanner for the iterator.
	// Scanner.Err closes the iterator.
	Scanner() Scanner
}

// Scanner provides database/sql-style row scanning.
type Scanner interface {
	// Next advances to the next row, returning true if a row is available.
	Next() bool

	// Scan reads the current row into dest.
	Scan(dest ...any) error

	// Err returns any error from iteration and releases resources.
	Err() error
}

// DialOptions holds the driver-independent settings used to open a session.
//
// Both adapter packages translate these into their own ClusterConfig.
type DialOptions struct {
	// Host is the single node to contact.
	Host string

	// Port is the native protocol port.
	Port int

	// Username and Password enable PasswordAuthenticator when Username is set.
	Username string
	Password string

	// TLS is the client TLS context. Nil disables TLS.
	TLS *tls.Config

	// HostVerification requires the server certificate to match Host.
	HostVerification bool

	// ConnectTimeout bounds the initial connection.
	ConnectTimeout time.Duration

	// Timeout bounds each query.
	Timeout time.Duration

	// NumConns is the number of connections per host.
	NumConns int

	// Consistency is the session default consistency level.
	Consistency Consistency

	// DisableInitialHostLookup keeps the driver on Host instead of
	// discovering peers from system.peers.
	DisableInitialHostLookup bool

	// Keyspace is the session keyspace. Empty means none.
	Keyspace string
}

// DefaultDialOptions returns DialOptions with the probe defaults.
//
// Defaults:
//   - Port: 9042
//   - HostVerification: true
//   - ConnectTimeout: 15s
//   - Timeout: 10s
//   - NumConns: 1
//   - Consistency: One
//   - DisableInitialHostLookup: true
//
// Returns:
//   - DialOptions: Options with defaults applied
func DefaultDialOptions() DialOptions {
	return DialOptions{
		Port:                     9042,
		HostVerification:         true,
		ConnectTimeout:           15 * time.Second,
		Timeout:                  10 * time.Second,
		NumConns:                 1,
		Consistency:              One,
		DisableInitialHostLookup: true,
	}
}
