package v2

import (
	"fmt"

	gocql "github.com/apache/cassandra-gocql-driver/v2"

	"github.com/arloliu/cqlprobe/adapter/cql"
)

// NewClusterConfig translates DialOptions into an Apache driver cluster configuration.
//
// Parameters:
//   - opts: Dial options
//
// Returns:
//   - *gocql.ClusterConfig: The cluster configuration
func NewClusterConfig(opts cql.DialOptions) *gocql.ClusterConfig {
	cluster := gocql.NewCluster(opts.Host)
	cluster.Port = opts.Port
	cluster.Keyspace = opts.Keyspace
	cluster.Consistency = ToGocqlConsistency(opts.Consistency)
	cluster.ConnectTimeout = opts.ConnectTimeout
	cluster.Timeout = opts.Timeout
	cluster.NumConns = opts.NumConns
	cluster.DisableInitialHostLookup = opts.DisableInitialHostLookup
	cluster.PoolConfig.HostSelectionPolicy = gocql.RoundRobinHostPolicy()

	if opts.TLS != nil {
		cluster.SslOpts = &gocql.SslOptions{
			Config:                 opts.TLS,
			EnableHostVerification: opts.HostVerification,
		}
	}
	if opts.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: opts.Username,
			Password: opts.Password,
		}
	}

	return cluster
}

// Dial opens an Apache driver v2 session from DialOptions.
//
// Parameters:
//   - opts: Dial options
//
// Returns:
//   - *Session: The connected session; the caller owns and must Close it
//   - error: Error if the session cannot be created
func Dial(opts cql.DialOptions) (*Session, error) {
	session, err := NewClusterConfig(opts).CreateSession()
	if err != nil {
		return nil, fmt.Errorf("gocql v2: failed to create session for %s:%d: %w", opts.Host, opts.Port, err)
	}

	return NewSession(session), nil
}

// DialSession is Dial returning the driver-independent interface.
//
// A failed dial returns a nil interface, never a typed nil.
//
// Parameters:
//   - opts: Dial options
//
// Returns:
//   - cql.Session: The connected session
//   - error: Error if the session cannot be created
func DialSession(opts cql.DialOptions) (cql.Session, error) {
	session, err := Dial(opts)
	if err != nil {
		return nil, err
	}

	return session, nil
}
