package testutil

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gocql/gocql"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/cassandra"
	"github.com/testcontainers/testcontainers-go/modules/scylladb"
)

// CQLClusterType identifies the database backend.
type CQLClusterType int

const (
	// CQLClusterTypeNone indicates no cluster is running.
	CQLClusterTypeNone CQLClusterType = iota
	// CQLClusterTypeScyllaDB indicates ScyllaDB is being used.
	CQLClusterTypeScyllaDB
	// CQLClusterTypeCassandra indicates Cassandra is being used.
	CQLClusterTypeCassandra
)

// String returns the string representation of the cluster type.
func (t CQLClusterType) String() string {
	switch t {
	case CQLClusterTypeScyllaDB:
		return "ScyllaDB"
	case CQLClusterTypeCassandra:
		return "Cassandra"
	case CQLClusterTypeNone:
		return "None"
	}

	return "Unknown"
}

// CQLCluster is a single-node CQL database running in a container.
type CQLCluster struct {
	Type CQLClusterType

	// Address is the mapped "host:port" of the native protocol.
	Address string

	scyllaContainer    *scylladb.Container
	cassandraContainer *cassandra.CassandraContainer
}

// HostPort splits Address into host and port.
func (c *CQLCluster) HostPort() (string, int, error) {
	host, portStr, err := net.SplitHostPort(c.Address)
	if err != nil {
		return "", 0, fmt.Errorf("invalid cluster address %q: %w", c.Address, err)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid cluster port %q: %w", portStr, err)
	}

	return host, port, nil
}

// Terminate terminates the container.
func (c *CQLCluster) Terminate(ctx context.Context) error {
	switch c.Type {
	case CQLClusterTypeScyllaDB:
		if c.scyllaContainer != nil {
			return c.scyllaContainer.Terminate(ctx)
		}
	case CQLClusterTypeCassandra:
		if c.cassandraContainer != nil {
			return c.cassandraContainer.Terminate(ctx)
		}
	case CQLClusterTypeNone:
	}

	return nil
}

// CQLClusterOptions configures the CQL cluster container.
type CQLClusterOptions struct {
	// PreferScyllaDB attempts to use ScyllaDB first, falls back to Cassandra.
	// Default: true
	PreferScyllaDB bool
	// ScyllaDBImage is the ScyllaDB image. Default: "scylladb/scylla:6.2"
	ScyllaDBImage string
	// CassandraImage is the Cassandra image. Default: "cassandra:4.1"
	CassandraImage string
	// ScyllaDBMemory is the memory for ScyllaDB. Default: "512M"
	ScyllaDBMemory string
	// ScyllaDBSMP is the number of CPU cores for ScyllaDB. Default: 1
	ScyllaDBSMP int
	// ReadyTimeout bounds the wait for the first successful session.
	// Default: 90s
	ReadyTimeout time.Duration
}

// DefaultCQLClusterOptions returns default options.
func DefaultCQLClusterOptions() CQLClusterOptions {
	return CQLClusterOptions{
		PreferScyllaDB: true,
		ScyllaDBImage:  "scylladb/scylla:6.2",
		CassandraImage: "cassandra:4.1",
		ScyllaDBMemory: "512M",
		ScyllaDBSMP:    1,
		ReadyTimeout:   90 * time.Second,
	}
}

// IsAIOAvailable checks if the system has available AIO slots for ScyllaDB.
func IsAIOAvailable() bool {
	aioNrData, err := os.ReadFile("/proc/sys/fs/aio-nr")
	if err != nil {
		return false
	}

	aioMaxNrData, err := os.ReadFile("/proc/sys/fs/aio-max-nr")
	if err != nil {
		return false
	}

	aioNr, _ := strconv.ParseInt(strings.TrimSpace(string(aioNrData)), 10, 64)
	aioMaxNr, _ := strconv.ParseInt(strings.TrimSpace(string(aioMaxNrData)), 10, 64)

	return aioNr < aioMaxNr
}

// StartCQLCluster starts a single CQL node and waits until it accepts sessions.
// Prefers ScyllaDB (faster), falls back to Cassandra if AIO is unavailable.
//
// This function is designed for use in TestMain where *testing.T is not available.
// Caller is responsible for calling cluster.Terminate(ctx) for cleanup.
//
// Parameters:
//   - ctx: Context for container operations
//   - opts: Configuration options
//
// Returns:
//   - *CQLCluster: Cluster with its native protocol address
//   - error: Error if the cluster fails to start
func StartCQLCluster(ctx context.Context, opts CQLClusterOptions) (*CQLCluster, error) {
	if opts.PreferScyllaDB && IsAIOAvailable() {
		cluster, err := startScyllaDBCluster(ctx, opts)
		if err == nil {
			return cluster, nil
		}
		fmt.Printf("ScyllaDB failed: %v, falling back to Cassandra...\n", err)
	}

	return startCassandraCluster(ctx, opts)
}

func startScyllaDBCluster(ctx context.Context, opts CQLClusterOptions) (*CQLCluster, error) {
	container, err := scylladb.Run(ctx, opts.ScyllaDBImage,
		scylladb.WithCustomCommands(
			fmt.Sprintf("--memory=%s", opts.ScyllaDBMemory),
			fmt.Sprintf("--smp=%d", opts.ScyllaDBSMP),
			"--developer-mode=1",
			"--overprovisioned=1",
			"--reactor-backend=epoll",
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start ScyllaDB container: %w", err)
	}

	address, err := container.NonShardAwareConnectionHost(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection host: %w", err)
	}

	if err := waitReady(ctx, address, opts.ReadyTimeout); err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	return &CQLCluster{
		Type:            CQLClusterTypeScyllaDB,
		Address:         address,
		scyllaContainer: container,
	}, nil
}

func startCassandraCluster(ctx context.Context, opts CQLClusterOptions) (*CQLCluster, error) {
	container, err := cassandra.Run(ctx, opts.CassandraImage,
		testcontainers.WithEnv(map[string]string{
			"HEAP_NEWSIZE":     "128M",
			"MAX_HEAP_SIZE":    "512M",
			"CASSANDRA_SNITCH": "SimpleSnitch",
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start Cassandra container: %w", err)
	}

	address, err := container.ConnectionHost(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection host: %w", err)
	}

	if err := waitReady(ctx, address, opts.ReadyTimeout); err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	return &CQLCluster{
		Type:               CQLClusterTypeCassandra,
		Address:            address,
		cassandraContainer: container,
	}, nil
}

// waitReady opens and closes a session against the system keyspace until it
// succeeds or timeout elapses.
func waitReady(ctx context.Context, address string, timeout time.Duration) error {
	cluster := gocql.NewCluster(address)
	cluster.Keyspace = "system"
	cluster.Timeout = 30 * time.Second
	cluster.ConnectTimeout = 30 * time.Second
	cluster.DisableInitialHostLookup = true

	deadline := time.Now().Add(timeout)
	for {
		session, err := cluster.CreateSession()
		if err == nil {
			session.Close()
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("cluster at %s not ready after %s: %w", address, timeout, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(3 * time.Second):
		}
	}
}
