package cqlprobe

import (
	"fmt"
	"time"

	"github.com/arloliu/cqlprobe/adapter/cql"
	"github.com/arloliu/cqlprobe/types"
)

// Dialer opens a session from DialOptions.
//
// v1.DialSession and v2.DialSession satisfy it.
type Dialer func(opts cql.DialOptions) (cql.Session, error)

// Target describes the node to connect to.
type Target struct {
	// URI is the address as given by the user; it is echoed after connecting.
	URI string

	// CACertPath is the PEM file with the CA certificates to trust.
	CACertPath string

	// Dial holds host, port, credentials and driver tunables.
	// Dial.TLS is filled from CACertPath.
	Dial cql.DialOptions
}

// Connect loads the CA certificate, dials the target and prints
// "Connected to cassandra: <uri>".
//
// The returned session is owned by the caller, who must Close it.
//
// Parameters:
//   - target: The node and credentials
//   - dial: Driver-specific dialer (v1.DialSession or v2.DialSession)
//   - opts: Output, logger, metrics and report options
//
// Returns:
//   - cql.Session: The connected session
//   - error: ErrTLSConfig if the CA cannot be loaded, or a *types.StepError
//     wrapping ErrConnect if the session cannot be created
func Connect(target Target, dial Dialer, opts ...Option) (cql.Session, error) {
	config := buildConfig(opts)

	tlsConfig, err := LoadTLSConfig(target.CACertPath, target.Dial.Host, target.Dial.HostVerification)
	if err != nil {
		recordStep(config, types.StepConnect, 0, nil, err)
		config.Logger.Error("failed to load CA certificate", "path", target.CACertPath, "error", err)

		return nil, err
	}

	dialOpts := target.Dial
	dialOpts.TLS = tlsConfig

	config.Logger.Debug("connecting",
		"host", dialOpts.Host,
		"port", dialOpts.Port,
		"connect_timeout", dialOpts.ConnectTimeout,
		"num_conns", dialOpts.NumConns,
		"host_verification", dialOpts.HostVerification,
	)

	config.Metrics.IncConnectTotal()
	start := time.Now()
	session, err := dial(dialOpts)
	elapsed := time.Since(start)
	config.Metrics.ObserveConnectDuration(elapsed.Seconds())

	if err != nil {
		config.Metrics.IncConnectError()
		stepErr := types.NewStepError(types.StepConnect, types.ErrConnect, err)
		recordStep(config, types.StepConnect, elapsed, nil, stepErr)
		config.Logger.Error("failed to connect", "host", dialOpts.Host, "port", dialOpts.Port, "error", err)

		return nil, stepErr
	}

	recordStep(config, types.StepConnect, elapsed, nil, nil)
	config.Logger.Info("connected", "host", dialOpts.Host, "port", dialOpts.Port, "duration", elapsed)
	fmt.Fprintf(config.Output, "Connected to cassandra: %s\n", target.URI)

	return session, nil
}

func recordStep(config *Config, step types.Step, d time.Duration, rows []types.Row, err error) {
	if config.Report != nil {
		config.Report.Record(step, d, rows, err)
	}
}
