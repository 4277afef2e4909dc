package cqlprobe

import (
	"bytes"
	"crypto/tls"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/cqlprobe/adapter/cql"
	v1 "github.com/arloliu/cqlprobe/adapter/cql/v1"
	v2 "github.com/arloliu/cqlprobe/adapter/cql/v2"
	"github.com/arloliu/cqlprobe/report"
	"github.com/arloliu/cqlprobe/test/testutil"
	"github.com/arloliu/cqlprobe/types"
)

func testTarget(t *testing.T) Target {
	t.Helper()

	dial := cql.DefaultDialOptions()
	dial.Host = "cassandra.example.com"
	dial.Port = 9142
	dial.Username = "probe"
	dial.Password = "secret"

	return Target{
		URI:        "cassandra.example.com:9142",
		CACertPath: testutil.WriteTestCA(t),
		Dial:       dial,
	}
}

func TestConnect(t *testing.T) {
	target := testTarget(t)
	session := testutil.NewMemorySession()
	collector := testutil.NewTestMetricsCollector()
	rep := report.New(target.URI, "v1")
	var out bytes.Buffer

	var got cql.DialOptions
	dial := func(opts cql.DialOptions) (cql.Session, error) {
		got = opts
		return session, nil
	}

	s, err := Connect(target, dial, WithOutput(&out), WithMetrics(collector), WithReport(rep))
	require.NoError(t, err)
	assert.Same(t, session, s)

	assert.Equal(t, "Connected to cassandra: cassandra.example.com:9142\n", out.String())

	require.NotNil(t, got.TLS)
	assert.NotNil(t, got.TLS.RootCAs)
	assert.Equal(t, "cassandra.example.com", got.TLS.ServerName)
	assert.Equal(t, "probe", got.Username)
	assert.Equal(t, "secret", got.Password)
	assert.Equal(t, 1, got.NumConns)
	assert.True(t, got.HostVerification)

	assert.Equal(t, int64(1), collector.ConnectTotal)
	assert.Zero(t, collector.ConnectErrors)
	assert.Len(t, collector.ConnectDuration, 1)

	require.Len(t, rep.Steps, 1)
	assert.Equal(t, types.StepConnect, rep.Steps[0].Step)
	assert.False(t, rep.Steps[0].Failed())
}

func TestConnectTLSFailureSkipsDial(t *testing.T) {
	target := testTarget(t)
	target.CACertPath = filepath.Join(t.TempDir(), "missing.pem")
	collector := testutil.NewTestMetricsCollector()
	var out bytes.Buffer

	dialed := false
	dial := func(cql.DialOptions) (cql.Session, error) {
		dialed = true
		return nil, errors.New("unexpected dial")
	}

	_, err := Connect(target, dial, WithOutput(&out), WithMetrics(collector))
	require.ErrorIs(t, err, types.ErrTLSConfig)
	assert.False(t, dialed)
	assert.Empty(t, out.String())
	assert.Zero(t, collector.ConnectTotal)
}

func TestConnectDialFailure(t *testing.T) {
	target := testTarget(t)
	collector := testutil.NewTestMetricsCollector()
	rep := report.New(target.URI, "v2")
	var out bytes.Buffer

	cause := errors.New("no hosts available in the pool")
	dial := func(cql.DialOptions) (cql.Session, error) {
		return nil, cause
	}

	s, err := Connect(target, dial, WithOutput(&out), WithMetrics(collector), WithReport(rep))
	require.Error(t, err)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, types.ErrConnect)
	assert.ErrorIs(t, err, cause)

	var stepErr *types.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, types.StepConnect, stepErr.Step)

	assert.Empty(t, out.String())
	assert.Equal(t, int64(1), collector.ConnectTotal)
	assert.Equal(t, int64(1), collector.ConnectErrors)

	step, failed := rep.FailedStep()
	require.True(t, failed)
	assert.Equal(t, types.StepConnect, step)
}

func TestConnectWithoutHostVerification(t *testing.T) {
	ca := testutil.NewTestCA(t)
	addr := testutil.StartTLSServer(t, ca.ServerCertificate(t, "db.example.com"))

	// The drivers clone a non-nil SslOpts.Config and use it unchanged.
	drivers := map[string]func(cql.DialOptions) *tls.Config{
		"v1": func(opts cql.DialOptions) *tls.Config { return v1.NewClusterConfig(opts).SslOpts.Config },
		"v2": func(opts cql.DialOptions) *tls.Config { return v2.NewClusterConfig(opts).SslOpts.Config },
	}

	for name, clusterTLS := range drivers {
		for _, verify := range []bool{true, false} {
			t.Run(fmt.Sprintf("%s/verify=%t", name, verify), func(t *testing.T) {
				target := testTarget(t)
				target.CACertPath = ca.Path
				target.Dial.Host = "127.0.0.1"
				target.Dial.HostVerification = verify

				dial := func(opts cql.DialOptions) (cql.Session, error) {
					if err := handshake(addr, clusterTLS(opts)); err != nil {
						return nil, err
					}

					return testutil.NewMemorySession(), nil
				}

				_, err := Connect(target, dial)
				if verify {
					require.ErrorIs(t, err, types.ErrConnect)
					assert.Contains(t, err.Error(), "db.example.com")
					return
				}
				require.NoError(t, err)
			})
		}
	}
}
