package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/cqlprobe/types"
)

var envNames = []string{
	EnvURI, EnvCertPath, EnvUser, EnvPassword,
	"CQLPROBE_CONFIG", "CQLPROBE_DRIVER", "CQLPROBE_CONSISTENCY",
	"CQLPROBE_LOG_LEVEL", "CQLPROBE_METRICS_FILE", "CQLPROBE_NATS_URL",
}

// setEnv clears every variable Load reads, then sets the given ones.
func setEnv(t *testing.T, env map[string]string) {
	t.Helper()

	for _, name := range envNames {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
	for name, value := range env {
		t.Setenv(name, value)
	}
}

func validEnv() map[string]string {
	return map[string]string{
		EnvURI:      "cassandra.us-east-1.amazonaws.com:9142",
		EnvCertPath: "/etc/ssl/sf-class2-root.crt",
		EnvUser:     "probe",
		EnvPassword: "secret",
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cqlprobe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadFromEnvironment(t *testing.T) {
	setEnv(t, validEnv())

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "cassandra.us-east-1.amazonaws.com:9142", cfg.URI)
	assert.Equal(t, "cassandra.us-east-1.amazonaws.com", cfg.Host)
	assert.Equal(t, 9142, cfg.Port)
	assert.Equal(t, "/etc/ssl/sf-class2-root.crt", cfg.CACertPath)
	assert.Equal(t, "probe", cfg.Username)
	assert.Equal(t, "secret", cfg.Password)

	assert.Equal(t, DriverV1, cfg.Settings.Driver)
	assert.Equal(t, types.One, cfg.ConsistencyLevel())
	assert.Equal(t, "info", cfg.Settings.LogLevel)
	assert.Empty(t, cfg.Settings.NATS.URL)
}

func TestLoadDialOptions(t *testing.T) {
	setEnv(t, validEnv())

	cfg, err := Load(nil)
	require.NoError(t, err)

	opts := cfg.DialOptions()
	assert.Equal(t, "cassandra.us-east-1.amazonaws.com", opts.Host)
	assert.Equal(t, 9142, opts.Port)
	assert.Equal(t, "probe", opts.Username)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 15*time.Second, opts.ConnectTimeout)
	assert.Equal(t, 1, opts.NumConns)
	assert.True(t, opts.HostVerification)
	assert.True(t, opts.DisableInitialHostLookup)
	assert.Nil(t, opts.TLS)
}

func TestLoadMissingEnvironment(t *testing.T) {
	for _, missing := range []string{EnvURI, EnvCertPath, EnvUser, EnvPassword} {
		t.Run(missing, func(t *testing.T) {
			env := validEnv()
			delete(env, missing)
			setEnv(t, env)

			_, err := Load(nil)
			require.ErrorIs(t, err, types.ErrMissingEnv)
			assert.Contains(t, err.Error(), missing)
		})
	}
}

func TestLoadEmptyVariableIsMissing(t *testing.T) {
	env := validEnv()
	env[EnvPassword] = ""
	setEnv(t, env)

	_, err := Load(nil)
	require.ErrorIs(t, err, types.ErrMissingEnv)
}

func TestLoadMalformedURI(t *testing.T) {
	env := validEnv()
	env[EnvURI] = "https://cassandra.example.com"
	setEnv(t, env)

	_, err := Load(nil)
	require.ErrorIs(t, err, types.ErrMalformedEnv)
}

func TestLoadFlagsOverrideEnvironment(t *testing.T) {
	setEnv(t, validEnv())

	cfg, err := Load([]string{"--uri", "10.0.0.5", "--driver", "v2", "--consistency", "local_quorum"})
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.5", cfg.Host)
	assert.Equal(t, 9042, cfg.Port)
	assert.Equal(t, DriverV2, cfg.Settings.Driver)
	assert.Equal(t, types.LocalQuorum, cfg.ConsistencyLevel())
}

func TestLoadFileOverlay(t *testing.T) {
	path := writeFile(t, `
driver: v2
consistency: LOCAL_ONE
connect_timeout: 30s
timeout: 2s
num_conns: 2
host_verification: false
log_level: debug
metrics_file: /tmp/cqlprobe.prom
metrics_prefix: probe
nats:
  url: nats://127.0.0.1:4222
  subject_prefix: probe.report
`)
	env := validEnv()
	env["CQLPROBE_CONFIG"] = path
	setEnv(t, env)

	cfg, err := Load(nil)
	require.NoError(t, err)

	s := cfg.Settings
	assert.Equal(t, DriverV2, s.Driver)
	assert.Equal(t, types.LocalOne, cfg.ConsistencyLevel())
	assert.Equal(t, 30*time.Second, s.ConnectTimeout)
	assert.Equal(t, 2*time.Second, s.Timeout)
	assert.Equal(t, 2, s.NumConns)
	require.NotNil(t, s.HostVerification)
	assert.False(t, *s.HostVerification)
	require.NotNil(t, s.DisableInitialHostLookup)
	assert.True(t, *s.DisableInitialHostLookup, "unset keys keep their default")
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, "/tmp/cqlprobe.prom", s.MetricsFile)
	assert.Equal(t, "probe", s.MetricsPrefix)
	assert.Equal(t, "nats://127.0.0.1:4222", s.NATS.URL)
	assert.Equal(t, "probe.report", s.NATS.SubjectPrefix)
	assert.Equal(t, "cqlprobe-reports", s.NATS.Stream)

	assert.False(t, cfg.DialOptions().HostVerification)
}

func TestLoadFlagsOverrideFile(t *testing.T) {
	path := writeFile(t, "driver: v2\nlog_level: debug\n")
	setEnv(t, validEnv())

	cfg, err := Load([]string{"--config", path, "--driver", "v1", "--log-level", "warn"})
	require.NoError(t, err)

	assert.Equal(t, DriverV1, cfg.Settings.Driver)
	assert.Equal(t, "warn", cfg.Settings.LogLevel)
}

func TestLoadFileCannotCarryCredentials(t *testing.T) {
	path := writeFile(t, "driver: v1\npassword: hunter2\n")
	env := validEnv()
	env["CQLPROBE_CONFIG"] = path
	setEnv(t, env)

	_, err := Load(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password")
}

func TestLoadEmptyFile(t *testing.T) {
	path := writeFile(t, "")
	setEnv(t, validEnv())

	cfg, err := Load([]string{"--config", path})
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings().Driver, cfg.Settings.Driver)
}

func TestLoadMissingFile(t *testing.T) {
	setEnv(t, validEnv())

	_, err := Load([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadSkipHostVerificationFlag(t *testing.T) {
	setEnv(t, validEnv())

	cfg, err := Load([]string{"--insecure-skip-host-verification"})
	require.NoError(t, err)
	assert.False(t, cfg.DialOptions().HostVerification)
}

func TestValidateTunables(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
		msg    string
	}{
		{"driver", func(s *Settings) { s.Driver = "v3" }, "unknown driver"},
		{"consistency", func(s *Settings) { s.Consistency = "MOST" }, "unknown consistency level"},
		{"timeout", func(s *Settings) { s.Timeout = -time.Second }, "must be positive"},
		{"num_conns", func(s *Settings) { s.NumConns = 0 }, "num_conns"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				URI:        "127.0.0.1",
				CACertPath: "/ca.pem",
				Username:   "u",
				Password:   "p",
				Settings:   DefaultSettings(),
			}
			tt.mutate(&cfg.Settings)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLogFieldsOmitPassword(t *testing.T) {
	setEnv(t, validEnv())

	cfg, err := Load(nil)
	require.NoError(t, err)

	for _, field := range cfg.LogFields() {
		assert.NotEqual(t, "secret", field)
	}
}
