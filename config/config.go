package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/cqlprobe/adapter/cql"
	"github.com/arloliu/cqlprobe/types"
)

// Environment variables holding the connection parameters.
const (
	EnvURI      = "CASSANDRA_URI"
	EnvCertPath = "CASSANDRA_SSL_CERT_PATH"
	EnvUser     = "CASSANDRA_USER"
	EnvPassword = "CASSANDRA_PASSWORD"
)

// Driver adapter names.
const (
	DriverV1 = "v1"
	DriverV2 = "v2"
)

// NATSSettings configures report publishing. An empty URL disables it.
type NATSSettings struct {
	URL           string        `yaml:"url"`
	Stream        string        `yaml:"stream"`
	SubjectPrefix string        `yaml:"subject_prefix"`
	Timeout       time.Duration `yaml:"timeout"`
}

// Settings holds the tunables that may come from the YAML file.
type Settings struct {
	Driver                   string        `yaml:"driver"`
	Consistency              string        `yaml:"consistency"`
	ConnectTimeout           time.Duration `yaml:"connect_timeout"`
	Timeout                  time.Duration `yaml:"timeout"`
	NumConns                 int           `yaml:"num_conns"`
	HostVerification         *bool         `yaml:"host_verification"`
	DisableInitialHostLookup *bool         `yaml:"disable_initial_host_lookup"`
	LogLevel                 string        `yaml:"log_level"`
	MetricsFile              string        `yaml:"metrics_file"`
	MetricsPrefix            string        `yaml:"metrics_prefix"`
	NATS                     NATSSettings  `yaml:"nats"`
}

// DefaultSettings returns the built-in tunables.
func DefaultSettings() Settings {
	hostVerification := true
	disableLookup := true

	return Settings{
		Driver:                   DriverV1,
		Consistency:              types.One.String(),
		ConnectTimeout:           15 * time.Second,
		Timeout:                  10 * time.Second,
		NumConns:                 1,
		HostVerification:         &hostVerification,
		DisableInitialHostLookup: &disableLookup,
		LogLevel:                 "info",
		MetricsPrefix:            "cqlprobe",
		NATS: NATSSettings{
			Stream:        "cqlprobe-reports",
			SubjectPrefix: "cqlprobe.report",
			Timeout:       5 * time.Second,
		},
	}
}

// overlay copies the fields of src that are set onto s.
func (s *Settings) overlay(src Settings) {
	if src.Driver != "" {
		s.Driver = src.Driver
	}
	if src.Consistency != "" {
		s.Consistency = src.Consistency
	}
	if src.ConnectTimeout != 0 {
		s.ConnectTimeout = src.ConnectTimeout
	}
	if src.Timeout != 0 {
		s.Timeout = src.Timeout
	}
	if src.NumConns != 0 {
		s.NumConns = src.NumConns
	}
	if src.HostVerification != nil {
		s.HostVerification = src.HostVerification
	}
	if src.DisableInitialHostLookup != nil {
		s.DisableInitialHostLookup = src.DisableInitialHostLookup
	}
	if src.LogLevel != "" {
		s.LogLevel = src.LogLevel
	}
	if src.MetricsFile != "" {
		s.MetricsFile = src.MetricsFile
	}
	if src.MetricsPrefix != "" {
		s.MetricsPrefix = src.MetricsPrefix
	}
	if src.NATS.URL != "" {
		s.NATS.URL = src.NATS.URL
	}
	if src.NATS.Stream != "" {
		s.NATS.Stream = src.NATS.Stream
	}
	if src.NATS.SubjectPrefix != "" {
		s.NATS.SubjectPrefix = src.NATS.SubjectPrefix
	}
	if src.NATS.Timeout != 0 {
		s.NATS.Timeout = src.NATS.Timeout
	}
}

// Config is the command line of cqlprobe.
//
// Fields tagged for kong are filled from flags and the environment. Settings,
// Host and Port are resolved by Load.
type Config struct {
	URI        string `name:"uri" env:"CASSANDRA_URI" placeholder:"HOST[:PORT]" help:"Address of the Cassandra node."`
	CACertPath string `name:"ssl-cert-path" env:"CASSANDRA_SSL_CERT_PATH" placeholder:"PATH" help:"PEM file with the CA certificate to trust."`
	Username   string `name:"user" env:"CASSANDRA_USER" help:"User name for password authentication."`
	Password   string `name:"password" env:"CASSANDRA_PASSWORD" help:"Password for password authentication."`

	File                 string `name:"config" env:"CQLPROBE_CONFIG" placeholder:"PATH" help:"YAML file with tunables."`
	Driver               string `name:"driver" env:"CQLPROBE_DRIVER" help:"Driver adapter: v1 (gocql) or v2 (apache/cassandra-gocql-driver)."`
	Consistency          string `name:"consistency" env:"CQLPROBE_CONSISTENCY" help:"Consistency level of every statement (default ONE)."`
	LogLevel             string `name:"log-level" env:"CQLPROBE_LOG_LEVEL" help:"Log level: debug, info, warn or error."`
	MetricsFile          string `name:"metrics-file" env:"CQLPROBE_METRICS_FILE" placeholder:"PATH" help:"Write Prometheus text metrics here after the run."`
	NATSURL              string `name:"nats-url" env:"CQLPROBE_NATS_URL" help:"Publish the run report to this NATS server."`
	SkipHostVerification bool   `name:"insecure-skip-host-verification" help:"Do not check the server certificate host name."`

	Settings Settings `kong:"-"`
	Host     string   `kong:"-"`
	Port     int      `kong:"-"`
}

// Load parses args and the environment, overlays the YAML file if one is
// given, and validates the result.
//
// Parameters:
//   - args: Command line arguments without the program name
//   - options: Extra kong options (e.g., kong.Exit, kong.Writers)
//
// Returns:
//   - *Config: The resolved configuration
//   - error: Wrapping types.ErrMissingEnv or types.ErrMalformedEnv for
//     connection parameters, or describing the invalid flag or file
func Load(args []string, options ...kong.Option) (*Config, error) {
	cfg := &Config{}

	parser, err := kong.New(cfg, append([]kong.Option{
		kong.Name("cqlprobe"),
		kong.Description("Connect to a Cassandra node over TLS and run a create/read/update/delete script."),
	}, options...)...)
	if err != nil {
		return nil, fmt.Errorf("cqlprobe: failed to build command line parser: %w", err)
	}

	if _, err := parser.Parse(args); err != nil {
		return nil, fmt.Errorf("cqlprobe: invalid arguments: %w", err)
	}

	if err := cfg.resolve(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.Host, cfg.Port, _ = ParseURI(cfg.URI)

	return cfg, nil
}

// resolve builds Settings from defaults, the file and the flags.
func (c *Config) resolve() error {
	c.Settings = DefaultSettings()

	if c.File != "" {
		fileSettings, err := LoadFile(c.File)
		if err != nil {
			return err
		}
		c.Settings.overlay(fileSettings)
	}

	flags := Settings{
		Driver:      c.Driver,
		Consistency: c.Consistency,
		LogLevel:    c.LogLevel,
		MetricsFile: c.MetricsFile,
		NATS:        NATSSettings{URL: c.NATSURL},
	}
	if c.SkipHostVerification {
		off := false
		flags.HostVerification = &off
	}
	c.Settings.overlay(flags)

	return nil
}

// LoadFile reads tunables from a YAML file. Unknown keys are an error, which
// also keeps credentials out of the file.
//
// Parameters:
//   - path: Path to the YAML file
//
// Returns:
//   - Settings: The tunables set in the file (unset fields are zero)
//   - error: Error if the file cannot be read or parsed
func LoadFile(path string) (Settings, error) {
	var s Settings

	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("cqlprobe: failed to read config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return s, fmt.Errorf("cqlprobe: failed to parse config file %s: %w", path, err)
	}

	return s, nil
}

// Validate checks the connection parameters and tunables.
//
// Returns:
//   - error: nil if the configuration is usable
func (c *Config) Validate() error {
	required := []struct {
		env   string
		value string
	}{
		{EnvURI, c.URI},
		{EnvCertPath, c.CACertPath},
		{EnvUser, c.Username},
		{EnvPassword, c.Password},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%w: %s", types.ErrMissingEnv, r.env)
		}
	}

	if _, _, err := ParseURI(c.URI); err != nil {
		return err
	}

	s := c.Settings
	if s.Driver != DriverV1 && s.Driver != DriverV2 {
		return fmt.Errorf("cqlprobe: unknown driver %q, want %s or %s", s.Driver, DriverV1, DriverV2)
	}
	if _, err := types.ParseConsistency(s.Consistency); err != nil {
		return err
	}
	if s.ConnectTimeout <= 0 || s.Timeout <= 0 {
		return errors.New("cqlprobe: connect_timeout and timeout must be positive")
	}
	if s.NumConns < 1 {
		return fmt.Errorf("cqlprobe: num_conns must be at least 1, got %d", s.NumConns)
	}

	return nil
}

// ConsistencyLevel returns the parsed consistency level.
func (c *Config) ConsistencyLevel() types.Consistency {
	level, err := types.ParseConsistency(c.Settings.Consistency)
	if err != nil {
		return types.One
	}

	return level
}

// DialOptions returns the driver options for the resolved configuration.
// TLS is left nil; it is built from CACertPath when connecting.
func (c *Config) DialOptions() cql.DialOptions {
	opts := cql.DefaultDialOptions()
	opts.Host = c.Host
	opts.Port = c.Port
	opts.Username = c.Username
	opts.Password = c.Password
	opts.ConnectTimeout = c.Settings.ConnectTimeout
	opts.Timeout = c.Settings.Timeout
	opts.NumConns = c.Settings.NumConns
	opts.Consistency = c.ConsistencyLevel()
	if c.Settings.HostVerification != nil {
		opts.HostVerification = *c.Settings.HostVerification
	}
	if c.Settings.DisableInitialHostLookup != nil {
		opts.DisableInitialHostLookup = *c.Settings.DisableInitialHostLookup
	}

	return opts
}

// LogFields returns key/value pairs describing the configuration for
// structured logging. The password is never included.
func (c *Config) LogFields() []any {
	return []any{
		"uri", c.URI,
		"ca_cert_path", c.CACertPath,
		"user", c.Username,
		"driver", c.Settings.Driver,
		"consistency", c.Settings.Consistency,
		"connect_timeout", c.Settings.ConnectTimeout,
		"timeout", c.Settings.Timeout,
		"num_conns", c.Settings.NumConns,
		"config_file", c.File,
	}
}
