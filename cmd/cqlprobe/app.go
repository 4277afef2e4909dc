package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/alecthomas/kong"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/arloliu/cqlprobe"
	v1 "github.com/arloliu/cqlprobe/adapter/cql/v1"
	v2 "github.com/arloliu/cqlprobe/adapter/cql/v2"
	"github.com/arloliu/cqlprobe/config"
	"github.com/arloliu/cqlprobe/contrib/metrics/vm"
	"github.com/arloliu/cqlprobe/internal/logging"
	"github.com/arloliu/cqlprobe/report"
	"github.com/arloliu/cqlprobe/types"
)

// app wires configuration, logging, metrics and reporting around one probe run.
type app struct {
	stdout  io.Writer
	stderr  io.Writer
	dialers map[string]cqlprobe.Dialer
	kong    []kong.Option
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout: stdout,
		stderr: stderr,
		dialers: map[string]cqlprobe.Dialer{
			config.DriverV1: v1.DialSession,
			config.DriverV2: v2.DialSession,
		},
		kong: []kong.Option{kong.Writers(stdout, stderr)},
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	cfg, err := config.Load(args, a.kong...)
	if err != nil {
		return err
	}

	zl, err := logging.NewZapLoggerTo(a.stderr, cfg.Settings.LogLevel)
	if err != nil {
		return err
	}
	defer zl.Sync()

	var logger types.Logger = zl
	logger.Debug("configuration loaded", cfg.LogFields()...)

	dial, ok := a.dialers[cfg.Settings.Driver]
	if !ok {
		return fmt.Errorf("cqlprobe: no dialer for driver %q", cfg.Settings.Driver)
	}

	collector := vm.New(
		vm.WithPrefix(cfg.Settings.MetricsPrefix),
		vm.WithMetricsSet(metrics.NewSet()),
	)
	rep := report.New(cfg.URI, cfg.Settings.Driver)

	opts := []cqlprobe.Option{
		cqlprobe.WithOutput(a.stdout),
		cqlprobe.WithLogger(logger),
		cqlprobe.WithMetrics(collector),
		cqlprobe.WithConsistency(cfg.ConsistencyLevel()),
		cqlprobe.WithReport(rep),
	}

	runErr := probe(ctx, cfg, dial, opts)
	if !rep.Finished() {
		rep.Finish(runErr)
	}

	if runErr != nil {
		logger.Error("probe failed", "run_id", rep.RunID, "outcome", rep.Outcome(), "error", runErr)
	} else {
		logger.Info("probe succeeded", "run_id", rep.RunID, "duration", rep.Duration())
	}

	a.writeMetrics(cfg, logger, collector, rep)
	a.publishReport(ctx, cfg, logger, rep)

	return runErr
}

// probe connects, runs the script and closes the session.
func probe(ctx context.Context, cfg *config.Config, dial cqlprobe.Dialer, opts []cqlprobe.Option) error {
	target := cqlprobe.Target{
		URI:        cfg.URI,
		CACertPath: cfg.CACertPath,
		Dial:       cfg.DialOptions(),
	}

	session, err := cqlprobe.Connect(target, dial, opts...)
	if err != nil {
		return err
	}
	defer session.Close()

	runner, err := cqlprobe.NewRunner(session, opts...)
	if err != nil {
		return err
	}

	return runner.Run(ctx)
}

func (a *app) writeMetrics(cfg *config.Config, logger types.Logger, collector *vm.Collector, rep *report.Report) {
	path := cfg.Settings.MetricsFile
	if path == "" {
		return
	}

	collector.MarkRun(rep.Outcome() == report.OutcomeOK, rep.FinishedAt)
	if err := collector.WriteFile(path); err != nil {
		logger.Warn("failed to write metrics file", "path", path, "error", err)
		return
	}

	logger.Debug("metrics written", "path", path)
}

// publishReport sends the report to NATS. Failures are logged only, so the
// exit status always reflects the probe itself.
func (a *app) publishReport(ctx context.Context, cfg *config.Config, logger types.Logger, rep *report.Report) {
	settings := cfg.Settings.NATS
	if settings.URL == "" {
		return
	}

	if err := publish(ctx, settings, rep); err != nil {
		logger.Warn("failed to publish report", "url", settings.URL, "run_id", rep.RunID, "error", err)
		return
	}

	logger.Info("report published", "url", settings.URL, "run_id", rep.RunID, "outcome", rep.Outcome())
}

func publish(ctx context.Context, settings config.NATSSettings, rep *report.Report) error {
	nc, err := nats.Connect(settings.URL,
		nats.Name("cqlprobe"),
		nats.Timeout(settings.Timeout),
		nats.MaxReconnects(0),
	)
	if err != nil {
		return fmt.Errorf("cqlprobe: failed to connect to NATS: %w", err)
	}
	defer nc.Close()

	js, err := jetstream.New(nc)
	if err != nil {
		return fmt.Errorf("cqlprobe: failed to create JetStream context: %w", err)
	}

	// An interrupted run is still reported.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*settings.Timeout+time.Second)
	defer cancel()

	publisher, err := report.NewNATSPublisher(pubCtx, js,
		report.WithStreamName(settings.Stream),
		report.WithSubjectPrefix(settings.SubjectPrefix),
		report.WithPublishTimeout(settings.Timeout),
	)
	if err != nil {
		return err
	}
	defer publisher.Close()

	return publisher.Publish(pubCtx, rep)
}
