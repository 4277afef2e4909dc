package report

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// NATSPublisherConfig configures the NATS JetStream report publisher.
type NATSPublisherConfig struct {
	// StreamName is the JetStream stream holding reports.
	// Default: "cqlprobe-reports"
	StreamName string

	// SubjectPrefix is the prefix for subjects. Reports are published to
	// "{SubjectPrefix}.{outcome}" (e.g., "cqlprobe.report.failed").
	// Default: "cqlprobe.report"
	SubjectPrefix string

	// MaxAge is how long reports are kept.
	// Default: 7 days
	MaxAge time.Duration

	// Replicas is the number of stream replicas.
	// Default: 1
	Replicas int

	// PublishTimeout bounds each publish.
	// Default: 5 seconds
	PublishTimeout time.Duration
}

// DefaultNATSPublisherConfig returns the default configuration.
//
// Returns:
//   - NATSPublisherConfig: Default configuration
func DefaultNATSPublisherConfig() NATSPublisherConfig {
	return NATSPublisherConfig{
		StreamName:     "cqlprobe-reports",
		SubjectPrefix:  "cqlprobe.report",
		MaxAge:         7 * 24 * time.Hour,
		Replicas:       1,
		PublishTimeout: 5 * time.Second,
	}
}

// NATSPublisherOption configures a NATSPublisher.
type NATSPublisherOption func(*NATSPublisherConfig)

// WithStreamName sets the JetStream stream name.
//
// Parameters:
//   - name: Stream name
//
// Returns:
//   - NATSPublisherOption: Configuration option
func WithStreamName(name string) NATSPublisherOption {
	return func(c *NATSPublisherConfig) {
		c.StreamName = name
	}
}

// WithSubjectPrefix sets the subject prefix for reports.
//
// Parameters:
//   - prefix: Subject prefix
//
// Returns:
//   - NATSPublisherOption: Configuration option
func WithSubjectPrefix(prefix string) NATSPublisherOption {
	return func(c *NATSPublisherConfig) {
		c.SubjectPrefix = prefix
	}
}

// WithMaxAge sets how long reports are retained.
func WithMaxAge(d time.Duration) NATSPublisherOption {
	return func(c *NATSPublisherConfig) {
		c.MaxAge = d
	}
}

// WithPublishTimeout sets the timeout for each publish.
func WithPublishTimeout(d time.Duration) NATSPublisherOption {
	return func(c *NATSPublisherConfig) {
		c.PublishTimeout = d
	}
}

// NATSPublisher publishes finished reports to NATS JetStream.
type NATSPublisher struct {
	js     jetstream.JetStream
	stream jetstream.Stream
	config NATSPublisherConfig
	closed bool
	mu     sync.RWMutex
}

// NewNATSPublisher creates a publisher and creates or updates its stream.
//
// The caller owns the NATS connection behind js.
//
// Parameters:
//   - ctx: Context bounding stream creation
//   - js: A JetStream context (created via jetstream.New(conn))
//   - opts: Optional configuration options
//
// Returns:
//   - *NATSPublisher: A ready publisher
//   - error: Error if js is nil or stream creation fails
func NewNATSPublisher(ctx context.Context, js jetstream.JetStream, opts ...NATSPublisherOption) (*NATSPublisher, error) {
	if js == nil {
		return nil, errors.New("cqlprobe: JetStream context is nil")
	}

	config := DefaultNATSPublisherConfig()
	for _, opt := range opts {
		opt(&config)
	}

	stream, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        config.StreamName,
		Description: "cqlprobe run reports",
		Subjects:    []string{config.SubjectPrefix + ".*"},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      config.MaxAge,
		Replicas:    config.Replicas,
		Storage:     jetstream.FileStorage,
		Discard:     jetstream.DiscardOld,
	})
	if err != nil {
		return nil, fmt.Errorf("cqlprobe: failed to create/update stream: %w", err)
	}

	return &NATSPublisher{
		js:     js,
		stream: stream,
		config: config,
	}, nil
}

// Subject returns the subject a report with the given outcome is published to.
func (p *NATSPublisher) Subject(outcome string) string {
	return p.config.SubjectPrefix + "." + outcome
}

// Publish encodes a report and publishes it.
//
// The RunID is used as the JetStream message ID, so publishing the same
// report twice within the stream's duplicate window stores it once.
//
// Parameters:
//   - ctx: Context for cancellation
//   - r: The report to publish
//
// Returns:
//   - error: nil on success, error on encode or publish failure
func (p *NATSPublisher) Publish(ctx context.Context, r *Report) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPublisherClosed
	}

	data, err := Encode(r)
	if err != nil {
		return err
	}

	pubCtx, cancel := context.WithTimeout(ctx, p.config.PublishTimeout)
	defer cancel()

	if _, err := p.js.Publish(pubCtx, p.Subject(r.Outcome()), data, jetstream.WithMsgID(r.RunID.String())); err != nil {
		return fmt.Errorf("cqlprobe: failed to publish report: %w", err)
	}

	return nil
}

// Last returns the most recent report published with the given outcome.
//
// Parameters:
//   - ctx: Context for cancellation
//   - outcome: OutcomeOK or OutcomeFailed
//
// Returns:
//   - *Report: The decoded report
//   - error: Error if none exists or it cannot be decoded
func (p *NATSPublisher) Last(ctx context.Context, outcome string) (*Report, error) {
	msg, err := p.stream.GetLastMsgForSubject(ctx, p.Subject(outcome))
	if err != nil {
		return nil, fmt.Errorf("cqlprobe: failed to get last report: %w", err)
	}

	return Decode(msg.Data)
}

// Count returns the number of reports held by the stream.
func (p *NATSPublisher) Count(ctx context.Context) (int, error) {
	info, err := p.stream.Info(ctx)
	if err != nil {
		return 0, fmt.Errorf("cqlprobe: failed to get stream info: %w", err)
	}

	//nolint:gosec // message counts fit in int on supported platforms
	return int(info.State.Msgs), nil
}

// Close stops accepting reports. Publish returns ErrPublisherClosed afterwards.
// The NATS connection is left to its owner.
func (p *NATSPublisher) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}
