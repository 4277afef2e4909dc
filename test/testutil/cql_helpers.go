package testutil

import (
	"context"
	"time"

	"github.com/arloliu/cqlprobe/adapter/cql"
)

// SlowSession wraps a CQL session and delays every execution.
// The delay honors context cancellation, so it also serves to test deadlines.
type SlowSession struct {
	Session cql.Session
	Delay   time.Duration
}

// Compile-time assertion that SlowSession implements cql.Session.
var _ cql.Session = (*SlowSession)(nil)

// Query returns a query that waits Delay before executing.
func (s *SlowSession) Query(stmt string, values ...any) cql.Query {
	return &SlowQuery{
		Query: s.Session.Query(stmt, values...),
		Delay: s.Delay,
	}
}

// Close closes the underlying session.
func (s *SlowSession) Close() {
	s.Session.Close()
}

// SlowQuery wraps a query with a delay before execution.
type SlowQuery struct {
	cql.Query
	Delay time.Duration
}

// Consistency sets the consistency level and keeps the wrapper.
func (q *SlowQuery) Consistency(c cql.Consistency) cql.Query {
	q.Query = q.Query.Consistency(c)

	return q
}

// ExecContext waits Delay, then executes the query.
func (q *SlowQuery) ExecContext(ctx context.Context) error {
	if err := q.wait(ctx); err != nil {
		return err
	}

	return q.Query.ExecContext(ctx)
}

// IterContext waits Delay, then returns the iterator of the query.
// If ctx ends first the query still runs and reports the context error.
func (q *SlowQuery) IterContext(ctx context.Context) cql.Iter {
	_ = q.wait(ctx)

	return q.Query.IterContext(ctx)
}

func (q *SlowQuery) wait(ctx context.Context) error {
	timer := time.NewTimer(q.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
