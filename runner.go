package cqlprobe

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arloliu/cqlprobe/adapter/cql"
	"github.com/arloliu/cqlprobe/types"
)

// Runner executes the probe script over a session it does not own.
//
// Statements run one at a time in the caller's goroutine. A Runner is not
// safe for concurrent use.
type Runner struct {
	session cql.Session
	config  *Config
}

// NewRunner creates a Runner over session.
//
// The caller keeps ownership of session and closes it after the runner is done.
//
// Parameters:
//   - session: A connected session
//   - opts: Output, logger, metrics, consistency and report options
//
// Returns:
//   - *Runner: A new runner
//   - error: ErrNilSession if session is nil
func NewRunner(session cql.Session, opts ...Option) (*Runner, error) {
	if session == nil {
		return nil, types.ErrNilSession
	}

	return &Runner{
		session: session,
		config:  buildConfig(opts),
	}, nil
}

// Run executes the whole script: create keyspace, create table, insert,
// select, update, select, delete.
//
// The first failing step ends the run. If a report is configured it is
// finished before Run returns.
//
// Parameters:
//   - ctx: Context for cancellation
//
// Returns:
//   - error: nil on success, *types.StepError otherwise
func (r *Runner) Run(ctx context.Context) (err error) {
	defer func() {
		if r.config.Report != nil {
			r.config.Report.Finish(err)
		}
	}()

	steps := []func(context.Context) error{
		r.CreateKeyspace,
		r.CreateTable,
		func(ctx context.Context) error { return r.Insert(ctx, UserID, InsertedDescription) },
		r.selectFixed,
		func(ctx context.Context) error { return r.Update(ctx, UserID, UpdatedDescription) },
		r.selectFixed,
		func(ctx context.Context) error { return r.Delete(ctx, UserID) },
	}

	for _, step := range steps {
		if err := step(ctx); err != nil {
			return err
		}
	}

	r.config.Logger.Info("script completed")

	return nil
}

func (r *Runner) selectFixed(ctx context.Context) error {
	_, err := r.Select(ctx, UserID)

	return err
}

// CreateKeyspace creates aws_cassandra_test with SimpleStrategy and
// replication factor 1. It is a no-op if the keyspace exists.
func (r *Runner) CreateKeyspace(ctx context.Context) error {
	return r.exec(ctx, types.StepCreateKeyspace, createKeyspaceStmt)
}

// CreateTable creates aws_cassandra_test.table_test. It is a no-op if the
// table exists.
func (r *Runner) CreateTable(ctx context.Context) error {
	return r.exec(ctx, types.StepCreateTable, createTableStmt)
}

// Insert writes a row with the given description; the date is set by the
// server with toTimeStamp(now()).
//
// Parameters:
//   - ctx: Context for cancellation
//   - id: Row key
//   - description: Description text
//
// Returns:
//   - error: *types.StepError wrapping ErrQuery on failure
func (r *Runner) Insert(ctx context.Context, id uuid.UUID, description string) error {
	r.progress("Inserting......")

	return r.exec(ctx, types.StepInsert, insertStmt, id.String(), description)
}

// Update sets the description of the row with the given key.
//
// Parameters:
//   - ctx: Context for cancellation
//   - id: Row key
//   - description: New description text
//
// Returns:
//   - error: *types.StepError wrapping ErrQuery on failure
func (r *Runner) Update(ctx context.Context, id uuid.UUID, description string) error {
	r.progress("Updating......")

	return r.exec(ctx, types.StepUpdate, updateStmt, description, id.String())
}

// Delete removes the row with the given key.
func (r *Runner) Delete(ctx context.Context, id uuid.UUID) error {
	r.progress("Deleting......")

	return r.exec(ctx, types.StepDelete, deleteStmt, id.String())
}

// Select reads the rows with the given key and prints each one as
// "Query result: <row>".
//
// Parameters:
//   - ctx: Context for cancellation
//   - id: Row key
//
// Returns:
//   - []types.Row: The rows read (zero or one)
//   - error: *types.StepError wrapping ErrDecode if a row cannot be mapped,
//     or ErrQuery if the query fails
func (r *Runner) Select(ctx context.Context, id uuid.UUID) ([]types.Row, error) {
	r.progress("Querying......")

	step := types.StepSelect
	r.config.Metrics.IncStatementTotal(step)
	start := time.Now()

	query := r.session.Query(selectStmt, id.String()).Consistency(r.config.Consistency)
	defer query.Release()

	scanner := query.IterContext(ctx).Scanner()

	var rows []types.Row
	for scanner.Next() {
		row, err := scanRow(scanner)
		if err != nil {
			_ = scanner.Err()

			return rows, r.fail(step, types.ErrDecode, time.Since(start), rows, err)
		}

		rows = append(rows, row)
		fmt.Fprintf(r.config.Output, "Query result: %s\n", row)
	}

	if err := scanner.Err(); err != nil {
		return rows, r.fail(step, types.ErrQuery, time.Since(start), rows, err)
	}

	r.succeed(step, time.Since(start), rows)
	r.config.Metrics.AddRowsReturned(step, len(rows))

	return rows, nil
}

func scanRow(scanner cql.Scanner) (types.Row, error) {
	var (
		rawID       string
		description string
		date        time.Time
	)

	if err := scanner.Scan(&rawID, &description, &date); err != nil {
		return types.Row{}, err
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return types.Row{}, fmt.Errorf("user_id %q: %w", rawID, err)
	}

	return types.Row{UserID: id, Description: description, Date: date}, nil
}

func (r *Runner) exec(ctx context.Context, step types.Step, stmt string, values ...any) error {
	r.config.Metrics.IncStatementTotal(step)
	start := time.Now()

	query := r.session.Query(stmt, values...).Consistency(r.config.Consistency)
	err := query.ExecContext(ctx)
	query.Release()

	if err != nil {
		return r.fail(step, types.ErrQuery, time.Since(start), nil, err)
	}

	r.succeed(step, time.Since(start), nil)

	return nil
}

func (r *Runner) succeed(step types.Step, d time.Duration, rows []types.Row) {
	r.config.Metrics.ObserveStatementDuration(step, d.Seconds())
	recordStep(r.config, step, d, rows, nil)
	r.config.Logger.Debug("statement executed", "step", step, "duration", d, "rows", len(rows))
}

func (r *Runner) fail(step types.Step, kind error, d time.Duration, rows []types.Row, cause error) error {
	stepErr := types.NewStepError(step, kind, cause)

	r.config.Metrics.ObserveStatementDuration(step, d.Seconds())
	r.config.Metrics.IncStatementError(step)
	recordStep(r.config, step, d, rows, stepErr)
	r.config.Logger.Error("statement failed", "step", step, "duration", d, "error", cause)

	return stepErr
}

func (r *Runner) progress(line string) {
	fmt.Fprintln(r.config.Output, line)
}
