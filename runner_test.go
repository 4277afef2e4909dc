package cqlprobe

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/cqlprobe/report"
	"github.com/arloliu/cqlprobe/test/testutil"
	"github.com/arloliu/cqlprobe/types"
)

var fixedNow = time.Date(2024, 5, 1, 12, 30, 0, 123_000_000, time.UTC)

func newTestSession() *testutil.MemorySession {
	session := testutil.NewMemorySession()
	session.Now = func() time.Time { return fixedNow }

	return session
}

func newTestRunner(t *testing.T, session *testutil.MemorySession, opts ...Option) (*Runner, *bytes.Buffer) {
	t.Helper()

	var out bytes.Buffer
	runner, err := NewRunner(session, append([]Option{WithOutput(&out)}, opts...)...)
	require.NoError(t, err)

	return runner, &out
}

func TestNewRunnerNilSession(t *testing.T) {
	_, err := NewRunner(nil)
	require.ErrorIs(t, err, types.ErrNilSession)
}

func TestRunPrintsScript(t *testing.T) {
	session := newTestSession()
	runner, out := newTestRunner(t, session)

	require.NoError(t, runner.Run(context.Background()))

	date := "2024-05-01T12:30:00.123Z"
	expected := []string{
		"Inserting......",
		"Querying......",
		`Query result: Row { user_id: 534a87db-df22-48eb-901b-4fac9c392954, description: "Some description", date: ` + date + ` }`,
		"Updating......",
		"Querying......",
		`Query result: Row { user_id: 534a87db-df22-48eb-901b-4fac9c392954, description: "Updated description.", date: ` + date + ` }`,
		"Deleting......",
	}
	assert.Equal(t, expected, strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n"))
}

func TestRunStatementOrder(t *testing.T) {
	session := newTestSession()
	runner, _ := newTestRunner(t, session)

	require.NoError(t, runner.Run(context.Background()))

	assert.Equal(t, []string{
		testutil.VerbCreateKeyspace,
		testutil.VerbCreateTable,
		testutil.VerbInsert,
		testutil.VerbSelect,
		testutil.VerbUpdate,
		testutil.VerbSelect,
		testutil.VerbDelete,
	}, session.Verbs())
	assert.Zero(t, session.RowCount())
	assert.False(t, session.IsClosed(), "runner must not close a session it does not own")
}

func TestRunStatementsAreExact(t *testing.T) {
	session := newTestSession()
	runner, _ := newTestRunner(t, session)

	require.NoError(t, runner.Run(context.Background()))

	stmts := session.Statements()
	require.Len(t, stmts, 7)
	assert.Equal(t, "CREATE KEYSPACE IF NOT EXISTS aws_cassandra_test WITH REPLICATION = "+
		"{'class': 'SimpleStrategy', 'replication_factor': 1}", stmts[0].Statement)
	assert.Equal(t, "CREATE TABLE IF NOT EXISTS aws_cassandra_test.table_test"+
		"(user_id UUID, description text, date timestamp, PRIMARY KEY(user_id))", stmts[1].Statement)
	assert.Equal(t, []any{UserID.String(), InsertedDescription}, stmts[2].Values)
	assert.Equal(t, []any{UserID.String()}, stmts[3].Values)
	assert.Equal(t, []any{UpdatedDescription, UserID.String()}, stmts[4].Values)
	assert.Equal(t, []any{UserID.String()}, stmts[6].Values)
}

func TestCRUDLifecycle(t *testing.T) {
	session := newTestSession()
	runner, _ := newTestRunner(t, session)
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, runner.CreateKeyspace(ctx))
	require.NoError(t, runner.CreateTable(ctx))

	require.NoError(t, runner.Insert(ctx, id, "first"))
	rows, err := runner.Select(ctx, id)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, types.Row{UserID: id, Description: "first", Date: fixedNow}, rows[0])

	require.NoError(t, runner.Update(ctx, id, "second"))
	rows, err = runner.Select(ctx, id)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, id, rows[0].UserID)
	assert.Equal(t, "second", rows[0].Description)

	require.NoError(t, runner.Delete(ctx, id))
	rows, err = runner.Select(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSchemaCreationIsIdempotent(t *testing.T) {
	session := newTestSession()
	runner, _ := newTestRunner(t, session)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		require.NoError(t, runner.CreateKeyspace(ctx))
		require.NoError(t, runner.CreateTable(ctx))
	}
	require.NoError(t, runner.Run(ctx))
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	session := newTestSession()
	cause := errors.New("Operation timed out - received only 0 responses")
	session.FailOn(testutil.VerbUpdate, cause)

	collector := testutil.NewTestMetricsCollector()
	rep := report.New("node", "v1")
	runner, out := newTestRunner(t, session, WithMetrics(collector), WithReport(rep))

	err := runner.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrQuery)
	assert.ErrorIs(t, err, cause)

	var stepErr *types.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, types.StepUpdate, stepErr.Step)

	assert.Equal(t, testutil.VerbUpdate, session.Verbs()[len(session.Verbs())-1])
	assert.NotContains(t, out.String(), "Deleting")
	assert.Equal(t, 1, session.RowCount(), "no rollback of the inserted row")

	assert.Equal(t, int64(1), collector.GetStatementErrors(types.StepUpdate))
	assert.Zero(t, collector.GetStatementTotal(types.StepDelete))

	assert.Equal(t, report.OutcomeFailed, rep.Outcome())
	step, failed := rep.FailedStep()
	require.True(t, failed)
	assert.Equal(t, types.StepUpdate, step)
	assert.Len(t, rep.Steps, 5)
}

func TestRunFinishesReport(t *testing.T) {
	session := newTestSession()
	rep := report.New("node", "v1")
	runner, _ := newTestRunner(t, session, WithReport(rep))

	require.NoError(t, runner.Run(context.Background()))

	assert.Equal(t, report.OutcomeOK, rep.Outcome())
	steps := make([]types.Step, 0, len(rep.Steps))
	for _, s := range rep.Steps {
		steps = append(steps, s.Step)
	}
	assert.Equal(t, []types.Step{
		types.StepCreateKeyspace,
		types.StepCreateTable,
		types.StepInsert,
		types.StepSelect,
		types.StepUpdate,
		types.StepSelect,
		types.StepDelete,
	}, steps)
	require.Len(t, rep.Results, 2)
	assert.Equal(t, InsertedDescription, rep.Results[0].Description)
	assert.Equal(t, UpdatedDescription, rep.Results[1].Description)
}

func TestSelectDecodeError(t *testing.T) {
	session := newTestSession()
	session.PutRaw(UserID.String(), "not-a-uuid", "broken", fixedNow)
	collector := testutil.NewTestMetricsCollector()
	runner, out := newTestRunner(t, session, WithMetrics(collector))

	rows, err := runner.Select(context.Background(), UserID)
	require.Error(t, err)
	assert.Empty(t, rows)
	assert.ErrorIs(t, err, types.ErrDecode)
	assert.NotErrorIs(t, err, types.ErrQuery)
	assert.NotContains(t, out.String(), "Query result")
	assert.Equal(t, int64(1), collector.GetStatementErrors(types.StepSelect))
}

func TestSelectQueryError(t *testing.T) {
	session := newTestSession()
	session.FailOn(testutil.VerbSelect, errors.New("unavailable"))
	runner, _ := newTestRunner(t, session)

	_, err := runner.Select(context.Background(), UserID)
	require.ErrorIs(t, err, types.ErrQuery)
}

func TestStatementsBeforeSchemaFail(t *testing.T) {
	session := newTestSession()
	runner, _ := newTestRunner(t, session)

	err := runner.Insert(context.Background(), UserID, InsertedDescription)
	require.ErrorIs(t, err, types.ErrQuery)
	require.ErrorIs(t, err, testutil.ErrUnconfiguredTable)
}

func TestConsistencyIsApplied(t *testing.T) {
	session := newTestSession()
	runner, _ := newTestRunner(t, session, WithConsistency(types.LocalQuorum))

	require.NoError(t, runner.Run(context.Background()))

	for _, stmt := range session.Statements() {
		assert.Equal(t, types.LocalQuorum, stmt.Consistency, stmt.Statement)
	}
}

func TestRunCanceledContext(t *testing.T) {
	session := newTestSession()
	runner, out := newTestRunner(t, session)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runner.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, err, types.ErrQuery)
	assert.Empty(t, out.String())
	assert.Len(t, session.Statements(), 1)
}

func TestRunMetrics(t *testing.T) {
	session := newTestSession()
	collector := testutil.NewTestMetricsCollector()
	runner, _ := newTestRunner(t, session, WithMetrics(collector))

	require.NoError(t, runner.Run(context.Background()))

	assert.Equal(t, int64(1), collector.GetStatementTotal(types.StepCreateKeyspace))
	assert.Equal(t, int64(1), collector.GetStatementTotal(types.StepInsert))
	assert.Equal(t, int64(2), collector.GetStatementTotal(types.StepSelect))
	assert.Equal(t, int64(2), collector.GetRowsReturned(types.StepSelect))
	for _, step := range types.StatementSteps() {
		assert.Zero(t, collector.GetStatementErrors(step), step)
	}
}

func TestSlowStatementDurationIsObserved(t *testing.T) {
	delay := 20 * time.Millisecond
	session := &testutil.SlowSession{Session: newTestSession(), Delay: delay}
	collector := testutil.NewTestMetricsCollector()

	runner, err := NewRunner(session, WithOutput(&bytes.Buffer{}), WithMetrics(collector))
	require.NoError(t, err)

	require.NoError(t, runner.CreateKeyspace(context.Background()))

	durations := collector.StatementDuration[types.StepCreateKeyspace]
	require.Len(t, durations, 1)
	assert.GreaterOrEqual(t, durations[0], delay.Seconds())
}

func TestStatementDeadline(t *testing.T) {
	session := &testutil.SlowSession{Session: newTestSession(), Delay: time.Second}
	runner, err := NewRunner(session, WithOutput(&bytes.Buffer{}))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err = runner.CreateKeyspace(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
