package report

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/cqlprobe/types"
)

func TestNewReport(t *testing.T) {
	r := New("127.0.0.1:9042", "v1")

	assert.NotEqual(t, uuid.Nil, r.RunID)
	assert.Equal(t, "127.0.0.1:9042", r.Target)
	assert.Equal(t, "v1", r.Driver)
	assert.False(t, r.StartedAt.IsZero())
	assert.Equal(t, OutcomePending, r.Outcome())
	assert.Zero(t, r.Duration())
}

func TestReportRecordAndFinish(t *testing.T) {
	r := New("node", "v2")
	row := types.Row{UserID: uuid.New(), Description: "Some description", Date: time.Now()}

	r.Record(types.StepInsert, time.Millisecond, nil, nil)
	r.Record(types.StepSelect, 2*time.Millisecond, []types.Row{row}, nil)
	r.Finish(nil)

	require.Len(t, r.Steps, 2)
	assert.Equal(t, 1, r.Steps[1].Rows)
	require.Len(t, r.Results, 1)
	assert.Equal(t, row.UserID, r.Results[0].UserID)
	assert.Equal(t, OutcomeOK, r.Outcome())
	assert.True(t, r.Finished())

	_, failed := r.FailedStep()
	assert.False(t, failed)
}

func TestReportFailedStep(t *testing.T) {
	r := New("node", "v1")
	err := types.NewStepError(types.StepUpdate, types.ErrQuery, errors.New("timeout"))

	r.Record(types.StepInsert, time.Millisecond, nil, nil)
	r.Record(types.StepUpdate, time.Millisecond, nil, err)
	r.Finish(err)

	step, failed := r.FailedStep()
	require.True(t, failed)
	assert.Equal(t, types.StepUpdate, step)
	assert.Equal(t, OutcomeFailed, r.Outcome())
	assert.Contains(t, r.Error, "timeout")
	assert.Contains(t, r.Steps[1].Error, "step update")
}
