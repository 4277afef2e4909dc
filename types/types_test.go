package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepError(t *testing.T) {
	cause := errors.New("unavailable")
	err := NewStepError(StepInsert, ErrQuery, cause)

	assert.Contains(t, err.Error(), "step insert")
	assert.Contains(t, err.Error(), "query failed")
	assert.Contains(t, err.Error(), "unavailable")
	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, ErrQuery))
	assert.False(t, errors.Is(err, ErrDecode))

	var stepErr *StepError
	require.True(t, errors.As(error(err), &stepErr))
	assert.Equal(t, StepInsert, stepErr.Step)
}

func TestStepErrorWithoutKind(t *testing.T) {
	cause := errors.New("boom")
	err := &StepError{Step: StepDelete, Cause: cause}

	assert.Contains(t, err.Error(), "step delete: failed: boom")
	assert.True(t, errors.Is(err, cause))
}

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		msg  string
	}{
		{"ErrMissingEnv", ErrMissingEnv, "required environment variable is not set"},
		{"ErrMalformedEnv", ErrMalformedEnv, "malformed environment variable"},
		{"ErrTLSConfig", ErrTLSConfig, "invalid TLS configuration"},
		{"ErrConnect", ErrConnect, "connection failed"},
		{"ErrQuery", ErrQuery, "query failed"},
		{"ErrDecode", ErrDecode, "row decoding failed"},
		{"ErrNilSession", ErrNilSession, "session cannot be nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, tt.err.Error(), tt.msg)
		})
	}
}

func TestParseConsistency(t *testing.T) {
	tests := []struct {
		in   string
		want Consistency
	}{
		{"ONE", One},
		{"one", One},
		{"LOCAL_QUORUM", LocalQuorum},
		{"local-quorum", LocalQuorum},
		{" quorum ", Quorum},
		{"LOCAL_ONE", LocalOne},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseConsistency(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseConsistency("MOSTLY")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown consistency level")
}

func TestConsistencyString(t *testing.T) {
	assert.Equal(t, "LOCAL_QUORUM", LocalQuorum.String())
	assert.Equal(t, "UNKNOWN", Consistency(0xFF).String())
}

func TestStatementSteps(t *testing.T) {
	steps := StatementSteps()
	require.Len(t, steps, 6)
	assert.Equal(t, StepCreateKeyspace, steps[0])
	assert.Equal(t, StepDelete, steps[len(steps)-1])
	assert.NotContains(t, steps, StepConnect)
}
