package report

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/arloliu/cqlprobe/types"
)

// Outcome values used in subjects and logs.
const (
	OutcomeOK      = "ok"
	OutcomeFailed  = "failed"
	OutcomePending = "pending"
)

// StepResult is the record of one executed step.
type StepResult struct {
	Step     types.Step
	Duration time.Duration
	Rows     int
	Error    string
}

// Failed reports whether the step ended with an error.
func (s StepResult) Failed() bool {
	return s.Error != ""
}

// Report is the record of one probe run.
type Report struct {
	RunID      uuid.UUID
	Target     string
	Driver     string
	StartedAt  time.Time
	FinishedAt time.Time

	// Steps holds one entry per executed step, in execution order.
	Steps []StepResult

	// Results holds every row returned by a select, in the order printed.
	Results []types.Row

	// Error is the message of the error that ended the run, if any.
	Error string
}

// New creates a report for a run against target using driver.
//
// Parameters:
//   - target: The node address the run connects to
//   - driver: The driver adapter name ("v1" or "v2")
//
// Returns:
//   - *Report: A report with a fresh RunID and StartedAt set to now
func New(target, driver string) *Report {
	return &Report{
		RunID:     uuid.New(),
		Target:    target,
		Driver:    driver,
		StartedAt: time.Now().UTC(),
	}
}

// Record appends the result of a step.
//
// Parameters:
//   - step: The step that ran
//   - d: How long the step took
//   - rows: Rows returned by the step (nil for statements without results)
//   - err: The step error, nil on success
func (r *Report) Record(step types.Step, d time.Duration, rows []types.Row, err error) {
	result := StepResult{
		Step:     step,
		Duration: d,
		Rows:     len(rows),
	}
	if err != nil {
		result.Error = err.Error()
	}

	r.Steps = append(r.Steps, result)
	r.Results = append(r.Results, rows...)
}

// Finish marks the run as ended.
//
// Parameters:
//   - err: The error that ended the run, nil on success
func (r *Report) Finish(err error) {
	r.FinishedAt = time.Now().UTC()
	if err != nil {
		r.Error = err.Error()
	}
}

// Finished reports whether Finish has been called.
func (r *Report) Finished() bool {
	return !r.FinishedAt.IsZero()
}

// Outcome returns OutcomeOK, OutcomeFailed or OutcomePending.
func (r *Report) Outcome() string {
	switch {
	case r.Error != "":
		return OutcomeFailed
	case !r.Finished():
		return OutcomePending
	default:
		return OutcomeOK
	}
}

// FailedStep returns the first step that recorded an error.
//
// Returns:
//   - types.Step: The failing step
//   - bool: false if no step failed
func (r *Report) FailedStep() (types.Step, bool) {
	for _, s := range r.Steps {
		if s.Failed() {
			return s.Step, true
		}
	}

	return "", false
}

// Duration returns the wall time of a finished run, or zero.
func (r *Report) Duration() time.Duration {
	if !r.Finished() {
		return 0
	}

	return r.FinishedAt.Sub(r.StartedAt)
}

// errNilReport is returned when a nil report is encoded or published.
var errNilReport = errors.New("cqlprobe: report is nil")

// ErrPublisherClosed is returned by Publish after Close.
var ErrPublisherClosed = errors.New("cqlprobe: report publisher is closed")
