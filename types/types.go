// Package types provides shared types and errors for cqlprobe.
//
// This is a "leaf" package with no imports from other cqlprobe packages,
// allowing it to be imported by any package without causing import cycles.
package types

import (
	"errors"
	"strings"
)

// Step identifies one statement of the probe script.
type Step string

// String returns the string representation of the Step.
func (s Step) String() string {
	return string(s)
}

// Script steps in execution order. The names are used as metric labels and
// report keys, so they must stay Prometheus-compatible.
const (
	StepConnect        Step = "connect"
	StepCreateKeyspace Step = "create_keyspace"
	StepCreateTable    Step = "create_table"
	StepInsert         Step = "insert"
	StepSelect         Step = "select"
	StepUpdate         Step = "update"
	StepDelete         Step = "delete"
)

// StatementSteps lists every step that issues a CQL statement.
//
// StepConnect is not included; it is tracked separately by metrics.
func StatementSteps() []Step {
	return []Step{
		StepCreateKeyspace,
		StepCreateTable,
		StepInsert,
		StepSelect,
		StepUpdate,
		StepDelete,
	}
}

// Consistency represents the Cassandra consistency level.
type Consistency uint16

// Common consistency levels matching gocql.
const (
	Any         Consistency = 0x00
	One         Consistency = 0x01
	Two         Consistency = 0x02
	Three       Consistency = 0x03
	Quorum      Consistency = 0x04
	All         Consistency = 0x05
	LocalQuorum Consistency = 0x06
	EachQuorum  Consistency = 0x07
	Serial      Consistency = 0x08
	LocalSerial Consistency = 0x09
	LocalOne    Consistency = 0x0A
)

var consistencyNames = map[Consistency]string{
	Any:         "ANY",
	One:         "ONE",
	Two:         "TWO",
	Three:       "THREE",
	Quorum:      "QUORUM",
	All:         "ALL",
	LocalQuorum: "LOCAL_QUORUM",
	EachQuorum:  "EACH_QUORUM",
	Serial:      "SERIAL",
	LocalSerial: "LOCAL_SERIAL",
	LocalOne:    "LOCAL_ONE",
}

// String returns the CQL name of the consistency level.
func (c Consistency) String() string {
	if name, ok := consistencyNames[c]; ok {
		return name
	}

	return "UNKNOWN"
}

// ParseConsistency parses a consistency level name such as "LOCAL_QUORUM".
//
// Parsing is case-insensitive and accepts dashes in place of underscores.
//
// Parameters:
//   - s: Consistency level name
//
// Returns:
//   - Consistency: The parsed level
//   - error: Error if the name is unknown
func ParseConsistency(s string) (Consistency, error) {
	norm := strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), "-", "_")
	for c, name := range consistencyNames {
		if name == norm {
			return c, nil
		}
	}

	return 0, errors.New("cqlprobe: unknown consistency level " + s)
}

// Sentinel errors classifying why a run failed.
//
// Every failure aborts the run; the kind only tells the operator where it
// happened.
var (
	// ErrMissingEnv indicates a required environment variable is absent or empty.
	ErrMissingEnv = errors.New("cqlprobe: required environment variable is not set")

	// ErrMalformedEnv indicates an environment variable has an unusable value.
	ErrMalformedEnv = errors.New("cqlprobe: malformed environment variable")

	// ErrTLSConfig indicates the TLS client context could not be built.
	ErrTLSConfig = errors.New("cqlprobe: invalid TLS configuration")

	// ErrConnect indicates the session could not be established.
	ErrConnect = errors.New("cqlprobe: connection failed")

	// ErrQuery indicates the database rejected or failed a statement.
	ErrQuery = errors.New("cqlprobe: query failed")

	// ErrDecode indicates a returned row could not be mapped to a Row.
	ErrDecode = errors.New("cqlprobe: row decoding failed")

	// ErrNilSession indicates that a nil session was provided.
	ErrNilSession = errors.New("cqlprobe: session cannot be nil")
)

// StepError wraps a failure of a specific script step.
type StepError struct {
	// Step identifies which statement failed.
	Step Step

	// Kind is one of the sentinel errors (ErrQuery, ErrDecode, ...).
	Kind error

	// Cause is the underlying driver error.
	Cause error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	kind := "failed"
	if e.Kind != nil {
		kind = strings.TrimPrefix(e.Kind.Error(), "cqlprobe: ")
	}

	return "cqlprobe: step " + e.Step.String() + ": " + kind + ": " + e.Cause.Error()
}

// Unwrap returns the kind and the cause for errors.Is/As compatibility.
func (e *StepError) Unwrap() []error {
	if e.Kind == nil {
		return []error{e.Cause}
	}

	return []error{e.Kind, e.Cause}
}

// NewStepError builds a StepError.
//
// Parameters:
//   - step: The failing step
//   - kind: Sentinel classifying the failure
//   - cause: The underlying error
//
// Returns:
//   - *StepError: The wrapped error
func NewStepError(step Step, kind, cause error) *StepError {
	return &StepError{Step: step, Kind: kind, Cause: cause}
}
