package report

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/tinylib/msgp/msgp"

	"github.com/arloliu/cqlprobe/types"
)

// Field keys of the MessagePack encoding.
const (
	keyRunID       = "run_id"
	keyTarget      = "target"
	keyDriver      = "driver"
	keyStartedAt   = "started_at"
	keyFinishedAt  = "finished_at"
	keySteps       = "steps"
	keyResults     = "results"
	keyError       = "error"
	keyStep        = "step"
	keyDurationNS  = "duration_ns"
	keyRows        = "rows"
	keyUserID      = "user_id"
	keyDescription = "description"
	keyDate        = "date"
)

var errTooManyItems = errors.New("cqlprobe: too many items to encode")

// Encode serializes a report to MessagePack.
//
// The report is a map keyed by snake_case field names. UUIDs are written as
// extension type 10 and timestamps with msgp's time extension. Decoders skip
// keys they do not know.
//
// Parameters:
//   - r: The report to encode
//
// Returns:
//   - []byte: The encoded report
//   - error: Error if r is nil or a value cannot be encoded
func Encode(r *Report) ([]byte, error) {
	if r == nil {
		return nil, errNilReport
	}

	var err error

	b := msgp.AppendMapHeader(nil, 8)
	b = msgp.AppendString(b, keyRunID)
	id := UUID(r.RunID)
	if b, err = msgp.AppendExtension(b, &id); err != nil {
		return nil, fmt.Errorf("cqlprobe: failed to encode run id: %w", err)
	}
	b = msgp.AppendString(b, keyTarget)
	b = msgp.AppendString(b, r.Target)
	b = msgp.AppendString(b, keyDriver)
	b = msgp.AppendString(b, r.Driver)
	b = msgp.AppendString(b, keyStartedAt)
	b = msgp.AppendTime(b, r.StartedAt)
	b = msgp.AppendString(b, keyFinishedAt)
	b = msgp.AppendTime(b, r.FinishedAt)

	b = msgp.AppendString(b, keySteps)
	n, err := arrayLen(len(r.Steps))
	if err != nil {
		return nil, err
	}
	b = msgp.AppendArrayHeader(b, n)
	for _, s := range r.Steps {
		b = appendStep(b, s)
	}

	b = msgp.AppendString(b, keyResults)
	n, err = arrayLen(len(r.Results))
	if err != nil {
		return nil, err
	}
	b = msgp.AppendArrayHeader(b, n)
	for _, row := range r.Results {
		if b, err = appendRow(b, row); err != nil {
			return nil, err
		}
	}

	b = msgp.AppendString(b, keyError)
	b = msgp.AppendString(b, r.Error)

	return b, nil
}

func arrayLen(n int) (uint32, error) {
	if n > math.MaxUint32 {
		return 0, errTooManyItems
	}

	//nolint:gosec // overflow checked above
	return uint32(n), nil
}

func appendStep(b []byte, s StepResult) []byte {
	b = msgp.AppendMapHeader(b, 4)
	b = msgp.AppendString(b, keyStep)
	b = msgp.AppendString(b, string(s.Step))
	b = msgp.AppendString(b, keyDurationNS)
	b = msgp.AppendInt64(b, int64(s.Duration))
	b = msgp.AppendString(b, keyRows)
	b = msgp.AppendInt(b, s.Rows)
	b = msgp.AppendString(b, keyError)
	b = msgp.AppendString(b, s.Error)

	return b
}

func appendRow(b []byte, row types.Row) ([]byte, error) {
	b = msgp.AppendMapHeader(b, 3)
	b = msgp.AppendString(b, keyUserID)
	id := UUID(row.UserID)
	b, err := msgp.AppendExtension(b, &id)
	if err != nil {
		return nil, fmt.Errorf("cqlprobe: failed to encode row user id: %w", err)
	}
	b = msgp.AppendString(b, keyDescription)
	b = msgp.AppendString(b, row.Description)
	b = msgp.AppendString(b, keyDate)
	b = msgp.AppendTime(b, row.Date)

	return b, nil
}

// Decode parses a report produced by Encode.
//
// Parameters:
//   - data: MessagePack bytes
//
// Returns:
//   - *Report: The decoded report
//   - error: Error if data is malformed
func Decode(data []byte) (*Report, error) {
	sz, b, err := msgp.ReadMapHeaderBytes(data)
	if err != nil {
		return nil, fmt.Errorf("cqlprobe: failed to read report header: %w", err)
	}

	r := &Report{}
	for i := uint32(0); i < sz; i++ {
		var key string
		if key, b, err = msgp.ReadStringBytes(b); err != nil {
			return nil, fmt.Errorf("cqlprobe: failed to read report key: %w", err)
		}

		switch key {
		case keyRunID:
			var id UUID
			b, err = msgp.ReadExtensionBytes(b, &id)
			r.RunID = id.UUID()
		case keyTarget:
			r.Target, b, err = msgp.ReadStringBytes(b)
		case keyDriver:
			r.Driver, b, err = msgp.ReadStringBytes(b)
		case keyStartedAt:
			r.StartedAt, b, err = readTime(b)
		case keyFinishedAt:
			r.FinishedAt, b, err = readTime(b)
		case keySteps:
			r.Steps, b, err = readSteps(b)
		case keyResults:
			r.Results, b, err = readRows(b)
		case keyError:
			r.Error, b, err = msgp.ReadStringBytes(b)
		default:
			b, err = msgp.Skip(b)
		}
		if err != nil {
			return nil, fmt.Errorf("cqlprobe: failed to decode report field %q: %w", key, err)
		}
	}

	return r, nil
}

// readTime reads a timestamp and keeps the zero value zero.
func readTime(b []byte) (time.Time, []byte, error) {
	t, o, err := msgp.ReadTimeBytes(b)
	if err != nil {
		return time.Time{}, b, err
	}
	if t.Equal(time.Time{}) {
		return time.Time{}, o, nil
	}

	return t.UTC(), o, nil
}

func readSteps(b []byte) ([]StepResult, []byte, error) {
	n, b, err := msgp.ReadArrayHeaderBytes(b)
	if err != nil {
		return nil, b, err
	}

	steps := make([]StepResult, 0, n)
	for i := uint32(0); i < n; i++ {
		var s StepResult
		if s, b, err = readStep(b); err != nil {
			return nil, b, err
		}
		steps = append(steps, s)
	}

	return steps, b, nil
}

func readStep(b []byte) (StepResult, []byte, error) {
	var s StepResult

	sz, b, err := msgp.ReadMapHeaderBytes(b)
	if err != nil {
		return s, b, err
	}

	for i := uint32(0); i < sz; i++ {
		var key string
		if key, b, err = msgp.ReadStringBytes(b); err != nil {
			return s, b, err
		}

		switch key {
		case keyStep:
			var step string
			step, b, err = msgp.ReadStringBytes(b)
			s.Step = types.Step(step)
		case keyDurationNS:
			var ns int64
			ns, b, err = msgp.ReadInt64Bytes(b)
			s.Duration = time.Duration(ns)
		case keyRows:
			s.Rows, b, err = msgp.ReadIntBytes(b)
		case keyError:
			s.Error, b, err = msgp.ReadStringBytes(b)
		default:
			b, err = msgp.Skip(b)
		}
		if err != nil {
			return s, b, err
		}
	}

	return s, b, nil
}

func readRows(b []byte) ([]types.Row, []byte, error) {
	n, b, err := msgp.ReadArrayHeaderBytes(b)
	if err != nil {
		return nil, b, err
	}

	rows := make([]types.Row, 0, n)
	for i := uint32(0); i < n; i++ {
		var row types.Row
		if row, b, err = readRow(b); err != nil {
			return nil, b, err
		}
		rows = append(rows, row)
	}

	return rows, b, nil
}

func readRow(b []byte) (types.Row, []byte, error) {
	var row types.Row

	sz, b, err := msgp.ReadMapHeaderBytes(b)
	if err != nil {
		return row, b, err
	}

	for i := uint32(0); i < sz; i++ {
		var key string
		if key, b, err = msgp.ReadStringBytes(b); err != nil {
			return row, b, err
		}

		switch key {
		case keyUserID:
			var id UUID
			b, err = msgp.ReadExtensionBytes(b, &id)
			row.UserID = id.UUID()
		case keyDescription:
			row.Description, b, err = msgp.ReadStringBytes(b)
		case keyDate:
			row.Date, b, err = readTime(b)
		default:
			b, err = msgp.Skip(b)
		}
		if err != nil {
			return row, b, err
		}
	}

	return row, b, nil
}
