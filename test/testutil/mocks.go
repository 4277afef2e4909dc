package testutil

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/arloliu/cqlprobe/adapter/cql"
)

// Statement verbs understood by MemorySession, matched as statement prefixes.
const (
	VerbCreateKeyspace = "CREATE KEYSPACE"
	VerbCreateTable    = "CREATE TABLE"
	VerbInsert         = "INSERT"
	VerbSelect         = "SELECT"
	VerbUpdate         = "UPDATE"
	VerbDelete         = "DELETE"
)

var verbs = []string{VerbCreateKeyspace, VerbCreateTable, VerbInsert, VerbSelect, VerbUpdate, VerbDelete}

// ErrUnconfiguredTable is returned when a statement reaches a table that was not created.
var ErrUnconfiguredTable = errors.New("unconfigured table table_test")

// ExecutedStatement is one statement seen by MemorySession.
type ExecutedStatement struct {
	Statement   string
	Values      []any
	Consistency cql.Consistency
}

// Verb returns the statement verb, or "" if it is not recognized.
func (e ExecutedStatement) Verb() string {
	return verbOf(e.Statement)
}

type memoryRow struct {
	id          string
	description string
	date        time.Time
}

// MemorySession is an in-memory cql.Session holding a single
// (user_id text, description text, date timestamp) table.
//
// It understands the probe's statements by verb and bound value position:
//   - INSERT binds (user_id, description) and sets date to Now
//   - UPDATE binds (description, user_id) and upserts
//   - SELECT and DELETE bind (user_id)
//
// Failures can be injected per verb with FailOn.
type MemorySession struct {
	mu         sync.Mutex
	closed     bool
	keyspace   bool
	table      bool
	rows       map[string]memoryRow
	statements []ExecutedStatement
	failures   map[string]error

	// Now returns the timestamp stored by INSERT. Defaults to time.Now.
	Now func() time.Time
}

// Compile-time assertion that MemorySession implements cql.Session.
var _ cql.Session = (*MemorySession)(nil)

// NewMemorySession creates an empty session with no keyspace.
func NewMemorySession() *MemorySession {
	return &MemorySession{
		rows:     make(map[string]memoryRow),
		failures: make(map[string]error),
		Now:      time.Now,
	}
}

// Query returns a query for stmt.
func (m *MemorySession) Query(stmt string, values ...any) cql.Query {
	return &memoryQuery{
		session:     m,
		stmt:        stmt,
		values:      values,
		consistency: cql.One,
	}
}

// Close marks the session as closed.
func (m *MemorySession) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
}

// IsClosed returns whether the session has been closed.
func (m *MemorySession) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.closed
}

// FailOn makes every statement with the given verb return err.
// A nil err clears the failure.
func (m *MemorySession) FailOn(verb string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err == nil {
		delete(m.failures, verb)

		return
	}
	m.failures[verb] = err
}

// PutRaw stores a row under key whose user_id column reads back as rawID,
// bypassing INSERT. Use it to feed values the driver would never return.
func (m *MemorySession) PutRaw(key, rawID, description string, date time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.table = true
	m.rows[key] = memoryRow{id: rawID, description: description, date: date}
}

// RowCount returns the number of stored rows.
func (m *MemorySession) RowCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.rows)
}

// Statements returns a copy of every statement seen, in order.
func (m *MemorySession) Statements() []ExecutedStatement {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]ExecutedStatement, len(m.statements))
	copy(out, m.statements)

	return out
}

// Verbs returns the verb of every statement seen, in order.
func (m *MemorySession) Verbs() []string {
	stmts := m.Statements()
	out := make([]string, len(stmts))
	for i, s := range stmts {
		out[i] = s.Verb()
	}

	return out
}

func verbOf(stmt string) string {
	upper := strings.ToUpper(strings.TrimSpace(stmt))
	for _, verb := range verbs {
		if strings.HasPrefix(upper, verb) {
			return verb
		}
	}

	return ""
}

func (m *MemorySession) begin(ctx context.Context, q *memoryQuery) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.statements = append(m.statements, ExecutedStatement{
		Statement:   q.stmt,
		Values:      q.values,
		Consistency: q.consistency,
	})

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.closed {
		return "", errors.New("session has been closed")
	}

	verb := verbOf(q.stmt)
	if err, ok := m.failures[verb]; ok {
		return verb, err
	}

	return verb, nil
}

func (m *MemorySession) exec(verb string, values []any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch verb {
	case VerbCreateKeyspace:
		m.keyspace = true

		return nil
	case VerbCreateTable:
		if !m.keyspace {
			return errors.New("keyspace aws_cassandra_test does not exist")
		}
		m.table = true

		return nil
	case VerbSelect:
		return nil
	case "":
		return errors.New("line 1:0 no viable alternative at input")
	}

	if !m.table {
		return ErrUnconfiguredTable
	}

	switch verb {
	case VerbInsert:
		id, description, err := stringArgs(values, 0, 1)
		if err != nil {
			return err
		}
		m.rows[id] = memoryRow{id: id, description: description, date: m.Now().UTC().Truncate(time.Millisecond)}
	case VerbUpdate:
		id, description, err := stringArgs(values, 1, 0)
		if err != nil {
			return err
		}
		row := m.rows[id]
		row.id = id
		row.description = description
		m.rows[id] = row
	case VerbDelete:
		id, _, err := stringArgs(values, 0, -1)
		if err != nil {
			return err
		}
		delete(m.rows, id)
	}

	return nil
}

func (m *MemorySession) lookup(values []any) ([]memoryRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.table {
		return nil, ErrUnconfiguredTable
	}

	id, _, err := stringArgs(values, 0, -1)
	if err != nil {
		return nil, err
	}

	row, ok := m.rows[id]
	if !ok {
		return nil, nil
	}

	return []memoryRow{row}, nil
}

// stringArgs returns the string values at positions idIdx and textIdx (-1 to skip).
func stringArgs(values []any, idIdx, textIdx int) (id, text string, err error) {
	get := func(i int) (string, error) {
		if i >= len(values) {
			return "", fmt.Errorf("expected at least %d bound values, got %d", i+1, len(values))
		}
		s, ok := values[i].(string)
		if !ok {
			return "", fmt.Errorf("can not marshal %T into text", values[i])
		}

		return s, nil
	}

	if id, err = get(idIdx); err != nil {
		return "", "", err
	}
	if textIdx >= 0 {
		if text, err = get(textIdx); err != nil {
			return "", "", err
		}
	}

	return id, text, nil
}

type memoryQuery struct {
	session     *MemorySession
	stmt        string
	values      []any
	consistency cql.Consistency
}

func (q *memoryQuery) Consistency(c cql.Consistency) cql.Query {
	q.consistency = c

	return q
}

func (q *memoryQuery) ExecContext(ctx context.Context) error {
	verb, err := q.session.begin(ctx, q)
	if err != nil {
		return err
	}

	return q.session.exec(verb, q.values)
}

func (q *memoryQuery) IterContext(ctx context.Context) cql.Iter {
	if _, err := q.session.begin(ctx, q); err != nil {
		return &memoryIter{err: err}
	}

	rows, err := q.session.lookup(q.values)

	return &memoryIter{rows: rows, err: err}
}

func (q *memoryQuery) Release() {}

type memoryIter struct {
	rows []memoryRow
	pos  int
	err  error
}

func (i *memoryIter) Scanner() cql.Scanner {
	return &memoryScanner{iter: i, pos: -1}
}

type memoryScanner struct {
	iter *memoryIter
	pos  int
}

func (s *memoryScanner) Next() bool {
	if s.iter.err != nil {
		return false
	}
	s.pos++

	return s.pos < len(s.iter.rows)
}

func (s *memoryScanner) Scan(dest ...any) error {
	if s.pos < 0 || s.pos >= len(s.iter.rows) {
		return errors.New("scan called without a current row")
	}
	if len(dest) != 3 {
		return fmt.Errorf("expected 3 columns in result but got %d", len(dest))
	}

	row := s.iter.rows[s.pos]

	id, ok := dest[0].(*string)
	if !ok {
		return fmt.Errorf("can not unmarshal uuid into %T", dest[0])
	}
	description, ok := dest[1].(*string)
	if !ok {
		return fmt.Errorf("can not unmarshal text into %T", dest[1])
	}
	date, ok := dest[2].(*time.Time)
	if !ok {
		return fmt.Errorf("can not unmarshal timestamp into %T", dest[2])
	}

	*id = row.id
	*description = row.description
	*date = row.date

	return nil
}

func (s *memoryScanner) Err() error {
	return s.iter.err
}
