/*
Package storemock provides an in-memory storage.Store for testing code that
issues statements through the query shim without a real database.

Responses are matched by substring against the whitespace-normalised SQL text,
in the order they were registered:

	m := storemock.New(storemock.Config{Dialect: storage.SQLite})
	m.On("FROM revenue").ReturnRows([]string{"month", "revenue"},
		storage.Row{"month": "Jan", "revenue": int64(2000)})
	m.On("DELETE FROM invoices").ReturnError(errors.New("locked"))

Statements without a matching response succeed with no rows. Every execution
is appended to Calls.
*/
package storemock

import (
	"context"
	"strings"
	"sync"

	"ledgerdash/storage"
)

// Operation names recorded in Calls.
const (
	OpRun   = "RUN"
	OpAll   = "ALL"
	OpFirst = "FIRST"
	OpRaw   = "RAW"
	OpExec  = "EXEC"
	OpBatch = "BATCH"
)

// Config configures the mock store.
type Config struct {
	// Dialect reported by the store; defaults to storage.SQLite.
	Dialect storage.Dialect
}

// Response describes a configured outcome.
type Response struct {
	Columns []string
	Rows    []storage.Row
	Meta    storage.Meta
	Err     error
}

// Call records one execution against the mock.
type Call struct {
	Op     string
	SQL    string
	Params []any
}

// ResponseBuilder configures the response for one SQL fragment.
type ResponseBuilder struct {
	s     *Store
	match string
}

// ReturnRows sets the rows produced by ALL, FIRST and RAW.
func (b *ResponseBuilder) ReturnRows(columns []string, rows ...storage.Row) *Store {
	b.s.set(b.match, func(r *Response) {
		r.Columns = append([]string(nil), columns...)
		r.Rows = rows
	})
	return b.s
}

// ReturnMeta sets the metadata produced by RUN.
func (b *ResponseBuilder) ReturnMeta(meta storage.Meta) *Store {
	b.s.set(b.match, func(r *Response) { r.Meta = meta })
	return b.s
}

// ReturnError makes every operation on the matching SQL fail with err.
func (b *ResponseBuilder) ReturnError(err error) *Store {
	b.s.set(b.match, func(r *Response) { r.Err = err })
	return b.s
}

type entry struct {
	match string
	resp  Response
}

// Store implements storage.Store for tests.
type Store struct {
	mu      sync.Mutex
	dialect storage.Dialect
	entries []entry
	calls   []Call
}

// New creates an empty mock store.
func New(cfg Config) *Store {
	d := cfg.Dialect
	if d == "" {
		d = storage.SQLite
	}
	return &Store{dialect: d}
}

// On starts configuring the response for statements containing match.
func (s *Store) On(match string) *ResponseBuilder {
	return &ResponseBuilder{s: s, match: normalize(match)}
}

// Calls returns a copy of the recorded executions.
func (s *Store) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallCount returns how many recorded executions contain match.
func (s *Store) CallCount(match string) int {
	match = normalize(match)
	n := 0
	for _, c := range s.Calls() {
		if strings.Contains(normalize(c.SQL), match) {
			n++
		}
	}
	return n
}

func (s *Store) set(match string, fn func(*Response)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].match == match {
			fn(&s.entries[i].resp)
			return
		}
	}
	var r Response
	fn(&r)
	s.entries = append(s.entries, entry{match: match, resp: r})
}

func (s *Store) lookup(op, sqlText string, params []any) Response {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Op: op, SQL: sqlText, Params: append([]any(nil), params...)})
	norm := normalize(sqlText)
	for _, e := range s.entries {
		if strings.Contains(norm, e.match) {
			return e.resp
		}
	}
	return Response{}
}

func (s *Store) Dialect() storage.Dialect { return s.dialect }

func (s *Store) Prepare(sqlText string) storage.PreparedStatement {
	return &statement{s: s, text: sqlText}
}

func (s *Store) Exec(_ context.Context, script string) (storage.ExecResult, error) {
	resp := s.lookup(OpExec, script, nil)
	if resp.Err != nil {
		return storage.ExecResult{}, resp.Err
	}
	return storage.ExecResult{Count: 1}, nil
}

func (s *Store) Batch(ctx context.Context, stmts ...storage.PreparedStatement) ([]storage.Outcome, error) {
	s.lookup(OpBatch, "", nil)
	out := make([]storage.Outcome, 0, len(stmts))
	for _, st := range stmts {
		res, err := s.Prepare(st.SQL()).Bind(st.Params()...).Run(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

type statement struct {
	s    *Store
	text string
	args []any
}

func (st *statement) Bind(values ...any) storage.PreparedStatement {
	cp := *st
	cp.args = append([]any(nil), values...)
	return &cp
}

func (st *statement) SQL() string   { return st.text }
func (st *statement) Params() []any { return st.args }

func (st *statement) Run(ctx context.Context) (storage.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return storage.Outcome{}, err
	}
	resp := st.s.lookup(OpRun, st.text, st.args)
	if resp.Err != nil {
		return storage.Outcome{}, resp.Err
	}
	return storage.Outcome{Success: true, Meta: resp.Meta}, nil
}

func (st *statement) All(ctx context.Context) (storage.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return storage.Outcome{}, err
	}
	resp := st.s.lookup(OpAll, st.text, st.args)
	if resp.Err != nil {
		return storage.Outcome{}, resp.Err
	}
	rows := make([]storage.Row, 0, len(resp.Rows))
	for _, r := range resp.Rows {
		rows = append(rows, copyRow(r))
	}
	return storage.Outcome{
		Success: true,
		Columns: resp.Columns,
		Results: rows,
		Meta:    storage.Meta{RowsRead: int64(len(rows))},
	}, nil
}

func (st *statement) First(ctx context.Context) (storage.Row, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	resp := st.s.lookup(OpFirst, st.text, st.args)
	if resp.Err != nil {
		return nil, false, resp.Err
	}
	if len(resp.Rows) == 0 {
		return nil, false, nil
	}
	return copyRow(resp.Rows[0]), true, nil
}

func (st *statement) Raw(ctx context.Context) ([][]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp := st.s.lookup(OpRaw, st.text, st.args)
	if resp.Err != nil {
		return nil, resp.Err
	}
	out := make([][]any, 0, len(resp.Rows))
	for _, r := range resp.Rows {
		vals := make([]any, len(resp.Columns))
		for i, c := range resp.Columns {
			vals[i] = r[c]
		}
		out = append(out, vals)
	}
	return out, nil
}

func copyRow(r storage.Row) storage.Row {
	cp := make(storage.Row, len(r))
	for k, v := range r {
		cp[k] = v
	}
	return cp
}

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
