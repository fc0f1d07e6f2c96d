package query

import (
	"context"
	"errors"
	"sync"

	"ledgerdash/storage"
)

type Row = storage.Row

// Resolvable is implemented by values exposing the four accessors of a query.
type Resolvable interface {
	All(ctx context.Context) ([]Row, error)
	First(ctx context.Context) (Row, bool, error)
	Run(ctx context.Context) (storage.Outcome, error)
	Raw(ctx context.Context) ([][]any, error)
}

var _ Resolvable = (*Result)(nil)

type memo[T any] struct {
	once sync.Once
	val  T
	err  error
}

func (m *memo[T]) do(fn func() (T, error)) (T, error) {
	m.once.Do(func() { m.val, m.err = fn() })
	return m.val, m.err
}

type firstRow struct {
	row Row
	ok  bool
}

// Result is the lazy outcome of one tagged template call. Each accessor
// executes the statement at most once; later calls, including calls with a
// different context, return the memoised value or error.
type Result struct {
	c    *Client
	stmt Statement
	err  error

	all   memo[[]Row]
	first memo[firstRow]
	run   memo[storage.Outcome]
	raw   memo[[][]any]
}

// Statement returns the compiled statement, or the template error.
func (r *Result) Statement() (Statement, error) {
	return r.stmt, r.err
}

// All returns every row, or an empty slice when the store reports none.
func (r *Result) All(ctx context.Context) ([]Row, error) {
	return r.all.do(func() ([]Row, error) {
		st, err := r.prepare()
		if err != nil {
			return nil, err
		}
		out, err := st.All(ctx)
		if err != nil {
			return nil, statementError(err)
		}
		if out.Results == nil {
			return []Row{}, nil
		}
		return out.Results, nil
	})
}

// First returns the first row. ok is false when there are no rows.
func (r *Result) First(ctx context.Context) (Row, bool, error) {
	fr, err := r.first.do(func() (firstRow, error) {
		st, err := r.prepare()
		if err != nil {
			return firstRow{}, err
		}
		row, ok, err := st.First(ctx)
		if err != nil {
			return firstRow{}, statementError(err)
		}
		return firstRow{row: row, ok: ok}, nil
	})
	return fr.row, fr.ok, err
}

// Run executes the statement for its side effect.
func (r *Result) Run(ctx context.Context) (storage.Outcome, error) {
	return r.run.do(func() (storage.Outcome, error) {
		st, err := r.prepare()
		if err != nil {
			return storage.Outcome{}, err
		}
		out, err := st.Run(ctx)
		if err != nil {
			return storage.Outcome{}, statementError(err)
		}
		return out, nil
	})
}

// Raw returns rows as positional values, without column names.
func (r *Result) Raw(ctx context.Context) ([][]any, error) {
	return r.raw.do(func() ([][]any, error) {
		st, err := r.prepare()
		if err != nil {
			return nil, err
		}
		out, err := st.Raw(ctx)
		if err != nil {
			return nil, statementError(err)
		}
		if out == nil {
			return [][]any{}, nil
		}
		return out, nil
	})
}

// Await resolves the result the way All does and shares its execution.
func (r *Result) Await(ctx context.Context) ([]Row, error) {
	return r.All(ctx)
}

// Async starts All in the background.
func (r *Result) Async(ctx context.Context) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.rows, f.err = r.All(ctx)
	}()
	return f
}

func (r *Result) prepare() (storage.PreparedStatement, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.c.logger != nil {
		r.c.logger.Debug("executing statement", "sql", r.stmt.SQL, "params", len(r.stmt.Params))
	}
	st := r.c.store.Prepare(r.stmt.SQL)
	if len(r.stmt.Params) > 0 {
		st = st.Bind(r.stmt.Params...)
	}
	return st, nil
}

// Future is the eventual value of Result.All.
type Future struct {
	done chan struct{}
	rows []Row
	err  error
}

// Wait blocks until the rows are available.
func (f *Future) Wait() ([]Row, error) {
	<-f.done
	return f.rows, f.err
}

// Done is closed once the rows are available.
func (f *Future) Done() <-chan struct{} { return f.done }

func statementError(err error) error {
	return errors.Join(ErrStatement, err)
}
