package query

import (
	"context"
	"fmt"
	"log/slog"

	"ledgerdash/storage"
)

// Client issues tagged templates against one store.
type Client struct {
	store  storage.Store
	logger *slog.Logger
	source storage.Dialect
}

type Option func(*Client)

// WithLogger logs every statement at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithSourceDialect declares the dialect hand-written templates are written
// in. Compiled SQL is rewritten for the store when a rewriter exists for the
// pair.
func WithSourceDialect(d storage.Dialect) Option {
	return func(c *Client) { c.source = d }
}

func NewClient(store storage.Store, opts ...Option) *Client {
	c := &Client{store: store}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Store() storage.Store     { return c.store }
func (c *Client) Dialect() storage.Dialect { return c.store.Dialect() }

// SQL is the tag function: fragments and values alternate, starting and
// ending with a fragment.
func (c *Client) SQL(fragments []string, values ...any) *Result {
	stmt, err := Build(fragments, values...)
	if err == nil {
		// Only placeholder text is rewritten; bound values stay out of reach.
		if rw := RewriterFor(c.source, c.store.Dialect()); rw != nil {
			stmt.SQL = rw(stmt.SQL)
		}
	}
	return &Result{c: c, stmt: stmt, err: err}
}

// Query is SQL with the fragments given as one Marker-separated string.
func (c *Client) Query(text string, values ...any) *Result {
	return c.SQL(Split(text), values...)
}

// Begin calls fn with the same client. It provides no atomicity, isolation
// or rollback: statements issued by fn run exactly as they would outside it.
// Use Batch for statements that must apply together.
func (c *Client) Begin(ctx context.Context, fn func(*Client) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(c)
}

// Batch runs the statements of results in order inside one store transaction.
func (c *Client) Batch(ctx context.Context, results ...*Result) ([]storage.Outcome, error) {
	stmts := make([]storage.PreparedStatement, 0, len(results))
	for i, r := range results {
		st, err := r.prepare()
		if err != nil {
			return nil, fmt.Errorf("batch entry %d: %w", i, err)
		}
		stmts = append(stmts, st)
	}
	out, err := c.store.Batch(ctx, stmts...)
	if err != nil {
		return nil, statementError(err)
	}
	return out, nil
}

// Exec runs an unparameterised script, typically schema statements.
func (c *Client) Exec(ctx context.Context, script string) (storage.ExecResult, error) {
	if rw := RewriterFor(c.source, c.store.Dialect()); rw != nil {
		script = rw(script)
	}
	res, err := c.store.Exec(ctx, script)
	if err != nil {
		return storage.ExecResult{}, statementError(err)
	}
	return res, nil
}
