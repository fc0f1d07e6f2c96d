package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxStore adapts a native pgx pool to the Store interface.
type PgxStore struct {
	Pool *pgxpool.Pool
}

func (s *PgxStore) Dialect() Dialect { return Postgres }

func isPgxPool(conn any) bool {
	_, ok := conn.(*pgxpool.Pool)
	return ok
}

func newPgxAdapter(conn any) (Adapter, error) {
	return &PgxStore{Pool: conn.(*pgxpool.Pool)}, nil
}

func (s *PgxStore) Prepare(sqlText string) PreparedStatement {
	return &pgxStatement{q: s.Pool, text: sqlText}
}

func (s *PgxStore) Exec(ctx context.Context, script string) (ExecResult, error) {
	start := time.Now()
	// Without arguments pgx uses the simple protocol, which accepts several statements.
	if _, err := s.Pool.Exec(ctx, script); err != nil {
		return ExecResult{}, err
	}
	return ExecResult{Count: countStatements(script), Duration: time.Since(start)}, nil
}

func (s *PgxStore) Batch(ctx context.Context, stmts ...PreparedStatement) ([]Outcome, error) {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	out := make([]Outcome, 0, len(stmts))
	for i, st := range stmts {
		bound := &pgxStatement{q: tx, text: st.SQL(), args: st.Params()}
		res, err := bound.Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("batch statement %d failed: %w", i, err)
		}
		out = append(out, res)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

type pgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type pgxStatement struct {
	q    pgxQuerier
	text string
	args []any
}

func (st *pgxStatement) Bind(values ...any) PreparedStatement {
	cp := *st
	cp.args = append([]any(nil), values...)
	return &cp
}

func (st *pgxStatement) SQL() string   { return st.text }
func (st *pgxStatement) Params() []any { return st.args }

func (st *pgxStatement) Run(ctx context.Context) (Outcome, error) {
	start := time.Now()
	tag, err := st.q.Exec(ctx, Rebind(Postgres, st.text), st.args...)
	if err != nil {
		return Outcome{}, err
	}
	changes := tag.RowsAffected()
	return Outcome{
		Success: true,
		Meta: Meta{
			Duration:    time.Since(start),
			RowsWritten: changes,
			Changes:     changes,
			ChangedDB:   changes > 0,
		},
	}, nil
}

func (st *pgxStatement) All(ctx context.Context) (Outcome, error) {
	start := time.Now()
	cols, values, err := st.query(ctx, -1)
	if err != nil {
		return Outcome{}, err
	}
	results := make([]Row, 0, len(values))
	for _, vals := range values {
		results = append(results, toRow(cols, vals))
	}
	return Outcome{
		Success: true,
		Columns: cols,
		Results: results,
		Meta:    Meta{Duration: time.Since(start), RowsRead: int64(len(results))},
	}, nil
}

func (st *pgxStatement) First(ctx context.Context) (Row, bool, error) {
	cols, values, err := st.query(ctx, 1)
	if err != nil {
		return nil, false, err
	}
	if len(values) == 0 {
		return nil, false, nil
	}
	return toRow(cols, values[0]), true, nil
}

func (st *pgxStatement) Raw(ctx context.Context) ([][]any, error) {
	_, values, err := st.query(ctx, -1)
	return values, err
}

func (st *pgxStatement) query(ctx context.Context, limit int) ([]string, [][]any, error) {
	rows, err := st.q.Query(ctx, Rebind(Postgres, st.text), st.args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Name
	}

	out := make([][]any, 0)
	for rows.Next() {
		if limit >= 0 && len(out) >= limit {
			break
		}
		values, err := rows.Values()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i := range values {
			values[i] = normalizePgValue(values[i])
		}
		out = append(out, values)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return cols, out, nil
}

// SUM over integer columns comes back as NUMERIC.
func normalizePgValue(v any) any {
	n, ok := v.(pgtype.Numeric)
	if !ok {
		return normalizeValue(v)
	}
	if !n.Valid {
		return nil
	}
	if n.Exp >= 0 {
		if i, err := n.Int64Value(); err == nil && i.Valid {
			return i.Int64
		}
	}
	if f, err := n.Float64Value(); err == nil && f.Valid {
		return f.Float64
	}
	return nil
}
