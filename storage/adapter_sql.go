package storage

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// SQLStore adapts a database/sql pool to the Store interface.
type SQLStore struct {
	DB      *sql.DB
	dialect Dialect
}

func (s *SQLStore) Dialect() Dialect { return s.dialect }

func isSQLDB(conn any) bool {
	_, ok := conn.(*sql.DB)
	return ok
}

func newSQLAdapter(conn any) (Adapter, error) {
	db := conn.(*sql.DB)
	return NewSQLStore(db), nil
}

// NewSQLStore wraps db, detecting the dialect from its driver.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{DB: db, dialect: detectDialect(db.Driver())}
}

// best-effort dialect detection from the driver's type and package path
func detectDialect(driver any) Dialect {
	t := reflect.TypeOf(driver)
	name := strings.ToLower(fmt.Sprintf("%T", driver))
	if t != nil && t.Kind() == reflect.Pointer {
		name += " " + strings.ToLower(t.Elem().PkgPath())
	}
	switch {
	case strings.Contains(name, "sqlite"):
		return SQLite
	case strings.Contains(name, "mysql"):
		return MySQL
	case strings.Contains(name, "pgx"), strings.Contains(name, "lib/pq"), strings.Contains(name, "postgres"):
		return Postgres
	}
	return Postgres
}

func (s *SQLStore) Prepare(sqlText string) PreparedStatement {
	return &sqlStatement{q: s.DB, dialect: s.dialect, text: sqlText}
}

func (s *SQLStore) Exec(ctx context.Context, script string) (ExecResult, error) {
	start := time.Now()
	if _, err := s.DB.ExecContext(ctx, script); err != nil {
		return ExecResult{}, err
	}
	return ExecResult{Count: countStatements(script), Duration: time.Since(start)}, nil
}

func (s *SQLStore) Batch(ctx context.Context, stmts ...PreparedStatement) ([]Outcome, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	out := make([]Outcome, 0, len(stmts))
	for i, st := range stmts {
		bound := &sqlStatement{q: tx, dialect: s.dialect, text: st.SQL(), args: st.Params()}
		res, err := bound.Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("batch statement %d failed: %w", i, err)
		}
		out = append(out, res)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

type sqlQuerier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type sqlStatement struct {
	q       sqlQuerier
	dialect Dialect
	text    string
	args    []any
}

func (st *sqlStatement) Bind(values ...any) PreparedStatement {
	cp := *st
	cp.args = append([]any(nil), values...)
	return &cp
}

func (st *sqlStatement) SQL() string   { return st.text }
func (st *sqlStatement) Params() []any { return st.args }

func (st *sqlStatement) Run(ctx context.Context) (Outcome, error) {
	start := time.Now()
	res, err := st.q.ExecContext(ctx, Rebind(st.dialect, st.text), st.args...)
	if err != nil {
		return Outcome{}, err
	}

	changes, _ := res.RowsAffected()
	// Not every driver reports insert ids (pgx, lib/pq).
	lastID, _ := res.LastInsertId()

	return Outcome{
		Success: true,
		Meta: Meta{
			Duration:    time.Since(start),
			RowsWritten: changes,
			LastRowID:   lastID,
			Changes:     changes,
			ChangedDB:   changes > 0,
		},
	}, nil
}

func (st *sqlStatement) All(ctx context.Context) (Outcome, error) {
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
		Meta: Meta{
			Duration: time.Since(start),
			RowsRead: int64(len(results)),
		},
	}, nil
}

func (st *sqlStatement) First(ctx context.Context) (Row, bool, error) {
	cols, values, err := st.query(ctx, 1)
	if err != nil {
		return nil, false, err
	}
	if len(values) == 0 {
		return nil, false, nil
	}
	return toRow(cols, values[0]), true, nil
}

func (st *sqlStatement) Raw(ctx context.Context) ([][]any, error) {
	_, values, err := st.query(ctx, -1)
	if err != nil {
		return nil, err
	}
	return values, nil
}

// query reads at most limit rows; a negative limit reads them all.
func (st *sqlStatement) query(ctx context.Context, limit int) ([]string, [][]any, error) {
	rows, err := st.q.QueryContext(ctx, Rebind(st.dialect, st.text), st.args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get columns: %w", err)
	}

	out := make([][]any, 0)
	for rows.Next() {
		if limit >= 0 && len(out) >= limit {
			break
		}
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i := range values {
			values[i] = normalizeValue(values[i])
		}
		out = append(out, values)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return cols, out, nil
}

func toRow(cols []string, values []any) Row {
	row := make(Row, len(cols))
	for i, col := range cols {
		row[col] = values[i]
	}
	return row
}
