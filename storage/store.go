package storage

import (
	"context"
	"time"
)

type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
	MongoDB  Dialect = "mongodb"
)

// Row maps column names to scalar values. Byte slices returned by a driver
// are surfaced as strings.
type Row map[string]any

// Meta carries the store-specific metadata of one execution.
type Meta struct {
	Duration    time.Duration
	RowsRead    int64
	RowsWritten int64
	LastRowID   int64
	Changes     int64
	ChangedDB   bool
}

// Outcome is produced once per statement execution. Results is only populated
// by PreparedStatement.All.
type Outcome struct {
	Success bool
	Columns []string
	Results []Row
	Meta    Meta
}

// ExecResult describes a multi-statement script run through Store.Exec.
type ExecResult struct {
	Count    int
	Duration time.Duration
}

// Store is a capability bound to one backing store instance.
type Store interface {
	Adapter

	// Prepare returns a statement for sqlText. sqlText uses "?" placeholders
	// regardless of dialect; nothing is sent to the store until execution.
	Prepare(sqlText string) PreparedStatement

	// Exec runs a script of one or more statements without binding.
	Exec(ctx context.Context, script string) (ExecResult, error)

	// Batch runs write statements in order inside a single transaction.
	Batch(ctx context.Context, stmts ...PreparedStatement) ([]Outcome, error)
}

// PreparedStatement is a statement prepared against a Store.
type PreparedStatement interface {
	// Bind returns a copy of the statement bound to values.
	Bind(values ...any) PreparedStatement

	Run(ctx context.Context) (Outcome, error)
	All(ctx context.Context) (Outcome, error)
	First(ctx context.Context) (Row, bool, error)
	Raw(ctx context.Context) ([][]any, error)

	SQL() string
	Params() []any
}

func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

func countStatements(script string) int {
	n := 0
	for _, part := range splitStatements(script) {
		if part != "" {
			n++
		}
	}
	return n
}
