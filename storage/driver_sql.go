package storage

import (
	"context"
	"fmt"
)

const schemaVersion = 1

type SQLDriver struct {
	s       Store
	dialect Dialect
}

func newSQLDriver(dialect Dialect) driverFactory {
	return func(adapter Adapter) (Driver, error) {
		s, ok := adapter.(Store)
		if !ok {
			return nil, fmt.Errorf("sql driver expects a Store, got %T", adapter)
		}
		return &SQLDriver{s: s, dialect: dialect}, nil
	}
}

func (d *SQLDriver) Dialect() Dialect { return d.dialect }

// Migrate creates the dashboard tables. Versions only move forward; there is
// no diffing and no down path.
func (d *SQLDriver) Migrate(ctx context.Context) error {
	if d.s == nil {
		return nil
	}

	var migrations map[int][]string
	switch d.dialect {
	case SQLite:
		migrations = sqliteMigrations
	case Postgres:
		migrations = postgresMigrations
	case MySQL:
		migrations = mysqlMigrations
	default:
		return fmt.Errorf("unsupported SQL dialect: %s", d.dialect)
	}

	currentVersion := d.getSchemaVersion(ctx)
	if currentVersion >= schemaVersion {
		return nil
	}

	stmts := make([]PreparedStatement, 0)
	for v := currentVersion + 1; v <= schemaVersion; v++ {
		ops, ok := migrations[v]
		if !ok {
			continue
		}
		for _, op := range ops {
			stmts = append(stmts, d.s.Prepare(op))
		}

		if currentVersion == 0 {
			stmts = append(stmts, d.s.Prepare("INSERT INTO ledgerdash_schema_version (num) VALUES (?)").Bind(v))
		} else {
			stmts = append(stmts, d.s.Prepare("UPDATE ledgerdash_schema_version SET num = ?").Bind(v))
		}
		currentVersion = v
	}

	if _, err := d.s.Batch(ctx, stmts...); err != nil {
		return fmt.Errorf("migration to version %d failed: %w", currentVersion, err)
	}
	return nil
}

func (d *SQLDriver) getSchemaVersion(ctx context.Context) int {
	row, ok, err := d.s.Prepare("SELECT num FROM ledgerdash_schema_version LIMIT 1").First(ctx)
	if err != nil || !ok {
		return 0
	}
	switch v := row["num"].(type) {
	case int64:
		return int(v)
	case int32:
		return int(v)
	case int:
		return v
	}
	return 0
}
