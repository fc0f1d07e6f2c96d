package cli

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	_ "modernc.org/sqlite"

	"ledgerdash/auth"
	"ledgerdash/config"
	"ledgerdash/storage"
)

const defaultSQLiteDSN = "file:ledgerdash.db"

// openConn opens the driver connection named by cfg.
func openConn(ctx context.Context, cfg config.Database) (conn any, closeFn func(), err error) {
	dsn := cfg.DSN
	switch cfg.Driver {
	case "sqlite":
		if dsn == "" {
			dsn = defaultSQLiteDSN
		}
		db, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, nil, err
		}
		// SQLite serialises writers; a single connection avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
		return db, func() { _ = db.Close() }, nil
	case "pgx":
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		return pool, pool.Close, nil
	case "postgres", "mysql":
		if dsn == "" {
			return nil, nil, fmt.Errorf("driver %s needs --db, DB or DATABASE_URL", cfg.Driver)
		}
		db, err := sql.Open(cfg.Driver, dsn)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { _ = db.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown driver %q", cfg.Driver)
}

// openStore opens the configured store and bootstraps its schema.
func openStore(ctx context.Context, cfg *config.Config) (storage.Store, func(), error) {
	conn, closeFn, err := openConn(ctx, cfg.Database)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to open store", err)
	}
	m := storage.NewManager()
	if err := m.Start(conn); err != nil {
		closeFn()
		return nil, nil, WrapExitError(ExitCommandError, "failed to open store", err)
	}
	if err := m.Build(ctx); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("schema bootstrap failed: %w", err)
	}
	s, err := m.Store()
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return s, closeFn, nil
}

// openSessions returns the session store for cfg. With the sql backend it
// shares the dashboard store.
func openSessions(ctx context.Context, cfg *config.Config, store storage.Store) (auth.SessionStore, func(), error) {
	if cfg.Sessions.Backend != "mongo" {
		s, err := auth.NewSessionStore(store, cfg.Sessions.TTL)
		return s, func() {}, err
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to connect to mongo", err)
	}
	closeFn := func() { _ = client.Disconnect(context.Background()) }
	db := client.Database(cfg.Mongo.Database)

	m := storage.NewManager()
	if err := m.Start(db); err != nil {
		closeFn()
		return nil, nil, err
	}
	if err := m.Build(ctx); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("session index bootstrap failed: %w", err)
	}
	s, err := auth.NewSessionStore(db, cfg.Sessions.TTL)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return s, closeFn, nil
}
