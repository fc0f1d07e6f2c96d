package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t, "DB", "DATABASE_URL")
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/ledgerdash.yaml", []byte("log:\n  level: debug\n"), 0o644))

	cfg, err := New(fs).Load("/etc/ledgerdash.yaml")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "postgres", cfg.Database.SourceDialect)
	assert.Equal(t, "sql", cfg.Sessions.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Sessions.TTL)
	assert.Equal(t, ":3000", cfg.HTTP.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 6, cfg.Dashboard.ItemsPerPage)
}

func TestLoad_FileAndEnv(t *testing.T) {
	clearEnv(t, "DB", "DATABASE_URL")
	fs := afero.NewMemMapFs()
	yaml := `
database:
  driver: pgx
  dsn: postgres://localhost/ledger
sessions:
  ttl: 2h
dashboard:
  items_per_page: 10
`
	require.NoError(t, afero.WriteFile(fs, "/cfg.yaml", []byte(yaml), 0o644))
	t.Setenv("LEDGERDASH_HTTP_ADDR", "127.0.0.1:8080")

	cfg, err := New(fs).Load("/cfg.yaml")
	require.NoError(t, err)
	assert.Equal(t, "pgx", cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/ledger", cfg.Database.DSN)
	assert.Equal(t, 2*time.Hour, cfg.Sessions.TTL)
	assert.Equal(t, 10, cfg.Dashboard.ItemsPerPage)
	assert.Equal(t, "127.0.0.1:8080", cfg.HTTP.Addr)
}

func TestLoad_DotEnvFeedsProcessDSN(t *testing.T) {
	clearEnv(t, "DB", "DATABASE_URL")
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cfg.yaml", []byte("{}\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, ".env", []byte("DATABASE_URL=file:from-env.db\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, ".env.local", []byte("DB=file:from-local.db\n"), 0o644))

	cfg, err := New(fs).Load("/cfg.yaml")
	require.NoError(t, err)
	assert.Equal(t, "file:from-local.db", cfg.Database.DSN)
	assert.Equal(t, "file:from-env.db", os.Getenv("DATABASE_URL"))
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := New(afero.NewMemMapFs()).Load("/nope.yaml")
	require.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t, "DB", "DATABASE_URL")
	tests := map[string]string{
		"driver":  "database:\n  driver: oracle\n",
		"backend": "sessions:\n  backend: redis\n",
		"mongo":   "sessions:\n  backend: mongo\n",
		"page":    "dashboard:\n  items_per_page: 0\n",
	}
	for name, yaml := range tests {
		t.Run(name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, "/cfg.yaml", []byte(yaml), 0o644))
			_, err := New(fs).Load("/cfg.yaml")
			require.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestWatch_NoFile(t *testing.T) {
	l := New(afero.NewMemMapFs())
	require.ErrorIs(t, l.Watch(func(*Config) {}), ErrNoConfigFile)
}
