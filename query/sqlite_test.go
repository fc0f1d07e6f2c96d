package query

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerdash/storage"
)

func sqliteClient(t *testing.T, name string, opts ...Option) *Client {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+name+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	m := storage.NewManager()
	require.NoError(t, m.Start(db))
	require.NoError(t, m.Build(context.Background()))
	s, err := m.Store()
	require.NoError(t, err)
	return NewClient(s, opts...)
}

func TestSQLite_HostileValueStoredVerbatim(t *testing.T) {
	ctx := context.Background()
	c := sqliteClient(t, "query_hostile")
	evil := "'; DROP TABLE users; --"

	_, err := c.Query("INSERT INTO customers (id, name, email, image_url) VALUES (${}, ${}, ${}, ${})",
		"c1", evil, "evil@example.com", "/e.png").Run(ctx)
	require.NoError(t, err)

	row, ok, err := c.Query("SELECT name FROM customers WHERE name = ${}", evil).First(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, evil, row["name"])

	_, err = c.Query("SELECT COUNT(*) AS n FROM users").All(ctx)
	require.NoError(t, err, "users table still exists")
}

func TestSQLite_PostgresTemplates(t *testing.T) {
	ctx := context.Background()
	c := sqliteClient(t, "query_pg_templates", WithSourceDialect(storage.Postgres))

	_, err := c.Batch(ctx,
		c.Query("INSERT INTO invoices (id, customer_id, amount, status, date) VALUES (${}, ${}, ${}, ${}, ${})",
			"i1", "c1", 4995, "paid", "2024-01-02"),
		c.Query("INSERT INTO invoices (id, customer_id, amount, status, date) VALUES (${}, ${}, ${}, ${}, ${})",
			"i2", "c1", 100, "pending", "2024-01-03"),
	)
	require.NoError(t, err)

	rows, err := c.Query("SELECT id FROM invoices WHERE status ILIKE ${} OR amount::text ILIKE ${} ORDER BY id",
		"%PAID%", "%499%").All(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "i1", rows[0]["id"])

	row, ok, err := c.Query(`SELECT SUM(amount)::integer AS total FROM invoices`).First(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.EqualValues(t, 5095, row["total"])
}

func TestSQLite_BatchIsAtomic(t *testing.T) {
	ctx := context.Background()
	c := sqliteClient(t, "query_batch_atomic")

	_, err := c.Batch(ctx,
		c.Query("INSERT INTO revenue (month, revenue) VALUES (${}, ${})", "Jan", 1),
		c.Query("INSERT INTO revenue (month, revenue) VALUES (${}, ${})", "Jan", 2),
	)
	require.ErrorIs(t, err, ErrStatement)
	assert.True(t, storage.IsConstraintViolation(err))

	rows, err := c.Query("SELECT * FROM revenue").All(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
