package seed

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"ledgerdash/query"
	"ledgerdash/storage"
	"ledgerdash/storage/storemock"
)

func sqliteClient(t *testing.T, name string) *query.Client {
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
	return query.NewClient(s, query.WithSourceDialect(storage.Postgres))
}

func count(t *testing.T, c *query.Client, table string) int64 {
	t.Helper()
	row, ok, err := c.Query("SELECT COUNT(*) AS n FROM " + table).First(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	return row["n"].(int64)
}

func TestPlaceholder(t *testing.T) {
	d, err := Placeholder()
	require.NoError(t, err)
	assert.Len(t, d.Users, 1)
	assert.Len(t, d.Customers, 6)
	assert.Len(t, d.Invoices, 13)
	assert.Len(t, d.Revenue, 12)
	assert.Equal(t, 32, d.Rows())

	customers := map[string]bool{}
	for _, c := range d.Customers {
		customers[c.ID] = true
	}
	for _, inv := range d.Invoices {
		assert.True(t, customers[inv.CustomerID], inv.ID)
		assert.Contains(t, []string{"pending", "paid"}, inv.Status)
	}
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	c := sqliteClient(t, "seed_sqlite")
	d, err := Placeholder()
	require.NoError(t, err)

	var last, calls int
	err = Seed(ctx, c, d, Options{Cost: bcrypt.MinCost, Progress: func(done, total int) {
		calls++
		last = done
		assert.Equal(t, 32, total)
	}})
	require.NoError(t, err)
	assert.Equal(t, 32, calls)
	assert.Equal(t, 32, last)

	assert.Equal(t, int64(1), count(t, c, "users"))
	assert.Equal(t, int64(6), count(t, c, "customers"))
	assert.Equal(t, int64(13), count(t, c, "invoices"))
	assert.Equal(t, int64(12), count(t, c, "revenue"))

	row, ok, err := c.Query("SELECT password FROM users WHERE email = ${}", "user@nextmail.com").First(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(row["password"].(string)), []byte("123456")))

	// Seeding again leaves existing rows alone.
	require.NoError(t, Seed(ctx, c, d, Options{Cost: bcrypt.MinCost}))
	assert.Equal(t, int64(13), count(t, c, "invoices"))
}

func TestSeed_MySQLRewrite(t *testing.T) {
	m := storemock.New(storemock.Config{Dialect: storage.MySQL})
	c := query.NewClient(m, query.WithSourceDialect(storage.Postgres))
	d := &Data{Revenue: []Revenue{{Month: "Jan", Revenue: 2000}}}

	require.NoError(t, Seed(context.Background(), c, d, Options{}))
	calls := m.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].SQL, "INSERT IGNORE INTO revenue")
	assert.NotContains(t, calls[0].SQL, "ON CONFLICT")
}
