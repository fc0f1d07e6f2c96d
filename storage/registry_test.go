package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestOpenStore_SQLDB(t *testing.T) {
	s, err := OpenStore(openSQLite(t, "registry_sql"))
	require.NoError(t, err)
	assert.Equal(t, SQLite, s.Dialect())
}

func TestOpenStore_StorePassthrough(t *testing.T) {
	in := NewSQLStore(openSQLite(t, "registry_pass"))
	out, err := OpenStore(in)
	require.NoError(t, err)
	assert.Same(t, in, out)
}

func TestOpenStore_UnknownConnection(t *testing.T) {
	_, err := OpenStore("not a connection")
	require.ErrorIs(t, err, ErrNoAdapter)
}

func TestManager_MongoIsNotSQL(t *testing.T) {
	// Connect is lazy; no server is contacted here.
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI("mongodb://127.0.0.1:1"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	m := NewManager()
	require.NoError(t, m.Start(client.Database("ledgerdash_test")))
	assert.Equal(t, MongoDB, m.Dialect())

	_, err = m.Store()
	require.ErrorIs(t, err, ErrNotSQL)

	_, err = OpenStore(client.Database("ledgerdash_test"))
	require.ErrorIs(t, err, ErrNotSQL)
}

func TestManager_NotStarted(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Start(nil))
	_, err := m.Store()
	require.ErrorIs(t, err, ErrNotStarted)
	assert.NoError(t, m.Build(context.Background()))
	assert.Equal(t, Dialect(""), m.Dialect())
}
