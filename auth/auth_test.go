package auth

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"ledgerdash/query"
	"ledgerdash/storage"
	"ledgerdash/storage/storemock"
)

func sqliteStore(t *testing.T, name string) storage.Store {
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
	return s
}

func withUser(t *testing.T, name string) context.Context {
	t.Helper()
	s := sqliteStore(t, name)
	hash, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.MinCost)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = query.NewClient(s).Query("INSERT INTO users (id, name, email, password) VALUES (${}, ${}, ${}, ${})",
		"u1", "User", "user@nextmail.com", string(hash)).Run(ctx)
	require.NoError(t, err)
	return query.SetStore(ctx, s)
}

func TestCredentials_Validate(t *testing.T) {
	assert.NoError(t, Credentials{Email: "user@nextmail.com", Password: "123456"}.Validate())

	for _, c := range []Credentials{
		{Email: "not-an-email", Password: "123456"},
		{Email: "User <user@nextmail.com>", Password: "123456"},
		{Email: "user@nextmail.com", Password: "12345"},
		{},
	} {
		assert.ErrorIs(t, c.Validate(), ErrInvalidCredentials, c.Email)
	}
}

func TestAuthorize(t *testing.T) {
	ctx := withUser(t, "auth_authorize")
	a := &Authenticator{}

	u, err := a.Authorize(ctx, Credentials{Email: "user@nextmail.com", Password: "123456"})
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "User", u.Name)

	tests := []Credentials{
		{Email: "user@nextmail.com", Password: "wrong-password"},
		{Email: "nobody@nextmail.com", Password: "123456"},
		{Email: "user@nextmail.com", Password: "123"},
	}
	for _, c := range tests {
		u, err := a.Authorize(ctx, c)
		require.NoError(t, err)
		assert.Nil(t, u)
	}
}

func TestAuthorize_StoreFailure(t *testing.T) {
	m := storemock.New(storemock.Config{})
	m.On("FROM users").ReturnError(errors.New("no such table: users"))

	_, err := (&Authenticator{}).Authorize(query.SetStore(context.Background(), m),
		Credentials{Email: "user@nextmail.com", Password: "123456"})
	require.ErrorIs(t, err, ErrFetchUser)
	require.ErrorIs(t, err, query.ErrStatement)

	_, err = (&Authenticator{}).GetUser(context.Background(), "user@nextmail.com")
	require.ErrorIs(t, err, query.ErrStoreUnavailable)
}

func TestHashPassword(t *testing.T) {
	h, err := HashPassword("123456")
	require.NoError(t, err)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(h), []byte("123456")))
	cost, err := bcrypt.Cost([]byte(h))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
