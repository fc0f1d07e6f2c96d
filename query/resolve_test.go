package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerdash/storage"
	"ledgerdash/storage/storemock"
)

func TestResolve_NoStore(t *testing.T) {
	_, err := Resolve(context.Background())
	require.ErrorIs(t, err, ErrStoreUnavailable)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "DB", cfgErr.Missing)
	assert.Contains(t, err.Error(), "DB")
	assert.Contains(t, err.Error(), "ledgerdash serve")
}

func TestResolve_Priority(t *testing.T) {
	env := storemock.New(storemock.Config{Dialect: storage.Postgres})
	fallback := storemock.New(storemock.Config{Dialect: storage.SQLite})
	process := storemock.New(storemock.Config{Dialect: storage.MySQL})

	tests := []struct {
		name string
		ctx  context.Context
		want storage.Store
	}{
		{"process only", WithProcessStore(context.Background(), process), process},
		{"fallback over process", SetStore(WithProcessStore(context.Background(), process), fallback), fallback},
		{"environment over fallback", SetEnvironment(SetStore(context.Background(), fallback), Environment{DB: env}), env},
		{"environment over all", SetEnvironment(SetStore(WithProcessStore(context.Background(), process), fallback), Environment{DB: env}), env},
		{"empty environment ignored", SetEnvironment(SetStore(context.Background(), fallback), Environment{}), fallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.ctx)
			require.NoError(t, err)
			assert.Same(t, tt.want, got)
		})
	}
}

func TestResolve_NotCached(t *testing.T) {
	first := storemock.New(storemock.Config{})
	second := storemock.New(storemock.Config{})

	got, err := Resolve(SetStore(context.Background(), first))
	require.NoError(t, err)
	assert.Same(t, first, got)

	got, err = Resolve(SetStore(context.Background(), second))
	require.NoError(t, err)
	assert.Same(t, second, got)

	_, err = Resolve(context.Background())
	require.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestFromContext(t *testing.T) {
	m := storemock.New(storemock.Config{})
	c, err := FromContext(SetStore(context.Background(), m))
	require.NoError(t, err)
	assert.Same(t, m, c.Store())

	_, err = FromContext(context.Background())
	require.ErrorIs(t, err, ErrStoreUnavailable)
}
