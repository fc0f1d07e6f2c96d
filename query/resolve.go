package query

import (
	"context"

	"ledgerdash/storage"
)

// Environment is the binding bag an outer runtime attaches to a request
// before handling it.
type Environment struct {
	DB storage.Store
}

type (
	envKey     struct{}
	storeKey   struct{}
	processKey struct{}
)

// SetEnvironment returns a context carrying env in the environment slot.
func SetEnvironment(ctx context.Context, env Environment) context.Context {
	return context.WithValue(ctx, envKey{}, env)
}

// SetStore returns a context carrying s in the development fallback slot.
func SetStore(ctx context.Context, s storage.Store) context.Context {
	return context.WithValue(ctx, storeKey{}, s)
}

// WithProcessStore returns a context carrying s in the process slot, the store
// a process opened at boot from its DB environment variable.
func WithProcessStore(ctx context.Context, s storage.Store) context.Context {
	return context.WithValue(ctx, processKey{}, s)
}

// Resolve returns the store for ctx. The environment slot wins over the
// development fallback, which wins over the process slot. Nothing is cached:
// every call looks again, and Resolve never opens a store itself.
func Resolve(ctx context.Context) (storage.Store, error) {
	if env, ok := ctx.Value(envKey{}).(Environment); ok && env.DB != nil {
		return env.DB, nil
	}
	if s, ok := ctx.Value(storeKey{}).(storage.Store); ok && s != nil {
		return s, nil
	}
	if s, ok := ctx.Value(processKey{}).(storage.Store); ok && s != nil {
		return s, nil
	}
	return nil, &ConfigError{
		Missing: "DB",
		Remedy:  "ledgerdash serve --driver sqlite --db file:ledgerdash.db",
	}
}

// FromContext resolves the store for ctx and wraps it in a new Client.
func FromContext(ctx context.Context, opts ...Option) (*Client, error) {
	s, err := Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return NewClient(s, opts...), nil
}
