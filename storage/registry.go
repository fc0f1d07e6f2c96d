package storage

import (
	"context"
	"fmt"
)

type Adapter interface {
	Dialect() Dialect
}

type Driver interface {
	Dialect() Dialect
	Migrate(ctx context.Context) error
}

type adapterMatcher func(conn any) bool
type adapterFactory func(conn any) (Adapter, error)
type driverFactory func(adapter Adapter) (Driver, error)

var (
	adapterRegistry = make([]struct {
		match   adapterMatcher
		factory adapterFactory
	}, 0)
	driverRegistry = make(map[Dialect]driverFactory)
)

func RegisterAdapter(match adapterMatcher, factory adapterFactory) {
	adapterRegistry = append(adapterRegistry, struct {
		match   adapterMatcher
		factory adapterFactory
	}{match: match, factory: factory})
}

func RegisterDriver(dialect Dialect, factory driverFactory) {
	driverRegistry[dialect] = factory
}

// RegistryAdapter returns the adapter for the first matcher accepting conn.
func RegistryAdapter(conn any) (Adapter, error) {
	for _, entry := range adapterRegistry {
		if entry.match(conn) {
			return entry.factory(conn)
		}
	}
	return nil, fmt.Errorf("%w: %T", ErrNoAdapter, conn)
}

func RegistryDriver(adapter Adapter) (Driver, error) {
	dialect := adapter.Dialect()
	f, ok := driverRegistry[dialect]
	if !ok {
		return nil, fmt.Errorf("no driver registered for dialect: %s", dialect)
	}
	return f(adapter)
}

// OpenStore resolves conn to a Store through the adapter registry.
func OpenStore(conn any) (Store, error) {
	a, err := RegistryAdapter(conn)
	if err != nil {
		return nil, err
	}
	s, ok := a.(Store)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotSQL, a.Dialect())
	}
	return s, nil
}
