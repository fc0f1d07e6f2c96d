package storage

import (
	"context"
	"errors"
)

type Manager struct {
	adapter Adapter
	driver  Driver
}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) Start(conn any) error {
	if conn == nil {
		return nil
	}
	a, err := RegistryAdapter(conn)
	if err != nil {
		return err
	}
	d, err := RegistryDriver(a)
	if err != nil {
		return err
	}
	m.adapter = a
	m.driver = d
	return nil
}

func (m *Manager) Adapter() Adapter { return m.adapter }
func (m *Manager) Driver() Driver   { return m.driver }
func (m *Manager) Dialect() Dialect {
	if m.adapter == nil {
		return ""
	}
	return m.adapter.Dialect()
}

// Store returns the started adapter when it can run SQL.
func (m *Manager) Store() (Store, error) {
	if m.adapter == nil {
		return nil, ErrNotStarted
	}
	s, ok := m.adapter.(Store)
	if !ok {
		return nil, ErrNotSQL
	}
	return s, nil
}

// Build bootstraps the schema for the started backend.
func (m *Manager) Build(ctx context.Context) error {
	if m.driver == nil {
		return nil
	}
	return m.driver.Migrate(ctx)
}

var (
	ErrNoAdapter  = errors.New("no adapter registered for connection type")
	ErrNotStarted = errors.New("storage manager not started")
	ErrNotSQL     = errors.New("adapter does not support SQL statements")
)
