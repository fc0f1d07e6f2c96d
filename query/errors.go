package query

import (
	"errors"
	"fmt"
)

var (
	// ErrTemplateShape means the fragment and value counts do not line up.
	ErrTemplateShape = errors.New("template must have exactly one more fragment than values")

	// ErrStatement wraps every failure reported by the store while executing.
	ErrStatement = errors.New("statement failed")

	// ErrStoreUnavailable is the configuration error returned by Resolve.
	ErrStoreUnavailable = errors.New("database store not available")
)

// ConfigError reports a missing store binding.
type ConfigError struct {
	// Missing names the binding that could not be found.
	Missing string
	// Remedy tells a developer how to provide it locally.
	Remedy string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: make sure %s is attached to the request environment; for local development, use: %s",
		ErrStoreUnavailable, e.Missing, e.Remedy)
}

func (e *ConfigError) Unwrap() error { return ErrStoreUnavailable }
