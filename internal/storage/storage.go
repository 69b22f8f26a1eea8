// Package storage provides durable string-keyed slots for client-side state.
// Each backend stores opaque string values; callers own serialization.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Driver names accepted by Open.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

var (
	// ErrUnavailable indicates the backend cannot be used right now.
	ErrUnavailable = errors.New("storage: unavailable")
	// ErrInvalidKey indicates a key that is empty or not a single path segment.
	ErrInvalidKey = errors.New("storage: invalid key")
	// ErrUnknownDriver indicates an unsupported driver name.
	ErrUnknownDriver = errors.New("storage: unknown driver")
)

// Storage reads and writes whole values by key.
type Storage interface {
	// Get returns the value under key. found is false when the key was never set.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Set replaces the value under key.
	Set(ctx context.Context, key, value string) error
}

// Backend is a Storage that holds resources until closed.
type Backend interface {
	Storage
	io.Closer
}

// Open returns the backend for driver rooted at path.
// For the file driver path is a directory; for sqlite it is a database file.
func Open(driver, path string) (Backend, error) {
	switch driver {
	case DriverFile:
		return NewFileStore(path), nil
	case DriverSQLite:
		return OpenSQLite(path)
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}
