package ports

// Package ports defines interfaces (hexagonal ports) for storage behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Storage.Get when a key is absent.
var ErrNotFound = errors.New("storage: key not found")

// Storage persists string values for a single browser session.
type Storage interface {
	// Get returns the value for key or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Remove deletes the given keys. Missing keys are not an error.
	Remove(ctx context.Context, keys ...string) error
}

// StorageProvider opens the Storage bound to an opaque browser-session scope.
type StorageProvider interface {
	Open(scope string) Storage
}
