// Package auth contains hand-written test doubles and fixtures for session handling.
// They are lightweight and suitable for unit tests without codegen.
package auth

import (
	"context"
	"errors"
	"sync"

	domainauth "github.com/target/rfp-console/internal/domain/auth"
	"github.com/target/rfp-console/internal/ports"
)

var _ ports.Storage = (*FailingStorage)(nil)

// ErrStorageUnavailable is the default error returned by FailingStorage.
var ErrStorageUnavailable = errors.New("storage unavailable")

// FailingStorage wraps an optional backing map and fails selected operations.
// A nil error field means the operation succeeds against the backing map.
type FailingStorage struct {
	GetErr    error
	SetErr    error
	RemoveErr error
	// FailSetKey limits SetErr to a single key when non-empty.
	FailSetKey string

	mu     sync.Mutex
	values map[string]string
	calls  []string
}

// NewFailingStorage returns a FailingStorage whose every operation fails with ErrStorageUnavailable.
func NewFailingStorage() *FailingStorage {
	return &FailingStorage{
		GetErr:    ErrStorageUnavailable,
		SetErr:    ErrStorageUnavailable,
		RemoveErr: ErrStorageUnavailable,
	}
}

// Seed stores a value directly, bypassing configured failures.
func (f *FailingStorage) Seed(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.values == nil {
		f.values = make(map[string]string)
	}
	f.values[key] = value
}

// Calls returns the operations performed, e.g. "set:token".
func (f *FailingStorage) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *FailingStorage) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "get:"+key)
	if f.GetErr != nil {
		return "", f.GetErr
	}
	v, ok := f.values[key]
	if !ok {
		return "", ports.ErrNotFound
	}
	return v, nil
}

func (f *FailingStorage) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "set:"+key)
	if f.SetErr != nil && (f.FailSetKey == "" || f.FailSetKey == key) {
		return f.SetErr
	}
	if f.values == nil {
		f.values = make(map[string]string)
	}
	f.values[key] = value
	return nil
}

func (f *FailingStorage) Remove(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		f.calls = append(f.calls, "remove:"+k)
	}
	if f.RemoveErr != nil {
		return f.RemoveErr
	}
	for _, k := range keys {
		delete(f.values, k)
	}
	return nil
}

// AdminProfile is a fixture administrator.
func AdminProfile() domainauth.Profile {
	return domainauth.Profile{ID: "1", Role: domainauth.RoleAdmin, Name: "Asha Admin", Email: "admin@example.com"}
}

// VendorProfile is a fixture vendor.
func VendorProfile() domainauth.Profile {
	return domainauth.Profile{ID: "42", Role: domainauth.RoleVendor, Name: "Vik Vendor", Email: "vendor@example.com"}
}

// SessionFor builds an authenticated session for p.
func SessionFor(p domainauth.Profile) domainauth.Session {
	return domainauth.Session{Token: "token-" + p.ID, Profile: &p}
}
