// Package memstore provides an in-process StorageProvider used in development and tests.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/target/rfp-console/internal/ports"
)

// Provider keeps every session scope in memory. Scopes idle for longer than the TTL are
// dropped lazily on the next Open.
type Provider struct {
	mu     sync.Mutex
	scopes map[string]*Storage
	ttl    time.Duration
	now    func() time.Time
}

// Options configures a Provider.
type Options struct {
	// TTL is the idle lifetime of a scope. Zero keeps scopes forever.
	TTL time.Duration
	// Now overrides the clock for tests.
	Now func() time.Time
}

// New creates an empty Provider.
func New(opts Options) *Provider {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Provider{scopes: make(map[string]*Storage), ttl: opts.TTL, now: now}
}

// Open returns the Storage for scope, creating it on first use.
func (p *Provider) Open(scope string) ports.Storage {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	p.evictLocked(now)

	s, ok := p.scopes[scope]
	if !ok {
		s = &Storage{values: make(map[string]string)}
		p.scopes[scope] = s
	}
	s.touch(now)
	return s
}

// Len reports how many scopes are currently held.
func (p *Provider) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.scopes)
}

func (p *Provider) evictLocked(now time.Time) {
	if p.ttl <= 0 {
		return
	}
	for scope, s := range p.scopes {
		if now.Sub(s.lastUsed()) > p.ttl {
			delete(p.scopes, scope)
		}
	}
}

// Storage is a concurrency-safe map for one scope.
type Storage struct {
	mu     sync.RWMutex
	values map[string]string
	used   time.Time
}

func (s *Storage) touch(now time.Time) {
	s.mu.Lock()
	s.used = now
	s.mu.Unlock()
}

func (s *Storage) lastUsed() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.used
}

// Get returns the value for key or ports.ErrNotFound.
func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return "", ports.ErrNotFound
	}
	return v, nil
}

// Set stores value under key.
func (s *Storage) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Remove deletes keys.
func (s *Storage) Remove(ctx context.Context, keys ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}
