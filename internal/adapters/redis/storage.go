// Package redis provides Redis-backed adapters for the console's session storage.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/target/rfp-console/internal/ports"
)

const defaultPrefix = "rfpconsole:session:"

// StorageProvider hands out Redis-backed Storage scoped to a browser session.
// Each scope maps to a single Redis hash so Remove and expiry apply to the whole session.
type StorageProvider struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// StorageProviderOptions configures a StorageProvider.
type StorageProviderOptions struct {
	Client redis.UniversalClient
	// Prefix is prepended to every scope; defaults to "rfpconsole:session:".
	Prefix string
	// TTL is refreshed on every write. Zero disables expiry.
	TTL time.Duration
}

// NewStorageProvider creates a Redis storage provider.
func NewStorageProvider(opts StorageProviderOptions) *StorageProvider {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &StorageProvider{client: opts.Client, prefix: prefix, ttl: opts.TTL}
}

// Open returns the Storage bound to scope.
func (p *StorageProvider) Open(scope string) ports.Storage {
	return &Storage{client: p.client, key: p.prefix + scope, ttl: p.ttl}
}

// Storage is a single session's key space stored as fields of one Redis hash.
type Storage struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

// Get returns the field value or ports.ErrNotFound.
func (s *Storage) Get(ctx context.Context, field string) (string, error) {
	val, err := s.client.HGet(ctx, s.key, field).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ports.ErrNotFound
		}
		return "", fmt.Errorf("redis hget %s: %w", field, err)
	}
	return val, nil
}

// Set writes the field and refreshes the session TTL.
func (s *Storage) Set(ctx context.Context, field, value string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.key, field, value)
		if s.ttl > 0 {
			pipe.Expire(ctx, s.key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis hset %s: %w", field, err)
	}
	return nil
}

// Remove deletes the given fields.
func (s *Storage) Remove(ctx context.Context, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	if err := s.client.HDel(ctx, s.key, fields...).Err(); err != nil {
		return fmt.Errorf("redis hdel: %w", err)
	}
	return nil
}
