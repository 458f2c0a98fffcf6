package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// SessionBackend selects where browser sessions are stored.
type SessionBackend string

const (
	// SessionBackendMemory keeps sessions in process memory. Sessions do not survive restarts
	// and are not shared between replicas.
	SessionBackendMemory SessionBackend = "memory"
	// SessionBackendRedis keeps sessions in Redis.
	SessionBackendRedis SessionBackend = "redis"
)

// UnmarshalText implements encoding.TextUnmarshaler for SessionBackend.
func (b *SessionBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "memory", "redis":
		*b = SessionBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid SessionBackend: %q (valid options: memory, redis)", v)
	}
}

const (
	defaultSessionTTL        = 12 * time.Hour
	defaultSessionCookieName = "session_id"
)

// SessionConfig controls browser session storage and the session cookie.
type SessionConfig struct {
	Backend SessionBackend `env:"BACKEND" envDefault:"memory"`

	// TTL is the idle lifetime of stored sessions and the session cookie.
	TTL time.Duration `env:"TTL" envDefault:"12h"`

	// CookieName names the opaque browser-session cookie.
	CookieName string `env:"COOKIE_NAME" envDefault:"session_id"`

	// KeyPrefix namespaces session hashes in Redis.
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"rfpconsole:session:"`
}

// Sanitize restores defaults for blank or non-positive values.
func (s *SessionConfig) Sanitize() {
	if s.Backend == "" {
		s.Backend = SessionBackendMemory
	}
	if s.TTL <= 0 {
		s.TTL = defaultSessionTTL
	}
	if s.CookieName = strings.TrimSpace(s.CookieName); s.CookieName == "" {
		s.CookieName = defaultSessionCookieName
	}
	s.KeyPrefix = strings.TrimSpace(s.KeyPrefix)
}

// Validate checks the cookie name is usable in a Set-Cookie header.
func (s *SessionConfig) Validate() error {
	if strings.ContainsAny(s.CookieName, " \t;,=\"") {
		return errors.New("SESSION_COOKIE_NAME contains characters not allowed in a cookie name")
	}
	return nil
}
