package service

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	domainauth "github.com/target/rfp-console/internal/domain/auth"
	"github.com/target/rfp-console/internal/domain/model"
	"github.com/target/rfp-console/internal/observability/metrics"
	"github.com/target/rfp-console/internal/observability/statsd"
	"github.com/target/rfp-console/internal/ports"
)

// Storage keys for the persisted session pair.
const (
	KeyToken    = "token"
	KeyUserInfo = "userInfo"
)

const profileSchemaURL = "https://rfp-console.local/schema/profile.json"

//go:embed schema/profile.schema.json
var profileSchemaJSON []byte

var profileSchema = mustCompileProfileSchema()

func mustCompileProfileSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(profileSchemaURL, bytes.NewReader(profileSchemaJSON)); err != nil {
		panic(fmt.Sprintf("add profile schema: %v", err))
	}
	return c.MustCompile(profileSchemaURL)
}

// storedProfile accepts the id as a number or a string, as written by older clients.
type storedProfile struct {
	ID    model.FlexString `json:"id"`
	Type  string           `json:"type"`
	Name  string           `json:"name"`
	Email string           `json:"email"`
}

// SessionStoreOptions groups dependencies for SessionStore.
type SessionStoreOptions struct {
	Storage ports.Storage // Required
	Logger  *slog.Logger
	Metrics statsd.Sink
}

// SessionStore holds the token and profile for one browser session and writes
// them through to durable storage. One instance is created per request.
type SessionStore struct {
	storage ports.Storage
	logger  *slog.Logger
	metrics statsd.Sink

	mu   sync.RWMutex
	sess domainauth.Session
}

// NewSessionStore constructs an empty SessionStore; call Restore to load persisted state.
func NewSessionStore(opts SessionStoreOptions) *SessionStore {
	if opts.Storage == nil {
		panic("service: SessionStore requires Storage")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{storage: opts.Storage, logger: logger, metrics: opts.Metrics}
}

// Restore loads the persisted pair. Missing, partial, malformed or schema-invalid data
// yields an empty session and stray keys are removed. Storage failures are logged and
// also yield an empty session.
func (s *SessionStore) Restore(ctx context.Context) domainauth.Session {
	token, tokenOK := s.read(ctx, KeyToken)
	raw, rawOK := s.read(ctx, KeyUserInfo)

	var sess domainauth.Session
	switch {
	case tokenOK && rawOK:
		profile, err := parseStoredProfile(raw)
		if err == nil && strings.TrimSpace(token) != "" {
			sess = domainauth.Session{Token: token, Profile: profile}
			break
		}
		s.logger.WarnContext(ctx, "discarding invalid stored session", "error", err)
		s.discard(ctx, KeyToken, KeyUserInfo)
	case tokenOK:
		s.discard(ctx, KeyToken)
	case rawOK:
		s.discard(ctx, KeyUserInfo)
	}

	s.mu.Lock()
	s.sess = sess
	s.mu.Unlock()
	return sess
}

// Set replaces the session with token and profile, persisting both.
func (s *SessionStore) Set(ctx context.Context, token string, profile domainauth.Profile) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("session token is required")
	}
	if !profile.Role.Valid() {
		return fmt.Errorf("unsupported role %q", profile.Role)
	}

	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := s.storage.Set(ctx, KeyToken, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	if err := s.storage.Set(ctx, KeyUserInfo, string(payload)); err != nil {
		s.discard(ctx, KeyToken)
		return fmt.Errorf("persist profile: %w", err)
	}

	p := profile
	s.mu.Lock()
	s.sess = domainauth.Session{Token: token, Profile: &p}
	s.mu.Unlock()

	metrics.EmitSessionEvent(s.metrics, "login")
	return nil
}

// Clear empties the session in memory and in storage.
func (s *SessionStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.sess = domainauth.Session{}
	s.mu.Unlock()

	metrics.EmitSessionEvent(s.metrics, "logout")
	if err := s.storage.Remove(ctx, KeyToken, KeyUserInfo); err != nil {
		return fmt.Errorf("clear session storage: %w", err)
	}
	return nil
}

// Session returns a copy of the current session.
func (s *SessionStore) Session() domainauth.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess := s.sess
	if sess.Profile != nil {
		p := *sess.Profile
		sess.Profile = &p
	}
	return sess
}

// IsAuthenticated reports whether a token is present.
func (s *SessionStore) IsAuthenticated() bool { return s.Session().IsAuthenticated() }

// Role returns the current role or "".
func (s *SessionStore) Role() domainauth.Role { return s.Session().Role() }

// Token returns the current token or "".
func (s *SessionStore) Token() string { return s.Session().Token }

// Profile returns a copy of the current profile or nil.
func (s *SessionStore) Profile() *domainauth.Profile { return s.Session().Profile }

func (s *SessionStore) read(ctx context.Context, key string) (string, bool) {
	v, err := s.storage.Get(ctx, key)
	switch {
	case err == nil:
		return v, true
	case errors.Is(err, ports.ErrNotFound):
		return "", false
	default:
		s.logger.ErrorContext(ctx, "read session storage", "key", key, "error", err)
		return "", false
	}
}

func (s *SessionStore) discard(ctx context.Context, keys ...string) {
	metrics.EmitSessionEvent(s.metrics, "restored_empty")
	if err := s.storage.Remove(ctx, keys...); err != nil {
		s.logger.WarnContext(ctx, "remove stray session keys", "keys", keys, "error", err)
	}
}

func parseStoredProfile(raw string) (*domainauth.Profile, error) {
	var doc any
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode stored profile: %w", err)
	}
	if err := profileSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("validate stored profile: %w", err)
	}

	var sp storedProfile
	if err := json.Unmarshal([]byte(raw), &sp); err != nil {
		return nil, fmt.Errorf("decode stored profile: %w", err)
	}
	role, ok := domainauth.ParseRole(sp.Type)
	if !ok {
		return nil, fmt.Errorf("unsupported role %q", sp.Type)
	}
	return &domainauth.Profile{
		ID:    strings.TrimSpace(sp.ID.String()),
		Role:  role,
		Name:  sp.Name,
		Email: sp.Email,
	}, nil
}
