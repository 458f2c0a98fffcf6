package httpx

import (
	"context"

	domainauth "github.com/target/rfp-console/internal/domain/auth"
	"github.com/target/rfp-console/internal/service"
)

// sessionStoreKey and browserIDKey are unexported context keys used by the session middleware.
type (
	sessionStoreKey struct{}
	browserIDKey    struct{}
)

// WithSessionStore returns a child context carrying the per-request session store and
// the browser session id it is bound to.
func WithSessionStore(ctx context.Context, browserID string, store *service.SessionStore) context.Context {
	if store == nil {
		return ctx
	}
	ctx = context.WithValue(ctx, browserIDKey{}, browserID)
	return context.WithValue(ctx, sessionStoreKey{}, store)
}

// SessionStoreFromContext returns the session store installed by the Sessions middleware.
func SessionStoreFromContext(ctx context.Context) (*service.SessionStore, bool) {
	store, ok := ctx.Value(sessionStoreKey{}).(*service.SessionStore)
	return store, ok && store != nil
}

// BrowserIDFromContext returns the opaque browser session id, or "".
func BrowserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(browserIDKey{}).(string)
	return id
}

// CurrentSession returns a snapshot of the request's session; empty when none is installed.
func CurrentSession(ctx context.Context) domainauth.Session {
	if store, ok := SessionStoreFromContext(ctx); ok {
		return store.Session()
	}
	return domainauth.Session{}
}
