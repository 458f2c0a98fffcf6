package httpx

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/target/rfp-console/internal/domain/auth"
	"github.com/target/rfp-console/internal/observability/statsd"
	"github.com/target/rfp-console/internal/ports"
	"github.com/target/rfp-console/internal/service"
)

// DefaultSessionCookieName names the opaque browser-session cookie.
const DefaultSessionCookieName = "session_id"

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Bool("htmx", IsHTMX(r)),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *respWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SessionConfig configures the Sessions middleware.
type SessionConfig struct {
	Provider     ports.StorageProvider // Required
	CookieName   string
	CookieDomain string
	TTL          time.Duration // Cookie lifetime; zero means a browser-session cookie
	Logger       *slog.Logger
	Metrics      statsd.Sink
}

// Sessions binds every request to a browser session id (a uuid cookie), opens the
// storage scoped to it and installs a restored SessionStore in the request context.
func Sessions(cfg SessionConfig) func(http.Handler) http.Handler {
	if cfg.Provider == nil {
		panic("httpx: Sessions requires a storage provider")
	}
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultSessionCookieName
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := browserID(r, cfg.CookieName)
			if id == "" {
				id = uuid.NewString()
				setSessionCookie(w, r, cfg, id)
			}

			store := service.NewSessionStore(service.SessionStoreOptions{
				Storage: cfg.Provider.Open(id),
				Logger:  cfg.Logger,
				Metrics: cfg.Metrics,
			})
			store.Restore(r.Context())

			next.ServeHTTP(w, r.WithContext(WithSessionStore(r.Context(), id, store)))
		})
	}
}

// browserID returns the cookie value when it is a well-formed uuid.
func browserID(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	id, err := uuid.Parse(c.Value)
	if err != nil {
		return ""
	}
	return id.String()
}

func setSessionCookie(w http.ResponseWriter, r *http.Request, cfg SessionConfig, id string) {
	c := &http.Cookie{
		Name:     cfg.CookieName,
		Value:    id,
		Path:     "/",
		Domain:   cfg.CookieDomain,
		HttpOnly: true,
		Secure:   r.TLS != nil || isForwardedHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	}
	if cfg.TTL > 0 {
		c.MaxAge = int(cfg.TTL.Seconds())
	}
	http.SetCookie(w, c)
}

// RequireRoles guards a route with the navigation decision for the current session.
// No roles admits any authenticated user. Rejected browsers are redirected; htmx
// requests receive HX-Redirect.
func RequireRoles(roles ...domainauth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := domainauth.Evaluate(CurrentSession(r.Context()), roles)
			if !res.Allowed() {
				Redirect(w, r, res.RedirectTo)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RedirectAuthenticated sends users that already hold a session to the landing page.
// It wraps the public login and registration pages.
func RedirectAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CurrentSession(r.Context()).IsAuthenticated() {
			Redirect(w, r, domainauth.LandingPath)
			return
		}
		next.ServeHTTP(w, r)
	})
}
