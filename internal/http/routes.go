package httpx

import (
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	rfpconsole "github.com/target/rfp-console"
	domainauth "github.com/target/rfp-console/internal/domain/auth"
	"github.com/target/rfp-console/internal/observability/statsd"
	"github.com/target/rfp-console/internal/ports"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Auth      AuthService
	RFPs      RFPService
	Vendors   VendorService
	Dashboard DashboardService

	Sessions          ports.StorageProvider // Required
	SessionCookieName string
	SessionTTL        time.Duration
	CookieDomain      string

	// Optional gzip compression.
	CompressionEnabled bool
	CompressionLevel   int

	// Templates overrides the template filesystem (tests). Nil selects disk in dev
	// and the embedded copy otherwise.
	Templates    fs.FS
	AssetVersion string
	IsDev        bool
	Logger       *slog.Logger
	Metrics      statsd.Sink
}

// NewRouter builds the console's handler: the route table wrapped in recover, logging,
// optional compression, CSRF and session middleware.
func NewRouter(services RouterServices) (http.Handler, error) {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS:   templateFS(services),
		AssetVersion: services.AssetVersion,
		DevMode:      services.IsDev,
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}

	ui := &UIHandlers{
		T:         tr,
		Auth:      services.Auth,
		RFPs:      services.RFPs,
		Vendors:   services.Vendors,
		Dashboard: services.Dashboard,
		InFlight:  NewInFlight(),
		IsDev:     services.IsDev,
		Logger:    logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", healthHandler)
	mux.HandleFunc("HEAD /healthz", healthHandler)
	mux.Handle("GET /static/", staticHandler(services.IsDev, logger))
	registerUIRoutes(mux, ui)

	var handler http.Handler = mux
	handler = Sessions(SessionConfig{
		Provider:     services.Sessions,
		CookieName:   services.SessionCookieName,
		CookieDomain: services.CookieDomain,
		TTL:          services.SessionTTL,
		Logger:       logger,
		Metrics:      services.Metrics,
	})(handler)
	handler = CSRFProtection(CSRFConfig{CookieDomain: services.CookieDomain})(handler)
	if services.CompressionEnabled {
		handler = Compression(CompressionConfig{Level: services.CompressionLevel, Logger: logger})(handler)
	}
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler, nil
}

func registerUIRoutes(mux *http.ServeMux, h *UIHandlers) {
	public := func(fn http.HandlerFunc) http.Handler { return RedirectAuthenticated(fn) }
	anyone := RequireRoles()
	admin := RequireRoles(domainauth.RoleAdmin)
	vendor := RequireRoles(domainauth.RoleVendor)

	mux.HandleFunc("/", h.Root)
	mux.Handle("GET /login", public(h.LoginPage))
	mux.Handle("POST /login", public(h.LoginSubmit))
	mux.Handle("GET /register", public(h.RegisterPage))
	mux.Handle("POST /register", public(h.RegisterSubmit))
	mux.HandleFunc("POST /logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.AuthStatus)

	mux.Handle("GET /dashboard", anyone(http.HandlerFunc(h.DashboardPage)))

	mux.Handle("GET /vendors", admin(http.HandlerFunc(h.VendorsPage)))
	mux.Handle("POST /vendors/{id}/status", admin(http.HandlerFunc(h.UpdateVendorStatus)))

	mux.Handle("GET /rfp", anyone(http.HandlerFunc(h.RFPList)))
	mux.Handle("POST /rfp/{id}/close", admin(http.HandlerFunc(h.CloseRFP)))
	mux.Handle("GET /rfp/{id}/apply", vendor(http.HandlerFunc(h.ApplyForm)))
	mux.Handle("POST /rfp/{id}/apply", vendor(http.HandlerFunc(h.ApplySubmit)))
	mux.Handle("GET /rfp-quotes/{id}", anyone(http.HandlerFunc(h.Quotes)))

	mux.Handle("GET /add-rfp", admin(http.HandlerFunc(h.AddRFPPage)))
	mux.Handle("POST /add-rfp", admin(http.HandlerFunc(h.AddRFPSubmit)))
	mux.Handle("POST /add-rfp/vendors", admin(http.HandlerFunc(h.AddRFPVendors)))
}

// templateFS picks the template source: an explicit override, disk in dev for live
// edits, or the embedded copy.
func templateFS(services RouterServices) fs.FS {
	if services.Templates != nil {
		return services.Templates
	}
	if services.IsDev {
		return os.DirFS(TemplatePathFromRoot)
	}
	sub, err := fs.Sub(rfpconsole.TemplateFS, TemplatePathFromRoot)
	if err != nil {
		return os.DirFS(TemplatePathFromRoot)
	}
	return sub
}

// staticHandler serves /static/* from disk in dev and from the embedded copy otherwise.
func staticHandler(isDev bool, logger *slog.Logger) http.Handler {
	if isDev {
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static"))))
	}
	sub, err := fs.Sub(rfpconsole.StaticFS, "frontend/static")
	if err != nil {
		logger.Error("static sub-filesystem unavailable; serving from disk", "error", err)
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static"))))
	}
	return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(sub))))
}

// staticWithCacheHeaders lets browsers keep versioned asset URLs forever and
// revalidate everything else.
func staticWithCacheHeaders(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("v") != "" {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache")
		}
		handler.ServeHTTP(w, r)
	})
}
