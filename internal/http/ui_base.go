package httpx

import (
	"context"
	"html"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/target/rfp-console/internal/apiclient"
	domainauth "github.com/target/rfp-console/internal/domain/auth"
	"github.com/target/rfp-console/internal/domain/model"
	apperrors "github.com/target/rfp-console/internal/errors"
	"github.com/target/rfp-console/internal/http/ui/viewmodel"
	"github.com/target/rfp-console/internal/service"
)

const (
	errMsgFixBelow   = "Please fix the errors below."
	errMsgGeneric    = "Something went wrong. Please try again."
	errMsgDuplicate  = "A previous request is still being processed. Please wait."
	flashTypeError   = "error"
	flashTypeSuccess = "success"
)

// AuthService is the slice of service.AuthService the UI needs.
type AuthService interface {
	Login(ctx context.Context, sess service.SessionWriter, email, password string) (domainauth.Profile, error)
	Logout(ctx context.Context, sess service.SessionWriter) error
	RegisterVendor(ctx context.Context, sess service.SessionWriter, in model.RegisterVendorInput) (service.RegisterResult, error)
}

// RFPService is the slice of service.RFPService the UI needs.
type RFPService interface {
	List(ctx context.Context, sess domainauth.Session) ([]model.RFP, error)
	Get(ctx context.Context, sess domainauth.Session, id string) (model.RFP, error)
	Close(ctx context.Context, sess domainauth.Session, id string) error
	Categories(ctx context.Context, sess domainauth.Session) ([]model.Category, error)
	VendorsForCategories(ctx context.Context, sess domainauth.Session, categoryIDs []int64) ([]model.Vendor, error)
	Create(ctx context.Context, sess domainauth.Session, in model.CreateRFPInput) error
	Apply(ctx context.Context, sess domainauth.Session, rfpID string, quantity int64, in model.QuoteInput) error
	Quotes(ctx context.Context, sess domainauth.Session, rfpID string) ([]model.Quote, error)
}

// VendorService is the slice of service.VendorService the UI needs.
type VendorService interface {
	List(ctx context.Context, sess domainauth.Session) ([]model.Vendor, error)
	UpdateStatus(ctx context.Context, sess domainauth.Session, userID int64, status string) error
	RegistrationCategories(ctx context.Context) []model.Category
}

// DashboardService computes the dashboard counters.
type DashboardService interface {
	Summary(ctx context.Context, sess domainauth.Session) (service.DashboardSummary, error)
}

// Compile-time interface assertions to ensure concrete services satisfy their UI interfaces.
var (
	_ AuthService      = (*service.AuthService)(nil)
	_ RFPService       = (*service.RFPService)(nil)
	_ VendorService    = (*service.VendorService)(nil)
	_ DashboardService = (*service.DashboardService)(nil)
)

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T         *TemplateRenderer
	Auth      AuthService
	RFPs      RFPService
	Vendors   VendorService
	Dashboard DashboardService
	InFlight  *InFlight
	IsDev     bool // Development mode flag for enhanced error reporting
	Logger    *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

// buildLayout constructs shared layout metadata from the request/session context.
func buildLayout(r *http.Request, meta PageMeta) viewmodel.Layout {
	layout := viewmodel.Layout{
		Title:       meta.Title,
		PageTitle:   meta.PageTitle,
		CurrentPage: meta.CurrentPage,
		CSRFToken:   GetCSRFToken(r),
		Flash:       flashFromQuery(r.URL.Query()),
	}

	sess := CurrentSession(r.Context())
	if sess.IsAuthenticated() {
		role := sess.Role()
		layout.IsAuthenticated = true
		layout.IsAdmin = role == domainauth.RoleAdmin
		layout.IsVendor = role == domainauth.RoleVendor
		layout.User = &viewmodel.User{
			ID:        sess.Profile.ID,
			Name:      sess.Profile.Name,
			Email:     sess.Profile.Email,
			Role:      string(role),
			RoleLabel: role.Label(),
		}
	}
	return layout
}

// basePageData constructs the common page data map with user context.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	layout := buildLayout(r, meta)
	data := map[string]any{
		"Title":           layout.Title,
		"PageTitle":       layout.PageTitle,
		"CurrentPage":     layout.CurrentPage,
		"CSRFToken":       layout.CSRFToken,
		"IsAuthenticated": layout.IsAuthenticated,
		"IsAdmin":         layout.IsAdmin,
		"IsVendor":        layout.IsVendor,
		"Errors":          map[string]string{},
	}
	if layout.User != nil {
		data["User"] = layout.User
	}
	if layout.Flash != nil {
		data["Flash"] = layout.Flash
	}
	return data
}

// renderPage renders a page with proper HTMX partial support. A non-zero status is
// written before the body.
func (h *UIHandlers) renderPage(w http.ResponseWriter, r *http.Request, data map[string]any, status int) {
	if !WantsPartial(r) {
		if status != 0 {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(status)
		}
		if err := h.T.RenderFull(w, r, data); err != nil {
			h.logAndRenderTemplateError(w, r, err, "full page render")
		}
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	SetHXTrigger(w, "nav:activate", map[string]string{"path": r.URL.Path})
	if status != 0 {
		w.WriteHeader(status)
	}

	layout := layoutFromMap(data)
	// <title> lets htmx update document.title on partial swaps.
	if _, err := w.Write([]byte(`<title>` + html.EscapeString(layout.Title) + `</title>` +
		`<h1 id="header-title" class="header-title" hx-swap-oob="outerHTML">` +
		html.EscapeString(layout.PageTitle) + `</h1>`)); err != nil {
		h.logger().Error("failed to write partial header", "error", err)
		return
	}
	if err := h.T.execute(w, "flash", data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "partial flash render")
		return
	}
	if err := h.T.execute(w, ContentTemplateFor(layout.CurrentPage), data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "partial content render")
	}
}

func layoutFromMap(m map[string]any) viewmodel.Layout {
	layout := viewmodel.Layout{}
	layout.Title, _ = m["Title"].(string)
	layout.PageTitle, _ = m["PageTitle"].(string)
	layout.CurrentPage, _ = m["CurrentPage"].(string)
	return layout
}

// handleFailure is the single place remote failures are interpreted. Authorization
// failures clear the session and send the browser to "/"; it then returns handled=true.
// Otherwise it returns the message to show the user.
func (h *UIHandlers) handleFailure(w http.ResponseWriter, r *http.Request, err error) (string, bool) {
	if apiclient.IsAuthorization(err) {
		h.logger().WarnContext(r.Context(), "authorization failure; clearing session",
			"path", r.URL.Path, "error", err)
		if store, ok := SessionStoreFromContext(r.Context()); ok {
			if cerr := store.Clear(r.Context()); cerr != nil {
				h.logger().ErrorContext(r.Context(), "failed to clear session", "error", cerr)
			}
		}
		Redirect(w, r, "/")
		return "", true
	}
	return userMessage(err), false
}

// userMessage picks the message a user should see for err.
func userMessage(err error) string {
	if msg := apiclient.Message(err, ""); msg != "" {
		return msg
	}
	if apperrors.IsTimeout(err) {
		return "Request timed out. Please try again."
	}
	return apperrors.PublicMessage(err, errMsgGeneric)
}

// fieldErrorsFrom maps a field-scoped validation error onto the form's error map.
func fieldErrorsFrom(err error) map[string]string {
	if !apperrors.IsValidation(err) {
		return nil
	}
	if field := apperrors.GetField(err); field != "" {
		return map[string]string{field: apperrors.PublicMessage(err, errMsgFixBelow)}
	}
	return nil
}

// notices are the fixed messages a redirect may ask the next page to show.
//
//nolint:gochecknoglobals // static read-only lookup
var notices = map[string]viewmodel.Flash{
	"registered":      {Type: flashTypeSuccess, Message: "Registration successful. Please log in."},
	"logged-out":      {Type: flashTypeSuccess, Message: "You have been logged out."},
	"rfp-created":     {Type: flashTypeSuccess, Message: "RFP created successfully"},
	"rfp-closed":      {Type: flashTypeSuccess, Message: "RFP closed successfully"},
	"quote-submitted": {Type: flashTypeSuccess, Message: "Quote submitted successfully"},
	"vendor-updated":  {Type: flashTypeSuccess, Message: "Vendor status updated"},
	"busy":            {Type: flashTypeError, Message: errMsgDuplicate},
}

func flashFromQuery(q url.Values) *viewmodel.Flash {
	if f, ok := notices[q.Get("notice")]; ok {
		return &f
	}
	return nil
}

// withNotice appends a notice key to a local path.
func withNotice(path, notice string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "notice=" + url.QueryEscape(notice)
}

// localReferer returns the path of a same-origin Referer, or fallback.
func localReferer(r *http.Request, fallback string) string {
	ref, err := url.Parse(r.Header.Get("Referer"))
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != r.Host) {
		return fallback
	}
	q := ref.Query()
	q.Del("notice")
	ref.RawQuery = q.Encode()
	if ref.RawQuery == "" {
		return ref.Path
	}
	return ref.Path + "?" + ref.RawQuery
}

// pageParam parses ?page=, defaulting to 1. Clamping happens in the pagination model.
func pageParam(q url.Values) int {
	if n, err := strconv.Atoi(q.Get("page")); err == nil {
		return n
	}
	return 1
}

// acquire claims the in-flight slot for action. When another submission of the same
// action is running for this browser, the user is sent back with a notice and ok is false.
func (h *UIHandlers) acquire(w http.ResponseWriter, r *http.Request, action string) (func(), bool) {
	if h.InFlight == nil {
		return func() {}, true
	}
	release, ok := h.InFlight.Acquire(BrowserIDFromContext(r.Context()), action)
	if !ok {
		h.logger().InfoContext(r.Context(), "duplicate submission rejected", "action", action)
		if IsHTMX(r) {
			HTMX(w).Notify(flashTypeError, errMsgDuplicate)
			w.WriteHeader(http.StatusConflict)
			return nil, false
		}
		Redirect(w, r, withNotice(localReferer(r, domainauth.LandingPath), "busy"))
		return nil, false
	}
	return release, true
}

// logAndRenderTemplateError logs template errors and renders them in dev mode.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, context string) {
	h.logger().Error("template rendering failed",
		"error", err,
		"context", context,
		"path", r.URL.Path,
		"method", r.Method,
	)

	if h.IsDev {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		if _, writeErr := w.Write([]byte(`<div class="template-error"><h2>Template Rendering Error</h2>` +
			`<p><strong>Context:</strong> ` + html.EscapeString(context) + `</p>` +
			`<p><strong>Path:</strong> ` + html.EscapeString(r.URL.Path) + `</p>` +
			`<pre>` + html.EscapeString(err.Error()) + `</pre></div>`)); writeErr != nil {
			h.logger().Error("failed to write template error response", "error", writeErr)
		}
		return
	}

	http.Error(w, "internal server error", http.StatusInternalServerError)
}
