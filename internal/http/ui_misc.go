package httpx

import (
	"errors"
	"net/http"
	"strings"
)

// NotFound renders the 404 page. Clients asking for JSON get a JSON error instead.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "not_found",
			Err:     errors.New("not found"),
		})
		return
	}
	if IsHTMX(r) {
		HTMX(w).Notify(flashTypeError, "The page you're looking for doesn't exist.")
		w.WriteHeader(http.StatusNotFound)
		return
	}

	data := NewTemplateData(r, PageMeta{
		Title:       "Page Not Found - RFP Console",
		PageTitle:   "Page Not Found",
		CurrentPage: PageNotFound,
	}).With("Code", "404").
		With("Message", "The page you're looking for doesn't exist.").
		Build()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if h.T == nil {
		_, _ = w.Write([]byte("Page not found\n"))
		return
	}
	if err := h.T.RenderError(w, r, data); err != nil {
		h.logger().ErrorContext(r.Context(), "not found render failed", "error", err)
	}
}

// wantsJSON reports whether the client prefers JSON over HTML.
func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

// Root serves the login page at exactly "/" and the 404 page everywhere else.
func (h *UIHandlers) Root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" && (r.Method == http.MethodGet || r.Method == http.MethodHead) {
		RedirectAuthenticated(http.HandlerFunc(h.LoginPage)).ServeHTTP(w, r)
		return
	}
	h.NotFound(w, r)
}
