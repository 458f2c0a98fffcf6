package httpx

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/target/rfp-console/internal/adapters/memstore"
	"github.com/target/rfp-console/internal/apiclient"
	"github.com/target/rfp-console/internal/service"
	"github.com/target/rfp-console/internal/testutil"
)

// RequireTemplateRenderer creates a TemplateRenderer for tests, skipping the test if templates are not available.
func RequireTemplateRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: os.DirFS(TemplatePathFromTest),
		Logger:     discardLogger(),
	})
	if err != nil {
		t.Skipf("Templates not available, skipping: %v", err)
		return nil
	}
	return tr
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const (
	adminLoginReply  = `{"response":"success","token":"tok-admin","user_id":1,"type":"admin","name":"Asha Admin","email":"admin@example.com"}`
	vendorLoginReply = `{"response":"success","token":"tok-vendor","user_id":7,"type":"vendor","name":"Vikram Vendor","email":"vendor@example.com"}`
)

// uiHarness runs the full router against a fake remote API with a cookie-aware browser client.
type uiHarness struct {
	t        *testing.T
	API      *testutil.FakeAPI
	Server   *httptest.Server
	Browser  *http.Client
	Sessions *memstore.Provider
}

func newUIHarness(t *testing.T) *uiHarness {
	t.Helper()
	if _, err := os.Stat(TemplatePathFromTest); err != nil {
		t.Skipf("Templates not available, skipping: %v", err)
	}

	api := testutil.NewFakeAPI(t)
	logger := discardLogger()
	gw := apiclient.NewClient(apiclient.Config{BaseURL: api.URL(), Timeout: 5 * time.Second, Logger: logger})
	rfps := service.NewRFPService(service.RFPServiceOptions{Gateway: gw, Logger: logger})
	vendors := service.NewVendorService(service.VendorServiceOptions{Gateway: gw, Logger: logger})
	sessions := memstore.New(memstore.Options{})

	handler, err := NewRouter(RouterServices{
		Auth:      service.NewAuthService(service.AuthServiceOptions{Gateway: gw, Logger: logger}),
		RFPs:      rfps,
		Vendors:   vendors,
		Dashboard: service.NewDashboardService(service.DashboardServiceOptions{RFPs: rfps, Vendors: vendors, Logger: logger}),
		Sessions:  sessions,
		Templates: os.DirFS(TemplatePathFromTest),
		Logger:    logger,
	})
	require.NoError(t, err)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	browser := &http.Client{
		Jar:     jar,
		Timeout: 10 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &uiHarness{t: t, API: api, Server: srv, Browser: browser, Sessions: sessions}
}

// cookie returns the browser's cookie called name, or "".
func (h *uiHarness) cookie(name string) string {
	u, _ := url.Parse(h.Server.URL)
	for _, c := range h.Browser.Jar.Cookies(u) {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// csrfToken returns the browser's CSRF token, visiting the login page first when needed.
func (h *uiHarness) csrfToken() string {
	h.t.Helper()
	if tok := h.cookie(DefaultCSRFCookieName); tok != "" {
		return tok
	}
	h.get("/login", false)
	tok := h.cookie(DefaultCSRFCookieName)
	require.NotEmpty(h.t, tok, "csrf cookie not issued")
	return tok
}

func (h *uiHarness) do(req *http.Request, htmx bool) (*http.Response, string) {
	h.t.Helper()
	if htmx {
		req.Header.Set("Hx-Request", "true")
	}
	resp, err := h.Browser.Do(req)
	require.NoError(h.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(h.t, err)
	return resp, string(body)
}

func (h *uiHarness) get(path string, htmx bool) (*http.Response, string) {
	h.t.Helper()
	req, err := http.NewRequest(http.MethodGet, h.Server.URL+path, nil)
	require.NoError(h.t, err)
	return h.do(req, htmx)
}

// post submits form with the browser's CSRF token.
func (h *uiHarness) post(path string, form url.Values, htmx bool) (*http.Response, string) {
	h.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	form.Set(DefaultCSRFCookieName, h.csrfToken())
	req, err := http.NewRequest(http.MethodPost, h.Server.URL+path, strings.NewReader(form.Encode()))
	require.NoError(h.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return h.do(req, htmx)
}

// loginAs signs the browser in with the canned login reply.
func (h *uiHarness) loginAs(reply string) {
	h.t.Helper()
	h.API.Handle(http.MethodPost, "/login", http.StatusOK, reply)
	resp, _ := h.post("/login", url.Values{"email": {"user@example.com"}, "password": {"secret"}}, false)
	require.Equal(h.t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(h.t, "/dashboard", resp.Header.Get("Location"))
}
