package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csrfEcho(captured *string) http.Handler {
	return CSRFProtection(CSRFConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			*captured = GetCSRFToken(r)
		}
		w.WriteHeader(http.StatusOK)
	}))
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestCSRFProtection_IssuesTokenOnSafeRequests(t *testing.T) {
	var token string
	rec := httptest.NewRecorder()
	csrfEcho(&token).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	c := findCookie(rec.Result().Cookies(), DefaultCSRFCookieName)
	require.NotNil(t, c)
	assert.Equal(t, token, c.Value, "templates see the issued token")
	assert.False(t, c.HttpOnly, "the layout script reads the cookie")
	assert.False(t, c.Secure)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	assert.Equal(t, "/", c.Path)
}

func TestCSRFProtection_ReusesExistingCookie(t *testing.T) {
	var token string
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: "existing"})
	rec := httptest.NewRecorder()

	csrfEcho(&token).ServeHTTP(rec, req)

	assert.Equal(t, "existing", token)
	assert.Nil(t, findCookie(rec.Result().Cookies(), DefaultCSRFCookieName))
}

func TestCSRFProtection_SecureBehindTLSProxy(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "http, HTTPS")
	rec := httptest.NewRecorder()

	csrfEcho(nil).ServeHTTP(rec, req)

	c := findCookie(rec.Result().Cookies(), DefaultCSRFCookieName)
	require.NotNil(t, c)
	assert.True(t, c.Secure)
}

func TestCSRFProtection_StateChangingRequests(t *testing.T) {
	const cookie = "tok-123"
	form := func(v string) string { return url.Values{DefaultCSRFCookieName: {v}}.Encode() }

	tests := []struct {
		name        string
		method      string
		cookie      string
		header      string
		body        string
		contentType string
		want        int
	}{
		{name: "no cookie", method: http.MethodPost, header: cookie, want: http.StatusForbidden},
		{name: "no token", method: http.MethodPost, cookie: cookie, want: http.StatusForbidden},
		{name: "header token", method: http.MethodPost, cookie: cookie, header: cookie, want: http.StatusOK},
		{name: "header mismatch", method: http.MethodPost, cookie: cookie, header: "other", want: http.StatusForbidden},
		{
			name: "form token", method: http.MethodPost, cookie: cookie,
			body: form(cookie), contentType: "application/x-www-form-urlencoded", want: http.StatusOK,
		},
		{
			name: "form mismatch", method: http.MethodPost, cookie: cookie,
			body: form("other"), contentType: "application/x-www-form-urlencoded", want: http.StatusForbidden,
		},
		{
			name: "json body is not parsed", method: http.MethodPost, cookie: cookie,
			body: `{"csrf_token":"tok-123"}`, contentType: "application/json", want: http.StatusForbidden,
		},
		{name: "delete needs a token", method: http.MethodDelete, cookie: cookie, want: http.StatusForbidden},
		{name: "head is exempt", method: http.MethodHead, want: http.StatusOK},
		{name: "options is exempt", method: http.MethodOptions, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/rfp/1/close", strings.NewReader(tt.body))
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set(DefaultCSRFHeaderName, tt.header)
			}
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()

			csrfEcho(nil).ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestGetCSRFToken_WithoutMiddleware(t *testing.T) {
	assert.Empty(t, GetCSRFToken(httptest.NewRequest(http.MethodGet, "/", nil)))
}
