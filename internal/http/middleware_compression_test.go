package httpx

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var compressionBody = strings.Repeat("<tr><td>RFP-001</td></tr>", 200)

func compressed(status int, contentType, encoding string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		if encoding != "" {
			w.Header().Set("Content-Encoding", encoding)
		}
		w.WriteHeader(status)
		if status != http.StatusNoContent && status != http.StatusNotModified {
			_, _ = w.Write([]byte(compressionBody))
		}
	})
}

func serveCompressed(t *testing.T, h http.Handler, method, acceptEncoding string, level int) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, "/rfp", nil)
	if acceptEncoding != "" {
		req.Header.Set("Accept-Encoding", acceptEncoding)
	}
	rec := httptest.NewRecorder()
	Compression(CompressionConfig{Level: level, Logger: discardLogger()})(h).ServeHTTP(rec, req)
	return rec
}

func gunzip(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	zr, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	defer zr.Close()
	b, err := io.ReadAll(zr)
	require.NoError(t, err)
	return string(b)
}

func TestCompression_Negotiation(t *testing.T) {
	tests := []struct {
		name   string
		accept string
		level  int
		gzip   bool
	}{
		{name: "gzip accepted", accept: "gzip, deflate, br", level: 6, gzip: true},
		{name: "fastest level", accept: "gzip", level: 1, gzip: true},
		{name: "out of range level falls back", accept: "gzip", level: 42, gzip: true},
		{name: "q value", accept: "br;q=1.0, gzip;q=0.5", gzip: true},
		{name: "explicitly refused", accept: "gzip;q=0", gzip: false},
		{name: "not offered", accept: "deflate", gzip: false},
		{name: "no header", gzip: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveCompressed(t, compressed(http.StatusOK, "text/html; charset=utf-8", ""),
				http.MethodGet, tt.accept, tt.level)

			require.Equal(t, http.StatusOK, rec.Code)
			if !tt.gzip {
				assert.Empty(t, rec.Header().Get("Content-Encoding"))
				assert.Equal(t, compressionBody, rec.Body.String())
				return
			}
			assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
			assert.Contains(t, rec.Header().Values("Vary"), "Accept-Encoding")
			assert.Less(t, rec.Body.Len(), len(compressionBody))
			assert.Equal(t, compressionBody, gunzip(t, rec))
		})
	}
}

func TestCompression_PassThrough(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		status      int
		contentType string
		encoding    string
	}{
		{name: "binary content", method: http.MethodGet, status: http.StatusOK, contentType: "image/png"},
		{name: "already encoded", method: http.MethodGet, status: http.StatusOK, contentType: "text/html", encoding: "br"},
		{name: "no content", method: http.MethodPost, status: http.StatusNoContent, contentType: "text/html"},
		{name: "not modified", method: http.MethodGet, status: http.StatusNotModified, contentType: "text/css"},
		{name: "head request", method: http.MethodHead, status: http.StatusOK, contentType: "text/html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveCompressed(t, compressed(tt.status, tt.contentType, tt.encoding), tt.method, "gzip", 0)

			assert.Equal(t, tt.status, rec.Code)
			assert.NotEqual(t, "gzip", rec.Header().Get("Content-Encoding"))
		})
	}
}

func TestCompression_ErrorPagesAreCompressed(t *testing.T) {
	rec := serveCompressed(t, compressed(http.StatusNotFound, "text/html", ""), http.MethodGet, "gzip", 0)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	assert.Equal(t, compressionBody, gunzip(t, rec))
}

func TestCompression_SniffsMissingContentType(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<!DOCTYPE html><html><body>" + compressionBody + "</body></html>"))
	})
	rec := serveCompressed(t, h, http.MethodGet, "gzip", 0)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
}
