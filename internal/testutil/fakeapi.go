package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// FakeReply is a canned remote API answer. Body is JSON-encoded unless it is a string.
type FakeReply struct {
	Status int
	Body   any
}

// RecordedRequest is a request received by FakeAPI.
type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
	Body          map[string]any
}

// FakeAPI is an httptest server standing in for the remote RFP API.
// Unregistered routes answer 404 with an error envelope.
type FakeAPI struct {
	server *httptest.Server

	mu       sync.Mutex
	routes   map[string]FakeReply
	requests []RecordedRequest
}

// NewFakeAPI starts a FakeAPI that is closed when the test ends.
func NewFakeAPI(t testing.TB) *FakeAPI {
	t.Helper()
	f := &FakeAPI{routes: map[string]FakeReply{}}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

// URL is the base URL to configure the API client with.
func (f *FakeAPI) URL() string { return f.server.URL }

// Handle registers the reply for method and path, replacing any previous one.
func (f *FakeAPI) Handle(method, path string, status int, body any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = FakeReply{Status: status, Body: body}
}

// Requests returns a copy of every request received so far.
func (f *FakeAPI) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RecordedRequest(nil), f.requests...)
}

// Last returns the most recent request for method and path.
func (f *FakeAPI) Last(method, path string) (RecordedRequest, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.requests) - 1; i >= 0; i-- {
		if r := f.requests[i]; r.Method == method && r.Path == path {
			return r, true
		}
	}
	return RecordedRequest{}, false
}

func (f *FakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	rec := RecordedRequest{Method: r.Method, Path: r.URL.Path, Authorization: r.Header.Get("Authorization")}
	if raw, err := io.ReadAll(r.Body); err == nil && len(raw) > 0 {
		_ = json.Unmarshal(raw, &rec.Body)
	}

	f.mu.Lock()
	f.requests = append(f.requests, rec)
	reply, ok := f.routes[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	if !ok {
		reply = FakeReply{Status: http.StatusNotFound, Body: map[string]any{"response": "error", "message": "Not Found"}}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(reply.Status)
	switch b := reply.Body.(type) {
	case string:
		_, _ = io.WriteString(w, b)
	default:
		_ = json.NewEncoder(w).Encode(b)
	}
}
