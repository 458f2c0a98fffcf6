// Package apiclient talks to the remote RFP API gateway and normalizes its response envelope.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/target/rfp-console/internal/observability/metrics"
	"github.com/target/rfp-console/internal/observability/statsd"
)

// DefaultBaseURL is the public demo gateway.
const DefaultBaseURL = "https://rfpdemo.velsof.com/api"

const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 4 << 20
)

// Config captures runtime configuration for the API client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// HTTPClient overrides the transport; its own Timeout is ignored in favour of Timeout.
	HTTPClient *http.Client
	Logger     *slog.Logger
	Metrics    statsd.Sink
}

// Request describes one API call.
type Request struct {
	// Op is a low-cardinality operation name used for logs and metrics (e.g. "rfp.list").
	Op     string
	Method string
	Path   string
	// Token is sent as a bearer credential when non-empty.
	Token string
	Body  any
}

// Client issues JSON requests against the gateway. It is safe for concurrent use.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	logger  *slog.Logger
	metrics statsd.Sink
}

// NewClient constructs a Client from cfg.
func NewClient(cfg Config) *Client {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: base,
		timeout: timeout,
		http:    hc,
		logger:  logger.With("component", "apiclient"),
		metrics: cfg.Metrics,
	}
}

// BaseURL returns the normalized gateway URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Do performs req and returns the decoded envelope. Every failure is an *Error.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, status, err := c.do(ctx, req)

	c.observe(req, status, time.Since(start), err)
	return resp, err
}

func (c *Client) do(ctx context.Context, req Request) (*Response, int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := c.newHTTPRequest(ctx, req)
	if err != nil {
		return nil, 0, &Error{Kind: KindTransport, Message: defaultTransportMessage, Cause: err}
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, 0, transportError(ctx, err)
	}
	defer func() {
		if closeErr := httpResp.Body.Close(); closeErr != nil {
			c.logger.Debug("close api response body", "error", closeErr)
		}
	}()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodyBytes))
	if err != nil {
		return nil, httpResp.StatusCode, transportError(ctx, err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, httpResp.StatusCode, statusError(httpResp.StatusCode, body)
	}

	resp, err := NewResponse(httpResp.StatusCode, body)
	if err != nil {
		return nil, httpResp.StatusCode, &Error{
			Kind:    KindTransport,
			Message: "Invalid response from server",
			Status:  httpResp.StatusCode,
			Cause:   err,
		}
	}

	if isErrorEnvelope(resp.Data) {
		return nil, resp.Status, envelopeError(resp.Status, resp.Data)
	}
	return resp, resp.Status, nil
}

func (c *Client) newHTTPRequest(ctx context.Context, req Request) (*http.Request, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode api request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+strings.TrimLeft(req.Path, "/"), body)
	if err != nil {
		return nil, fmt.Errorf("create api request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}
	return httpReq, nil
}

func (c *Client) observe(req Request, status int, elapsed time.Duration, err error) {
	attrs := []any{
		"op", req.Op,
		"method", req.Method,
		"path", req.Path,
		"status", status,
		"duration_ms", elapsed.Milliseconds(),
	}
	if err != nil {
		attrs = append(attrs, "error", err)
	}
	c.logger.Debug("api call", attrs...)

	metrics.EmitAPICall(c.metrics, metrics.APICall{
		Op:       req.Op,
		Status:   status,
		Duration: elapsed,
		Err:      err,
	})
}

func transportError(ctx context.Context, err error) *Error {
	msg := defaultTransportMessage
	cause := err
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		msg = "Request timed out"
		cause = fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		msg = "Request canceled"
		cause = fmt.Errorf("%w: %w", context.Canceled, err)
	}
	return &Error{Kind: KindTransport, Message: msg, Cause: cause}
}

func statusError(status int, body []byte) *Error {
	data, _ := decodeEnvelope(body)
	msg := envelopeMessage(data)
	if msg == "" {
		msg = http.StatusText(status)
	}
	if msg == "" {
		msg = defaultAppMessage
	}
	kind := KindApplication
	if IsAuthorizationFailure(status, append(classifierInputs(data), msg)...) {
		kind = KindAuthorization
	}
	return &Error{Kind: kind, Message: msg, Status: status, Response: data}
}

func envelopeError(status int, data map[string]any) *Error {
	msg := envelopeMessage(data)
	if msg == "" {
		msg = defaultAppMessage
	}
	kind := KindApplication
	if IsAuthorizationFailure(status, append(classifierInputs(data), msg)...) {
		kind = KindAuthorization
	}
	return &Error{Kind: kind, Message: msg, Status: status, Response: data}
}
