package apiclient

import (
	"errors"
	"fmt"
)

// Kind tags an API failure so callers can branch without string matching.
type Kind string

const (
	// KindAuthorization means the token was rejected; the session must be cleared.
	KindAuthorization Kind = "authorization"
	// KindApplication means the API answered with an error envelope or non-2xx status.
	KindApplication Kind = "application"
	// KindTransport means no usable response arrived (network, cancellation, bad JSON).
	KindTransport Kind = "transport"
)

// Error is returned by Client.Do for every failed call.
type Error struct {
	Kind    Kind
	Message string
	// Status is the HTTP status code, zero for transport failures.
	Status int
	// Response is the decoded remote envelope when one was received.
	Response map[string]any
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("api %s error: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("api %s error: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Class names the failure for metric tags.
func (e *Error) Class() string { return "api_" + string(e.Kind) }

// AsError extracts an *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsAuthorization reports whether err is an authorization failure.
func IsAuthorization(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Kind == KindAuthorization
}

// Message returns the user-facing message carried by err, or fallback.
func Message(err error, fallback string) string {
	if apiErr, ok := AsError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// Unauthenticated is returned by services when no token is available for an authenticated call.
func Unauthenticated() *Error {
	return &Error{Kind: KindAuthorization, Message: "Authentication token not found"}
}
