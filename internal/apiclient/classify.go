package apiclient

import (
	"net/http"
	"strings"
)

var authorizationPatterns = []string{
	"authorization failled",
	"authorization failed",
	"auth failed",
	"auth failled",
	"unauthorized",
}

// IsAuthorizationMessage reports whether msg contains one of the known
// authorization-failure phrases, ignoring case.
func IsAuthorizationMessage(msg string) bool {
	if msg == "" {
		return false
	}
	lower := strings.ToLower(msg)
	for _, p := range authorizationPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// IsAuthorizationFailure is the single classifier for both error paths:
// a 2xx error envelope (status is then the 2xx code) and a non-2xx response.
func IsAuthorizationFailure(status int, messages ...string) bool {
	if status == http.StatusUnauthorized {
		return true
	}
	for _, m := range messages {
		if IsAuthorizationMessage(m) {
			return true
		}
	}
	return false
}
