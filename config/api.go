package config

import (
	"strings"
	"time"
)

const (
	defaultAPIBaseURL = "https://rfpdemo.velsof.com/api"
	defaultAPITimeout = 15 * time.Second
	minAPITimeout     = time.Second
)

// APIConfig points the console at the remote RFP API.
type APIConfig struct {
	// BaseURL is the API root; request paths are appended to it.
	BaseURL string `env:"BASE_URL" envDefault:"https://rfpdemo.velsof.com/api"`

	// Timeout bounds each upstream request.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"15s"`
}

// Sanitize trims the base URL and keeps the timeout usable.
func (a *APIConfig) Sanitize() {
	a.BaseURL = strings.TrimRight(strings.TrimSpace(a.BaseURL), "/")
	if a.BaseURL == "" {
		a.BaseURL = defaultAPIBaseURL
	}
	if a.Timeout <= 0 {
		a.Timeout = defaultAPITimeout
	}
	if a.Timeout < minAPITimeout {
		a.Timeout = minAPITimeout
	}
}
