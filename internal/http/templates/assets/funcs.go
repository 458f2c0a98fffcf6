package assets

import (
	"html/template"
	"net/url"
	"strings"
)

// StaticPrefix is the URL prefix embedded static files are served under.
const StaticPrefix = "/static/"

// Options configures asset-related template helpers.
type Options struct {
	// Version busts browser caches; dev mode leaves URLs unversioned.
	Version string
	DevMode bool
}

// Funcs returns template helpers for static asset URLs.
func Funcs(opts Options) template.FuncMap {
	return template.FuncMap{
		"asset": func(name string) string {
			return URL(name, opts)
		},
	}
}

// URL resolves a logical asset name like "css/app.css" to its served path.
func URL(name string, opts Options) string {
	p := StaticPrefix + strings.TrimLeft(name, "/")
	if opts.DevMode || opts.Version == "" {
		return p
	}
	return p + "?v=" + url.QueryEscape(opts.Version)
}
