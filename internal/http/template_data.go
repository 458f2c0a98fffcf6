package httpx

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/target/rfp-console/internal/http/ui/viewmodel"
)

// TemplateDataBuilder provides a fluent API for building template data maps.
type TemplateDataBuilder struct {
	data map[string]any
	r    *http.Request
}

// NewTemplateData creates a new TemplateDataBuilder initialized with basePageData.
func NewTemplateData(r *http.Request, meta PageMeta) *TemplateDataBuilder {
	return &TemplateDataBuilder{
		data: basePageData(r, meta),
		r:    r,
	}
}

// WithPagination adds the pager with links to basePath that keep the request's other query params.
func (b *TemplateDataBuilder) WithPagination(basePath string, p viewmodel.Pagination) *TemplateDataBuilder {
	path := basePath
	query := b.r.URL.Query()
	b.data["Pagination"] = p.WithURLs(func(page int) string { return pageURL(path, query, page) })
	return b
}

// pageURL sets page on a copy of q, dropping the one-shot notice.
func pageURL(path string, q url.Values, page int) string {
	qq := make(url.Values, len(q))
	for k, v := range q {
		if k == "notice" || len(v) == 0 {
			continue
		}
		qq[k] = v
	}
	qq.Set("page", strconv.Itoa(page))
	return path + "?" + qq.Encode()
}

// WithError sets a general error flash.
func (b *TemplateDataBuilder) WithError(msg string) *TemplateDataBuilder {
	return b.WithFlash(flashTypeError, msg)
}

// WithFlash sets the flash shown above the content; blank messages are ignored.
func (b *TemplateDataBuilder) WithFlash(kind, msg string) *TemplateDataBuilder {
	if msg != "" {
		b.data["Flash"] = &viewmodel.Flash{Type: kind, Message: msg}
	}
	return b
}

// WithFieldErrors adds field-level validation errors and the generic fix-below flash.
func (b *TemplateDataBuilder) WithFieldErrors(errs map[string]string) *TemplateDataBuilder {
	if len(errs) > 0 {
		b.data["Errors"] = errs
		if _, ok := b.data["Flash"]; !ok {
			b.WithError(errMsgFixBelow)
		}
	}
	return b
}

// With adds a custom field to the template data.
func (b *TemplateDataBuilder) With(key string, value any) *TemplateDataBuilder {
	b.data[key] = value
	return b
}

// Build returns the final template data map.
func (b *TemplateDataBuilder) Build() map[string]any {
	return b.data
}
