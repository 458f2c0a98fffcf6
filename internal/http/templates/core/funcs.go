package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/target/rfp-console/internal/domain/model"
	"github.com/target/rfp-console/internal/http/uiutil"
)

// Deps holds optional dependencies for constructing the core template func map.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
}

// Funcs returns a template.FuncMap containing helpers that are broadly useful across templates.
func Funcs(deps Deps) template.FuncMap {
	funcs := template.FuncMap{
		"sectionTmpl":  deps.ContentTemplateFor,
		"add":          func(a, b int) int { return a + b },
		"sub":          func(a, b int) int { return a - b },
		"contains":     strings.Contains,
		"currency":     currency,
		"formatNumber": formatNumber,
		"formatDate":   formatDate,
		"statusClass":  StatusClass,
		"statusLabel":  StatusLabel,
		"truncateText": TruncateText,
		"dict":         dict,
	}

	addRenderFuncs(funcs, deps)
	return funcs
}

func addRenderFuncs(funcs template.FuncMap, deps Deps) {
	funcs["renderSection"] = func(page string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 - rendered by our own html/template set; values were escaped during ExecuteTemplate.
		return template.HTML(buf.String()), nil
	}

	funcs["toJSON"] = func(v any) (string, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

func currency(v any) string {
	switch x := v.(type) {
	case float64:
		return uiutil.FormatCurrency(x)
	case model.FlexFloat:
		return uiutil.FormatCurrency(x.Float64())
	case int:
		return uiutil.FormatCurrency(float64(x))
	case int64:
		return uiutil.FormatCurrency(float64(x))
	case model.FlexInt:
		return uiutil.FormatCurrency(float64(x))
	default:
		return fmt.Sprint(v)
	}
}

func formatNumber(v any) string {
	switch x := v.(type) {
	case int:
		return uiutil.FormatNumber(int64(x))
	case int64:
		return uiutil.FormatNumber(x)
	case model.FlexInt:
		return uiutil.FormatNumber(x.Int64())
	default:
		return fmt.Sprint(v)
	}
}

// formatDate accepts a time or a raw API date string.
func formatDate(v any) string {
	switch x := v.(type) {
	case time.Time:
		return uiutil.FormatDate(x)
	case *time.Time:
		if x == nil {
			return ""
		}
		return uiutil.FormatDate(*x)
	case string:
		return uiutil.FormatDateString(x)
	default:
		return fmt.Sprint(v)
	}
}

// StatusClass maps RFP and vendor statuses to badge classes.
func StatusClass(status any) string {
	switch strings.ToLower(strings.TrimSpace(fmt.Sprint(status))) {
	case "open", "approved":
		return "badge-success"
	case "applied":
		return "badge-info"
	case "pending":
		return "badge-warning"
	case "closed", "rejected":
		return "badge-danger"
	default:
		return "badge-light"
	}
}

// StatusLabel capitalizes a status for display; empty statuses read as "Unknown".
func StatusLabel(status any) string {
	s := strings.ToLower(strings.TrimSpace(fmt.Sprint(status)))
	if s == "" {
		return "Unknown"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// TruncateText truncates a string to a maximum number of runes (not bytes).
// The maxLen parameter can be any numeric type for template flexibility.
func TruncateText(s string, maxLen any) string {
	n, ok := toIntSafe(maxLen)
	if !ok || n <= 0 {
		return s
	}
	return uiutil.TruncateWithEllipsis(s, n)
}

func toIntSafe(v any) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case float64:
		return int(val), true
	default:
		return 0, false
	}
}

// dict builds a map from alternating key/value arguments for passing into sub-templates.
func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, errors.New("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		m[k] = kv[i+1]
	}
	return m, nil
}
