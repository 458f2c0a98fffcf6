package apiclient

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"
)

const (
	// messageExpr picks error[0] when error is an array, else the first non-empty of message, error, errors.
	messageExpr = "(type(error) == 'array' && error[0]) || message || error || errors"
	// candidatesExpr lists every field the authorization classifier inspects.
	candidatesExpr = "[message, error, errors]"

	defaultAppMessage       = "Something went wrong"
	defaultTransportMessage = "Network error occurred"
)

// Response is a decoded 2xx reply whose envelope did not signal an error.
type Response struct {
	Status int
	Body   []byte
	Data   map[string]any
}

// NewResponse builds a Response from a raw JSON body. It is exported for test doubles.
func NewResponse(status int, body []byte) (*Response, error) {
	data, err := decodeEnvelope(body)
	if err != nil {
		return nil, err
	}
	return &Response{Status: status, Body: body, Data: data}, nil
}

// Decode unmarshals the raw body into out.
func (r *Response) Decode(out any) error {
	if len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, out); err != nil {
		return fmt.Errorf("decode api response: %w", err)
	}
	return nil
}

// Search evaluates a JMESPath expression against the envelope.
func (r *Response) Search(expr string) (any, error) {
	if r.Data == nil {
		return nil, nil
	}
	return jmespath.Search(expr, r.Data)
}

// Message returns the envelope's message field, if any.
func (r *Response) Message() string {
	v, err := r.Search("message")
	if err != nil {
		return ""
	}
	return stringify(v)
}

func decodeEnvelope(body []byte) (map[string]any, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return map[string]any{}, nil
	}
	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("decode api envelope: %w", err)
	}
	return data, nil
}

// isErrorEnvelope reports whether a 2xx envelope carries response "error"/"Error".
func isErrorEnvelope(data map[string]any) bool {
	r, _ := data["response"].(string)
	return r == "error" || r == "Error"
}

// envelopeMessage extracts the normalized error message, or "" when none is present.
func envelopeMessage(data map[string]any) string {
	if len(data) == 0 {
		return ""
	}
	v, err := jmespath.Search(messageExpr, data)
	if err != nil {
		return ""
	}
	return stringify(v)
}

// classifierInputs returns the stringified message, error and errors fields.
func classifierInputs(data map[string]any) []string {
	if len(data) == 0 {
		return nil
	}
	v, err := jmespath.Search(candidatesExpr, data)
	if err != nil {
		return nil
	}
	list, _ := v.([]any)
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s := stringify(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case bool:
		return ""
	case float64:
		return strings.TrimSpace(fmt.Sprint(t))
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := stringify(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if s := stringify(t[k]); s != "" {
				return s
			}
		}
		return ""
	default:
		return fmt.Sprint(t)
	}
}
