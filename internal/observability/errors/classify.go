// Package errors derives low-cardinality error class names for metric tags.
package errors

import (
	"context"
	goerrors "errors"
	"reflect"
	"strings"
)

// classifier is implemented by errors that name their own class.
type classifier interface {
	Class() string
}

// Classify returns a normalized error class suitable for tagging metrics and logs.
// Errors exposing Class() win; context errors map to timeout/canceled; anything else
// is named after its innermost concrete type in snake_case.
func Classify(err error) string {
	if err == nil {
		return ""
	}

	var c classifier
	if goerrors.As(err, &c) {
		if class := strings.TrimSpace(c.Class()); class != "" {
			return class
		}
	}

	switch {
	case goerrors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case goerrors.Is(err, context.Canceled):
		return "canceled"
	}

	for {
		unwrapped := goerrors.Unwrap(err)
		if unwrapped == nil {
			break
		}
		err = unwrapped
	}

	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}

	name := strings.ToLower(strings.ReplaceAll(t.String(), "*", ""))
	name = strings.ReplaceAll(name, ".", "_")
	if name == "" {
		return "unknown"
	}
	return name
}
