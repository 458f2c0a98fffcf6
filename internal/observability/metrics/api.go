// Package metrics emits StatsD metrics for upstream API calls.
package metrics

import (
	"strconv"
	"time"

	obserrors "github.com/target/rfp-console/internal/observability/errors"
	"github.com/target/rfp-console/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// APICall captures one round trip to the remote API.
type APICall struct {
	Op       string
	Status   int
	Duration time.Duration
	Err      error
}

// EmitAPICall emits the api.call counter and api.duration timing.
func EmitAPICall(sink statsd.Sink, in APICall) {
	if sink == nil {
		return
	}

	op := in.Op
	if op == "" {
		op = "unknown"
	}
	tags := map[string]string{
		"op":     op,
		"result": ResultSuccess,
	}
	if in.Status > 0 {
		tags["status"] = strconv.Itoa(in.Status)
	}
	if in.Err != nil {
		tags["result"] = ResultError
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("api.call", 1, tags)

	if in.Duration > 0 {
		sink.Timing("api.duration", in.Duration, CloneTags(tags))
	}
}

// EmitSessionEvent counts session lifecycle transitions (login, logout, expired, restored_empty).
func EmitSessionEvent(sink statsd.Sink, event string) {
	if sink == nil || event == "" {
		return
	}
	sink.Count("session.event", 1, map[string]string{"event": event})
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
