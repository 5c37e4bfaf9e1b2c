package metrics

import (
	"maps"
	"strconv"
	"time"

	apperrors "github.com/salonhub/salon-admin/internal/errors"
	"github.com/salonhub/salon-admin/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// BackendCall captures one request to the salon backend.
type BackendCall struct {
	Method   string
	Resource string
	Status   int
	Duration time.Duration
	Err      error
}

// EmitBackendCall records a request count and its latency.
func EmitBackendCall(sink statsd.Sink, in BackendCall) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"method":   in.Method,
		"resource": in.Resource,
		"status":   StatusClass(in.Status),
		"result":   ResultSuccess,
	}
	if in.Err != nil {
		tags["result"] = ResultError
		if code := apperrors.GetCode(in.Err); code != "" {
			tags["error_class"] = string(code)
		}
	}

	sink.Count("apiclient.request", 1, tags)
	if in.Duration > 0 {
		sink.Timing("apiclient.duration", in.Duration, CloneTags(tags))
	}
}

// FetchOutcome captures how a collection fetch settled.
type FetchOutcome struct {
	Resource string
	Outcome  string
	Items    int
}

// EmitFetchOutcome counts settled fetches and records the collection size.
func EmitFetchOutcome(sink statsd.Sink, in FetchOutcome) {
	if sink == nil {
		return
	}
	tags := map[string]string{"resource": in.Resource, "outcome": in.Outcome}
	sink.Count("fetch.outcome", 1, tags)
	if in.Outcome == ResultSuccess {
		sink.Gauge("fetch.items", float64(in.Items), CloneTags(tags))
	}
}

// EmitSessionEvent counts logins, logouts and forced sign-outs.
func EmitSessionEvent(sink statsd.Sink, event, role string) {
	if sink == nil {
		return
	}
	sink.Count("session."+event, 1, map[string]string{"role": role})
}

// StatusClass buckets an HTTP status as "2xx", "4xx" and so on; 0 means no response.
func StatusClass(status int) string {
	if status <= 0 {
		return "none"
	}
	return strconv.Itoa(status/100) + "xx"
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	return maps.Clone(src)
}
