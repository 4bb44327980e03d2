// Package metrics defines the metric names and tags emitted by the login flow,
// the access guards and the directory cache.
package metrics

import (
	"time"

	obserrors "github.com/target/mmk-sso/internal/observability/errors"
	"github.com/target/mmk-sso/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultReplay  = "replay"
	ResultHit     = "hit"
	ResultMiss    = "miss"
)

// Metric names.
const (
	NameLogin           = "auth.login"
	NameExchangeTime    = "auth.exchange.duration"
	NameSessionRestore  = "auth.session.restore"
	NameGuardDenied     = "auth.guard.denied"
	NameDirectoryLookup = "directory.lookup"
)

// LoginMetric describes one callback handled by the login flow.
type LoginMetric struct {
	Provider string
	Result   string
	Duration time.Duration
	Err      error
}

// EmitLogin records the outcome of a code exchange and, when known, how long it took.
func EmitLogin(sink statsd.Sink, in LoginMetric) {
	if sink == nil {
		return
	}
	tags := map[string]string{"provider": in.Provider, "result": in.Result}
	if in.Err != nil {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}
	sink.Count(NameLogin, 1, tags)
	if in.Duration > 0 {
		sink.Timing(NameExchangeTime, in.Duration, CloneTags(tags))
	}
}

// EmitSessionRestore records whether persisted cookies produced a session.
func EmitSessionRestore(sink statsd.Sink, result string) {
	if sink == nil {
		return
	}
	sink.Count(NameSessionRestore, 1, map[string]string{"result": result})
}

// EmitGuardDenied records a refused page or API request.
func EmitGuardDenied(sink statsd.Sink, guard, state string) {
	if sink == nil {
		return
	}
	sink.Count(NameGuardDenied, 1, map[string]string{"guard": guard, "state": state})
}

// EmitDirectoryLookup records a directory cache hit or miss, or an upstream error.
func EmitDirectoryLookup(sink statsd.Sink, result string, err error) {
	if sink == nil {
		return
	}
	tags := map[string]string{"result": result}
	if err != nil {
		tags["error_class"] = obserrors.Classify(err)
	}
	sink.Count(NameDirectoryLookup, 1, tags)
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
