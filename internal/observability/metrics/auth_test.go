package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/target/mmk-sso/internal/errors"
	"github.com/target/mmk-sso/internal/observability/statsd"
)

func TestEmitLogin(t *testing.T) {
	var rec statsd.Recorder
	EmitLogin(&rec, LoginMetric{
		Provider: "oauth",
		Result:   ResultError,
		Duration: 120 * time.Millisecond,
		Err:      apperrors.New(apperrors.ErrCodeExchangeRejected, "invalid_grant"),
	})

	counts := rec.Counts(NameLogin)
	require.Len(t, counts, 1)
	assert.Equal(t, map[string]string{
		"provider":    "oauth",
		"result":      ResultError,
		"error_class": "exchange_rejected",
	}, counts[0].Tags)

	timings := rec.Timings(NameExchangeTime)
	require.Len(t, timings, 1)
	assert.Equal(t, 120*time.Millisecond, timings[0].Duration)
}

func TestEmitLogin_NoDurationNoTiming(t *testing.T) {
	var rec statsd.Recorder
	EmitLogin(&rec, LoginMetric{Provider: "mock", Result: ResultReplay})
	assert.Len(t, rec.Counts(NameLogin), 1)
	assert.Empty(t, rec.Timings(NameExchangeTime))
}

func TestEmitters_NilSink(t *testing.T) {
	assert.NotPanics(t, func() {
		EmitLogin(nil, LoginMetric{})
		EmitSessionRestore(nil, ResultSuccess)
		EmitGuardDenied(nil, "role", "unauthorized")
		EmitDirectoryLookup(nil, ResultMiss, nil)
	})
}

func TestEmitDirectoryLookup(t *testing.T) {
	var rec statsd.Recorder
	EmitDirectoryLookup(&rec, ResultHit, nil)
	EmitDirectoryLookup(&rec, ResultError, errors.New("boom"))

	got := rec.Counts(NameDirectoryLookup)
	require.Len(t, got, 2)
	assert.Equal(t, map[string]string{"result": ResultHit}, got[0].Tags)
	assert.Equal(t, "errors_errorstring", got[1].Tags["error_class"])
}

func TestEmitGuardDenied(t *testing.T) {
	var rec statsd.Recorder
	EmitGuardDenied(&rec, "permission", "unauthenticated")
	got := rec.Counts(NameGuardDenied)
	require.Len(t, got, 1)
	assert.Equal(t, "permission", got[0].Tags["guard"])
}

func TestCloneTags(t *testing.T) {
	assert.Nil(t, CloneTags(nil))
	src := map[string]string{"a": "1"}
	cp := CloneTags(src)
	cp["a"] = "2"
	assert.Equal(t, "1", src["a"])
}
