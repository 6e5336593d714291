package observability_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/netpay-engine/config"
	"github.com/warp/netpay-engine/observability"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func testConfig() config.Config {
	return config.Config{
		AppName:     "netpay-test",
		AppVersion:  "1.2.3",
		Environment: config.EnvDevelopment,
		LogLevel:    "debug",
		LogFormat:   "console",
	}
}

// =============================================================================
// LOGGER
// =============================================================================

func TestNewLogger(t *testing.T) {
	before := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(before) })

	logger, err := observability.NewLogger(testConfig())
	require.NoError(t, err)

	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	assert.Same(t, logger, zap.L())
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	cfg := testConfig()
	cfg.LogLevel = "loud"

	_, err := observability.NewLogger(cfg)

	assert.ErrorContains(t, err, `invalid log level "loud"`)
}

func TestWithContext_AddsRequestID(t *testing.T) {
	// GIVEN: a context carrying a chi request id
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")

	// WHEN: logging through the enriched logger
	observability.WithContext(ctx, base).Info("computed")
	observability.WithContext(context.Background(), base).Info("plain")

	// THEN: only the first entry has the id
	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "req-42", entries[0].ContextMap()["request_id"])
	assert.NotContains(t, entries[1].ContextMap(), "request_id")
}

// =============================================================================
// SENTRY
// =============================================================================

func TestInitSentry_EmptyDSNDisables(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	enabled := observability.InitSentry(testConfig(), zap.New(core))

	assert.False(t, enabled)
	assert.Equal(t, 1, logs.FilterMessageSnippet("disabled").Len())

	// Capturing without a client is a no-op.
	observability.CaptureError(errors.New("boom"), map[string]string{"route": "/x"})
	observability.CaptureError(nil, nil)
	observability.FlushSentry()
}

// =============================================================================
// METRICS
// =============================================================================

func scrape(t *testing.T, m *observability.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics_Exposition(t *testing.T) {
	// GIVEN: a metrics set with a few observations
	m := observability.NewMetrics(testConfig())
	m.ObserveComputation(2026, observability.OutcomeOK, time.Millisecond)
	m.ObserveComputation(2026, observability.OutcomeOK, time.Millisecond)
	m.ObserveComputation(2099, observability.OutcomeClientError, time.Millisecond)
	m.ObserveCache(observability.CacheHit)
	m.ObserveProjection(121, 50*time.Millisecond)
	m.ObservePrune(3)
	m.ObserveHTTP(http.MethodPost, "/api/v1/compute", 200, time.Millisecond)

	// WHEN: scraping
	body := scrape(t, m)

	// THEN: the series are labelled and counted
	assert.Contains(t, body, `netpay_computations_total{env="development",outcome="ok",service="netpay-test",year="2026"} 2`)
	assert.Contains(t, body, `outcome="client_error",service="netpay-test",year="2099"} 1`)
	assert.Contains(t, body, `netpay_cache_lookups_total{env="development",result="hit",service="netpay-test"} 1`)
	assert.Contains(t, body, `netpay_projection_points_total{env="development",service="netpay-test"} 121`)
	assert.Contains(t, body, `netpay_cache_pruned_total{env="development",service="netpay-test"} 3`)
	assert.Contains(t, body, `route="/api/v1/compute",service="netpay-test",status="200"} 1`)
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *observability.Metrics
	assert.NotPanics(t, func() {
		m.ObserveComputation(2026, observability.OutcomeOK, 0)
		m.ObserveCache(observability.CacheMiss)
		m.ObserveHTTP(http.MethodGet, "", 404, 0)
	})
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a := observability.NewMetrics(testConfig())
	b := observability.NewMetrics(testConfig())
	a.ObserveCache(observability.CacheMiss)

	assert.NotContains(t, scrape(t, b), `result="miss"`)
}
