package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/navhub/internal/middleware"
	"github.com/2beens/navhub/internal/telemetry/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPanicRecovery(t *testing.T) {
	metricsManager := metrics.NewTestManager()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("oops")
	})

	req, err := http.NewRequest("GET", "/", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()

	assert.NotPanics(t, func() {
		middleware.PanicRecovery(metricsManager)(handler).ServeHTTP(rr, req)
	})
}

func TestPanicRecovery_NilMetrics(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("oops")
	})

	req, err := http.NewRequest("GET", "/", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()

	assert.NotPanics(t, func() {
		middleware.PanicRecovery(nil)(handler).ServeHTTP(rr, req)
	})
}
