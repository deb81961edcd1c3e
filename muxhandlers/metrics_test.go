package muxhandlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/fsroute/fsrouter"
	"github.com/vitalvas/fsroute/route"
)

func TestMetricsMiddleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	mw, err := MetricsMiddleware(MetricsConfig{Registerer: reg, Namespace: "test"})
	require.NoError(t, err)

	r := newRouter(t, "users/[id].go", fsrouter.Module{
		"GET": func(c *route.Context) (any, error) {
			if c.Param("id") == "0" {
				return nil, route.Errorf(http.StatusNotFound, "no user")
			}
			return "user", nil
		},
	}, mw)

	get(r, "/users/1", nil)
	get(r, "/users/2", nil)
	get(r, "/users/0", nil)
	get(r, "/missing", nil)

	expected := `
# HELP test_requests_total Requests served, by operation and status code.
# TYPE test_requests_total counter
test_requests_total{code="200",operation="GET /users/:id"} 2
test_requests_total{code="404",operation="GET /users/:id"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "test_requests_total"))

	n, err := testutil.GatherAndCount(reg, "test_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	inflight := `
# HELP test_requests_in_flight Requests currently being served.
# TYPE test_requests_in_flight gauge
test_requests_in_flight 0
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(inflight), "test_requests_in_flight"))
}

func TestMetricsMiddlewareAroundRouter(t *testing.T) {
	reg := prometheus.NewRegistry()
	mw, err := MetricsMiddleware(MetricsConfig{Registerer: reg, Namespace: "outer"})
	require.NoError(t, err)

	r := newRouter(t, "ping.go", fsrouter.Module{"GET": ok})
	h := mw(r)

	get(h, "/ping", nil)
	get(h, "/missing", nil)

	expected := `
# HELP outer_requests_total Requests served, by operation and status code.
# TYPE outer_requests_total counter
outer_requests_total{code="200",operation="GET unmatched"} 1
outer_requests_total{code="404",operation="GET unmatched"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "outer_requests_total"))
}

func TestMetricsMiddlewareDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := MetricsMiddleware(MetricsConfig{Registerer: reg})
	require.NoError(t, err)

	_, err = MetricsMiddleware(MetricsConfig{Registerer: reg})
	assert.Error(t, err)
}

func TestMetricsHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := MetricsMiddleware(MetricsConfig{Registerer: reg})
	require.NoError(t, err)

	w := get(MetricsHandler(reg), "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "fsroute_requests_in_flight")
}
