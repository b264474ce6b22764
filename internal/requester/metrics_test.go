package requester

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brizzai/specfetch/internal/apidef"
)

func TestPrometheusMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewPrometheusMetrics("test", reg)

	api := &apidef.API{Routes: map[string]apidef.RouteSpec{
		"moved": {URL: "/moved", Method: apidef.MethodGet},
		"down":  {URL: "/down", Method: apidef.MethodGet, ErrorHandling: &apidef.ErrorPolicy{}},
	}}
	transport := &mockTransport{respond: func(n int, req *http.Request) (*http.Response, error) {
		switch {
		case req.URL.Path == "/down":
			return nil, errors.New("unreachable")
		case req.URL.Path == "/moved":
			return newResponse(http.StatusFound, map[string]string{"Location": "/here"}, ""), nil
		}
		return newResponse(http.StatusOK, nil, ""), nil
	}}
	c := newTestClient(t, api, WithTransport(transport), WithMetrics(metrics))

	_, err := c.Call(context.Background(), "moved", nil)
	require.NoError(t, err)
	_, err = c.Call(context.Background(), "down", nil)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.redirectsTotal.WithLabelValues("moved", "header-location")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.responsesTotal.WithLabelValues("moved", "GET", "302", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.responsesTotal.WithLabelValues(externalRoute, "GET", "200", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.transportErrors.WithLabelValues("down", "GET")))
	assert.Equal(t, 2, testutil.CollectAndCount(metrics.requestDuration))
}

func TestNewPrometheusMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheusMetrics("dup", reg)
	assert.Panics(t, func() { NewPrometheusMetrics("dup", reg) })
}
