// Package handler provides HTTP request handling for the MCP server.
package handler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/brizzai/specfetch/internal/logger"
)

// Handler assembles the HTTP routes served next to the MCP endpoint.
type Handler struct {
	metrics bool
}

// NewHandler creates a new HTTP handler. With metrics enabled the default
// Prometheus registry is served on /metrics.
func NewHandler(metrics bool) *Handler {
	return &Handler{metrics: metrics}
}

// CreateHTTPHandler mounts the MCP handler and, when enabled, /metrics.
func (h *Handler) CreateHTTPHandler(mcpHandler http.Handler) http.Handler {
	mux := http.NewServeMux()
	if h.metrics {
		mux.Handle("/metrics", promhttp.Handler())
		logger.Info("Serving Prometheus metrics on /metrics")
	}
	mux.Handle("/", mcpHandler)
	return mux
}
