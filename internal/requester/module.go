package requester

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/brizzai/specfetch/internal/apidef"
	"github.com/brizzai/specfetch/internal/config"
	"github.com/brizzai/specfetch/internal/cookies"
)

// ClientParams holds the dependencies of a config-driven Client.
type ClientParams struct {
	fx.In

	API       *apidef.API
	Config    *config.Config
	Cookies   cookies.Reader
	Transport Transport
	Metrics   Metrics
}

// NewClientFromConfig builds a Client tuned by the api config section.
func NewClientFromConfig(p ClientParams) (*Client, error) {
	return NewClient(p.API,
		WithTransport(p.Transport),
		WithCookies(p.Cookies),
		WithMetrics(p.Metrics),
		WithMaxRedirects(p.Config.API.MaxRedirects),
		WithMaxResponseBytes(p.Config.API.MaxResponseBytes),
		WithTimeout(p.Config.API.Timeout),
	)
}

// jarProvider is implemented by cookie stores that collect response cookies.
type jarProvider interface {
	Jar() http.CookieJar
}

// NewTransportForCookies shares the store's cookie jar with the HTTP
// transport when it has one.
func NewTransportForCookies(store cookies.Reader) Transport {
	if jp, ok := store.(jarProvider); ok {
		return NewHTTPTransport(jp.Jar())
	}
	return NewHTTPTransport(nil)
}

// NewMetrics returns Prometheus metrics when enabled, otherwise a no-op.
func NewMetrics(cfg *config.Config) Metrics {
	if !cfg.Metrics.Enabled {
		return nopMetrics{}
	}
	return NewPrometheusMetrics(cfg.Metrics.Namespace, prometheus.DefaultRegisterer)
}

// Module provides the requester module dependencies
var Module = fx.Module("requester",
	fx.Provide(
		NewClientFromConfig,
		NewTransportForCookies,
		NewMetrics,
	),
)
