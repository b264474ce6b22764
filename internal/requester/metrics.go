package requester

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// externalRoute labels calls made against arbitrary URLs.
const externalRoute = "external"

// Metrics receives call telemetry.
type Metrics interface {
	ObserveResponse(route, method string, status int, ok bool, elapsed time.Duration)
	ObserveRedirect(route, kind string)
	ObserveTransportError(route, method string)
}

type nopMetrics struct{}

func (nopMetrics) ObserveResponse(string, string, int, bool, time.Duration) {}
func (nopMetrics) ObserveRedirect(string, string)                          {}
func (nopMetrics) ObserveTransportError(string, string)                    {}

// PrometheusMetrics records calls as Prometheus series.
type PrometheusMetrics struct {
	requestDuration *prometheus.HistogramVec
	responsesTotal  *prometheus.CounterVec
	redirectsTotal  *prometheus.CounterVec
	transportErrors *prometheus.CounterVec
}

// NewPrometheusMetrics registers the collectors on reg. A nil reg uses the
// default registerer.
func NewPrometheusMetrics(namespace string, reg prometheus.Registerer) *PrometheusMetrics {
	if namespace == "" {
		namespace = "specfetch"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Duration of single HTTP hops in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"route", "method"},
		),
		responsesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "responses_total",
				Help:      "Responses received, by interpreted outcome",
			},
			[]string{"route", "method", "status_code", "outcome"},
		),
		redirectsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "redirects_total",
				Help:      "Redirects followed, by kind",
			},
			[]string{"route", "kind"},
		),
		transportErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transport_errors_total",
				Help:      "Requests whose transport failed",
			},
			[]string{"route", "method"},
		),
	}
}

func (p *PrometheusMetrics) ObserveResponse(route, method string, status int, ok bool, elapsed time.Duration) {
	outcome := "failure"
	if ok {
		outcome = "success"
	}
	p.requestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
	p.responsesTotal.WithLabelValues(route, method, strconv.Itoa(status), outcome).Inc()
}

func (p *PrometheusMetrics) ObserveRedirect(route, kind string) {
	p.redirectsTotal.WithLabelValues(route, kind).Inc()
}

func (p *PrometheusMetrics) ObserveTransportError(route, method string) {
	p.transportErrors.WithLabelValues(route, method).Inc()
}
