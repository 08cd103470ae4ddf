package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instruments for the HTTP boundary, backed by
// a private registry so tests can create servers without collision panics.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal    *prometheus.CounterVec
	AnalysisDuration prometheus.Histogram
	EmotionsTotal    *prometheus.CounterVec
}

// NewMetrics creates and registers the server metrics
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "emotion_http_requests_total",
			Help: "HTTP requests by path and status code",
		}, []string{"path", "code"}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "emotion_analysis_duration_seconds",
			Help:    "End-to-end analysis pipeline duration",
			Buckets: prometheus.DefBuckets,
		}),
		EmotionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "emotion_predictions_total",
			Help: "Predicted emotions by label",
		}, []string{"label"}),
	}

	registry.MustRegister(m.RequestsTotal, m.AnalysisDuration, m.EmotionsTotal)

	return m
}

// Handler returns the /metrics HTTP handler for this registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
