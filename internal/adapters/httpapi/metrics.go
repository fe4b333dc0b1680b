package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics of the JSON API.
type Metrics struct {
	Requests          *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	TramitesCreated   prometheus.Counter
	TramitesUpdated   prometheus.Counter
	DocumentsUploaded *prometheus.CounterVec
	SessionsExpired   prometheus.Counter
}

// NewMetrics creates the metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "escrituras_http_requests_total",
			Help: "HTTP requests served, by route, method and status code",
		}, []string{"route", "method", "status"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "escrituras_http_request_duration_seconds",
			Help:    "HTTP request latency, by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		TramitesCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "escrituras_tramites_created_total",
			Help: "Trámites created through the API",
		}),
		TramitesUpdated: f.NewCounter(prometheus.CounterOpts{
			Name: "escrituras_tramites_updated_total",
			Help: "Trámite edits persisted through the API",
		}),
		DocumentsUploaded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "escrituras_documents_uploaded_total",
			Help: "Documents uploaded, by kind",
		}, []string{"kind"}),
		SessionsExpired: f.NewCounter(prometheus.CounterOpts{
			Name: "escrituras_session_expired_total",
			Help: "Requests rejected because the session expired",
		}),
	}
}
