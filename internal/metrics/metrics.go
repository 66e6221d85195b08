package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "taskbox", Name: "http_requests_total", Help: "Number of HTTP requests by method, route and status."},
		[]string{"method", "path", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "taskbox", Name: "http_request_duration_seconds", Help: "HTTP request latency by method and route.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path"},
	)
	WebhookEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "taskbox", Name: "webhook_events_total", Help: "Number of webhook deliveries by event type and outcome."},
		[]string{"type", "outcome"},
	)
	QuotaRejections = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "taskbox", Name: "quota_rejections_total", Help: "Number of todo creations rejected by the free tier cap."},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(HTTPRequests)
	reg.MustRegister(HTTPDuration)
	reg.MustRegister(WebhookEvents)
	reg.MustRegister(QuotaRejections)
}
