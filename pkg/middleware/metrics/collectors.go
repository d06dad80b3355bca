package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	responseTime = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "response_time",
			Help:    "http response time.",
			Buckets: []float64{0.5, 1, 5, 10, 30, 60},
		},
	)

	totalHttpRequestsBySignature = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_http_requests_by_signature", Help: "http requests by signature verification"},
		[]string{"verified"},
	)

	totalHttpRequestsToUri = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_http_requests_to_uri", Help: "http requests to uri"},
		[]string{"code", "uri", "method"},
	)

	totalHttpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_http_requests", Help: "http requests by code, and method"},
		[]string{"code", "method"},
	)

	totalLifecycles = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "smartapp_lifecycle_total", Help: "dispatched lifecycle events by outcome"},
		[]string{"lifecycle", "outcome"},
	)

	lifecycleTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "smartapp_lifecycle_seconds",
			Help:    "lifecycle dispatch time.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"lifecycle"},
	)

	totalSubscriptions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "smartapp_subscription_total", Help: "outbound subscription calls by capability and status"},
		[]string{"capability", "code"},
	)
)

func init() {
	prometheus.MustRegister(
		responseTime,
		totalHttpRequestsBySignature,
		totalHttpRequestsToUri,
		totalHttpRequests,
		totalLifecycles,
		lifecycleTime,
		totalSubscriptions,
	)
}
