package commerce

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commerce_api_requests_total",
			Help: "Total number of commerce API operations",
		},
		[]string{"operation", "outcome"},
	)

	apiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "commerce_api_request_duration_seconds",
			Help:    "Commerce API operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

func observeOperation(operation string, d time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	apiRequestsTotal.WithLabelValues(operation, outcome).Inc()
	apiRequestDuration.WithLabelValues(operation).Observe(d.Seconds())
}
