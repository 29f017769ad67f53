package clusterapi

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Endpoint labels carry the template (e.g. /clusters/{connectionId}/disconnect)
	// rather than the expanded path to keep cardinality bounded.
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "clusterapi_requests_total",
		Help: "Total number of cluster API requests by method, endpoint and response code",
	}, []string{"method", "endpoint", "code"})
	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "clusterapi_request_duration_seconds",
		Help:    "Latency of cluster API requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"})
)

// RegisterMetrics registers the client collectors with reg. The collectors
// are always updated; programs embedding the client call this to expose them
// on their own registry. Collectors that are already registered are left
// alone.
func RegisterMetrics(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{RequestsTotal, RequestDuration} {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return err
		}
	}
	return nil
}

func observeRequest(method, endpoint, code string, elapsed time.Duration) {
	RequestsTotal.WithLabelValues(method, endpoint, code).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(elapsed.Seconds())
}
