// File: internal/infra/metrics/cache.go
package metrics

import "github.com/prometheus/client_golang/prometheus"

var cacheRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "fcp",
	Subsystem: "cache",
	Name:      "requests_total",
	Help:      "Cache lookups by keyspace and outcome (hit, miss, error).",
}, []string{"keyspace", "outcome"})

func init() {
	register(cacheRequests)
}

func IncCacheRequest(keyspace, outcome string) {
	cacheRequests.WithLabelValues(norm(keyspace), norm(outcome)).Inc()
}
