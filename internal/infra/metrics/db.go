// File: internal/infra/metrics/db.go
package metrics

import "github.com/prometheus/client_golang/prometheus"

var dbPool = prometheus.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "fcp",
	Subsystem: "db",
	Name:      "pool_connections",
	Help:      "Connection pool state by class (total, idle, acquired).",
}, []string{"state"})

func init() {
	register(dbPool)
}

func SetDBPoolStats(total, idle, acquired int) {
	dbPool.WithLabelValues("total").Set(float64(total))
	dbPool.WithLabelValues("idle").Set(float64(idle))
	dbPool.WithLabelValues("acquired").Set(float64(acquired))
}
