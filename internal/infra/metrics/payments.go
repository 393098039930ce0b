// File: internal/infra/metrics/payments.go
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	paymentInitiations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fcp",
		Subsystem: "payments",
		Name:      "initiations_total",
		Help:      "Payment initiation attempts by method and result.",
	}, []string{"method", "result"})

	gatewayDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fcp",
		Subsystem: "payments",
		Name:      "gateway_request_seconds",
		Help:      "Latency of outbound gateway requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op"})
)

func init() {
	register(paymentInitiations, gatewayDuration)
}

// IncInitiation counts one initiation attempt. result is one of
// ok, rejected, failed.
func IncInitiation(method, result string) {
	paymentInitiations.WithLabelValues(norm(method), norm(result)).Inc()
}

// ObserveGateway records one outbound gateway call.
func ObserveGateway(op string, seconds float64) {
	gatewayDuration.WithLabelValues(norm(op)).Observe(seconds)
}
