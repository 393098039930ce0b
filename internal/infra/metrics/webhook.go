// File: internal/infra/metrics/webhook.go
package metrics

import "github.com/prometheus/client_golang/prometheus"

var webhookProcessed = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "fcp",
	Subsystem: "webhook",
	Name:      "processed_total",
	Help:      "Webhook deliveries by outcome and reason.",
}, []string{"outcome", "reason"})

func init() {
	register(webhookProcessed)
}

func WebhookProcessed(outcome, reason string) {
	webhookProcessed.WithLabelValues(norm(outcome), norm(reason)).Inc()
}
