// File: internal/infra/metrics/register.go
package metrics

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once
	pending      []prometheus.Collector
)

// register queues a collector for registration. Each metric file queues its
// collectors from init(); MustRegister flushes the queue exactly once when
// the process wires its HTTP surface.
func register(cs ...prometheus.Collector) {
	pending = append(pending, cs...)
}

// MustRegister registers every queued collector with the default registry.
// Call it once from main before serving /metrics.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(pending...)
		pending = nil
	})
}

// norm lowercases a label value and squeezes whitespace so user-influenced
// strings cannot explode label cardinality.
func norm(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "unknown"
	}
	return strings.Join(strings.Fields(s), "_")
}
