// File: internal/infra/metrics/build.go
package metrics

import "github.com/prometheus/client_golang/prometheus"

var buildInfo = prometheus.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "fcp",
	Name:      "build_info",
	Help:      "Constant 1 labeled with build metadata.",
}, []string{"version", "go_version"})

func init() {
	register(buildInfo)
}

func SetBuildInfo(version, goVersion string) {
	buildInfo.WithLabelValues(version, goVersion).Set(1)
}
