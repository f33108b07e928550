package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// SetupPrometheus creates the service registry with the runtime collectors, a
// store info gauge labeled with the workouts store backend, and any extra
// collectors (e.g. the postgres pool stats).
func SetupPrometheus(storeBackend string, extraCollectors ...prometheus.Collector) *prometheus.Registry {
	promRegistry := prometheus.NewRegistry()

	promRegistry.MustRegister(
		collectors.NewBuildInfoCollector(),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	storeInfo := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "backend",
		Subsystem: "mapty",
		Name:      "store_info",
		Help:      "Workouts store backend in use, always 1",
	}, []string{"backend"})
	storeInfo.WithLabelValues(storeBackend).Set(1)
	promRegistry.MustRegister(storeInfo)

	for _, c := range extraCollectors {
		promRegistry.MustRegister(c)
	}

	return promRegistry
}
