package engine

import "github.com/prometheus/client_golang/prometheus"

var (
	refsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "engined",
		Subsystem: "engine",
		Name:      "refs",
		Help:      "Live engine handles",
	})

	initTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "engined",
		Subsystem: "engine",
		Name:      "init_total",
		Help:      "Total native backend initializations",
	})

	freeTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "engined",
		Subsystem: "engine",
		Name:      "free_total",
		Help:      "Total native backend teardowns",
	})

	underflowTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "engined",
		Subsystem: "engine",
		Name:      "release_underflow_total",
		Help:      "Releases observed while no backend was live (invariant violation)",
	})
)

func init() {
	prometheus.MustRegister(refsGauge, initTotal, freeTotal, underflowTotal)
}
