package pipeline

import "github.com/prometheus/client_golang/prometheus"

var (
	sessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "summaryd",
			Subsystem: "pipeline",
			Name:      "sessions_total",
			Help:      "Total stream sessions by outcome",
		},
		[]string{"outcome"},
	)

	unitsEmittedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "summaryd",
			Subsystem: "pipeline",
			Name:      "units_emitted_total",
			Help:      "Total summary units emitted to clients",
		},
	)

	translateCallsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "summaryd",
			Subsystem: "pipeline",
			Name:      "translate_calls_total",
			Help:      "Total calls to the translation service",
		},
	)

	generateFragmentsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "summaryd",
			Subsystem: "pipeline",
			Name:      "generate_fragments_total",
			Help:      "Total fragments pulled from the generation backend",
		},
	)
)

func init() {
	prometheus.MustRegister(sessionsTotal, unitsEmittedTotal, translateCallsTotal, generateFragmentsTotal)
}
