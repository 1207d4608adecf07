package advantage

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	crossoverTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qcross_crossover_calculations_total",
		Help: "Total number of crossover calculations by type and outcome.",
	}, []string{"type", "outcome"})

	crossoverDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "qcross_crossover_duration_seconds",
		Help:    "Duration of crossover calculations by type.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
	}, []string{"type"})

	curveSamplesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qcross_curve_samples_total",
		Help: "Total number of curve sample points evaluated.",
	})
)

func observeCrossover(calcType string, r Result, seconds float64) {
	crossoverTotal.WithLabelValues(calcType, r.Kind.String()).Inc()
	crossoverDuration.WithLabelValues(calcType).Observe(seconds)
}
