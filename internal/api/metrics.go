package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// simulationsTotal counts simulation requests.
	// Labels: outcome (ok, invalid, capacity, refused, error)
	simulationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "simcross",
		Subsystem: "api",
		Name:      "simulations_total",
		Help:      "Simulation requests by outcome",
	}, []string{"outcome"})

	simulationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "simcross",
		Subsystem: "api",
		Name:      "simulation_duration_seconds",
		Help:      "Time spent drawing a simulated dataset",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
	})

	simulatedObservations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "simcross",
		Subsystem: "api",
		Name:      "observations_total",
		Help:      "Observations generated across all successful simulations",
	})
)

func recordSimulation(outcome string, started time.Time, n int) {
	simulationsTotal.WithLabelValues(outcome).Inc()
	if outcome != "ok" {
		return
	}
	simulationDuration.Observe(time.Since(started).Seconds())
	simulatedObservations.Add(float64(n))
}
