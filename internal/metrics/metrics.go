package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

var (
	// Runs counts bridge invocations by model type and outcome.
	Runs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cropbridge_runs_total",
		Help: "Total bridge runs by model type and outcome.",
	}, []string{"model_type", "outcome"})

	// RunDuration tracks end-to-end bridge latency.
	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cropbridge_run_duration_seconds",
		Help:    "Time spent handling one request.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	})
)

// Push sends the run's metrics to a Pushgateway. The process is one-shot, so
// push replaces the scrape endpoint a long-running service would expose.
func Push(gateway, job string) error {
	if err := push.New(gateway, job).Gatherer(prometheus.DefaultGatherer).Push(); err != nil {
		return fmt.Errorf("metrics: push to %s: %w", gateway, err)
	}
	return nil
}
