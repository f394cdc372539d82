package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for the recommendation pipeline.
type Metrics struct {
	StageDuration   *prometheus.HistogramVec // Seconds spent per stage
	StageFallbacks  *prometheus.CounterVec   // Stage results replaced by a fallback value
	PipelineRuns    *prometheus.CounterVec   // Finished runs by outcome
	PoolInFlight    prometheus.Gauge         // Pipelines currently executing
	PoolQueueLength prometheus.Gauge         // Requests waiting for a worker slot
}

// NewMetrics creates and registers the pipeline metrics. The registerer lets
// tests use a private registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "recommender_stage_duration_seconds",
			Help:    "Time spent in each pipeline stage",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}, []string{"stage"}),
		StageFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recommender_stage_fallbacks_total",
			Help: "Stage outputs replaced by their fallback value",
		}, []string{"stage"}),
		PipelineRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recommender_pipeline_runs_total",
			Help: "Finished pipeline runs by outcome",
		}, []string{"outcome"}),
		PoolInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "recommender_pool_in_flight",
			Help: "Pipelines currently holding a worker slot",
		}),
		PoolQueueLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "recommender_pool_queue_length",
			Help: "Requests waiting for a worker slot",
		}),
	}

	reg.MustRegister(m.StageDuration, m.StageFallbacks, m.PipelineRuns, m.PoolInFlight, m.PoolQueueLength)
	return m
}

// NewUnregistered returns metrics that are not exported anywhere.
func NewUnregistered() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}
