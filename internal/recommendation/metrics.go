package recommendation

import (
	"context"
	"sync"
	"time"

	"github.com/NomadCrew/vacation-recommender/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Geocode lookup results as reported to metrics.
const (
	GeocodeHit     = "hit"
	GeocodeMiss    = "miss"
	GeocodeError   = "error"
	GeocodeSkipped = "skipped"
)

// Metrics holds the pipeline's Prometheus collectors. It also acts as an
// AttemptObserver so the orchestrator can feed it like any other sink.
type Metrics struct {
	attempts        *prometheus.CounterVec
	runs            *prometheus.CounterVec
	runDuration     prometheus.Histogram
	attemptsPerRun  prometheus.Histogram
	attemptLatency  prometheus.Histogram
	geocodeLookups  *prometheus.CounterVec
	enrichDurations prometheus.Histogram
}

var (
	metricsInstance *Metrics
	metricsOnce     sync.Once
	metricsRegistry = prometheus.DefaultRegisterer
)

// NewMetrics returns the process-wide collectors, registering them on first use.
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		metricsInstance = &Metrics{
			attempts: promauto.With(metricsRegistry).NewCounterVec(prometheus.CounterOpts{
				Name: "recommendation_generation_attempts_total",
				Help: "Generation attempts by outcome",
			}, []string{"outcome"}),
			runs: promauto.With(metricsRegistry).NewCounterVec(prometheus.CounterOpts{
				Name: "recommendation_generation_runs_total",
				Help: "Generation runs by final result",
			}, []string{"result"}),
			runDuration: promauto.With(metricsRegistry).NewHistogram(prometheus.HistogramOpts{
				Name:    "recommendation_generation_run_duration_seconds",
				Help:    "Wall time of a generation run including backoff",
				Buckets: []float64{1, 5, 10, 20, 30, 60, 90, 120, 180, 300},
			}),
			attemptsPerRun: promauto.With(metricsRegistry).NewHistogram(prometheus.HistogramOpts{
				Name:    "recommendation_generation_attempts_per_run",
				Help:    "Attempts used by each generation run",
				Buckets: []float64{1, 2, 3, 4, 5},
			}),
			attemptLatency: promauto.With(metricsRegistry).NewHistogram(prometheus.HistogramOpts{
				Name:    "recommendation_completion_latency_seconds",
				Help:    "Latency of a single completion call",
				Buckets: []float64{.5, 1, 2.5, 5, 10, 20, 30, 60, 90},
			}),
			geocodeLookups: promauto.With(metricsRegistry).NewCounterVec(prometheus.CounterOpts{
				Name: "recommendation_geocode_lookups_total",
				Help: "Coordinate lookups by result",
			}, []string{"result"}),
			enrichDurations: promauto.With(metricsRegistry).NewHistogram(prometheus.HistogramOpts{
				Name:    "recommendation_enrichment_duration_seconds",
				Help:    "Time to enrich one batch with coordinates",
				Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
			}),
		}
	})
	return metricsInstance
}

// resetMetricsForTesting swaps in a fresh registry and returns it.
func resetMetricsForTesting() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	metricsRegistry = reg
	metricsInstance = nil
	metricsOnce = sync.Once{}
	return reg
}

func (m *Metrics) ObserveAttempt(_ context.Context, a types.GenerationAttempt) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(a.Outcome).Inc()
	if a.Latency > 0 {
		m.attemptLatency.Observe(a.Latency.Seconds())
	}
}

// ObserveRun records a finished run. result is "success" or "exhausted".
func (m *Metrics) ObserveRun(result string, attempts int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(result).Inc()
	m.attemptsPerRun.Observe(float64(attempts))
	m.runDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) observeGeocode(result string) {
	if m == nil {
		return
	}
	m.geocodeLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) observeEnrichment(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.enrichDurations.Observe(elapsed.Seconds())
}
