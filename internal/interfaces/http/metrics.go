package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

// MetricsRegistry holds all Prometheus metrics for righthome.
type MetricsRegistry struct {
	registry *prometheus.Registry

	ScoresComputed  *prometheus.CounterVec
	ScoreValues     prometheus.Histogram
	Comparisons     prometheus.Counter
	ComparisonSizes prometheus.Histogram

	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter
	CacheHitRatio    prometheus.Gauge

	Narratives *prometheus.CounterVec

	RequestDuration *prometheus.HistogramVec
}

// NewMetricsRegistry creates and registers all righthome metrics on a
// dedicated registry.
func NewMetricsRegistry() *MetricsRegistry {
	m := &MetricsRegistry{
		registry: prometheus.NewRegistry(),

		ScoresComputed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "righthome_scores_total",
				Help: "Total number of property scores computed by recommendation tier",
			},
			[]string{"tier"},
		),

		ScoreValues: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "righthome_score_value",
				Help:    "Distribution of computed property scores",
				Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
			},
		),

		Comparisons: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "righthome_comparisons_total",
				Help: "Total number of batch comparisons completed",
			},
		),

		ComparisonSizes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "righthome_comparison_batch_size",
				Help:    "Number of properties per comparison batch",
				Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
			},
		),

		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "righthome_cache_hits_total",
				Help: "Total number of score cache hits",
			},
		),

		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "righthome_cache_misses_total",
				Help: "Total number of score cache misses",
			},
		),

		CacheHitRatio: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "righthome_cache_hit_ratio",
				Help: "Current score cache hit ratio (0.0 to 1.0)",
			},
		),

		Narratives: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "righthome_narratives_total",
				Help: "Total number of narrative generation attempts by outcome",
			},
			[]string{"outcome"},
		),

		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "righthome_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
			},
			[]string{"method", "path", "status"},
		),
	}

	m.registry.MustRegister(
		m.ScoresComputed,
		m.ScoreValues,
		m.Comparisons,
		m.ComparisonSizes,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.CacheHitRatio,
		m.Narratives,
		m.RequestDuration,
	)

	return m
}

// Handler exposes the registry for scraping.
func (m *MetricsRegistry) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ScoreComputed records a computed score and its tier.
func (m *MetricsRegistry) ScoreComputed(tier string, score float64) {
	m.ScoresComputed.WithLabelValues(tier).Inc()
	m.ScoreValues.Observe(score)
}

// ComparisonCompleted records a finished batch comparison.
func (m *MetricsRegistry) ComparisonCompleted(batchSize int) {
	m.Comparisons.Inc()
	m.ComparisonSizes.Observe(float64(batchSize))
}

// CacheHit records a score cache hit.
func (m *MetricsRegistry) CacheHit() {
	m.CacheHitsTotal.Inc()
	m.updateCacheHitRatio()
}

// CacheMiss records a score cache miss.
func (m *MetricsRegistry) CacheMiss() {
	m.CacheMissesTotal.Inc()
	m.updateCacheHitRatio()
}

// NarrativeOutcome records a narrative generation attempt.
func (m *MetricsRegistry) NarrativeOutcome(outcome string) {
	m.Narratives.WithLabelValues(outcome).Inc()
}

// updateCacheHitRatio recomputes the hit ratio gauge from the counters.
func (m *MetricsRegistry) updateCacheHitRatio() {
	var hits, misses dto.Metric
	if err := m.CacheHitsTotal.Write(&hits); err != nil {
		return
	}
	if err := m.CacheMissesTotal.Write(&misses); err != nil {
		return
	}

	total := hits.GetCounter().GetValue() + misses.GetCounter().GetValue()
	if total > 0 {
		m.CacheHitRatio.Set(hits.GetCounter().GetValue() / total)
	}
}
