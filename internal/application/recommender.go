// Package application orchestrates scoring, caching, narrative
// generation, and event publication into the operations the HTTP and
// CLI surfaces expose.
package application

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/righthome/righthome/internal/domain"
	"github.com/righthome/righthome/internal/narrative"
	"github.com/righthome/righthome/internal/scoring"
)

// ScoreCache stores computed score results keyed by property ID and a
// fingerprint covering the weight vector and the record content.
type ScoreCache interface {
	GetScore(ctx context.Context, propertyID, fingerprint string) (scoring.ScoreResult, bool, error)
	SetScore(ctx context.Context, propertyID, fingerprint string, result scoring.ScoreResult) error
	InvalidateProperty(ctx context.Context, propertyID string) error
}

// EventSink receives completed scoring events for live subscribers.
type EventSink interface {
	ScoreComputed(result scoring.ScoreResult)
	ComparisonCompleted(result scoring.ComparisonResult)
}

// Metrics counts scoring outcomes. The HTTP layer provides the
// Prometheus-backed implementation.
type Metrics interface {
	ScoreComputed(tier string, score float64)
	ComparisonCompleted(batchSize int)
	CacheHit()
	CacheMiss()
	NarrativeOutcome(outcome string)
}

// Recommendation pairs a score result with its generated narrative.
// Analysis is empty when narrative generation is disabled or failed;
// the score always stands on its own.
type Recommendation struct {
	Result   scoring.ScoreResult `json:"result"`
	Analysis string              `json:"analysis,omitempty"`
}

// ComparisonReport is a batch comparison with an optional narrative
// for the best match.
type ComparisonReport struct {
	scoring.ComparisonResult
	BestMatchAnalysis string `json:"best_match_analysis,omitempty"`
}

// Recommender is the application service behind every scoring surface.
type Recommender struct {
	calc    *scoring.Calculator
	gen     narrative.Generator
	cache   ScoreCache
	events  EventSink
	metrics Metrics
}

// Option configures optional collaborators on a Recommender.
type Option func(*Recommender)

// WithCache attaches a score cache.
func WithCache(cache ScoreCache) Option {
	return func(r *Recommender) { r.cache = cache }
}

// WithEvents attaches an event sink for live subscribers.
func WithEvents(events EventSink) Option {
	return func(r *Recommender) { r.events = events }
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(metrics Metrics) Option {
	return func(r *Recommender) { r.metrics = metrics }
}

// NewRecommender builds a service around a calculator and a narrative
// generator. Pass narrative.Disabled{} when no generator is configured.
func NewRecommender(calc *scoring.Calculator, gen narrative.Generator, opts ...Option) *Recommender {
	r := &Recommender{calc: calc, gen: gen}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Calculator exposes the underlying calculator for surfaces that need
// weight details.
func (r *Recommender) Calculator() *scoring.Calculator {
	return r.calc
}

// Score computes a property's score, consulting the cache first. The
// cache key includes the weight fingerprint and a hash of the record
// content, so neither weight overrides nor record updates under a
// reused ID can serve a stale result.
func (r *Recommender) Score(ctx context.Context, record domain.PropertyRecord) scoring.ScoreResult {
	fingerprint := r.calc.Fingerprint() + "-" + recordFingerprint(record)

	if r.cache != nil && record.ID != "" {
		cached, found, err := r.cache.GetScore(ctx, record.ID, fingerprint)
		if err != nil {
			log.Warn().Err(err).Str("property_id", record.ID).Msg("score cache lookup failed")
		} else if found {
			r.countCacheHit()
			return cached
		}
		r.countCacheMiss()
	}

	result := r.calc.Score(record)

	if r.cache != nil && record.ID != "" {
		if err := r.cache.SetScore(ctx, record.ID, fingerprint, result); err != nil {
			log.Warn().Err(err).Str("property_id", record.ID).Msg("score cache store failed")
		}
	}

	if r.metrics != nil {
		r.metrics.ScoreComputed(string(result.Tier), result.Score)
	}
	if r.events != nil {
		r.events.ScoreComputed(result)
	}

	return result
}

// InvalidateScores drops every cached result for a property. Called
// after the stored record is replaced or deleted; cache errors degrade
// to a warning since the content hash already prevents stale serves.
func (r *Recommender) InvalidateScores(ctx context.Context, propertyID string) {
	if r.cache == nil || propertyID == "" {
		return
	}
	if err := r.cache.InvalidateProperty(ctx, propertyID); err != nil {
		log.Warn().Err(err).Str("property_id", propertyID).Msg("score cache invalidation failed")
	}
}

// recordFingerprint hashes the record's JSON form so cached scores
// track content, not just the ID.
func recordFingerprint(record domain.PropertyRecord) string {
	payload, err := json.Marshal(record)
	if err != nil {
		return "0"
	}
	h := fnv.New64a()
	h.Write(payload)
	return strconv.FormatUint(h.Sum64(), 16)
}

// GetRecommendation scores a property and attaches a narrative
// analysis. Narrative failure degrades to an empty analysis rather
// than failing the recommendation.
func (r *Recommender) GetRecommendation(ctx context.Context, record domain.PropertyRecord, preferences string) Recommendation {
	rec := Recommendation{Result: r.Score(ctx, record)}
	rec.Analysis = r.analysis(ctx, record, preferences)
	return rec
}

// Compare scores a batch and publishes the comparison.
func (r *Recommender) Compare(ctx context.Context, records []domain.PropertyRecord) scoring.ComparisonResult {
	result := r.calc.Compare(records)

	if r.metrics != nil {
		r.metrics.ComparisonCompleted(len(records))
	}
	if r.events != nil {
		r.events.ComparisonCompleted(result)
	}

	return result
}

// CompareWithAnalysis runs a comparison and narrates the best match.
func (r *Recommender) CompareWithAnalysis(ctx context.Context, records []domain.PropertyRecord, preferences string) ComparisonReport {
	report := ComparisonReport{ComparisonResult: r.Compare(ctx, records)}

	if report.BestMatch != nil {
		for _, record := range records {
			if record.ID == report.BestMatch.PropertyID {
				report.BestMatchAnalysis = r.analysis(ctx, record, preferences)
				break
			}
		}
	}

	return report
}

func (r *Recommender) analysis(ctx context.Context, record domain.PropertyRecord, preferences string) string {
	if r.gen == nil {
		return ""
	}

	text, err := r.gen.GenerateAnalysis(ctx, record, preferences)
	if err != nil {
		if !errors.Is(err, narrative.ErrDisabled) {
			log.Warn().Err(err).Str("property_id", record.ID).Msg("narrative generation failed")
			r.countNarrative("error")
		} else {
			r.countNarrative("disabled")
		}
		return ""
	}

	r.countNarrative("ok")
	return text
}

func (r *Recommender) countCacheHit() {
	if r.metrics != nil {
		r.metrics.CacheHit()
	}
}

func (r *Recommender) countCacheMiss() {
	if r.metrics != nil {
		r.metrics.CacheMiss()
	}
}

func (r *Recommender) countNarrative(outcome string) {
	if r.metrics != nil {
		r.metrics.NarrativeOutcome(outcome)
	}
}
