// Package scoring implements the weighted multi-factor property scoring
// engine: ten category sub-scores combined through a fixed weight vector into
// a 0-100 suitability score, plus batch comparison and ranking.
package scoring

import (
	"math"
	"time"

	"github.com/righthome/righthome/internal/domain"
)

// Stable category keys exposed to chart renderers and API consumers.
const (
	CategoryLocation      = "location"
	CategoryMarket        = "market"
	CategoryFeatures      = "features"
	CategoryAmenities     = "amenities"
	CategoryEnvironmental = "environmental"
	CategoryFinancial     = "financial"
	CategoryDeveloper     = "developer"
	CategoryTech          = "tech"
	CategoryRisk          = "risk"
	CategoryEconomic      = "economic"
)

const scoreAttribution = "weighted_linear_v1"

// CategoryKeys returns the ten category keys in their documented order.
func CategoryKeys() []string {
	return []string{
		CategoryLocation, CategoryMarket, CategoryFeatures, CategoryAmenities,
		CategoryEnvironmental, CategoryFinancial, CategoryDeveloper,
		CategoryTech, CategoryRisk, CategoryEconomic,
	}
}

// ScoreResult is the derived suitability verdict for a single property.
type ScoreResult struct {
	Score      float64            `json:"score"`
	Categories map[string]float64 `json:"categories"`
	Tier       Tier               `json:"tier"`
	Meta       ScoreMeta          `json:"meta"`
}

// ScoreMeta carries attribution for a computed score.
type ScoreMeta struct {
	PropertyID  string    `json:"property_id"`
	ComputedAt  time.Time `json:"computed_at"`
	Attribution string    `json:"attribution"`
}

// Calculator computes property scores from a weight vector and tier
// thresholds. The zero value is not usable; construct with NewCalculator.
type Calculator struct {
	weights Weights
	tiers   TierThresholds
}

// NewCalculator creates a calculator with the given configuration. Callers
// validate overrides via Weights.Validate and TierThresholds.Validate.
func NewCalculator(w Weights, t TierThresholds) *Calculator {
	return &Calculator{weights: w, tiers: t}
}

// NewDefaultCalculator creates a calculator with the authoritative weight
// table and thresholds.
func NewDefaultCalculator() *Calculator {
	return NewCalculator(DefaultWeights(), DefaultTierThresholds())
}

// Weights returns the calculator's weight vector.
func (c *Calculator) Weights() Weights { return c.weights }

// Fingerprint identifies the calculator's weight configuration for caching.
func (c *Calculator) Fingerprint() string { return c.weights.Fingerprint() }

// Score computes the suitability score for one property record. It is a pure
// function and total over arbitrary input: missing sub-records and malformed
// fields contribute zero, and the result always lies in [0, 100].
func (c *Calculator) Score(record domain.PropertyRecord) ScoreResult {
	cats := map[string]float64{
		CategoryLocation:      locationScore(record.Location),
		CategoryMarket:        marketScore(record.MarketMetrics),
		CategoryFeatures:      featuresScore(record.Features),
		CategoryAmenities:     amenitiesScore(record.Amenities),
		CategoryEnvironmental: environmentalScore(record.Environmental),
		CategoryFinancial:     financialScore(record.Financial),
		CategoryDeveloper:     developerScore(record.Developer),
		CategoryTech:          techScore(record.TechFeatures),
		CategoryRisk:          riskScore(record.RiskAssessment),
		CategoryEconomic:      economicScore(record.EconomicIndicators),
	}
	for k, v := range cats {
		cats[k] = round2(v)
	}

	w := c.weights
	total := w.Location*cats[CategoryLocation] +
		w.Market*cats[CategoryMarket] +
		w.Features*cats[CategoryFeatures] +
		w.Amenities*cats[CategoryAmenities] +
		w.Environmental*cats[CategoryEnvironmental] +
		w.Financial*cats[CategoryFinancial] +
		w.Developer*cats[CategoryDeveloper] +
		w.Tech*cats[CategoryTech] +
		w.Risk*cats[CategoryRisk] +
		w.Economic*cats[CategoryEconomic]

	score := round2(clampScore(total))

	return ScoreResult{
		Score:      score,
		Categories: cats,
		Tier:       c.tiers.Classify(score),
		Meta: ScoreMeta{
			PropertyID:  record.ID,
			ComputedAt:  time.Now().UTC(),
			Attribution: scoreAttribution,
		},
	}
}

// location: average of walkability and transit.
func locationScore(loc *domain.Location) float64 {
	if loc == nil {
		return 0
	}
	return clampScore((loc.WalkabilityScore + loc.TransitScore) / 2)
}

// market: low vacancy is good, each vacancy point costs ten score points.
func marketScore(m *domain.MarketMetrics) float64 {
	if m == nil {
		return 0
	}
	return clampScore(100 - m.VacancyRate*10)
}

func featuresScore(f *domain.PropertyFeatures) float64 {
	if f == nil {
		return 0
	}
	return clampScore(f.ConstructionQuality)
}

// amenities: binary, any listed facility counts.
func amenitiesScore(a *domain.Amenities) float64 {
	if a == nil || len(a.AvailableFacilities) == 0 {
		return 0
	}
	return 100
}

func environmentalScore(e *domain.Environmental) float64 {
	if e == nil {
		return 0
	}
	return clampScore(e.AirQualityIndex)
}

// financial: 10% estimated ROI saturates the category.
func financialScore(f *domain.Financial) float64 {
	if f == nil {
		return 0
	}
	return clampScore(f.EstimatedROI * 10)
}

func developerScore(d *domain.Developer) float64 {
	if d == nil {
		return 0
	}
	return clampScore(d.SuccessRate)
}

func techScore(t *domain.TechFeatures) float64 {
	if t == nil {
		return 0
	}
	return clampScore(t.TechReadinessScore)
}

// risk: inverted market risk.
func riskScore(r *domain.RiskAssessment) float64 {
	if r == nil {
		return 0
	}
	return clampScore(100 - r.MarketRisk)
}

func economicScore(e *domain.EconomicIndicators) float64 {
	if e == nil {
		return 0
	}
	return clampScore(e.PoliticalStabilityIndex)
}

func clampScore(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Max(0, math.Min(100, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
