package scoring

import "fmt"

// Tier is the discrete recommendation label derived from the overall score.
type Tier string

const (
	TierHighlyRecommended   Tier = "Highly Recommended"
	TierRecommended         Tier = "Recommended"
	TierConsiderWithCaution Tier = "Consider with Caution"
	TierNotRecommended      Tier = "Not Recommended"
)

// TierThresholds holds the inclusive lower bounds for each recommendation
// tier. Scores below ConsiderWithCaution map to Not Recommended.
type TierThresholds struct {
	HighlyRecommended   float64 `json:"highly_recommended" yaml:"highly_recommended" validate:"gte=0,lte=100"`
	Recommended         float64 `json:"recommended" yaml:"recommended" validate:"gte=0,lte=100"`
	ConsiderWithCaution float64 `json:"consider_with_caution" yaml:"consider_with_caution" validate:"gte=0,lte=100"`
}

// DefaultTierThresholds returns the fixed threshold table.
func DefaultTierThresholds() TierThresholds {
	return TierThresholds{
		HighlyRecommended:   80,
		Recommended:         60,
		ConsiderWithCaution: 40,
	}
}

// Classify maps an overall score to its recommendation tier.
func (t TierThresholds) Classify(score float64) Tier {
	switch {
	case score >= t.HighlyRecommended:
		return TierHighlyRecommended
	case score >= t.Recommended:
		return TierRecommended
	case score >= t.ConsiderWithCaution:
		return TierConsiderWithCaution
	default:
		return TierNotRecommended
	}
}

// Validate checks the thresholds are strictly descending.
func (t TierThresholds) Validate() error {
	if t.HighlyRecommended <= t.Recommended || t.Recommended <= t.ConsiderWithCaution {
		return fmt.Errorf("tier thresholds must descend: %.1f > %.1f > %.1f",
			t.HighlyRecommended, t.Recommended, t.ConsiderWithCaution)
	}
	return nil
}
