package scoring

import (
	"fmt"
	"hash/fnv"
	"math"
)

// weightSumTolerance bounds acceptable drift of the weight vector from 1.0.
const weightSumTolerance = 0.001

// Weights is the fixed allocation across the ten scoring categories. The
// vector must sum to 1.0; it ships as configuration so deployments can tune
// scoring without touching the engine.
type Weights struct {
	Location      float64 `json:"location" yaml:"location" validate:"gte=0,lte=1"`
	Market        float64 `json:"market" yaml:"market" validate:"gte=0,lte=1"`
	Features      float64 `json:"features" yaml:"features" validate:"gte=0,lte=1"`
	Amenities     float64 `json:"amenities" yaml:"amenities" validate:"gte=0,lte=1"`
	Environmental float64 `json:"environmental" yaml:"environmental" validate:"gte=0,lte=1"`
	Financial     float64 `json:"financial" yaml:"financial" validate:"gte=0,lte=1"`
	Developer     float64 `json:"developer" yaml:"developer" validate:"gte=0,lte=1"`
	Tech          float64 `json:"tech" yaml:"tech" validate:"gte=0,lte=1"`
	Risk          float64 `json:"risk" yaml:"risk" validate:"gte=0,lte=1"`
	Economic      float64 `json:"economic" yaml:"economic" validate:"gte=0,lte=1"`
}

// DefaultWeights returns the authoritative weight table.
func DefaultWeights() Weights {
	return Weights{
		Location:      0.20,
		Market:        0.15,
		Features:      0.15,
		Amenities:     0.10,
		Environmental: 0.10,
		Financial:     0.10,
		Developer:     0.05,
		Tech:          0.05,
		Risk:          0.05,
		Economic:      0.05,
	}
}

// Sum returns the total allocation across all categories.
func (w Weights) Sum() float64 {
	return w.Location + w.Market + w.Features + w.Amenities + w.Environmental +
		w.Financial + w.Developer + w.Tech + w.Risk + w.Economic
}

// Validate checks the vector sums to 1.0 within tolerance and contains no
// negative entries.
func (w Weights) Validate() error {
	for name, v := range w.byCategory() {
		if v < 0 {
			return fmt.Errorf("negative weight for %s: %.4f", name, v)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("weights sum to %.4f, expected 1.000 ± %.3f", sum, weightSumTolerance)
	}
	return nil
}

// Fingerprint returns a short stable hash of the weight vector, used to key
// cached score results so weight overrides never serve stale scores.
func (w Weights) Fingerprint() string {
	h := fnv.New32a()
	byCat := w.byCategory()
	for _, key := range CategoryKeys() {
		fmt.Fprintf(h, "%s=%.6f;", key, byCat[key])
	}
	return fmt.Sprintf("%08x", h.Sum32())
}

func (w Weights) byCategory() map[string]float64 {
	return map[string]float64{
		CategoryLocation:      w.Location,
		CategoryMarket:        w.Market,
		CategoryFeatures:      w.Features,
		CategoryAmenities:     w.Amenities,
		CategoryEnvironmental: w.Environmental,
		CategoryFinancial:     w.Financial,
		CategoryDeveloper:     w.Developer,
		CategoryTech:          w.Tech,
		CategoryRisk:          w.Risk,
		CategoryEconomic:      w.Economic,
	}
}
