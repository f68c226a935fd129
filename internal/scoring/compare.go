package scoring

import (
	"fmt"
	"sort"

	"github.com/righthome/righthome/internal/domain"
)

// ComparisonEntry pairs a property identifier with its computed score.
type ComparisonEntry struct {
	PropertyID   string      `json:"property_id"`
	Neighborhood string      `json:"neighborhood,omitempty"`
	Result       ScoreResult `json:"result"`
}

// ComparisonResult is a ranked comparison of a property batch, created fresh
// per Compare call.
type ComparisonResult struct {
	Entries     []ComparisonEntry `json:"comparisons"`
	BestMatch   *ComparisonEntry  `json:"best_match,omitempty"`
	ScoreSpread float64           `json:"score_spread"`
	Summary     string            `json:"summary"`
}

// Compare scores every record once and ranks the batch descending by score.
// The sort is stable: equal scores keep their original input order. An empty
// batch yields a valid empty result with no best match and zero spread.
func (c *Calculator) Compare(records []domain.PropertyRecord) ComparisonResult {
	entries := make([]ComparisonEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, ComparisonEntry{
			PropertyID:   record.ID,
			Neighborhood: record.Neighborhood(),
			Result:       c.Score(record),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Result.Score > entries[j].Result.Score
	})

	result := ComparisonResult{
		Entries: entries,
		Summary: fmt.Sprintf("Analyzed %d properties against the configured weights.", len(entries)),
	}
	if len(entries) > 0 {
		best := entries[0]
		result.BestMatch = &best
	}
	if len(entries) >= 2 {
		result.ScoreSpread = round2(entries[0].Result.Score - entries[len(entries)-1].Result.Score)
	}
	return result
}
