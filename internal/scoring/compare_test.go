package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/righthome/righthome/internal/domain"
)

// recordWithQuality builds a minimal record whose score is driven entirely by
// construction quality, which makes ranking order easy to reason about.
func recordWithQuality(id string, quality float64) domain.PropertyRecord {
	return domain.PropertyRecord{
		ID:       id,
		Features: &domain.PropertyFeatures{ConstructionQuality: quality},
	}
}

func TestCompare_SortsDescending(t *testing.T) {
	calc := NewDefaultCalculator()

	result := calc.Compare([]domain.PropertyRecord{
		recordWithQuality("low", 10),
		recordWithQuality("high", 90),
		recordWithQuality("mid", 50),
	})

	require.Len(t, result.Entries, 3)
	assert.Equal(t, "high", result.Entries[0].PropertyID)
	assert.Equal(t, "mid", result.Entries[1].PropertyID)
	assert.Equal(t, "low", result.Entries[2].PropertyID)

	for i := 1; i < len(result.Entries); i++ {
		assert.GreaterOrEqual(t,
			result.Entries[i-1].Result.Score,
			result.Entries[i].Result.Score)
	}

	require.NotNil(t, result.BestMatch)
	assert.Equal(t, "high", result.BestMatch.PropertyID)

	wantSpread := result.Entries[0].Result.Score - result.Entries[2].Result.Score
	assert.InDelta(t, wantSpread, result.ScoreSpread, 1e-9)
	assert.Equal(t, "Analyzed 3 properties against the configured weights.", result.Summary)
}

func TestCompare_StableOnTies(t *testing.T) {
	calc := NewDefaultCalculator()

	result := calc.Compare([]domain.PropertyRecord{
		recordWithQuality("first", 50),
		recordWithQuality("second", 50),
		recordWithQuality("third", 50),
		recordWithQuality("winner", 80),
	})

	require.Len(t, result.Entries, 4)
	assert.Equal(t, "winner", result.Entries[0].PropertyID)
	// Tied entries keep their original input order.
	assert.Equal(t, "first", result.Entries[1].PropertyID)
	assert.Equal(t, "second", result.Entries[2].PropertyID)
	assert.Equal(t, "third", result.Entries[3].PropertyID)
}

func TestCompare_EmptyBatch(t *testing.T) {
	calc := NewDefaultCalculator()

	result := calc.Compare(nil)

	assert.Empty(t, result.Entries)
	assert.Nil(t, result.BestMatch)
	assert.Zero(t, result.ScoreSpread)
}

func TestCompare_SingleRecord(t *testing.T) {
	calc := NewDefaultCalculator()

	result := calc.Compare([]domain.PropertyRecord{recordWithQuality("only", 70)})

	require.Len(t, result.Entries, 1)
	require.NotNil(t, result.BestMatch)
	assert.Equal(t, "only", result.BestMatch.PropertyID)
	assert.Equal(t, result.Entries[0].Result.Score, result.BestMatch.Result.Score)
	assert.Zero(t, result.ScoreSpread)
}

func TestCompare_CarriesNeighborhood(t *testing.T) {
	calc := NewDefaultCalculator()

	result := calc.Compare([]domain.PropertyRecord{
		domain.SampleRecord("prop123", "Mission District"),
		domain.SampleRecord("prop456", "Pacific Heights"),
	})

	require.Len(t, result.Entries, 2)
	assert.Equal(t, "Mission District", result.Entries[0].Neighborhood)
	// Identical records tie, so input order is preserved.
	assert.Equal(t, "prop123", result.Entries[0].PropertyID)
	assert.Equal(t, "prop456", result.Entries[1].PropertyID)
	assert.Zero(t, result.ScoreSpread)
}
