package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordFromMap_FullRecord(t *testing.T) {
	m := map[string]any{
		"id": "prop123",
		"location": map[string]any{
			"city":              "San Francisco",
			"neighborhood":      "Mission District",
			"coordinates":       map[string]any{"lat": 37.7749, "lng": -122.4194},
			"walkability_score": 85.0,
			"transit_score":     90.0,
			"parking_available": true,
		},
		"market_metrics": map[string]any{
			"vacancy_rate":      5.2,
			"rental_yield":      4.8,
			"price_trend":       12.5,
			"competition_level": "Medium",
		},
		"amenities": map[string]any{
			"available_facilities": []any{"Gym", "Pool"},
		},
		"financial": map[string]any{
			"estimated_roi": 6.5,
		},
	}

	rec := RecordFromMap(m)

	assert.Equal(t, "prop123", rec.ID)
	require.NotNil(t, rec.Location)
	assert.Equal(t, "Mission District", rec.Location.Neighborhood)
	assert.Equal(t, 85.0, rec.Location.WalkabilityScore)
	assert.Equal(t, 90.0, rec.Location.TransitScore)
	assert.True(t, rec.Location.ParkingAvailable)
	assert.InDelta(t, 37.7749, rec.Location.Coordinates["lat"], 1e-9)

	require.NotNil(t, rec.MarketMetrics)
	assert.Equal(t, 5.2, rec.MarketMetrics.VacancyRate)
	assert.Equal(t, "Medium", rec.MarketMetrics.CompetitionLevel)

	require.NotNil(t, rec.Amenities)
	assert.Equal(t, []string{"Gym", "Pool"}, rec.Amenities.AvailableFacilities)

	require.NotNil(t, rec.Financial)
	assert.Equal(t, 6.5, rec.Financial.EstimatedROI)

	assert.Nil(t, rec.Developer)
	assert.Nil(t, rec.TechFeatures)
}

func TestRecordFromMap_MalformedFieldsResolveToZero(t *testing.T) {
	m := map[string]any{
		"location": map[string]any{
			"walkability_score": "not a number",
			"transit_score":     nil,
		},
		"market_metrics": map[string]any{
			"vacancy_rate": []any{"nested", "junk"},
		},
		"risk_assessment": map[string]any{
			"market_risk": map[string]any{"oops": true},
		},
	}

	rec := RecordFromMap(m)

	require.NotNil(t, rec.Location)
	assert.Zero(t, rec.Location.WalkabilityScore)
	assert.Zero(t, rec.Location.TransitScore)
	require.NotNil(t, rec.MarketMetrics)
	assert.Zero(t, rec.MarketMetrics.VacancyRate)
	require.NotNil(t, rec.RiskAssessment)
	assert.Zero(t, rec.RiskAssessment.MarketRisk)
}

func TestRecordFromMap_OutOfRangeResolvesToZero(t *testing.T) {
	m := map[string]any{
		"location": map[string]any{
			"walkability_score": 150.0, // above 100
			"transit_score":     -5.0,  // below 0
		},
		"environmental": map[string]any{
			"noise_level_db":        119.0, // within the wider 0-120 bound
			"green_space_proximity": 1.5,   // above the 0-1 bound
		},
	}

	rec := RecordFromMap(m)

	assert.Zero(t, rec.Location.WalkabilityScore)
	assert.Zero(t, rec.Location.TransitScore)
	assert.Equal(t, 119.0, rec.Environmental.NoiseLevelDB)
	assert.Zero(t, rec.Environmental.GreenSpaceProximity)
}

func TestRecordFromMap_NumericCoercion(t *testing.T) {
	m := map[string]any{
		"location": map[string]any{
			"walkability_score": 85,      // int
			"transit_score":     "90.5",  // numeric string
		},
		"features": map[string]any{
			"num_bedrooms": 3.0,
		},
	}

	rec := RecordFromMap(m)

	assert.Equal(t, 85.0, rec.Location.WalkabilityScore)
	assert.Equal(t, 90.5, rec.Location.TransitScore)
	assert.Equal(t, 3, rec.Features.NumBedrooms)
}

func TestRecordFromMap_NilAndEmpty(t *testing.T) {
	assert.Equal(t, PropertyRecord{}, RecordFromMap(nil))

	rec := RecordFromMap(map[string]any{})
	assert.Empty(t, rec.ID)
	assert.Nil(t, rec.Location)
	assert.Empty(t, rec.Neighborhood())
	assert.Empty(t, rec.City())
}
