package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// Field bounds from the upstream schema. Values outside their declared range
// are treated as absent, matching the degrade-to-zero contract.
const (
	boundPercentMax   = 100.0
	boundNoiseMax     = 120.0
	boundProximityMax = 1.0
)

// RecordFromMap builds a PropertyRecord from a plain nested mapping, the
// shape supplied by input providers. Resolution never fails: missing keys
// resolve to zero values, non-numeric values for numeric fields resolve to
// 0, and bounded fields outside their declared range resolve to 0.
func RecordFromMap(m map[string]any) PropertyRecord {
	if m == nil {
		return PropertyRecord{}
	}

	rec := PropertyRecord{
		ID:        asString(m["id"]),
		CreatedAt: asTime(m["created_at"]),
		UpdatedAt: asTime(m["updated_at"]),
	}

	if sub, ok := subMap(m, "location"); ok {
		rec.Location = &Location{
			City:             asString(sub["city"]),
			Neighborhood:     asString(sub["neighborhood"]),
			Coordinates:      asFloatMap(sub["coordinates"]),
			WalkabilityScore: boundedNumber(sub["walkability_score"], 0, boundPercentMax),
			TransitScore:     boundedNumber(sub["transit_score"], 0, boundPercentMax),
			ParkingAvailable: asBool(sub["parking_available"]),
		}
	}
	if sub, ok := subMap(m, "market_metrics"); ok {
		rec.MarketMetrics = &MarketMetrics{
			VacancyRate:      boundedNumber(sub["vacancy_rate"], 0, boundPercentMax),
			RentalYield:      boundedNumber(sub["rental_yield"], 0, math.MaxFloat64),
			PriceTrend:       number(sub["price_trend"]),
			CompetitionLevel: asString(sub["competition_level"]),
		}
	}
	if sub, ok := subMap(m, "features"); ok {
		rec.Features = &PropertyFeatures{
			PropertyType:        asString(sub["property_type"]),
			SizeSqft:            boundedNumber(sub["size_sqft"], 0, math.MaxFloat64),
			NumBedrooms:         int(boundedNumber(sub["num_bedrooms"], 0, math.MaxFloat64)),
			NumBathrooms:        boundedNumber(sub["num_bathrooms"], 0, math.MaxFloat64),
			YearBuilt:           int(number(sub["year_built"])),
			ConstructionQuality: boundedNumber(sub["construction_quality"], 0, boundPercentMax),
			SpaceEfficiency:     boundedNumber(sub["space_efficiency"], 0, boundPercentMax),
		}
	}
	if sub, ok := subMap(m, "amenities"); ok {
		rec.Amenities = &Amenities{
			GreenCertification:  asBool(sub["green_certification"]),
			OnsiteManagement:    asBool(sub["onsite_management"]),
			SecurityFeatures:    asStringSlice(sub["security_features"]),
			AvailableFacilities: asStringSlice(sub["available_facilities"]),
		}
	}
	if sub, ok := subMap(m, "environmental"); ok {
		rec.Environmental = &Environmental{
			AirQualityIndex:        boundedNumber(sub["air_quality_index"], 0, boundPercentMax),
			NoiseLevelDB:           boundedNumber(sub["noise_level_db"], 0, boundNoiseMax),
			GreenSpaceProximity:    boundedNumber(sub["green_space_proximity"], 0, boundProximityMax),
			EnergyEfficiencyRating: asString(sub["energy_efficiency_rating"]),
		}
	}
	if sub, ok := subMap(m, "financial"); ok {
		rec.Financial = &Financial{
			PurchasePrice:         boundedNumber(sub["purchase_price"], 0, math.MaxFloat64),
			MonthlyOperatingCosts: boundedNumber(sub["monthly_operating_costs"], 0, math.MaxFloat64),
			TaxRate:               boundedNumber(sub["tax_rate"], 0, math.MaxFloat64),
			EstimatedROI:          number(sub["estimated_roi"]),
			AvailableFinancing:    asStringSlice(sub["available_financing"]),
		}
	}
	if sub, ok := subMap(m, "developer"); ok {
		rec.Developer = &Developer{
			Name:                     asString(sub["name"]),
			YearsActive:              int(boundedNumber(sub["years_active"], 0, math.MaxFloat64)),
			CompletedProjects:        int(boundedNumber(sub["completed_projects"], 0, math.MaxFloat64)),
			SuccessRate:              boundedNumber(sub["success_rate"], 0, boundPercentMax),
			FinancialStabilityRating: asString(sub["financial_stability_rating"]),
		}
	}
	if sub, ok := subMap(m, "tech_features"); ok {
		rec.TechFeatures = &TechFeatures{
			SmartHomeFeatures:  asStringSlice(sub["smart_home_features"]),
			InternetSpeed:      boundedNumber(sub["internet_speed"], 0, math.MaxFloat64),
			AutomationSystems:  asStringSlice(sub["automation_systems"]),
			TechReadinessScore: boundedNumber(sub["tech_readiness_score"], 0, boundPercentMax),
		}
	}
	if sub, ok := subMap(m, "risk_assessment"); ok {
		rec.RiskAssessment = &RiskAssessment{
			MarketRisk:        boundedNumber(sub["market_risk"], 0, boundPercentMax),
			FinancialRisk:     boundedNumber(sub["financial_risk"], 0, boundPercentMax),
			RegulatoryRisk:    boundedNumber(sub["regulatory_risk"], 0, boundPercentMax),
			EnvironmentalRisk: boundedNumber(sub["environmental_risk"], 0, boundPercentMax),
		}
	}
	if sub, ok := subMap(m, "economic_indicators"); ok {
		rec.EconomicIndicators = &EconomicIndicators{
			GDPGrowth:               number(sub["gdp_growth"]),
			EmploymentRate:          boundedNumber(sub["employment_rate"], 0, boundPercentMax),
			PopulationGrowth:        number(sub["population_growth"]),
			PoliticalStabilityIndex: boundedNumber(sub["political_stability_index"], 0, boundPercentMax),
		}
	}

	return rec
}

func subMap(m map[string]any, key string) (map[string]any, bool) {
	sub, ok := m[key].(map[string]any)
	return sub, ok && sub != nil
}

// number coerces any JSON-ish scalar to a float64, resolving non-numeric
// values (and NaN/Inf) to 0.
func number(v any) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// boundedNumber coerces like number and additionally treats out-of-range
// values as malformed, resolving them to 0.
func boundedNumber(v any, lo, hi float64) float64 {
	f := number(v)
	if f < lo || f > hi {
		return 0
	}
	return f
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asTime(v any) time.Time {
	s, ok := v.(string)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func asStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func asFloatMap(v any) map[string]float64 {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, val := range m {
		out[k] = number(val)
	}
	return out
}
