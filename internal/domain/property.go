// Package domain defines the property record model shared by the scoring
// engine, the persistence layer, and the serving surfaces.
package domain

import "time"

// Location describes where the property sits and how reachable it is.
type Location struct {
	City             string             `json:"city"`
	Neighborhood     string             `json:"neighborhood"`
	Coordinates      map[string]float64 `json:"coordinates,omitempty"`
	WalkabilityScore float64            `json:"walkability_score"`
	TransitScore     float64            `json:"transit_score"`
	ParkingAvailable bool               `json:"parking_available"`
}

// MarketMetrics captures the local rental market around the property.
type MarketMetrics struct {
	VacancyRate      float64 `json:"vacancy_rate"`
	RentalYield      float64 `json:"rental_yield"`
	PriceTrend       float64 `json:"price_trend"`
	CompetitionLevel string  `json:"competition_level"`
}

// PropertyFeatures describes the physical unit itself.
type PropertyFeatures struct {
	PropertyType        string  `json:"property_type"`
	SizeSqft            float64 `json:"size_sqft"`
	NumBedrooms         int     `json:"num_bedrooms"`
	NumBathrooms        float64 `json:"num_bathrooms"`
	YearBuilt           int     `json:"year_built"`
	ConstructionQuality float64 `json:"construction_quality"`
	SpaceEfficiency     float64 `json:"space_efficiency"`
}

// Amenities lists on-site services and facilities.
type Amenities struct {
	GreenCertification  bool     `json:"green_certification"`
	OnsiteManagement    bool     `json:"onsite_management"`
	SecurityFeatures    []string `json:"security_features,omitempty"`
	AvailableFacilities []string `json:"available_facilities,omitempty"`
}

// Environmental holds air, noise and green-space measurements.
type Environmental struct {
	AirQualityIndex        float64 `json:"air_quality_index"`
	NoiseLevelDB           float64 `json:"noise_level_db"`
	GreenSpaceProximity    float64 `json:"green_space_proximity"`
	EnergyEfficiencyRating string  `json:"energy_efficiency_rating"`
}

// Financial covers purchase economics and financing options.
type Financial struct {
	PurchasePrice         float64  `json:"purchase_price"`
	MonthlyOperatingCosts float64  `json:"monthly_operating_costs"`
	TaxRate               float64  `json:"tax_rate"`
	EstimatedROI          float64  `json:"estimated_roi"`
	AvailableFinancing    []string `json:"available_financing,omitempty"`
}

// Developer describes the builder's track record.
type Developer struct {
	Name                     string  `json:"name"`
	YearsActive              int     `json:"years_active"`
	CompletedProjects        int     `json:"completed_projects"`
	SuccessRate              float64 `json:"success_rate"`
	FinancialStabilityRating string  `json:"financial_stability_rating"`
}

// TechFeatures covers smart-home and connectivity readiness.
type TechFeatures struct {
	SmartHomeFeatures  []string `json:"smart_home_features,omitempty"`
	InternetSpeed      float64  `json:"internet_speed"`
	AutomationSystems  []string `json:"automation_systems,omitempty"`
	TechReadinessScore float64  `json:"tech_readiness_score"`
}

// RiskAssessment aggregates the downside exposure of the investment.
type RiskAssessment struct {
	MarketRisk        float64 `json:"market_risk"`
	FinancialRisk     float64 `json:"financial_risk"`
	RegulatoryRisk    float64 `json:"regulatory_risk"`
	EnvironmentalRisk float64 `json:"environmental_risk"`
}

// EconomicIndicators holds macro context for the property's region.
type EconomicIndicators struct {
	GDPGrowth               float64 `json:"gdp_growth"`
	EmploymentRate          float64 `json:"employment_rate"`
	PopulationGrowth        float64 `json:"population_growth"`
	PoliticalStabilityIndex float64 `json:"political_stability_index"`
}

// PropertyRecord is an immutable snapshot of a single property. Sub-records
// are optional: a nil pointer means the data was never supplied and every
// field of that sub-record contributes zero to scoring.
type PropertyRecord struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`

	Location           *Location           `json:"location,omitempty"`
	MarketMetrics      *MarketMetrics      `json:"market_metrics,omitempty"`
	Features           *PropertyFeatures   `json:"features,omitempty"`
	Amenities          *Amenities          `json:"amenities,omitempty"`
	Environmental      *Environmental      `json:"environmental,omitempty"`
	Financial          *Financial          `json:"financial,omitempty"`
	Developer          *Developer          `json:"developer,omitempty"`
	TechFeatures       *TechFeatures       `json:"tech_features,omitempty"`
	RiskAssessment     *RiskAssessment     `json:"risk_assessment,omitempty"`
	EconomicIndicators *EconomicIndicators `json:"economic_indicators,omitempty"`
}

// Neighborhood returns the neighborhood name, or "" when location is missing.
func (r PropertyRecord) Neighborhood() string {
	if r.Location == nil {
		return ""
	}
	return r.Location.Neighborhood
}

// City returns the city name, or "" when location is missing.
func (r PropertyRecord) City() string {
	if r.Location == nil {
		return ""
	}
	return r.Location.City
}
