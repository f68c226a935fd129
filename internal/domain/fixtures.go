package domain

import "time"

// SampleRecord returns a fully populated demonstration property. It mirrors
// the canonical Mission District listing used across examples and tests.
func SampleRecord(id, neighborhood string) PropertyRecord {
	now := time.Now().UTC()
	return PropertyRecord{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
		Location: &Location{
			City:             "San Francisco",
			Neighborhood:     neighborhood,
			Coordinates:      map[string]float64{"lat": 37.7749, "lng": -122.4194},
			WalkabilityScore: 85.0,
			TransitScore:     90.0,
			ParkingAvailable: true,
		},
		MarketMetrics: &MarketMetrics{
			VacancyRate:      5.2,
			RentalYield:      4.8,
			PriceTrend:       12.5,
			CompetitionLevel: "Medium",
		},
		Features: &PropertyFeatures{
			PropertyType:        "Apartment",
			SizeSqft:            1200.0,
			NumBedrooms:         2,
			NumBathrooms:        2.0,
			YearBuilt:           2015,
			ConstructionQuality: 85.0,
			SpaceEfficiency:     90.0,
		},
		Amenities: &Amenities{
			GreenCertification:  true,
			OnsiteManagement:    true,
			SecurityFeatures:    []string{"24/7 Security", "CCTV", "Access Control"},
			AvailableFacilities: []string{"Gym", "Pool", "Parking"},
		},
		Environmental: &Environmental{
			AirQualityIndex:        75.0,
			NoiseLevelDB:           45.0,
			GreenSpaceProximity:    0.5,
			EnergyEfficiencyRating: "A",
		},
		Financial: &Financial{
			PurchasePrice:         850000.0,
			MonthlyOperatingCosts: 2500.0,
			TaxRate:               1.2,
			EstimatedROI:          6.5,
			AvailableFinancing:    []string{"Conventional", "FHA", "VA"},
		},
		Developer: &Developer{
			Name:                     "Quality Builders Inc.",
			YearsActive:              25,
			CompletedProjects:        50,
			SuccessRate:              95.0,
			FinancialStabilityRating: "A+",
		},
		TechFeatures: &TechFeatures{
			SmartHomeFeatures:  []string{"Smart Thermostat", "Smart Locks", "Smart Lighting"},
			InternetSpeed:      1000.0,
			AutomationSystems:  []string{"HVAC", "Security", "Lighting"},
			TechReadinessScore: 90.0,
		},
		RiskAssessment: &RiskAssessment{
			MarketRisk:        25.0,
			FinancialRisk:     20.0,
			RegulatoryRisk:    15.0,
			EnvironmentalRisk: 10.0,
		},
		EconomicIndicators: &EconomicIndicators{
			GDPGrowth:               3.5,
			EmploymentRate:          95.0,
			PopulationGrowth:        2.1,
			PoliticalStabilityIndex: 85.0,
		},
	}
}
