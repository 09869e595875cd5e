package repository

import (
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shipping-engine/internal/models"
)

// SeedShippingCompanies seeds a default carrier set so a fresh install
// can quote immediately. Idempotent: existing company codes are skipped.
func SeedShippingCompanies(db *gorm.DB) error {
	companies := []models.ShippingCompany{
		{
			Name:      "Fest Kargo",
			Code:      "FEST",
			Type:      models.CompanyTypeAggregator,
			IsActive:  true,
			IsDefault: true,
			SubCarriers: []models.SubCarrier{
				{
					Code:                  "ARAS",
					Name:                  "Aras Kargo",
					BranchCode:            "IST-01",
					IsActive:              true,
					Position:              0,
					IsCashOnDoorAvailable: true,
					IsCardOnDoorAvailable: true,
					CardCommission:        0.029,
					DesiRanges: models.DesiRangeList{
						{MaxDesi: 1, Price: 30},
						{MaxDesi: 3, Price: 45},
						{MaxDesi: 5, Price: 60},
						{MaxDesi: 10, Price: 85},
					},
					CodRanges: models.CodRangeList{
						{Min: 0, Max: 500, Price: 10},
						{Min: 500.01, Max: 0, Price: 15},
					},
				},
				{
					Code:                  "SURAT",
					Name:                  "Sürat Kargo",
					BranchCode:            "IST-02",
					IsActive:              true,
					Position:              1,
					IsCashOnDoorAvailable: true,
					IsCardOnDoorAvailable: false,
					ReturnPrice:           25,
					DesiRanges: models.DesiRangeList{
						{MaxDesi: 2, Price: 35},
						{MaxDesi: 5, Price: 55},
						{MaxDesi: 15, Price: 95},
					},
					CodRanges: models.CodRangeList{
						{Min: 0, Max: 1000, Price: 12},
						{Min: 1000.01, Max: 0, Price: 20},
					},
				},
			},
		},
		{
			Name:                  "PTT Kargo",
			Code:                  "PTT",
			Type:                  models.CompanyTypeDirect,
			IsActive:              true,
			HandlesRuralAddresses: true,
			PricingRules: models.DesiRangeList{
				{MaxDesi: 2, Price: 28},
				{MaxDesi: 5, Price: 42},
				{MaxDesi: 20, Price: 75},
			},
		},
	}

	for i := range companies {
		company := &companies[i]
		if err := company.Validate(); err != nil {
			return err
		}
		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoNothing: true,
		}).Create(company)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			log.Printf("Seeded shipping company: %s", company.Name)
		}
	}
	return nil
}
