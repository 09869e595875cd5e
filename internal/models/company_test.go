package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipping-engine/internal/models"
)

func validAggregator() models.ShippingCompany {
	return models.ShippingCompany{
		Name:     "Fest Kargo",
		Code:     "FEST",
		Type:     models.CompanyTypeAggregator,
		IsActive: true,
		SubCarriers: []models.SubCarrier{
			{
				Code:     "ARAS",
				Name:     "Aras",
				IsActive: true,
				DesiRanges: models.DesiRangeList{
					{MaxDesi: 1, Price: 30},
					{MaxDesi: 3, Price: 45},
				},
				CodRanges: models.CodRangeList{
					{Min: 0, Max: 500, Price: 10},
					{Min: 500.01, Max: 0, Price: 15},
				},
			},
		},
	}
}

func TestShippingCompanyValidate_ValidAggregator(t *testing.T) {
	company := validAggregator()
	require.NoError(t, company.Validate())
}

func TestShippingCompanyValidate_AggregatorNeedsSubCarrier(t *testing.T) {
	company := validAggregator()
	company.SubCarriers = nil

	err := company.Validate()
	require.Error(t, err)

	var configErr *models.ConfigurationError
	require.ErrorAs(t, err, &configErr)
}

func TestShippingCompanyValidate_DirectValidatesPricingRules(t *testing.T) {
	company := models.ShippingCompany{
		Name:         "PTT Kargo",
		Code:         "PTT",
		Type:         models.CompanyTypeDirect,
		PricingRules: models.DesiRangeList{{MaxDesi: 5, Price: 40}, {MaxDesi: 3, Price: 30}},
	}

	err := company.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maxDesi")
}

func TestShippingCompanyValidate_DuplicateSubCarrierCode(t *testing.T) {
	company := validAggregator()
	company.SubCarriers = append(company.SubCarriers, company.SubCarriers[0])

	err := company.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestSubCarrierValidate_DesiRangesMustAscendStrictly(t *testing.T) {
	sc := validAggregator().SubCarriers[0]
	sc.DesiRanges = models.DesiRangeList{
		{MaxDesi: 3, Price: 45},
		{MaxDesi: 3, Price: 60}, // not strictly greater
	}

	require.Error(t, sc.Validate())
}

func TestSubCarrierValidate_CodRangesMustNotOverlap(t *testing.T) {
	sc := validAggregator().SubCarriers[0]
	sc.CodRanges = models.CodRangeList{
		{Min: 0, Max: 500, Price: 10},
		{Min: 400, Max: 1000, Price: 15},
	}

	err := sc.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overlaps")
}

func TestSubCarrierValidate_OpenTierMustBeLast(t *testing.T) {
	sc := validAggregator().SubCarriers[0]
	sc.CodRanges = models.CodRangeList{
		{Min: 0, Max: 0, Price: 10}, // open-ended but not last
		{Min: 500.01, Max: 1000, Price: 15},
	}

	err := sc.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "last")
}

func TestSubCarrierValidate_MinGreaterThanMax(t *testing.T) {
	sc := validAggregator().SubCarriers[0]
	sc.CodRanges = models.CodRangeList{{Min: 600, Max: 500, Price: 10}}

	require.Error(t, sc.Validate())
}

func TestSubCarrierValidate_CardCommissionIsFraction(t *testing.T) {
	sc := validAggregator().SubCarriers[0]
	sc.CardCommission = 2.9 // percent given where a fraction is expected

	err := sc.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fraction")
}

func TestCodRangeContains(t *testing.T) {
	bounded := models.CodRange{Min: 0, Max: 500, Price: 10}
	assert.True(t, bounded.Contains(0))
	assert.True(t, bounded.Contains(500))
	assert.False(t, bounded.Contains(500.01))

	open := models.CodRange{Min: 500.01, Max: 0, Price: 15}
	assert.True(t, open.Open())
	assert.True(t, open.Contains(500.01))
	assert.True(t, open.Contains(1e9))
	assert.False(t, open.Contains(500))
}

func TestImplicitSubCarrier(t *testing.T) {
	company := models.ShippingCompany{
		Name:         "PTT Kargo",
		Code:         "PTT",
		Type:         models.CompanyTypeDirect,
		IsActive:     true,
		PricingRules: models.DesiRangeList{{MaxDesi: 5, Price: 40}},
	}

	sc := company.ImplicitSubCarrier()
	assert.Equal(t, "PTT", sc.Code)
	assert.True(t, sc.IsCashOnDoorAvailable)
	assert.True(t, sc.IsCardOnDoorAvailable)
	assert.Equal(t, company.PricingRules, sc.DesiRanges)
}
