package engine_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipping-engine/internal/engine"
	"shipping-engine/internal/models"
)

func testCompanies() []models.ShippingCompany {
	return []models.ShippingCompany{
		{
			ID:       uuid.New(),
			Name:     "Fest Kargo",
			Code:     "FEST",
			Type:     models.CompanyTypeAggregator,
			IsActive: true,
			SubCarriers: []models.SubCarrier{
				{Code: "ARAS", Name: "Aras", IsActive: true, IsCashOnDoorAvailable: true, IsCardOnDoorAvailable: true},
				{Code: "SURAT", Name: "Sürat", IsActive: true, IsCashOnDoorAvailable: true},
				{Code: "MNG", Name: "MNG", IsActive: false, IsCashOnDoorAvailable: true},
			},
		},
		{
			ID:                    uuid.New(),
			Name:                  "PTT Kargo",
			Code:                  "PTT",
			Type:                  models.CompanyTypeDirect,
			IsActive:              true,
			IsDefault:             true,
			HandlesRuralAddresses: true,
			PricingRules:          models.DesiRangeList{{MaxDesi: 5, Price: 40}},
		},
	}
}

func TestEligibleCarriers_CashOnDoorFiltersByCapability(t *testing.T) {
	options := engine.EligibleCarriers(testCompanies(), models.PaymentCashOnDoor, false)

	codes := make([]string, 0, len(options))
	for _, opt := range options {
		codes = append(codes, opt.SubCarrier.Code)
	}
	// PTT's implicit carrier collects on the door; MNG is inactive
	assert.ElementsMatch(t, []string{"PTT", "ARAS", "SURAT"}, codes)
}

func TestEligibleCarriers_CardOnDoorDropsCashOnlyCarriers(t *testing.T) {
	options := engine.EligibleCarriers(testCompanies(), models.PaymentCardOnDoor, false)

	codes := make([]string, 0, len(options))
	for _, opt := range options {
		codes = append(codes, opt.SubCarrier.Code)
	}
	assert.ElementsMatch(t, []string{"PTT", "ARAS"}, codes)
}

func TestEligibleCarriers_PrepaidAllowsAnyActiveCarrier(t *testing.T) {
	options := engine.EligibleCarriers(testCompanies(), models.PaymentOnline, false)
	assert.Len(t, options, 3)
}

func TestEligibleCarriers_RuralKeepsOnlyRuralCompanies(t *testing.T) {
	options := engine.EligibleCarriers(testCompanies(), models.PaymentCashOnDoor, true)

	require.Len(t, options, 1)
	assert.Equal(t, "PTT", options[0].Company.Code)
}

func TestEligibleCarriers_DefaultCompanyListedFirst(t *testing.T) {
	options := engine.EligibleCarriers(testCompanies(), models.PaymentCashOnDoor, false)

	require.NotEmpty(t, options)
	assert.Equal(t, "PTT", options[0].Company.Code)
}

func TestEligibleCarriers_InactiveCompanyDropped(t *testing.T) {
	companies := testCompanies()
	companies[0].IsActive = false

	options := engine.EligibleCarriers(companies, models.PaymentCashOnDoor, false)
	require.Len(t, options, 1)
	assert.Equal(t, "PTT", options[0].Company.Code)
}

func TestEligibleCarriers_DirectCompanyGetsImplicitSubCarrier(t *testing.T) {
	options := engine.EligibleCarriers(testCompanies(), models.PaymentCashOnDoor, true)

	require.Len(t, options, 1)
	sc := options[0].SubCarrier
	assert.Equal(t, "PTT", sc.Code)
	assert.True(t, sc.IsCashOnDoorAvailable)
	assert.True(t, sc.IsCardOnDoorAvailable)
	assert.Equal(t, options[0].Company.PricingRules, sc.DesiRanges)
}

func TestFindOption(t *testing.T) {
	companies := testCompanies()

	t.Run("resolves aggregator sub-carrier", func(t *testing.T) {
		opt, ok := engine.FindOption(companies, companies[0].ID.String(), "ARAS")
		require.True(t, ok)
		assert.Equal(t, "FEST", opt.Company.Code)
		assert.Equal(t, "ARAS", opt.SubCarrier.Code)
	})

	t.Run("resolves direct company without sub-carrier code", func(t *testing.T) {
		opt, ok := engine.FindOption(companies, companies[1].ID.String(), "")
		require.True(t, ok)
		assert.Equal(t, "PTT", opt.SubCarrier.Code)
	})

	t.Run("rejects inactive sub-carrier", func(t *testing.T) {
		_, ok := engine.FindOption(companies, companies[0].ID.String(), "MNG")
		assert.False(t, ok)
	})

	t.Run("rejects unknown company", func(t *testing.T) {
		_, ok := engine.FindOption(companies, uuid.NewString(), "ARAS")
		assert.False(t, ok)
	})
}
