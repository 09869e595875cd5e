package carriers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipping-engine/internal/carriers"
	"shipping-engine/internal/models"
)

func TestCreateCarrier_AggregatorGetsFestIntegration(t *testing.T) {
	factory := carriers.NewFactory(map[string]carriers.Config{
		"FEST": {APIKey: "key", BaseURL: "https://api.example.com", Enabled: true},
	})

	carrier, err := factory.CreateCarrier(models.ShippingCompany{
		Code: "FEST",
		Type: models.CompanyTypeAggregator,
	})
	require.NoError(t, err)
	assert.IsType(t, &carriers.FestCarrier{}, carrier)
	assert.Equal(t, "FEST", carrier.Name())
}

func TestCreateCarrier_DirectGetsDirectIntegration(t *testing.T) {
	factory := carriers.NewFactory(map[string]carriers.Config{
		"PTT": {APIKey: "key", BaseURL: "https://api.example.com", Enabled: true},
	})

	carrier, err := factory.CreateCarrier(models.ShippingCompany{
		Code: "PTT",
		Type: models.CompanyTypeDirect,
	})
	require.NoError(t, err)
	assert.IsType(t, &carriers.DirectCarrier{}, carrier)
}

func TestCreateCarrier_DisabledIntegrationRefused(t *testing.T) {
	factory := carriers.NewFactory(map[string]carriers.Config{
		"FEST": {APIKey: "key", BaseURL: "https://api.example.com", Enabled: false},
	})

	_, err := factory.CreateCarrier(models.ShippingCompany{
		Code: "FEST",
		Type: models.CompanyTypeAggregator,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disabled")
}

func TestCreateCarrier_CompanyWithoutEnvEntryUsesOwnSettings(t *testing.T) {
	factory := carriers.NewFactory(map[string]carriers.Config{})

	carrier, err := factory.CreateCarrier(models.ShippingCompany{
		Code:    "ACME",
		Type:    models.CompanyTypeDirect,
		BaseURL: "https://acme.example.com",
		APIKey:  "row-key",
	})
	require.NoError(t, err)
	assert.Equal(t, "ACME", carrier.Name())
}

func TestCreateCarrier_CompanyRowOverridesEnvDefaults(t *testing.T) {
	factory := carriers.NewFactory(map[string]carriers.Config{
		"FEST": {APIKey: "env-key", BaseURL: "https://env.example.com", Enabled: true},
	})

	carrier, err := factory.CreateCarrier(models.ShippingCompany{
		Code:    "FEST",
		Type:    models.CompanyTypeAggregator,
		BaseURL: "https://row.example.com",
	})
	require.NoError(t, err)
	require.NotNil(t, carrier)
}

func TestCreateCarrier_MissingBaseURLRejected(t *testing.T) {
	factory := carriers.NewFactory(map[string]carriers.Config{})

	_, err := factory.CreateCarrier(models.ShippingCompany{
		Code: "FEST",
		Type: models.CompanyTypeAggregator,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base URL")
}

func TestCreateCarrier_UnknownCompanyType(t *testing.T) {
	factory := carriers.NewFactory(map[string]carriers.Config{
		"X": {BaseURL: "https://api.example.com", Enabled: true},
	})

	_, err := factory.CreateCarrier(models.ShippingCompany{
		Code: "X",
		Type: "HYBRID",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported company type")
}
