package carriers

import (
	"fmt"
	"log"

	"shipping-engine/internal/models"
)

// Factory creates Carrier instances from company configuration. The
// company type decides the integration shape; call sites never inspect
// the type themselves.
type Factory struct {
	defaults map[string]Config
}

// NewFactory creates a carrier factory. defaults carries per-company
// connection settings from the environment, keyed by company code; a
// company row's own BaseURL/APIKey take precedence when set.
func NewFactory(defaults map[string]Config) *Factory {
	return &Factory{defaults: defaults}
}

// CreateCarrier builds the right integration for a company. A company
// whose env-level integration is switched off is refused; companies
// without an env entry are governed by their database row alone.
func (f *Factory) CreateCarrier(company models.ShippingCompany) (Carrier, error) {
	config, hasDefaults := f.defaults[company.Code]
	if hasDefaults && !config.Enabled {
		return nil, fmt.Errorf("carrier integration %s is disabled", company.Code)
	}
	if company.BaseURL != "" {
		config.BaseURL = company.BaseURL
	}
	if company.APIKey != "" {
		config.APIKey = company.APIKey
	}
	if config.BaseURL == "" {
		return nil, fmt.Errorf("no base URL configured for company %s", company.Code)
	}
	if hasDefaults && !config.IsProduction {
		log.Printf("Carrier %s using test environment credentials", company.Code)
	}

	switch company.Type {
	case models.CompanyTypeAggregator:
		return NewFestCarrier(company.Code, config), nil
	case models.CompanyTypeDirect:
		return NewDirectCarrier(company.Code, config), nil
	default:
		return nil, fmt.Errorf("unsupported company type: %s", company.Type)
	}
}
