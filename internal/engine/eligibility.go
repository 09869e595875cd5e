package engine

import "shipping-engine/internal/models"

// CarrierOption is one usable (company, sub-carrier) pair for an order
type CarrierOption struct {
	Company    models.ShippingCompany `json:"company"`
	SubCarrier models.SubCarrier      `json:"subCarrier"`
}

// SupportsPayment reports whether a sub-carrier can collect for the
// given payment method. Prepaid and wire orders may ship via any active
// sub-carrier.
func SupportsPayment(sc models.SubCarrier, method models.PaymentMethod) bool {
	switch method {
	case models.PaymentCashOnDoor:
		return sc.IsCashOnDoorAvailable
	case models.PaymentCardOnDoor:
		return sc.IsCardOnDoorAvailable
	default:
		return true
	}
}

// EligibleCarriers narrows the configured companies to the (company,
// sub-carrier) pairs usable for an order. The default company is listed
// first, the rest keep their configured order. Companies with no
// surviving sub-carrier are dropped entirely.
func EligibleCarriers(companies []models.ShippingCompany, method models.PaymentMethod, isRural bool) []CarrierOption {
	var defaults, rest []CarrierOption

	for _, company := range companies {
		if !company.IsActive {
			continue
		}
		if isRural && !company.HandlesRuralAddresses {
			continue
		}

		subCarriers := company.SubCarriers
		if company.Type == models.CompanyTypeDirect && len(subCarriers) == 0 {
			subCarriers = []models.SubCarrier{company.ImplicitSubCarrier()}
		}

		for _, sc := range subCarriers {
			if !sc.IsActive {
				continue
			}
			if !SupportsPayment(sc, method) {
				continue
			}
			opt := CarrierOption{Company: company, SubCarrier: sc}
			if company.IsDefault {
				defaults = append(defaults, opt)
			} else {
				rest = append(rest, opt)
			}
		}
	}

	return append(defaults, rest...)
}

// FindOption resolves a concrete option from companies by company ID and
// sub-carrier code, without applying any filter. Returns false when the
// pair does not exist or is inactive.
func FindOption(companies []models.ShippingCompany, companyID string, subCarrierCode string) (CarrierOption, bool) {
	for _, company := range companies {
		if company.ID.String() != companyID {
			continue
		}
		if company.Type == models.CompanyTypeDirect && len(company.SubCarriers) == 0 {
			sc := company.ImplicitSubCarrier()
			if subCarrierCode == "" || subCarrierCode == sc.Code {
				return CarrierOption{Company: company, SubCarrier: sc}, true
			}
			return CarrierOption{}, false
		}
		for _, sc := range company.SubCarriers {
			if sc.Code == subCarrierCode && sc.IsActive {
				return CarrierOption{Company: company, SubCarrier: sc}, true
			}
		}
	}
	return CarrierOption{}, false
}
