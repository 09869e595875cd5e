package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CompanyType represents how a shipping company is integrated
type CompanyType string

const (
	// CompanyTypeDirect is a carrier with its own API; cost comes from the
	// company-level pricing rules (legacy path, zero sub-carriers allowed)
	CompanyTypeDirect CompanyType = "DIRECT"
	// CompanyTypeAggregator multiplexes several physical carriers behind
	// one API; it must have at least one sub-carrier to be usable
	CompanyTypeAggregator CompanyType = "AGGREGATOR"
)

// ConfigurationError is returned when a rate table fails validation.
// The save is rejected and the previously stored table is retained.
type ConfigurationError struct {
	SubCarrier string
	Reason     string
}

func (e *ConfigurationError) Error() string {
	if e.SubCarrier != "" {
		return fmt.Sprintf("invalid rate table for sub-carrier %s: %s", e.SubCarrier, e.Reason)
	}
	return fmt.Sprintf("invalid rate table: %s", e.Reason)
}

// DesiRange is one weight/volume pricing tier. A parcel is charged the
// price of the first range whose MaxDesi covers its desi value.
type DesiRange struct {
	MaxDesi float64 `json:"maxDesi"`
	Price   float64 `json:"price"`
}

// CodRange is one collection-commission tier over the collectible amount.
// Max == 0 marks an open-ended top tier.
type CodRange struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Price float64 `json:"price"`
}

// Open reports whether the range has no upper bound.
func (r CodRange) Open() bool {
	return r.Max == 0
}

// Contains reports whether amount falls inside the range.
func (r CodRange) Contains(amount float64) bool {
	if amount < r.Min {
		return false
	}
	return r.Open() || amount <= r.Max
}

// DesiRangeList is stored as JSONB in PostgreSQL
type DesiRangeList []DesiRange

func (l DesiRangeList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal(DesiRangeList{})
	}
	return json.Marshal(l)
}

func (l *DesiRangeList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into DesiRangeList", value)
	}
	return json.Unmarshal(bytes, l)
}

// CodRangeList is stored as JSONB in PostgreSQL
type CodRangeList []CodRange

func (l CodRangeList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal(CodRangeList{})
	}
	return json.Marshal(l)
}

func (l *CodRangeList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into CodRangeList", value)
	}
	return json.Unmarshal(bytes, l)
}

// ShippingCompany represents a carrier integration configured by an
// administrator. The engine never creates companies itself.
type ShippingCompany struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name      string      `gorm:"type:varchar(255);not null" json:"name"`
	Code      string      `gorm:"type:varchar(50);not null;uniqueIndex:idx_shipping_companies_code" json:"code"`
	Type      CompanyType `gorm:"type:varchar(20);not null" json:"type"`
	IsActive  bool        `gorm:"default:true;index:idx_shipping_companies_active" json:"isActive"`
	IsDefault bool        `gorm:"default:false" json:"isDefault"`

	// HandlesRuralAddresses marks carriers that can reach addresses the
	// others cannot. Replaces the old company-name substring heuristic.
	HandlesRuralAddresses bool `gorm:"default:false" json:"handlesRuralAddresses"`

	// PricingRules is the legacy DIRECT pricing path: the tier price IS
	// the transport cost, no aggregator fixed fee on top.
	PricingRules DesiRangeList `gorm:"type:jsonb" json:"pricingRules,omitempty"`

	BaseURL string `gorm:"type:text" json:"baseUrl,omitempty"`
	APIKey  string `gorm:"type:text" json:"-"` // Never expose in JSON

	SubCarriers []SubCarrier `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"subCarriers,omitempty"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName specifies the table name for ShippingCompany
func (ShippingCompany) TableName() string {
	return "shipping_companies"
}

// SubCarrier is a concrete carrier reachable through an aggregator, with
// its own rate table and payment-capability flags.
type SubCarrier struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_sub_carriers_company_code" json:"companyId"`
	Code       string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_sub_carriers_company_code" json:"code"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	BranchCode string    `gorm:"type:varchar(50)" json:"branchCode"`
	IsActive   bool      `gorm:"default:true" json:"isActive"`
	Position   int       `gorm:"default:0" json:"position"`

	IsCashOnDoorAvailable bool `gorm:"default:false" json:"isCashOnDoorAvailable"`
	IsCardOnDoorAvailable bool `gorm:"default:false" json:"isCardOnDoorAvailable"`

	// FixedPrice is an additive flat surcharge on aggregator quotes; the
	// desi tier remains the single source of truth for the base delivery
	// fee so the two are never double-counted.
	FixedPrice     float64 `gorm:"type:decimal(10,2);default:0" json:"fixedPrice"`
	ReturnPrice    float64 `gorm:"type:decimal(10,2);default:0" json:"returnPrice"`
	CardCommission float64 `gorm:"type:decimal(5,4);default:0" json:"cardCommission"` // fraction, 0-1

	DesiRanges DesiRangeList `gorm:"type:jsonb" json:"desiRanges"`
	CodRanges  CodRangeList  `gorm:"type:jsonb" json:"codRanges"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName specifies the table name for SubCarrier
func (SubCarrier) TableName() string {
	return "sub_carriers"
}

// Validate checks the sub-carrier rate table. It runs on every
// configuration edit so a broken table can never be saved.
func (sc *SubCarrier) Validate() error {
	if sc.Code == "" {
		return &ConfigurationError{Reason: "sub-carrier code is required"}
	}
	if sc.CardCommission < 0 || sc.CardCommission > 1 {
		return &ConfigurationError{SubCarrier: sc.Code, Reason: "card commission must be a fraction between 0 and 1"}
	}
	if sc.FixedPrice < 0 || sc.ReturnPrice < 0 {
		return &ConfigurationError{SubCarrier: sc.Code, Reason: "prices must not be negative"}
	}
	if err := validateDesiRanges(sc.DesiRanges); err != nil {
		return &ConfigurationError{SubCarrier: sc.Code, Reason: err.Error()}
	}
	if err := validateCodRanges(sc.CodRanges); err != nil {
		return &ConfigurationError{SubCarrier: sc.Code, Reason: err.Error()}
	}
	return nil
}

// validateDesiRanges requires tiers strictly ascending in MaxDesi.
func validateDesiRanges(ranges DesiRangeList) error {
	for i, r := range ranges {
		if r.MaxDesi <= 0 {
			return fmt.Errorf("desi tier %d: maxDesi must be positive", i)
		}
		if r.Price < 0 {
			return fmt.Errorf("desi tier %d: price must not be negative", i)
		}
		if i > 0 && r.MaxDesi <= ranges[i-1].MaxDesi {
			return fmt.Errorf("desi tier %d: maxDesi %.2f must be greater than previous tier %.2f", i, r.MaxDesi, ranges[i-1].MaxDesi)
		}
	}
	return nil
}

// validateCodRanges requires min <= max per tier, no overlap between
// tiers, and at most one open-ended tier, which must be last.
func validateCodRanges(ranges CodRangeList) error {
	for i, r := range ranges {
		if r.Min < 0 {
			return fmt.Errorf("cod tier %d: min must not be negative", i)
		}
		if r.Price < 0 {
			return fmt.Errorf("cod tier %d: price must not be negative", i)
		}
		if !r.Open() && r.Min > r.Max {
			return fmt.Errorf("cod tier %d: min %.2f is greater than max %.2f", i, r.Min, r.Max)
		}
		if r.Open() && i != len(ranges)-1 {
			return fmt.Errorf("cod tier %d: open-ended tier must be the last one", i)
		}
		if i > 0 {
			prev := ranges[i-1]
			if prev.Open() || r.Min <= prev.Max {
				return fmt.Errorf("cod tier %d: overlaps previous tier ending at %.2f", i, prev.Max)
			}
		}
	}
	return nil
}

// Validate checks the company and all of its sub-carrier rate tables.
func (c *ShippingCompany) Validate() error {
	if c.Name == "" {
		return &ConfigurationError{Reason: "company name is required"}
	}
	if c.Code == "" {
		return &ConfigurationError{Reason: "company code is required"}
	}
	switch c.Type {
	case CompanyTypeDirect:
		if err := validateDesiRanges(c.PricingRules); err != nil {
			return &ConfigurationError{Reason: fmt.Sprintf("pricing rules: %v", err)}
		}
	case CompanyTypeAggregator:
		if len(c.SubCarriers) == 0 {
			return &ConfigurationError{Reason: "aggregator company requires at least one sub-carrier"}
		}
	default:
		return &ConfigurationError{Reason: fmt.Sprintf("unknown company type %q", c.Type)}
	}
	seen := make(map[string]bool, len(c.SubCarriers))
	for i := range c.SubCarriers {
		sc := &c.SubCarriers[i]
		if seen[sc.Code] {
			return &ConfigurationError{SubCarrier: sc.Code, Reason: "duplicate sub-carrier code"}
		}
		seen[sc.Code] = true
		if err := sc.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ImplicitSubCarrier synthesizes the sole carrier of a DIRECT company so
// the rest of the engine can treat both integration types uniformly. The
// legacy direct integrations collected both cash and card on the door.
func (c *ShippingCompany) ImplicitSubCarrier() SubCarrier {
	return SubCarrier{
		CompanyID:             c.ID,
		Code:                  c.Code,
		Name:                  c.Name,
		IsActive:              c.IsActive,
		IsCashOnDoorAvailable: true,
		IsCardOnDoorAvailable: true,
		DesiRanges:            c.PricingRules,
	}
}

// CreateCompanyRequest represents a request to create a shipping company
type CreateCompanyRequest struct {
	Name                  string              `json:"name" binding:"required"`
	Code                  string              `json:"code" binding:"required"`
	Type                  CompanyType         `json:"type" binding:"required"`
	IsActive              bool                `json:"isActive"`
	IsDefault             bool                `json:"isDefault"`
	HandlesRuralAddresses bool                `json:"handlesRuralAddresses"`
	PricingRules          DesiRangeList       `json:"pricingRules"`
	BaseURL               string              `json:"baseUrl"`
	APIKey                string              `json:"apiKey"`
	SubCarriers           []SubCarrierRequest `json:"subCarriers"`
}

// SubCarrierRequest mirrors the SubCarrier shape verbatim; updates are
// full-value replacements, never partial field merges.
type SubCarrierRequest struct {
	Code                  string        `json:"code" binding:"required"`
	Name                  string        `json:"name" binding:"required"`
	BranchCode            string        `json:"branchCode"`
	IsActive              bool          `json:"isActive"`
	Position              int           `json:"position"`
	IsCashOnDoorAvailable bool          `json:"isCashOnDoorAvailable"`
	IsCardOnDoorAvailable bool          `json:"isCardOnDoorAvailable"`
	FixedPrice            float64       `json:"fixedPrice"`
	ReturnPrice           float64       `json:"returnPrice"`
	CardCommission        float64       `json:"cardCommission"`
	DesiRanges            DesiRangeList `json:"desiRanges"`
	CodRanges             CodRangeList  `json:"codRanges"`
}

// ToModel converts the request into a SubCarrier row
func (r SubCarrierRequest) ToModel() SubCarrier {
	return SubCarrier{
		Code:                  r.Code,
		Name:                  r.Name,
		BranchCode:            r.BranchCode,
		IsActive:              r.IsActive,
		Position:              r.Position,
		IsCashOnDoorAvailable: r.IsCashOnDoorAvailable,
		IsCardOnDoorAvailable: r.IsCardOnDoorAvailable,
		FixedPrice:            r.FixedPrice,
		ReturnPrice:           r.ReturnPrice,
		CardCommission:        r.CardCommission,
		DesiRanges:            r.DesiRanges,
		CodRanges:             r.CodRanges,
	}
}

// ToModel converts the request into a ShippingCompany row
func (r CreateCompanyRequest) ToModel() ShippingCompany {
	company := ShippingCompany{
		Name:                  r.Name,
		Code:                  r.Code,
		Type:                  r.Type,
		IsActive:              r.IsActive,
		IsDefault:             r.IsDefault,
		HandlesRuralAddresses: r.HandlesRuralAddresses,
		PricingRules:          r.PricingRules,
		BaseURL:               r.BaseURL,
		APIKey:                r.APIKey,
	}
	for _, sc := range r.SubCarriers {
		company.SubCarriers = append(company.SubCarriers, sc.ToModel())
	}
	return company
}
