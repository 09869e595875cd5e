package models

import "github.com/google/uuid"

// Breakdown line labels, in display order
const (
	QuoteLineTransport  = "Transport"
	QuoteLineCommission = "Collection commission"
	QuoteLineCardFee    = "Card commission"
	QuoteLineFixedFee   = "Fixed fee"
)

// QuoteLine is one display row of a quote breakdown
type QuoteLine struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// Quote is an ephemeral, derived value; it is computed on demand and
// never persisted.
type Quote struct {
	TotalCost float64     `json:"totalCost"`
	Breakdown []QuoteLine `json:"breakdown"`
}

// QuoteRequest represents a request to quote a shipment
type QuoteRequest struct {
	CompanyID      uuid.UUID     `json:"companyId" binding:"required"`
	SubCarrierCode string        `json:"subCarrierCode"`
	Desi           float64       `json:"desi"`
	CodAmount      float64       `json:"codAmount"`
	PaymentMethod  PaymentMethod `json:"paymentMethod" binding:"required"`

	// Revenue, when supplied, asks for the admin-only profit estimate
	Revenue *float64 `json:"revenue,omitempty"`
}

// QuoteResponse represents a quote with an optional profit estimate.
// Profit is internal carrier margin and must never reach the customer.
type QuoteResponse struct {
	Success bool     `json:"success"`
	Quote   Quote    `json:"quote"`
	Profit  *float64 `json:"profit,omitempty"`
}

// EligibilityRequest represents a request to list usable carriers
type EligibilityRequest struct {
	PaymentMethod PaymentMethod `json:"paymentMethod" binding:"required"`
	IsRural       bool          `json:"isRural"`
}

// ConsignmentRequest represents a request to dispatch an order
type ConsignmentRequest struct {
	Order          Order     `json:"order" binding:"required"`
	CompanyID      uuid.UUID `json:"companyId" binding:"required"`
	SubCarrierCode string    `json:"subCarrierCode"`

	// CodAmountOverride replaces the order total as collectible amount
	CodAmountOverride *float64 `json:"codAmountOverride,omitempty"`

	// AcknowledgeWarning lets the operator override an eligibility
	// mismatch after an explicit warning
	AcknowledgeWarning bool `json:"acknowledgeWarning"`
}

// StatusUpdateRequest carries a raw carrier status code for a shipment
type StatusUpdateRequest struct {
	TrackingCode string `json:"trackingCode" binding:"required"`
	StatusCode   string `json:"statusCode" binding:"required"`
	Description  string `json:"description"`
}
