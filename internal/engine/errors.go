package engine

import (
	"errors"
	"fmt"

	"shipping-engine/internal/models"
)

// ErrNoApplicableTier is returned when no configured desi or COD tier
// covers the requested value. Callers must treat it as a blocking
// configuration gap, never as a zero cost.
var ErrNoApplicableTier = errors.New("no applicable tier configured")

// IneligibleCarrierError is returned when an operator submits through a
// carrier/payment-method combination the eligibility filter excludes.
// It is a usage error on the caller's side and is not retried.
type IneligibleCarrierError struct {
	SubCarrier    string
	PaymentMethod models.PaymentMethod
}

func (e *IneligibleCarrierError) Error() string {
	return fmt.Sprintf("sub-carrier %s does not support payment method %s", e.SubCarrier, e.PaymentMethod)
}
