package carriers

import (
	"context"
	"fmt"
)

// Amount type IDs in the carrier wire format
const (
	AmountTypeSenderPays     = 1 // prepaid/bulk, nothing collected at the door
	AmountTypeFeeToRecipient = 2
	AmountTypeCashOnDoor     = 3
	AmountTypeCreditCard     = 5
	AmountTypeCardOnDoor     = 6
)

// ConsignmentTypeParcel is the only consignment type this engine creates
const ConsignmentTypeParcel = 1

// Carrier defines the interface both integration types implement. A
// carrier accepts a consignment payload and returns the tracking code
// assigned by the external system; it performs the network I/O the rest
// of the engine must never do.
type Carrier interface {
	// Name returns the company code of the integration
	Name() string

	// Submit sends a consignment to the carrier and returns the assigned
	// tracking code. Safe to retry: the carrier deduplicates on
	// order_number.
	Submit(ctx context.Context, payload ConsignmentPayload) (string, error)

	// Status fetches the raw carrier status code for a tracking code
	Status(ctx context.Context, trackingCode string) (string, error)
}

// Config holds connection settings for a carrier integration
type Config struct {
	APIKey       string
	BaseURL      string
	Enabled      bool
	IsProduction bool
}

// SubmissionError is a failure reported while submitting a consignment.
// Transient network failures are retried with bounded backoff; carrier
// validation rejections are surfaced immediately and not retried.
type SubmissionError struct {
	StatusCode int
	Message    string
	Transient  bool
}

func (e *SubmissionError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("carrier rejected consignment (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("carrier submission failed: %s", e.Message)
}
