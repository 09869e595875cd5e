package engine

import (
	"log"
	"time"

	"shipping-engine/internal/models"
)

// DefaultStuckThreshold is how long a shipment may sit without movement
// before it is flagged for human attention.
const DefaultStuckThreshold = 3 * 24 * time.Hour

// festLifecycle maps Fest two-digit status codes to the internal
// lifecycle state. The code space is carrier-specific; keep this table
// in sync with the Fest integration documentation.
var festLifecycle = map[string]models.ShippingStatus{
	"00": models.StatusPreparing, // accepted, pending pickup
	"10": models.StatusDelivered,
	"20": models.StatusReturned, // return sub-states
	"21": models.StatusReturned,
	"22": models.StatusReturned,
	"23": models.StatusReturned,
	"24": models.StatusReturned,
	"30": models.StatusShipped, // delivery failed, retry scheduled
	"50": models.StatusShipped,
	"60": models.StatusShipped,
	"40": models.StatusShipped, // in transit
	"41": models.StatusShipped, // at branch
	"42": models.StatusShipped, // out for delivery
}

// festProblematic is the set of codes representing return-in-progress or
// delivery failure. It is deliberately independent of the lifecycle
// table: a shipment can be lifecycle-SHIPPED and still problematic.
var festProblematic = map[string]bool{
	"20": true, "21": true, "22": true, "23": true, "24": true,
	"30": true, "50": true, "60": true,
}

// ClassifyStatus maps a raw Fest status code to the internal lifecycle
// state. Unknown codes default to PREPARING since carrier code sets
// evolve; they are logged for table maintenance, never rejected.
func ClassifyStatus(code string) models.ShippingStatus {
	if status, ok := festLifecycle[code]; ok {
		return status
	}
	log.Printf("Unknown carrier status code %q, defaulting to PREPARING", code)
	return models.StatusPreparing
}

// IsProblematic reports whether the raw code needs human intervention.
func IsProblematic(code string) bool {
	return festProblematic[code]
}

// IsStuck reports whether a shipment has gone without movement for
// longer than the threshold. Evaluated on every read; exactly the
// threshold is not stuck. Delivered shipments are never stuck.
func IsStuck(status models.ShippingStatus, lastMovement, now time.Time, threshold time.Duration) bool {
	if status == models.StatusDelivered {
		return false
	}
	return now.Sub(lastMovement) > threshold
}
