package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shipping-engine/internal/models"
)

func TestShippingStatusTerminal(t *testing.T) {
	terminal := []models.ShippingStatus{
		models.StatusDelivered,
		models.StatusReturned,
		models.StatusCancelled,
	}
	open := []models.ShippingStatus{
		models.StatusPreparing,
		models.StatusShipped,
	}

	for _, s := range terminal {
		assert.True(t, s.Terminal(), "%s should be terminal", s)
	}
	for _, s := range open {
		assert.False(t, s.Terminal(), "%s should not be terminal", s)
	}
}

func TestTerminalStatusesMatchesTerminal(t *testing.T) {
	all := []models.ShippingStatus{
		models.StatusPreparing,
		models.StatusShipped,
		models.StatusDelivered,
		models.StatusReturned,
		models.StatusCancelled,
	}

	listed := make(map[models.ShippingStatus]bool)
	for _, s := range models.TerminalStatuses() {
		listed[s] = true
	}

	// the list feeds open-shipment queries; it must agree with the
	// predicate exactly
	for _, s := range all {
		assert.Equal(t, s.Terminal(), listed[s], "status %s", s)
	}
}
