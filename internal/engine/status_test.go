package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"shipping-engine/internal/engine"
	"shipping-engine/internal/models"
)

func TestClassifyStatus(t *testing.T) {
	cases := []struct {
		code string
		want models.ShippingStatus
	}{
		{"00", models.StatusPreparing},
		{"10", models.StatusDelivered},
		{"20", models.StatusReturned},
		{"21", models.StatusReturned},
		{"22", models.StatusReturned},
		{"23", models.StatusReturned},
		{"24", models.StatusReturned},
		{"30", models.StatusShipped},
		{"40", models.StatusShipped},
		{"41", models.StatusShipped},
		{"42", models.StatusShipped},
		{"50", models.StatusShipped},
		{"60", models.StatusShipped},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			assert.Equal(t, tc.want, engine.ClassifyStatus(tc.code))
		})
	}
}

func TestClassifyStatus_UnknownCodeDefaultsToPreparing(t *testing.T) {
	assert.Equal(t, models.StatusPreparing, engine.ClassifyStatus("99"))
	assert.Equal(t, models.StatusPreparing, engine.ClassifyStatus(""))
	assert.Equal(t, models.StatusPreparing, engine.ClassifyStatus("garbage"))
}

func TestIsProblematic(t *testing.T) {
	for _, code := range []string{"20", "21", "22", "23", "24", "30", "50", "60"} {
		assert.True(t, engine.IsProblematic(code), "code %s should be problematic", code)
	}
	for _, code := range []string{"00", "10", "40", "41", "42", "99"} {
		assert.False(t, engine.IsProblematic(code), "code %s should not be problematic", code)
	}
}

func TestIsProblematic_IndependentOfLifecycle(t *testing.T) {
	// a failed delivery keeps moving through the SHIPPED lifecycle while
	// still needing human attention
	assert.Equal(t, models.StatusShipped, engine.ClassifyStatus("30"))
	assert.True(t, engine.IsProblematic("30"))
}

func TestIsStuck(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	threshold := engine.DefaultStuckThreshold

	t.Run("past threshold is stuck", func(t *testing.T) {
		lastMovement := now.Add(-threshold - time.Second)
		assert.True(t, engine.IsStuck(models.StatusShipped, lastMovement, now, threshold))
	})

	t.Run("exactly at threshold is not stuck", func(t *testing.T) {
		lastMovement := now.Add(-threshold)
		assert.False(t, engine.IsStuck(models.StatusShipped, lastMovement, now, threshold))
	})

	t.Run("recent movement is not stuck", func(t *testing.T) {
		lastMovement := now.Add(-time.Hour)
		assert.False(t, engine.IsStuck(models.StatusPreparing, lastMovement, now, threshold))
	})

	t.Run("delivered is never stuck", func(t *testing.T) {
		lastMovement := now.Add(-30 * 24 * time.Hour)
		assert.False(t, engine.IsStuck(models.StatusDelivered, lastMovement, now, threshold))
	})
}
