package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierForPoints(t *testing.T) {
	assert.Equal(t, LoyaltyTierStandard, TierForPoints(0))
	assert.Equal(t, LoyaltyTierStandard, TierForPoints(499))
	assert.Equal(t, LoyaltyTierSilver, TierForPoints(500))
	assert.Equal(t, LoyaltyTierGold, TierForPoints(1000))
	assert.Equal(t, LoyaltyTierPlatinum, TierForPoints(5000))
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.False(t, OrderStatusPending.IsTerminal())
	assert.True(t, OrderStatusConfirmed.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
}

func TestAppointmentStatusBlocks(t *testing.T) {
	assert.True(t, AppointmentStatusScheduled.Blocks())
	assert.True(t, AppointmentStatusCompleted.Blocks())
	assert.False(t, AppointmentStatusCancelled.Blocks())
}

func TestParseRejectsUnknownValues(t *testing.T) {
	_, err := ParseOrderStatus("shipped")
	assert.Error(t, err)

	_, err = ParseAppointmentStatus("noshow")
	assert.Error(t, err)

	_, err = ParseCurrency("EUR")
	assert.Error(t, err)
}
