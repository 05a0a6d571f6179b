package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPlanPeriodEnd(t *testing.T) {
	from := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	monthly := &SubscriptionPlan{Period: PlanPeriodMonthly}
	assert.Equal(t, time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC), monthly.PeriodEnd(from))

	yearly := &SubscriptionPlan{Period: PlanPeriodYearly}
	assert.Equal(t, time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC), yearly.PeriodEnd(from))

	// Unset period falls back to yearly.
	unset := &SubscriptionPlan{}
	assert.Equal(t, time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC), unset.PeriodEnd(from))
}

func TestSubscriptionIsCurrent(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	active := &Subscription{Status: SubscriptionStatusActive, EndAt: now.AddDate(0, 0, 1)}
	assert.True(t, active.IsCurrent(now))

	lapsed := &Subscription{Status: SubscriptionStatusActive, EndAt: now.AddDate(0, 0, -1)}
	assert.False(t, lapsed.IsCurrent(now))

	cancelled := &Subscription{Status: SubscriptionStatusCancelled, EndAt: now.AddDate(0, 0, 1)}
	assert.False(t, cancelled.IsCurrent(now))
}
