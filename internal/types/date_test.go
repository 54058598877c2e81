package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextBillingDate(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		cycle    BillingCycle
		expected time.Time
	}{
		{
			name:     "monthly mid-month",
			start:    time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC),
			cycle:    BillingCycleMonthly,
			expected: time.Date(2025, 4, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:     "monthly clamps jan 31 to feb 28",
			start:    time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
			cycle:    BillingCycleMonthly,
			expected: time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "monthly clamps jan 31 to feb 29 in leap year",
			start:    time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			cycle:    BillingCycleMonthly,
			expected: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "quarterly crosses year boundary",
			start:    time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC),
			cycle:    BillingCycleQuarterly,
			expected: time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "yearly from leap day clamps",
			start:    time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
			cycle:    BillingCycleYearly,
			expected: time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextBillingDate(tt.start, tt.cycle)
			assert.NoError(t, err)
			assert.True(t, got.Equal(tt.expected), "got %s, expected %s", got, tt.expected)
		})
	}
}

func TestNextBillingDateInvalidCycle(t *testing.T) {
	_, err := NextBillingDate(time.Now(), BillingCycle("WEEKLY"))
	assert.Error(t, err)
}
