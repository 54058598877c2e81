package types

import (
	"time"

	ierr "github.com/sellerdesk/backoffice/internal/errors"
)

// NextBillingDate calculates the next billing date from the given anchor time
// for the plan's billing cycle. It leverages clamped date arithmetic, which
// properly handles leap years and month-boundary issues (e.g. Jan 31 + 1 month
// lands on Feb 28/29 rather than overflowing into March).
func NextBillingDate(start time.Time, cycle BillingCycle) (time.Time, error) {
	switch cycle {
	case BillingCycleMonthly:
		return AddClampedDate(start, 0, 1, 0), nil
	case BillingCycleQuarterly:
		return AddClampedDate(start, 0, 3, 0), nil
	case BillingCycleYearly:
		return AddClampedDate(start, 1, 0, 0), nil
	default:
		return start, ierr.NewErrorf("invalid billing cycle: %s", cycle).
			WithHint("Plan has an unresolvable billing cycle").
			Mark(ierr.ErrInvalidPlanConfiguration)
	}
}

// AddClampedDate adds the given years, months and days to t, clamping the day
// of month to the last valid day instead of letting it roll over.
func AddClampedDate(t time.Time, years, months, days int) time.Time {
	y, m, d := t.Date()
	h, min, sec := t.Clock()

	newY := y + years
	newM := time.Month(int(m) + months)

	for newM > 12 {
		newM -= 12
		newY++
	}
	for newM < 1 {
		newM += 12
		newY--
	}

	// Find the last valid day of the new month
	firstOfNextMonth := time.Date(newY, newM+1, 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfNextMonth.Add(-24 * time.Hour).Day()

	newD := d + days
	if newD > lastDay {
		newD = lastDay
	}

	return time.Date(newY, newM, newD, h, min, sec, t.Nanosecond(), t.Location())
}
