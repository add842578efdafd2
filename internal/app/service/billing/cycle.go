package billing

import (
	"fmt"
	"time"

	"github.com/subtrackr/subtrackr/pkg/types"
)

// AddOneCycle advances a YYYY-MM-DD date by exactly one billing cycle using
// calendar-aware addition, never a fixed 30/365-day offset.
func AddOneCycle(dateStr string, cycle types.BillingCycle) (string, error) {
	t, err := ParseLocalDate(dateStr)
	if err != nil {
		return "", err
	}
	switch cycle {
	case types.BillingCycleMonthly:
		return FormatLocalDate(addMonthsClamped(t, 1)), nil
	case types.BillingCycleYearly:
		return FormatLocalDate(addYearsClamped(t, 1)), nil
	default:
		return "", fmt.Errorf("invalid billing cycle: %q", cycle)
	}
}

// IsPastDue reports whether a billing date is strictly before today.
// YYYY-MM-DD strings order lexicographically, so no parse is needed.
func IsPastDue(dateStr string, today time.Time) bool {
	return dateStr < FormatLocalDate(today)
}

// DueInWindow reports whether a billing date falls within
// [today, today+days], inclusive on both ends.
func DueInWindow(dateStr string, today time.Time, days int) bool {
	return dateStr >= FormatLocalDate(today) && dateStr <= FormatLocalDate(today.AddDate(0, 0, days))
}

// DaysOverdue returns the whole-day difference between today and a past-due
// billing date, at least 1. Returns 0 for dates not in the past or not
// parseable.
func DaysOverdue(dateStr string, today time.Time) int {
	if !IsPastDue(dateStr, today) {
		return 0
	}
	d, err := ParseLocalDate(dateStr)
	if err != nil {
		return 0
	}
	// round, not floor: both ends are local midnight, so the only
	// sub-day drift is a DST hour
	days := int(today.Sub(d).Hours()/24 + 0.5)
	if days < 1 {
		days = 1
	}
	return days
}

// DaysUntil returns the whole-day distance from today to a future billing
// date, 0 when the date is today or past.
func DaysUntil(dateStr string, today time.Time) int {
	d, err := ParseLocalDate(dateStr)
	if err != nil {
		return 0
	}
	days := int(d.Sub(today).Hours()/24 + 0.5)
	if days < 0 {
		return 0
	}
	return days
}
