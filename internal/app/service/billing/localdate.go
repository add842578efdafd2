// Package billing implements calendar-date arithmetic for billing cycles.
//
// Dates are carried as "YYYY-MM-DD" strings everywhere. Parsing never goes
// through a timezone-sensitive parser: time.Parse of a date-only string
// yields UTC midnight, which shifts the date by one day for observers west
// of UTC. The string is split manually and rebuilt at local midnight.
package billing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedDate reports a date string that is not a valid calendar date
// in YYYY-MM-DD form.
var ErrMalformedDate = errors.New("malformed date")

// Now is the clock used for "today". Tests may replace it.
var Now = time.Now

// ParseLocalDate parses a YYYY-MM-DD string into local midnight of that day.
func ParseLocalDate(s string) (time.Time, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	// Atoi alone would admit signed components ("+024", "-1"); only plain
	// digit runs are calendar dates.
	for _, part := range parts {
		for _, r := range part {
			if r < '0' || r > '9' {
				return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
			}
		}
	}
	year, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	day, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	// time.Date normalizes out-of-range components (Feb 30 becomes Mar 2);
	// reject anything that did not round-trip.
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	return t, nil
}

// FormatLocalDate formats a time as YYYY-MM-DD, ignoring its clock part.
func FormatLocalDate(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// Today returns local midnight of the current day.
func Today() time.Time {
	n := Now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.Local)
}

// addMonthsClamped adds months to a date, clamping to the last day of the
// target month instead of letting the day overflow (Jan 31 + 1 month is
// the last day of February, not March 2/3).
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	// day 0 of the following month is the last day of the target month
	lastDay := time.Date(first.Year(), first.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, t.Location())
}

// addYearsClamped adds years with the same clamp (Feb 29 + 1 year is Feb 28
// of a non-leap target year).
func addYearsClamped(t time.Time, years int) time.Time {
	year, month, day := t.Date()
	lastDay := time.Date(year+years, month+1, 0, 0, 0, 0, 0, t.Location()).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(year+years, month, day, 0, 0, 0, 0, t.Location())
}
