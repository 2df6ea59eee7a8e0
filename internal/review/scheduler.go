// Package review keeps a lightweight spaced-repetition log of concepts the
// user has studied and schedules when each one is due again.
package review

import "time"

// Quality grades a recall attempt on a 0..5 scale, 5 being effortless.
type Quality int

// Clamp bounds a grade into the valid range.
func (q Quality) Clamp() Quality {
	if q < 0 {
		return 0
	}
	if q > 5 {
		return 5
	}
	return q
}

// NextInterval returns how many days until the concept should resurface:
// 2^(5-quality) days with a floor of one day. Quality 5 comes back tomorrow,
// quality 0 in 32 days.
func NextInterval(quality Quality) int {
	q := int(quality.Clamp())
	days := 1 << (5 - q)
	if days < 1 {
		days = 1
	}
	return days
}

// NextDue computes the next review timestamp from now for the given grade.
func NextDue(now time.Time, quality Quality) time.Time {
	return now.AddDate(0, 0, NextInterval(quality))
}
