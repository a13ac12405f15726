package service

import (
	"fmt"
	"time"
)

// SlotDuration is how long a reservation occupies its table.  Every
// occupied interval in the system is exactly this long.
const SlotDuration = time.Hour

// Overlaps reports whether the half-open intervals [startA, endA) and
// [startB, endB) intersect.  Intervals that touch at an endpoint do not
// overlap, so back-to-back reservations are allowed.
func Overlaps(startA, endA, startB, endB time.Time) bool {
	return startA.Before(endB) && endA.After(startB)
}

// NormalizeDay truncates a timestamp to UTC midnight.  Plan dates and
// ledger dates are always stored in this form.
func NormalizeDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseClock parses an "HH:mm" string into hour and minute components.
// It returns ErrInvalidTime when the string is malformed or out of range.
func ParseClock(s string) (hour, minute int, err error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	if _, err := fmt.Sscanf(s, "%02d:%02d", &hour, &minute); err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return hour, minute, nil
}

// SlotBounds combines a day (UTC midnight) with an "HH:mm" time into the
// occupied interval [start, start+SlotDuration).
func SlotBounds(day time.Time, clock string) (start, end time.Time, err error) {
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start = time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)
	return start, start.Add(SlotDuration), nil
}

// CapacityForParty maps a party size onto the fixed capacity tiers:
// 1–2 guests need a 2-seat table, 3–4 a 4-seat, 5–6 a 6-seat and 7–8 an
// 8-seat.  Party sizes outside 1–8 match no tier and return ok=false.
func CapacityForParty(persons uint32) (capacity uint32, ok bool) {
	switch {
	case persons >= 1 && persons <= 2:
		return 2, true
	case persons <= 4:
		return 4, true
	case persons <= 6:
		return 6, true
	case persons <= 8:
		return 8, true
	default:
		return 0, false
	}
}
