// Package calendar holds the calendar-day arithmetic shared by the plant
// schedule and the achievement counters. All comparisons happen on the
// calendar date of each instant in a reference location, never on raw
// 24-hour spans.
package calendar

import "time"

const dayLayout = "2006-01-02"

// Day truncates t to midnight in loc.
func Day(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DaysBetween returns the number of calendar days from a to b, measured in
// b's location. It is negative when a falls on a later date than b.
func DaysBetween(a, b time.Time) int {
	loc := b.Location()
	da := Day(a, loc)
	db := Day(b, loc)
	// Compare as UTC dates so DST shifts never produce 23h or 25h days.
	ua := time.Date(da.Year(), da.Month(), da.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(db.Year(), db.Month(), db.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// SameDay reports whether a and b fall on the same date in b's location.
func SameDay(a, b time.Time) bool {
	return DaysBetween(a, b) == 0
}

// Key formats the calendar date of t in loc as YYYY-MM-DD.
func Key(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dayLayout)
}

// ParseKey parses a YYYY-MM-DD key as midnight in loc.
func ParseKey(key string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dayLayout, key, loc)
}

// Streak counts consecutive calendar days that contain at least one of the
// given instants, ending on now's date. If now's date has no instant yet the
// run may end on the previous day instead, so a streak is not lost before the
// day is over.
func Streak(instants []time.Time, now time.Time) int {
	if len(instants) == 0 {
		return 0
	}
	loc := now.Location()
	seen := make(map[string]struct{}, len(instants))
	for _, t := range instants {
		seen[Key(t, loc)] = struct{}{}
	}

	cursor := Day(now, loc)
	if _, ok := seen[Key(cursor, loc)]; !ok {
		cursor = cursor.AddDate(0, 0, -1)
	}

	n := 0
	for {
		if _, ok := seen[Key(cursor, loc)]; !ok {
			return n
		}
		n++
		cursor = cursor.AddDate(0, 0, -1)
	}
}
