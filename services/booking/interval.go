package booking

import "appointly/models"

// Interval is a half-open [Start, End) window in minutes from midnight.
// Both the slot generator and the lifecycle engine test overlap through this
// package so adjacency and boundary handling can never disagree.
type Interval struct {
	Start int
	End   int
}

// Overlaps reports whether two half-open intervals intersect. Intervals that
// merely touch (a.End == b.Start) do not overlap.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

// FindConflicts returns the subset of existing intervals that overlap the
// candidate, preserving order.
func FindConflicts(candidate Interval, existing []Interval) []Interval {
	var conflicts []Interval
	for _, iv := range existing {
		if Overlaps(candidate, iv) {
			conflicts = append(conflicts, iv)
		}
	}
	return conflicts
}

// withinRanges reports whether [start, end) lies entirely inside one of the
// availability ranges.
func withinRanges(start, end int, ranges []models.TimeRange) bool {
	for _, r := range ranges {
		if start >= r.Start && end <= r.End {
			return true
		}
	}
	return false
}

// BlockedIntervals derives the blocked intervals for a day's bookings:
// each non-terminal booking blocks [Start, End+buffer).
func BlockedIntervals(bookings []models.Booking, bufferMinutes int) []Interval {
	var blocked []Interval
	for _, b := range bookings {
		if b.Status.Terminal() {
			continue
		}
		blocked = append(blocked, Interval{Start: b.Start, End: b.End + bufferMinutes})
	}
	return blocked
}
