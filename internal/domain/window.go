// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// SortOrder selects the direction in which day windows march and in which
// search results are returned.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder normalizes a query-string value. Anything that is not
// exactly "asc" falls back to descending, matching the public API contract.
func ParseSortOrder(s string) SortOrder {
	if s == string(SortAsc) {
		return SortAsc
	}
	return SortDesc
}

// reportEpoch anchors ascending windows. Offset 0 in ascending order always
// refers to the first day of the event, no matter when the call is made.
var reportEpoch = time.Date(2024, time.May, 9, 0, 0, 0, 0, time.UTC)

// TimeWindow is a half-open interval [Start, End) exactly one day wide.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// DayWindow computes the day window for the given offset.
// Descending windows march backward from now (offset 0 = the most recent
// day); ascending windows march forward from the event epoch (offset 0 = the
// oldest tracked day).
func DayWindow(offset int, order SortOrder) TimeWindow {
	return DayWindowAt(time.Now().UTC(), offset, order)
}

// DayWindowAt is DayWindow with an explicit reference time for "now".
func DayWindowAt(now time.Time, offset int, order SortOrder) TimeWindow {
	day := 24 * time.Hour
	if order == SortAsc {
		start := reportEpoch.Add(time.Duration(offset) * day)
		return TimeWindow{Start: start, End: start.Add(day)}
	}
	end := now.Add(-time.Duration(offset) * day)
	return TimeWindow{Start: end.Add(-day), End: end}
}
