package fleetcheck

import (
	"strings"
	"time"

	"github.com/golang-sql/civil"
)

// DateRange selects records by calendar day. Both bounds are inclusive and
// either may be nil for an open end.
type DateRange struct {
	Start *civil.Date
	End   *civil.Date

	// Location is the time zone whose calendar day a timestamp falls on.
	// When nil the timestamp's own location is used.
	Location *time.Location
}

// IsZero returns true if the range has neither bound.
func (r DateRange) IsZero() bool {
	return r.Start == nil && r.End == nil
}

// Contains reports whether t falls on a day within the range. The time of day
// is ignored.
func (r DateRange) Contains(t time.Time) bool {
	if r.Location != nil {
		t = t.In(r.Location)
	}
	day := civil.DateOf(t)
	if r.Start != nil && day.Before(*r.Start) {
		return false
	}
	if r.End != nil && day.After(*r.End) {
		return false
	}
	return true
}

// Window returns instants bracketing every timestamp the range can contain in
// any time zone, each end padded by a day. from is inclusive, to exclusive and
// nil marks an open end. Stores use it as a coarse prefilter ahead of Contains.
func (r DateRange) Window() (from, to *time.Time) {
	if r.Start != nil {
		t := r.Start.AddDays(-1).In(time.UTC)
		from = &t
	}
	if r.End != nil {
		t := r.End.AddDays(2).In(time.UTC)
		to = &t
	}
	return from, to
}

// ParseDateBound parses an optional YYYY-MM-DD bound. An empty value means no
// bound and returns nil. field names the bound in the returned error.
func ParseDateBound(field, value string) (*civil.Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	d, err := civil.ParseDate(value)
	if err != nil || !d.IsValid() {
		return nil, InvalidDateBound(field, value)
	}
	return &d, nil
}

// ParseDateRange parses the start and end bounds of a filter. Empty strings
// leave the corresponding end open. A start after the end is accepted and
// selects nothing.
func ParseDateRange(start, end string) (DateRange, error) {
	var r DateRange
	var err error
	if r.Start, err = ParseDateBound("start", start); err != nil {
		return DateRange{}, err
	}
	if r.End, err = ParseDateBound("end", end); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

// FilterByRange returns the records whose date falls within r, preserving
// order. A range without bounds returns records unchanged.
func FilterByRange(records []*InspectionRecord, r DateRange) []*InspectionRecord {
	if r.IsZero() {
		return records
	}
	out := make([]*InspectionRecord, 0, len(records))
	for _, rec := range records {
		if rec != nil && r.Contains(rec.Date) {
			out = append(out, rec)
		}
	}
	return out
}
