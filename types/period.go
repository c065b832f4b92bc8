package types

import (
	"fmt"
	"time"
)

// Period identifies a billing month: a calendar month within a year.
// Month is 1-based (1 = January, 12 = December).
type Period struct {
	Year  int        `json:"year" bson:"year"`
	Month time.Month `json:"month" bson:"month"`
}

// NewPeriod creates a Period for the given year and month.
func NewPeriod(year int, month time.Month) Period {
	return Period{Year: year, Month: month}
}

// PeriodOf returns the Period containing the given instant, interpreted
// in the instant's own location.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// Validate checks that the period names a real calendar month.
func (p Period) Validate() error {
	if p.Month < time.January || p.Month > time.December {
		return fmt.Errorf("types: period month out of range: %d", p.Month)
	}

	if p.Year < 1 {
		return fmt.Errorf("types: period year out of range: %d", p.Year)
	}

	return nil
}

// Range returns the inclusive time window of the billing month in loc:
// from the first day at 00:00:00 to the last day at 23:59:59.
// The last day is obtained as day zero of the following month.
func (p Period) Range(loc *time.Location) (start, end time.Time) {
	if loc == nil {
		loc = time.UTC
	}

	start = time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, loc)
	end = time.Date(p.Year, p.Month+1, 0, 23, 59, 59, 0, loc)

	return start, end
}

// Contains reports whether t falls inside the billing month window,
// evaluated in t's location.
func (p Period) Contains(t time.Time) bool {
	start, end := p.Range(t.Location())

	return !t.Before(start) && !t.After(end)
}

// Next returns the following calendar month.
func (p Period) Next() Period {
	if p.Month == time.December {
		return Period{Year: p.Year + 1, Month: time.January}
	}

	return Period{Year: p.Year, Month: p.Month + 1}
}

// Prev returns the preceding calendar month.
func (p Period) Prev() Period {
	if p.Month == time.January {
		return Period{Year: p.Year - 1, Month: time.December}
	}

	return Period{Year: p.Year, Month: p.Month - 1}
}

// Equal reports whether two periods name the same month.
func (p Period) Equal(other Period) bool {
	return p.Year == other.Year && p.Month == other.Month
}

// Before reports whether p is chronologically before other.
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}

	return p.Month < other.Month
}

// String returns the period in "YYYY-MM" form, e.g. "2024-03".
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}
