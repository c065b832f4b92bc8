package types_test

import (
	"testing"
	"time"

	"github.com/xraph/messbill/types"
)

func TestPeriodRange(t *testing.T) {
	tests := []struct {
		name      string
		period    types.Period
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			"march",
			types.NewPeriod(2024, time.March),
			time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC),
		},
		{
			"leap february",
			types.NewPeriod(2024, time.February),
			time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, time.February, 29, 23, 59, 59, 0, time.UTC),
		},
		{
			"non-leap february",
			types.NewPeriod(2023, time.February),
			time.Date(2023, time.February, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2023, time.February, 28, 23, 59, 59, 0, time.UTC),
		},
		{
			"december",
			types.NewPeriod(2024, time.December),
			time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, time.December, 31, 23, 59, 59, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := tt.period.Range(time.UTC)
			if !start.Equal(tt.wantStart) {
				t.Errorf("start: expected %v, got %v", tt.wantStart, start)
			}
			if !end.Equal(tt.wantEnd) {
				t.Errorf("end: expected %v, got %v", tt.wantEnd, end)
			}
		})
	}
}

func TestPeriodContains(t *testing.T) {
	p := types.NewPeriod(2024, time.March)

	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"first instant", time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), true},
		{"mid-month", time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC), true},
		{"last second", time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC), true},
		{"previous month", time.Date(2024, time.February, 29, 23, 59, 59, 0, time.UTC), false},
		{"next month", time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Contains(tt.t); got != tt.want {
				t.Errorf("Contains(%v): expected %v, got %v", tt.t, tt.want, got)
			}
		})
	}
}

func TestPeriodValidate(t *testing.T) {
	if err := types.NewPeriod(2024, time.March).Validate(); err != nil {
		t.Errorf("valid period rejected: %v", err)
	}
	if err := types.NewPeriod(2024, 0).Validate(); err == nil {
		t.Error("expected error for month 0")
	}
	if err := types.NewPeriod(2024, 13).Validate(); err == nil {
		t.Error("expected error for month 13")
	}
	if err := types.NewPeriod(0, time.March).Validate(); err == nil {
		t.Error("expected error for year 0")
	}
}

func TestPeriodNextPrev(t *testing.T) {
	p := types.NewPeriod(2024, time.December)
	if next := p.Next(); !next.Equal(types.NewPeriod(2025, time.January)) {
		t.Errorf("Next of December: got %s", next)
	}

	q := types.NewPeriod(2024, time.January)
	if prev := q.Prev(); !prev.Equal(types.NewPeriod(2023, time.December)) {
		t.Errorf("Prev of January: got %s", prev)
	}

	mid := types.NewPeriod(2024, time.June)
	if !mid.Next().Prev().Equal(mid) {
		t.Error("Next then Prev should round-trip")
	}
}

func TestPeriodOrdering(t *testing.T) {
	earlier := types.NewPeriod(2023, time.December)
	later := types.NewPeriod(2024, time.January)

	if !earlier.Before(later) {
		t.Error("2023-12 should be before 2024-01")
	}
	if later.Before(earlier) {
		t.Error("2024-01 should not be before 2023-12")
	}
}

func TestPeriodOf(t *testing.T) {
	p := types.PeriodOf(time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC))
	if !p.Equal(types.NewPeriod(2024, time.March)) {
		t.Errorf("expected 2024-03, got %s", p)
	}
}

func TestPeriodString(t *testing.T) {
	if got := types.NewPeriod(2024, time.March).String(); got != "2024-03" {
		t.Errorf("expected 2024-03, got %s", got)
	}
}
