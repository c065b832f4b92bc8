package meal

import (
	"errors"
	"time"

	"github.com/xraph/messbill/id"
	"github.com/xraph/messbill/types"
)

// ErrNegativeCount is returned when a meal component is negative.
var ErrNegativeCount = errors.New("meal: negative meal count")

// Entry records one boarder's meals for one calendar day. There is at
// most one entry per (hostel, boarder, day); recording again replaces
// the day's counts.
type Entry struct {
	types.Entity
	ID          id.MealID    `json:"id"`
	HostelID    id.HostelID  `json:"hostel_id"`
	BoarderID   id.BoarderID `json:"boarder_id"`
	Date        time.Time    `json:"date"` // normalized to midnight
	Breakfast   types.Amount `json:"breakfast"`
	Lunch       types.Amount `json:"lunch"`
	Dinner      types.Amount `json:"dinner"`
	CustomMeals []CustomMeal `json:"custom_meals,omitempty"`
	Off         bool         `json:"off"`
}

// CustomMeal is an extra named meal slot beyond the standard three,
// e.g. "feast" or "guest".
type CustomMeal struct {
	Name  string       `json:"name"`
	Value types.Amount `json:"value"`
}

// Total returns the entry's meal units for the day. An off day counts
// as zero regardless of the recorded components.
func (e *Entry) Total() types.Amount {
	if e.Off {
		return types.AmountZero
	}

	total := e.Breakfast.Add(e.Lunch).Add(e.Dinner)
	for _, cm := range e.CustomMeals {
		total = total.Add(cm.Value)
	}

	return total
}

// Normalize truncates Date to midnight and zeroes all components when
// the day is marked off, so stored entries match what Total reports.
func (e *Entry) Normalize() {
	e.Date = Day(e.Date)

	if e.Off {
		e.Breakfast = types.AmountZero
		e.Lunch = types.AmountZero
		e.Dinner = types.AmountZero
		e.CustomMeals = nil
	}
}

// Validate rejects negative meal counts.
func (e *Entry) Validate() error {
	if e.Breakfast.IsNegative() || e.Lunch.IsNegative() || e.Dinner.IsNegative() {
		return ErrNegativeCount
	}

	for _, cm := range e.CustomMeals {
		if cm.Value.IsNegative() {
			return ErrNegativeCount
		}
	}

	return nil
}

// Day truncates t to midnight in its own location.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
