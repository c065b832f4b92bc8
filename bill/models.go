package bill

import (
	"math"

	"github.com/xraph/messbill/id"
	"github.com/xraph/messbill/types"
)

// RateSummary holds the month-level figures the per-boarder statements
// derive from.
type RateSummary struct {
	TotalMeals   types.Amount `json:"total_meals"`
	TotalExpense types.Amount `json:"total_expense"`
	MealRate     types.Amount `json:"meal_rate"`
}

// Statement is one boarder's bill for a month.
type Statement struct {
	BoarderID      id.BoarderID `json:"boarder_id"`
	BoarderName    string       `json:"boarder_name"`
	RoomNumber     string       `json:"room_number,omitempty"`
	TotalMeals     types.Amount `json:"total_meals"`
	MealRate       types.Amount `json:"meal_rate"`
	MealCost       types.Amount `json:"meal_cost"`
	SeatRent       types.Amount `json:"seat_rent"`
	TotalBill      types.Amount `json:"total_bill"`
	TotalPayment   types.Amount `json:"total_payment"`
	OpeningBalance types.Amount `json:"opening_balance"`
	Due            types.Amount `json:"due"`
	Advance        types.Amount `json:"advance"`
}

// MonthlyReport is the full statement set for a hostel month.
type MonthlyReport struct {
	HostelID   id.HostelID  `json:"hostel_id"`
	Period     types.Period `json:"period"`
	Rate       RateSummary  `json:"rate"`
	Statements []Statement  `json:"statements"`
}

// TotalDue sums the due column across statements.
func (r *MonthlyReport) TotalDue() types.Amount {
	total := types.AmountZero
	for _, s := range r.Statements {
		total = total.Add(s.Due)
	}

	return total
}

// TotalBilled sums the total-bill column across statements.
func (r *MonthlyReport) TotalBilled() types.Amount {
	total := types.AmountZero
	for _, s := range r.Statements {
		total = total.Add(s.TotalBill)
	}

	return total
}

// TotalAdvance sums the advance column across statements.
func (r *MonthlyReport) TotalAdvance() types.Amount {
	total := types.AmountZero
	for _, s := range r.Statements {
		total = total.Add(s.Advance)
	}

	return total
}

// DueList is the collection view of a hostel month: every statement
// ordered by due amount descending, settled boarders trailing at
// zero, plus the aggregates the page leads with.
type DueList struct {
	HostelID   id.HostelID  `json:"hostel_id"`
	Period     types.Period `json:"period"`
	MealRate   types.Amount `json:"meal_rate"`
	TotalDue   types.Amount `json:"total_due"`
	Statements []Statement  `json:"statements"`
}

// MonthSummary is the dashboard view of a hostel month.
type MonthSummary struct {
	HostelID       id.HostelID  `json:"hostel_id"`
	Period         types.Period `json:"period"`
	ActiveBoarders int          `json:"active_boarders"`
	TotalMeals     types.Amount `json:"total_meals"`
	TotalExpense   types.Amount `json:"total_expense"`
	MealRate       types.Amount `json:"meal_rate"`
	TotalPayments  types.Amount `json:"total_payments"`
	TotalBilled    types.Amount `json:"total_billed"`
	TotalDue       types.Amount `json:"total_due"`
	TotalAdvance   types.Amount `json:"total_advance"`
	Locked         bool         `json:"locked"`
}

// CollectionRate reports the month's payments as a percentage of the
// total billed, rounded to the nearest whole percent. A month with
// nothing billed collects at 0%.
func (s *MonthSummary) CollectionRate() float64 {
	if !s.TotalBilled.IsPositive() {
		return 0
	}

	return math.Round(s.TotalPayments.Div(s.TotalBilled).Mul(types.NewAmount(100)).Float64())
}
