// Package bill derives meal rates and per-boarder statements for a
// hostel month. Everything here is pure arithmetic over amounts the
// caller already fetched; no storage access.
package bill

import (
	"sort"

	"github.com/xraph/messbill/types"
)

// Rate derives the month's meal rate: total expense divided by total
// meal units, rounded to 2 places half away from zero. A month with
// zero meals has rate zero, never a division error.
func Rate(totalExpense, totalMeals types.Amount) types.Amount {
	if !totalMeals.IsPositive() {
		return types.AmountZero
	}

	return totalExpense.Div(totalMeals).Round2()
}

// NewRateSummary bundles the month totals with their derived rate.
func NewRateSummary(totalExpense, totalMeals types.Amount) RateSummary {
	return RateSummary{
		TotalMeals:   totalMeals,
		TotalExpense: totalExpense,
		MealRate:     Rate(totalExpense, totalMeals),
	}
}

// StatementInput carries the per-boarder figures a statement derives from.
type StatementInput struct {
	Meals          types.Amount
	SeatRent       types.Amount
	Payments       types.Amount
	OpeningBalance types.Amount
}

// Compute builds one boarder's statement from the month rate and the
// boarder's own figures:
//
//	mealCost  = round2(meals * rate)
//	totalBill = mealCost + seatRent
//	netDue    = totalBill - payments - openingBalance
//
// A positive netDue becomes Due, a negative one becomes Advance (as a
// positive magnitude); exactly zero leaves both at zero. A positive
// opening balance is prior credit and reduces the due; a negative one
// is carried-over debt and increases it.
func (s RateSummary) Compute(in StatementInput) Statement {
	mealCost := in.Meals.Mul(s.MealRate).Round2()
	totalBill := mealCost.Add(in.SeatRent)
	netDue := totalBill.Sub(in.Payments).Sub(in.OpeningBalance)

	st := Statement{
		TotalMeals:     in.Meals,
		MealRate:       s.MealRate,
		MealCost:       mealCost,
		SeatRent:       in.SeatRent,
		TotalBill:      totalBill,
		TotalPayment:   in.Payments,
		OpeningBalance: in.OpeningBalance,
		Due:            types.AmountZero,
		Advance:        types.AmountZero,
	}

	switch {
	case netDue.IsPositive():
		st.Due = netDue.Round2()
	case netDue.IsNegative():
		st.Advance = netDue.Abs().Round2()
	}

	return st
}

// SortStatements orders statements by boarder name, then by ID for
// boarders sharing a name. Reports built twice from the same facts come
// out identical.
func SortStatements(statements []Statement) {
	sort.SliceStable(statements, func(i, j int) bool {
		if statements[i].BoarderName != statements[j].BoarderName {
			return statements[i].BoarderName < statements[j].BoarderName
		}

		return statements[i].BoarderID.String() < statements[j].BoarderID.String()
	})
}

// SortByDueDesc orders statements by due amount, highest first. The
// sort is stable, so equal dues keep their incoming (name) order.
func SortByDueDesc(statements []Statement) {
	sort.SliceStable(statements, func(i, j int) bool {
		return statements[i].Due.GreaterThan(statements[j].Due)
	})
}
