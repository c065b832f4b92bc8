package bill_test

import (
	"testing"

	"github.com/xraph/messbill/bill"
	"github.com/xraph/messbill/id"
	"github.com/xraph/messbill/types"
)

func amt(s string) types.Amount { return types.MustParseAmount(s) }

func TestRate(t *testing.T) {
	tests := []struct {
		name    string
		expense string
		meals   string
		want    string
	}{
		{"exact division", "4500", "90", "50"},
		{"repeating decimal rounds", "1000", "21", "47.62"},
		{"fractional meals", "1000", "22.5", "44.44"},
		{"zero meals yields zero rate", "4500", "0", "0"},
		{"zero expense", "0", "90", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bill.Rate(amt(tt.expense), amt(tt.meals))
			if !got.Equal(amt(tt.want)) {
				t.Errorf("Rate(%s, %s): expected %s, got %s", tt.expense, tt.meals, tt.want, got)
			}
		})
	}
}

func TestComputeStatement(t *testing.T) {
	rate := bill.NewRateSummary(amt("4500"), amt("90"))
	if !rate.MealRate.Equal(amt("50")) {
		t.Fatalf("expected rate 50, got %s", rate.MealRate)
	}

	tests := []struct {
		name        string
		in          bill.StatementInput
		wantBill    string
		wantDue     string
		wantAdvance string
	}{
		{
			"unpaid boarder owes full bill",
			bill.StatementInput{Meals: amt("90"), SeatRent: amt("500")},
			"5000", "5000", "0",
		},
		{
			"exact payment settles to zero both ways",
			bill.StatementInput{Meals: amt("90"), SeatRent: amt("500"), Payments: amt("5000")},
			"5000", "0", "0",
		},
		{
			"overpayment becomes advance",
			bill.StatementInput{Meals: amt("90"), SeatRent: amt("500"), Payments: amt("5500")},
			"5000", "0", "500",
		},
		{
			"positive opening balance reduces due",
			bill.StatementInput{Meals: amt("90"), SeatRent: amt("500"), OpeningBalance: amt("200")},
			"5000", "4800", "0",
		},
		{
			"negative opening balance increases due",
			bill.StatementInput{Meals: amt("90"), SeatRent: amt("500"), OpeningBalance: amt("-200")},
			"5000", "5200", "0",
		},
		{
			"no meals still owes seat rent",
			bill.StatementInput{SeatRent: amt("500")},
			"500", "500", "0",
		},
		{
			"fractional meals round at meal cost",
			bill.StatementInput{Meals: amt("10.5")},
			"525", "525", "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := rate.Compute(tt.in)
			if !st.TotalBill.Equal(amt(tt.wantBill)) {
				t.Errorf("TotalBill: expected %s, got %s", tt.wantBill, st.TotalBill)
			}
			if !st.Due.Equal(amt(tt.wantDue)) {
				t.Errorf("Due: expected %s, got %s", tt.wantDue, st.Due)
			}
			if !st.Advance.Equal(amt(tt.wantAdvance)) {
				t.Errorf("Advance: expected %s, got %s", tt.wantAdvance, st.Advance)
			}
		})
	}
}

func TestComputeNeverBothDueAndAdvance(t *testing.T) {
	rate := bill.NewRateSummary(amt("1000"), amt("21"))

	inputs := []bill.StatementInput{
		{Meals: amt("30"), SeatRent: amt("500")},
		{Meals: amt("30"), SeatRent: amt("500"), Payments: amt("2000")},
		{Meals: amt("30"), SeatRent: amt("500"), Payments: amt("1928.60")},
		{Meals: amt("0.5"), OpeningBalance: amt("-10")},
	}

	for _, in := range inputs {
		st := rate.Compute(in)
		if st.Due.IsPositive() && st.Advance.IsPositive() {
			t.Errorf("statement has both due %s and advance %s", st.Due, st.Advance)
		}
		if st.Due.IsNegative() || st.Advance.IsNegative() {
			t.Errorf("negative due %s or advance %s", st.Due, st.Advance)
		}
	}
}

func TestMealCostRounding(t *testing.T) {
	// Rate 47.62, 31.5 meals: 1500.03 exactly, no drift from the
	// intermediate rounding of the rate itself.
	rate := bill.NewRateSummary(amt("1000"), amt("21"))
	st := rate.Compute(bill.StatementInput{Meals: amt("31.5")})
	if !st.MealCost.Equal(amt("1500.03")) {
		t.Errorf("expected meal cost 1500.03, got %s", st.MealCost)
	}
}

func TestSortStatements(t *testing.T) {
	idA := id.NewBoarderID()
	idB := id.NewBoarderID()
	idC := id.NewBoarderID()

	statements := []bill.Statement{
		{BoarderID: idC, BoarderName: "Karim"},
		{BoarderID: idA, BoarderName: "Asif"},
		{BoarderID: idB, BoarderName: "Asif"},
	}

	bill.SortStatements(statements)

	if statements[0].BoarderName != "Asif" || statements[2].BoarderName != "Karim" {
		t.Fatalf("wrong name order: %v", statements)
	}
	// Same name ties break on ID.
	if statements[0].BoarderID.String() > statements[1].BoarderID.String() {
		t.Error("same-name statements not ordered by ID")
	}
}

func TestSortByDueDesc(t *testing.T) {
	statements := []bill.Statement{
		{BoarderName: "A", Due: amt("100")},
		{BoarderName: "B", Due: amt("300")},
		{BoarderName: "C", Due: amt("200")},
		{BoarderName: "D", Due: amt("300")},
	}

	bill.SortByDueDesc(statements)

	want := []string{"B", "D", "A", "C"}
	for i, name := range want {
		if statements[i].BoarderName != name {
			t.Fatalf("position %d: expected %s, got %s", i, name, statements[i].BoarderName)
		}
	}
}

func TestReportTotals(t *testing.T) {
	r := bill.MonthlyReport{
		Statements: []bill.Statement{
			{Due: amt("100")},
			{Due: amt("200"), Advance: amt("0")},
			{Advance: amt("50")},
		},
	}

	if !r.TotalDue().Equal(amt("300")) {
		t.Errorf("TotalDue: expected 300, got %s", r.TotalDue())
	}
	if !r.TotalAdvance().Equal(amt("50")) {
		t.Errorf("TotalAdvance: expected 50, got %s", r.TotalAdvance())
	}
}
