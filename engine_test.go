package messbill_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/xraph/messbill"
	"github.com/xraph/messbill/boarder"
	"github.com/xraph/messbill/expense"
	"github.com/xraph/messbill/id"
	"github.com/xraph/messbill/meal"
	"github.com/xraph/messbill/payment"
	"github.com/xraph/messbill/store/memory"
	"github.com/xraph/messbill/types"
)

func amt(s string) types.Amount { return types.MustParseAmount(s) }

var march = types.NewPeriod(2024, time.March)

// marchDay returns midnight UTC on the given day of March 2024.
func marchDay(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
}

func newTestEngine() (*messbill.Engine, id.HostelID) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e := messbill.New(memory.New(), messbill.WithLogger(logger))

	return e, id.NewHostelID()
}

func seedBoarder(t *testing.T, e *messbill.Engine, hostelID id.HostelID, name, rent, opening string) *boarder.Boarder {
	t.Helper()

	b := &boarder.Boarder{
		HostelID:       hostelID,
		Name:           name,
		SeatRent:       amt(rent),
		OpeningBalance: amt(opening),
	}
	if err := e.CreateBoarder(context.Background(), b); err != nil {
		t.Fatalf("CreateBoarder(%s): %v", name, err)
	}

	return b
}

// seedMeals records `days` consecutive full-board days (3 units each)
// starting March 1.
func seedMeals(t *testing.T, e *messbill.Engine, hostelID id.HostelID, boarderID id.BoarderID, days int) {
	t.Helper()

	for d := 1; d <= days; d++ {
		err := e.RecordMeal(context.Background(), &meal.Entry{
			HostelID:  hostelID,
			BoarderID: boarderID,
			Date:      marchDay(d),
			Breakfast: amt("1"),
			Lunch:     amt("1"),
			Dinner:    amt("1"),
		})
		if err != nil {
			t.Fatalf("RecordMeal day %d: %v", d, err)
		}
	}
}

func seedExpense(t *testing.T, e *messbill.Engine, hostelID id.HostelID, amount string, day int) {
	t.Helper()

	err := e.RecordExpense(context.Background(), &expense.Expense{
		HostelID: hostelID,
		Title:    "groceries",
		Category: expense.CategoryBazar,
		Amount:   amt(amount),
		Date:     marchDay(day),
	})
	if err != nil {
		t.Fatalf("RecordExpense %s: %v", amount, err)
	}
}

func seedPayment(t *testing.T, e *messbill.Engine, hostelID id.HostelID, boarderID id.BoarderID, amount string, day int) {
	t.Helper()

	err := e.RecordPayment(context.Background(), &payment.Payment{
		HostelID:  hostelID,
		BoarderID: boarderID,
		Amount:    amt(amount),
		Date:      marchDay(day),
		Method:    payment.MethodCash,
	})
	if err != nil {
		t.Fatalf("RecordPayment %s: %v", amount, err)
	}
}

// ──────────────────────────────────────────────────
// Meal rate
// ──────────────────────────────────────────────────

func TestMealRate(t *testing.T) {
	ctx := context.Background()

	t.Run("derived from expense and meals", func(t *testing.T) {
		e, hostelID := newTestEngine()
		b := seedBoarder(t, e, hostelID, "Rahim", "1500", "0")

		seedMeals(t, e, hostelID, b.ID, 30) // 90 units
		seedExpense(t, e, hostelID, "4500", 15)

		rate, err := e.MealRate(ctx, hostelID, march)
		if err != nil {
			t.Fatal(err)
		}

		if !rate.TotalMeals.Equal(amt("90")) {
			t.Errorf("TotalMeals: expected 90, got %s", rate.TotalMeals)
		}
		if !rate.TotalExpense.Equal(amt("4500")) {
			t.Errorf("TotalExpense: expected 4500, got %s", rate.TotalExpense)
		}
		if !rate.MealRate.Equal(amt("50")) {
			t.Errorf("MealRate: expected 50, got %s", rate.MealRate)
		}
	})

	t.Run("zero meals yields zero rate", func(t *testing.T) {
		e, hostelID := newTestEngine()
		seedExpense(t, e, hostelID, "4500", 15)

		rate, err := e.MealRate(ctx, hostelID, march)
		if err != nil {
			t.Fatal(err)
		}
		if !rate.MealRate.IsZero() {
			t.Errorf("expected zero rate, got %s", rate.MealRate)
		}
	})

	t.Run("rate rounds half away from zero", func(t *testing.T) {
		e, hostelID := newTestEngine()
		b := seedBoarder(t, e, hostelID, "Rahim", "0", "0")

		// 2 units against 10.01 expense: 5.005 rounds up to 5.01.
		err := e.RecordMeal(ctx, &meal.Entry{
			HostelID:  hostelID,
			BoarderID: b.ID,
			Date:      marchDay(1),
			Lunch:     amt("2"),
		})
		if err != nil {
			t.Fatal(err)
		}
		seedExpense(t, e, hostelID, "10.01", 1)

		rate, err := e.MealRate(ctx, hostelID, march)
		if err != nil {
			t.Fatal(err)
		}
		if !rate.MealRate.Equal(amt("5.01")) {
			t.Errorf("expected rate 5.01, got %s", rate.MealRate)
		}
	})

	t.Run("invalid period", func(t *testing.T) {
		e, hostelID := newTestEngine()

		_, err := e.MealRate(ctx, hostelID, types.Period{})
		if !errors.Is(err, messbill.ErrInvalidPeriod) {
			t.Errorf("expected ErrInvalidPeriod, got %v", err)
		}
	})
}

// ──────────────────────────────────────────────────
// Statements
// ──────────────────────────────────────────────────

func TestBoarderStatement(t *testing.T) {
	// Every case runs against rate 50: 90 meal units, 4500 expense.
	tests := []struct {
		name        string
		rent        string
		opening     string
		payments    string
		wantDue     string
		wantAdvance string
	}{
		{"typical due", "1500", "0", "2000", "4000", "0"},
		{"opening credit reduces due", "1500", "200", "2000", "3800", "0"},
		{"carried-over debt increases due", "1500", "-200", "2000", "4200", "0"},
		{"exact settlement", "1500", "0", "6000", "0", "0"},
		{"overpayment becomes advance", "1500", "0", "6500", "0", "500"},
		{"no rent", "0", "0", "0", "4500", "0"},
	}

	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, hostelID := newTestEngine()
			b := seedBoarder(t, e, hostelID, "Rahim", tt.rent, tt.opening)

			seedMeals(t, e, hostelID, b.ID, 30)
			seedExpense(t, e, hostelID, "4500", 15)
			if amt(tt.payments).IsPositive() {
				seedPayment(t, e, hostelID, b.ID, tt.payments, 20)
			}

			st, err := e.BoarderStatement(ctx, hostelID, b.ID, march)
			if err != nil {
				t.Fatal(err)
			}

			if !st.MealCost.Equal(amt("4500")) {
				t.Errorf("MealCost: expected 4500, got %s", st.MealCost)
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

func TestBoarderStatementWrongHostel(t *testing.T) {
	e, hostelID := newTestEngine()
	b := seedBoarder(t, e, hostelID, "Rahim", "1500", "0")

	_, err := e.BoarderStatement(context.Background(), id.NewHostelID(), b.ID, march)
	if !errors.Is(err, messbill.ErrBoarderNotFound) {
		t.Errorf("expected ErrBoarderNotFound, got %v", err)
	}
}

func TestMonthlyReportOrdering(t *testing.T) {
	ctx := context.Background()
	e, hostelID := newTestEngine()

	// Seeded out of order on purpose.
	seedBoarder(t, e, hostelID, "Zoya", "1500", "0")
	seedBoarder(t, e, hostelID, "Anik", "1500", "0")
	seedBoarder(t, e, hostelID, "Mita", "1500", "0")

	first, err := e.MonthlyReport(ctx, hostelID, march, boarder.FilterAll)
	if err != nil {
		t.Fatal(err)
	}

	wantOrder := []string{"Anik", "Mita", "Zoya"}
	for i, want := range wantOrder {
		if first.Statements[i].BoarderName != want {
			t.Errorf("position %d: expected %s, got %s", i, want, first.Statements[i].BoarderName)
		}
	}

	// Same facts, same report.
	second, err := e.MonthlyReport(ctx, hostelID, march, boarder.FilterAll)
	if err != nil {
		t.Fatal(err)
	}
	for i := range first.Statements {
		if first.Statements[i].BoarderID != second.Statements[i].BoarderID {
			t.Fatalf("report order changed between runs at position %d", i)
		}
	}
}

func TestMonthlyReportFilters(t *testing.T) {
	ctx := context.Background()
	e, hostelID := newTestEngine()

	seedBoarder(t, e, hostelID, "Active", "1500", "0")

	left := seedBoarder(t, e, hostelID, "Left", "1500", "0")
	left.Status = boarder.StatusLeft
	if err := e.UpdateBoarder(ctx, left); err != nil {
		t.Fatal(err)
	}

	gone := seedBoarder(t, e, hostelID, "Gone", "1500", "0")
	if err := e.RemoveBoarder(ctx, gone.ID); err != nil {
		t.Fatal(err)
	}

	all, err := e.MonthlyReport(ctx, hostelID, march, boarder.FilterAll)
	if err != nil {
		t.Fatal(err)
	}
	if len(all.Statements) != 2 {
		t.Errorf("FilterAll: expected 2 statements (deleted excluded), got %d", len(all.Statements))
	}

	active, err := e.MonthlyReport(ctx, hostelID, march, boarder.FilterActive)
	if err != nil {
		t.Fatal(err)
	}
	if len(active.Statements) != 1 || active.Statements[0].BoarderName != "Active" {
		t.Errorf("FilterActive: expected only the active boarder, got %d statements", len(active.Statements))
	}
}

func TestDueList(t *testing.T) {
	ctx := context.Background()
	e, hostelID := newTestEngine()

	// No meals: each bill is just the seat rent.
	big := seedBoarder(t, e, hostelID, "Big", "3000", "0")
	small := seedBoarder(t, e, hostelID, "Small", "1000", "0")
	paid := seedBoarder(t, e, hostelID, "Paid", "1500", "0")
	seedPayment(t, e, hostelID, paid.ID, "1500", 10)

	// Left mid-month but still owes.
	leaver := seedBoarder(t, e, hostelID, "Leaver", "2000", "0")
	leaver.Status = boarder.StatusLeft
	if err := e.UpdateBoarder(ctx, leaver); err != nil {
		t.Fatal(err)
	}

	dues, err := e.DueList(ctx, hostelID, march)
	if err != nil {
		t.Fatal(err)
	}

	// Settled boarders stay on the list, trailing at zero due.
	wantOrder := []id.BoarderID{big.ID, leaver.ID, small.ID, paid.ID}
	if len(dues.Statements) != len(wantOrder) {
		t.Fatalf("expected %d boarders, got %d", len(wantOrder), len(dues.Statements))
	}
	for i, want := range wantOrder {
		if dues.Statements[i].BoarderID != want {
			t.Errorf("position %d: expected %s, got %s (due %s)",
				i, want, dues.Statements[i].BoarderID, dues.Statements[i].Due)
		}
	}
	if !dues.Statements[3].Due.IsZero() {
		t.Errorf("settled boarder due: expected 0, got %s", dues.Statements[3].Due)
	}

	if !dues.TotalDue.Equal(amt("6000")) {
		t.Errorf("TotalDue: expected 6000, got %s", dues.TotalDue)
	}
	if !dues.MealRate.IsZero() {
		t.Errorf("MealRate: expected 0 with no meals, got %s", dues.MealRate)
	}
}

func TestMonthSummary(t *testing.T) {
	ctx := context.Background()
	e, hostelID := newTestEngine()

	b := seedBoarder(t, e, hostelID, "Rahim", "1500", "0")
	seedMeals(t, e, hostelID, b.ID, 30)
	seedExpense(t, e, hostelID, "4500", 15)
	seedPayment(t, e, hostelID, b.ID, "2000", 20)

	// Left boarder is excluded from the dashboard head-count.
	left := seedBoarder(t, e, hostelID, "Left", "1000", "0")
	left.Status = boarder.StatusLeft
	if err := e.UpdateBoarder(ctx, left); err != nil {
		t.Fatal(err)
	}

	sum, err := e.MonthSummary(ctx, hostelID, march)
	if err != nil {
		t.Fatal(err)
	}

	if sum.ActiveBoarders != 1 {
		t.Errorf("ActiveBoarders: expected 1, got %d", sum.ActiveBoarders)
	}
	if !sum.MealRate.Equal(amt("50")) {
		t.Errorf("MealRate: expected 50, got %s", sum.MealRate)
	}
	if !sum.TotalPayments.Equal(amt("2000")) {
		t.Errorf("TotalPayments: expected 2000, got %s", sum.TotalPayments)
	}
	if !sum.TotalDue.Equal(amt("4000")) {
		t.Errorf("TotalDue: expected 4000, got %s", sum.TotalDue)
	}
	if !sum.TotalBilled.Equal(amt("6000")) {
		t.Errorf("TotalBilled: expected 6000, got %s", sum.TotalBilled)
	}
	if got := sum.CollectionRate(); got != 33 {
		t.Errorf("CollectionRate: expected 33, got %v", got)
	}
	if sum.Locked {
		t.Error("expected unlocked month")
	}
}

// ──────────────────────────────────────────────────
// Meal recording
// ──────────────────────────────────────────────────

func TestRecordMealReplacesSameDay(t *testing.T) {
	ctx := context.Background()
	e, hostelID := newTestEngine()
	b := seedBoarder(t, e, hostelID, "Rahim", "0", "0")

	entry := func(lunch string) *meal.Entry {
		return &meal.Entry{
			HostelID:  hostelID,
			BoarderID: b.ID,
			Date:      marchDay(5),
			Lunch:     amt(lunch),
		}
	}

	if err := e.RecordMeal(ctx, entry("1")); err != nil {
		t.Fatal(err)
	}
	if err := e.RecordMeal(ctx, entry("2")); err != nil {
		t.Fatal(err)
	}

	got, err := e.GetMealByDay(ctx, hostelID, b.ID, marchDay(5))
	if err != nil {
		t.Fatal(err)
	}
	if !got.Lunch.Equal(amt("2")) {
		t.Errorf("expected the replacement entry, got lunch %s", got.Lunch)
	}

	// The day counts once, at its latest value.
	rate, err := e.MealRate(ctx, hostelID, march)
	if err != nil {
		t.Fatal(err)
	}
	if !rate.TotalMeals.Equal(amt("2")) {
		t.Errorf("TotalMeals: expected 2, got %s", rate.TotalMeals)
	}
}

func TestRecordMealOffDay(t *testing.T) {
	ctx := context.Background()
	e, hostelID := newTestEngine()
	b := seedBoarder(t, e, hostelID, "Rahim", "0", "0")

	err := e.RecordMeal(ctx, &meal.Entry{
		HostelID:  hostelID,
		BoarderID: b.ID,
		Date:      marchDay(5),
		Breakfast: amt("1"),
		Lunch:     amt("1"),
		Off:       true,
	})
	if err != nil {
		t.Fatal(err)
	}

	rate, err := e.MealRate(ctx, hostelID, march)
	if err != nil {
		t.Fatal(err)
	}
	if !rate.TotalMeals.IsZero() {
		t.Errorf("off day should count zero meals, got %s", rate.TotalMeals)
	}
}

func TestRecordMealValidation(t *testing.T) {
	ctx := context.Background()
	e, hostelID := newTestEngine()
	b := seedBoarder(t, e, hostelID, "Rahim", "0", "0")

	t.Run("negative count", func(t *testing.T) {
		err := e.RecordMeal(ctx, &meal.Entry{
			HostelID:  hostelID,
			BoarderID: b.ID,
			Date:      marchDay(1),
			Lunch:     amt("-1"),
		})
		if !errors.Is(err, messbill.ErrNegativeMealCount) {
			t.Errorf("expected ErrNegativeMealCount, got %v", err)
		}
	})

	t.Run("missing boarder", func(t *testing.T) {
		err := e.RecordMeal(ctx, &meal.Entry{
			HostelID: hostelID,
			Date:     marchDay(1),
		})
		if !errors.Is(err, messbill.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestRecordMealsBulkCollectsErrors(t *testing.T) {
	ctx := context.Background()
	e, hostelID := newTestEngine()
	b := seedBoarder(t, e, hostelID, "Rahim", "0", "0")

	entries := []*meal.Entry{
		{HostelID: hostelID, BoarderID: b.ID, Date: marchDay(1), Lunch: amt("1")},
		{HostelID: hostelID, BoarderID: b.ID, Date: marchDay(2), Lunch: amt("-1")},
		{HostelID: hostelID, BoarderID: b.ID, Date: marchDay(3), Lunch: amt("1")},
	}

	err := e.RecordMealsBulk(ctx, entries)
	if err == nil {
		t.Fatal("expected an error for the invalid entry")
	}

	var merr messbill.MultiError
	if !errors.As(err, &merr) {
		t.Fatalf("expected MultiError, got %T", err)
	}
	if len(merr.Errors) != 1 {
		t.Errorf("expected 1 collected error, got %d", len(merr.Errors))
	}

	// Valid entries still landed.
	rate, err := e.MealRate(ctx, hostelID, march)
	if err != nil {
		t.Fatal(err)
	}
	if !rate.TotalMeals.Equal(amt("2")) {
		t.Errorf("TotalMeals: expected 2, got %s", rate.TotalMeals)
	}
}

// ──────────────────────────────────────────────────
// Monthly closing
// ──────────────────────────────────────────────────

func TestLockMonth(t *testing.T) {
	ctx := context.Background()
	e, hostelID := newTestEngine()
	manager := id.NewUserID()

	b := seedBoarder(t, e, hostelID, "Rahim", "1500", "0")
	b.RoomNumber = "203"
	if err := e.UpdateBoarder(ctx, b); err != nil {
		t.Fatal(err)
	}
	seedMeals(t, e, hostelID, b.ID, 30)
	seedExpense(t, e, hostelID, "4500", 15)

	c, err := e.LockMonth(ctx, hostelID, march, manager)
	if err != nil {
		t.Fatal(err)
	}

	if !c.Locked {
		t.Error("expected locked closing")
	}
	if c.LockedBy != manager {
		t.Errorf("LockedBy: expected %s, got %s", manager, c.LockedBy)
	}
	if len(c.Statements) != 1 {
		t.Fatalf("expected 1 snapshotted statement, got %d", len(c.Statements))
	}
	if !c.Statements[0].Due.Equal(amt("6000")) {
		t.Errorf("snapshot due: expected 6000, got %s", c.Statements[0].Due)
	}
	if c.Statements[0].RoomNumber != "203" {
		t.Errorf("snapshot room: expected 203, got %q", c.Statements[0].RoomNumber)
	}

	locked, err := e.IsMonthLocked(ctx, hostelID, march)
	if err != nil {
		t.Fatal(err)
	}
	if !locked {
		t.Error("expected month to report locked")
	}
}

func TestLockMonthTwice(t *testing.T) {
	ctx := context.Background()
	e, hostelID := newTestEngine()

	if _, err := e.LockMonth(ctx, hostelID, march, id.Nil); err != nil {
		t.Fatal(err)
	}

	_, err := e.LockMonth(ctx, hostelID, march, id.Nil)
	if !errors.Is(err, messbill.ErrAlreadyLocked) {
		t.Errorf("expected ErrAlreadyLocked, got %v", err)
	}
}

func TestLockedMonthRejectsWrites(t *testing.T) {
	ctx := context.Background()
	e, hostelID := newTestEngine()
	b := seedBoarder(t, e, hostelID, "Rahim", "1500", "0")

	if _, err := e.LockMonth(ctx, hostelID, march, id.Nil); err != nil {
		t.Fatal(err)
	}

	t.Run("meal", func(t *testing.T) {
		err := e.RecordMeal(ctx, &meal.Entry{
			HostelID:  hostelID,
			BoarderID: b.ID,
			Date:      marchDay(5),
			Lunch:     amt("1"),
		})
		if !errors.Is(err, messbill.ErrMonthLocked) {
			t.Errorf("expected ErrMonthLocked, got %v", err)
		}
	})

	t.Run("expense", func(t *testing.T) {
		err := e.RecordExpense(ctx, &expense.Expense{
			HostelID: hostelID,
			Title:    "groceries",
			Category: expense.CategoryBazar,
			Amount:   amt("100"),
			Date:     marchDay(5),
		})
		if !errors.Is(err, messbill.ErrMonthLocked) {
			t.Errorf("expected ErrMonthLocked, got %v", err)
		}
	})

	t.Run("payment", func(t *testing.T) {
		err := e.RecordPayment(ctx, &payment.Payment{
			HostelID:  hostelID,
			BoarderID: b.ID,
			Amount:    amt("100"),
			Date:      marchDay(5),
			Method:    payment.MethodCash,
		})
		if !errors.Is(err, messbill.ErrMonthLocked) {
			t.Errorf("expected ErrMonthLocked, got %v", err)
		}
	})

	t.Run("adjacent month stays open", func(t *testing.T) {
		err := e.RecordMeal(ctx, &meal.Entry{
			HostelID:  hostelID,
			BoarderID: b.ID,
			Date:      time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
			Lunch:     amt("1"),
		})
		if err != nil {
			t.Errorf("April write should pass, got %v", err)
		}
	})
}

func TestUnlockAndRelock(t *testing.T) {
	ctx := context.Background()
	e, hostelID := newTestEngine()
	b := seedBoarder(t, e, hostelID, "Rahim", "1500", "0")
	seedMeals(t, e, hostelID, b.ID, 30)
	seedExpense(t, e, hostelID, "4500", 15)

	first, err := e.LockMonth(ctx, hostelID, march, id.Nil)
	if err != nil {
		t.Fatal(err)
	}

	unlocked, err := e.UnlockMonth(ctx, hostelID, march, id.Nil)
	if err != nil {
		t.Fatal(err)
	}
	if unlocked.Locked {
		t.Error("expected unlocked closing")
	}

	// Correction lands; the stored snapshot goes stale until re-lock.
	seedExpense(t, e, hostelID, "900", 20)

	details, err := e.ClosingDetails(ctx, hostelID, march)
	if err != nil {
		t.Fatal(err)
	}
	if !details.Rate.TotalExpense.Equal(amt("4500")) {
		t.Errorf("stale snapshot expense: expected 4500, got %s", details.Rate.TotalExpense)
	}

	relocked, err := e.LockMonth(ctx, hostelID, march, id.Nil)
	if err != nil {
		t.Fatal(err)
	}

	if relocked.ID != first.ID {
		t.Errorf("re-lock must keep the closing identity: %s != %s", relocked.ID, first.ID)
	}
	if !relocked.Rate.TotalExpense.Equal(amt("5400")) {
		t.Errorf("recomputed expense: expected 5400, got %s", relocked.Rate.TotalExpense)
	}
	if !relocked.Rate.MealRate.Equal(amt("60")) {
		t.Errorf("recomputed rate: expected 60, got %s", relocked.Rate.MealRate)
	}
}

func TestUnlockNeverLockedMonth(t *testing.T) {
	e, hostelID := newTestEngine()

	_, err := e.UnlockMonth(context.Background(), hostelID, march, id.Nil)
	if !errors.Is(err, messbill.ErrClosingNotFound) {
		t.Errorf("expected ErrClosingNotFound, got %v", err)
	}
}

func TestClosingDetails(t *testing.T) {
	ctx := context.Background()
	e, hostelID := newTestEngine()
	b := seedBoarder(t, e, hostelID, "Rahim", "1500", "0")
	seedMeals(t, e, hostelID, b.ID, 30)
	seedExpense(t, e, hostelID, "4500", 15)

	t.Run("live view before any closing", func(t *testing.T) {
		details, err := e.ClosingDetails(ctx, hostelID, march)
		if err != nil {
			t.Fatal(err)
		}
		if !details.Live {
			t.Error("expected live view")
		}
		if details.Locked {
			t.Error("live view must not report locked")
		}
		if !details.Rate.MealRate.Equal(amt("50")) {
			t.Errorf("live rate: expected 50, got %s", details.Rate.MealRate)
		}
	})

	t.Run("stored view after lock", func(t *testing.T) {
		if _, err := e.LockMonth(ctx, hostelID, march, id.Nil); err != nil {
			t.Fatal(err)
		}

		details, err := e.ClosingDetails(ctx, hostelID, march)
		if err != nil {
			t.Fatal(err)
		}
		if details.Live {
			t.Error("expected stored view")
		}
		if !details.Locked {
			t.Error("expected locked view")
		}
		if len(details.Statements) != 1 {
			t.Errorf("expected 1 snapshotted statement, got %d", len(details.Statements))
		}
	})
}

// ──────────────────────────────────────────────────
// Expenses and payments
// ──────────────────────────────────────────────────

func TestExpenseBreakdown(t *testing.T) {
	ctx := context.Background()
	e, hostelID := newTestEngine()

	records := []struct {
		category expense.Category
		amount   string
	}{
		{expense.CategoryBazar, "3000"},
		{expense.CategoryBazar, "1000"},
		{expense.CategoryGas, "500"},
	}
	for i, r := range records {
		err := e.RecordExpense(ctx, &expense.Expense{
			HostelID: hostelID,
			Title:    "expense",
			Category: r.category,
			Amount:   amt(r.amount),
			Date:     marchDay(i + 1),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	breakdown, err := e.ExpenseBreakdown(ctx, hostelID, march)
	if err != nil {
		t.Fatal(err)
	}

	if !breakdown[expense.CategoryBazar].Equal(amt("4000")) {
		t.Errorf("bazar: expected 4000, got %s", breakdown[expense.CategoryBazar])
	}
	if !breakdown[expense.CategoryGas].Equal(amt("500")) {
		t.Errorf("gas: expected 500, got %s", breakdown[expense.CategoryGas])
	}
	if _, ok := breakdown[expense.CategorySalary]; ok {
		t.Error("salary should be absent, nothing was recorded")
	}
}

func TestRecordExpenseValidation(t *testing.T) {
	ctx := context.Background()
	e, hostelID := newTestEngine()

	t.Run("unknown category", func(t *testing.T) {
		err := e.RecordExpense(ctx, &expense.Expense{
			HostelID: hostelID,
			Title:    "x",
			Category: "entertainment",
			Amount:   amt("10"),
			Date:     marchDay(1),
		})
		if !errors.Is(err, messbill.ErrInvalidCategory) {
			t.Errorf("expected ErrInvalidCategory, got %v", err)
		}
	})

	t.Run("negative amount", func(t *testing.T) {
		err := e.RecordExpense(ctx, &expense.Expense{
			HostelID: hostelID,
			Title:    "x",
			Category: expense.CategoryBazar,
			Amount:   amt("-10"),
			Date:     marchDay(1),
		})
		if !errors.Is(err, messbill.ErrNegativeAmount) {
			t.Errorf("expected ErrNegativeAmount, got %v", err)
		}
	})
}

func TestRecordPaymentValidation(t *testing.T) {
	ctx := context.Background()
	e, hostelID := newTestEngine()
	b := seedBoarder(t, e, hostelID, "Rahim", "0", "0")

	t.Run("unknown method", func(t *testing.T) {
		err := e.RecordPayment(ctx, &payment.Payment{
			HostelID:  hostelID,
			BoarderID: b.ID,
			Amount:    amt("100"),
			Date:      marchDay(1),
			Method:    "barter",
		})
		if !errors.Is(err, messbill.ErrInvalidMethod) {
			t.Errorf("expected ErrInvalidMethod, got %v", err)
		}
	})

	t.Run("zero amount", func(t *testing.T) {
		err := e.RecordPayment(ctx, &payment.Payment{
			HostelID:  hostelID,
			BoarderID: b.ID,
			Amount:    amt("0"),
			Date:      marchDay(1),
			Method:    payment.MethodCash,
		})
		if !errors.Is(err, messbill.ErrNegativeAmount) {
			t.Errorf("expected ErrNegativeAmount, got %v", err)
		}
	})
}

// ──────────────────────────────────────────────────
// Boarders
// ──────────────────────────────────────────────────

func TestBoarderLifecycle(t *testing.T) {
	ctx := context.Background()
	e, hostelID := newTestEngine()

	b := seedBoarder(t, e, hostelID, "Rahim", "1500", "0")
	if b.Status != boarder.StatusActive {
		t.Errorf("expected default active status, got %s", b.Status)
	}

	b.Phone = "01700000000"
	if err := e.UpdateBoarder(ctx, b); err != nil {
		t.Fatal(err)
	}

	got, err := e.GetBoarder(ctx, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Phone != "01700000000" {
		t.Errorf("expected updated phone, got %q", got.Phone)
	}

	if err := e.RemoveBoarder(ctx, b.ID); err != nil {
		t.Fatal(err)
	}

	// Soft-deleted boarders cannot be updated further.
	if err := e.UpdateBoarder(ctx, b); !errors.Is(err, messbill.ErrBoarderDeleted) {
		t.Errorf("expected ErrBoarderDeleted, got %v", err)
	}
}

func TestCreateBoarderValidation(t *testing.T) {
	ctx := context.Background()
	e, hostelID := newTestEngine()

	t.Run("missing name", func(t *testing.T) {
		err := e.CreateBoarder(ctx, &boarder.Boarder{HostelID: hostelID})
		if !errors.Is(err, messbill.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("negative rent", func(t *testing.T) {
		err := e.CreateBoarder(ctx, &boarder.Boarder{
			HostelID: hostelID,
			Name:     "Rahim",
			SeatRent: amt("-1"),
		})

		var verr messbill.ValidationError
		if !errors.As(err, &verr) || verr.Field != "seat_rent" {
			t.Errorf("expected seat_rent validation error, got %v", err)
		}
	})
}
