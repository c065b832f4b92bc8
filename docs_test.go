package messbill_test

import (
	"context"
	"log"
	"log/slog"
	"testing"
	"time"

	"github.com/xraph/messbill"
	"github.com/xraph/messbill/boarder"
	"github.com/xraph/messbill/id"
	"github.com/xraph/messbill/meal"
	"github.com/xraph/messbill/payment"
	"github.com/xraph/messbill/store/memory"
	"github.com/xraph/messbill/types"
)

// TestDocumentationExamples verifies that all examples in the documentation compile
func TestDocumentationExamples(t *testing.T) {
	// Test Quick Start example from README
	t.Run("QuickStartExample", func(t *testing.T) {
		// Create store (memory for demo, use PostgreSQL in production)
		store := memory.New()

		// Initialize the engine
		m := messbill.New(store,
			messbill.WithLogger(slog.Default()),
			messbill.WithLocation(time.UTC),
		)

		// Start the engine
		ctx := context.Background()
		if err := m.Start(ctx); err != nil {
			t.Fatal(err)
		}
		defer m.Stop()

		hostelID := id.NewHostelID()

		// Register a boarder
		b := &boarder.Boarder{
			HostelID:   hostelID,
			Name:       "Rahim",
			RoomNumber: "203",
			SeatRent:   types.MustParseAmount("1500"),
		}
		if err := m.CreateBoarder(ctx, b); err != nil {
			t.Fatal(err)
		}

		// Record a day's meals
		day := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
		if err := m.RecordMeal(ctx, &meal.Entry{
			HostelID:  hostelID,
			BoarderID: b.ID,
			Date:      day,
			Breakfast: types.MustParseAmount("0.5"),
			Lunch:     types.MustParseAmount("1"),
			Dinner:    types.MustParseAmount("1"),
		}); err != nil {
			t.Fatal(err)
		}

		// Record a payment
		if err := m.RecordPayment(ctx, &payment.Payment{
			HostelID:  hostelID,
			BoarderID: b.ID,
			Amount:    types.MustParseAmount("2000"),
			Date:      day,
			Method:    payment.MethodBkash,
		}); err != nil {
			t.Fatal(err)
		}

		// Build the month's report
		period := types.NewPeriod(2024, time.March)
		report, err := m.MonthlyReport(ctx, hostelID, period, boarder.FilterAll)
		if err != nil {
			t.Fatal(err)
		}

		for _, st := range report.Statements {
			log.Printf("%s: due %s\n", st.BoarderName, st.Due.String())
		}

		// Lock the month when bills are settled
		c, err := m.LockMonth(ctx, hostelID, period, id.NewUserID())
		if err != nil {
			t.Fatal(err)
		}

		log.Printf("Locked %s with %d statements\n", c.Period.String(), len(c.Statements))
	})

	// Test Amount type examples
	t.Run("AmountExamples", func(t *testing.T) {
		// Constructors
		_ = types.NewAmount(1500)
		_ = types.MustParseAmount("49.50")
		_, _ = types.ParseAmount("0.5")

		// Arithmetic
		a := types.MustParseAmount("100")
		b := types.MustParseAmount("3")
		_ = a.Add(b)
		_ = a.Sub(b)
		_ = a.Div(b).Round2() // 33.33

		// Comparison
		if a.GreaterThan(b) {
			// a exceeds b
		}

		// Formatting
		_ = a.String()       // "100"
		_ = a.StringFixed2() // "100.00"
	})
}
