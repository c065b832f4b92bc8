// Package messbill provides a multi-tenant meal and billing engine for hostel messes.
//
// Messbill is designed as a library, not a service. Import it directly into your Go
// application and point it at the storage backend you already run. It provides:
//
//   - Daily meal recording per boarder, including custom meal items and off days
//   - Shared mess expense and boarder payment tracking
//   - Meal rate derivation (total expense / total meal units) with exact decimals
//   - Per-boarder monthly statements, due lists, and dashboard summaries
//   - Monthly closing: lock a month to snapshot its statements, unlock to correct
//   - Pluggable lifecycle hooks for audit trails, metrics, and notifications
//
// # Quick Start
//
// Create an engine with your preferred store:
//
//	import (
//	    "github.com/xraph/messbill"
//	    "github.com/xraph/messbill/store/memory"
//	)
//
//	// Initialize store (memory for demo, postgres/sqlite/mongo in production)
//	store := memory.New()
//
//	// Create engine
//	m := messbill.New(store)
//
//	// Start the engine (runs store migrations, initializes plugins)
//	if err := m.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer m.Stop()
//
// # Core Concepts
//
// Boarders are the residents being billed. Each carries a monthly seat rent
// and an opening balance carried in from before the system took over:
//
//	b := &boarder.Boarder{
//	    HostelID: hostelID,
//	    Name:     "Rahim",
//	    SeatRent: types.MustParseAmount("1500"),
//	}
//	err := m.CreateBoarder(ctx, b)
//
// Meals are recorded per boarder per day. Recording the same day again
// replaces the entry:
//
//	err := m.RecordMeal(ctx, &meal.Entry{
//	    HostelID:  hostelID,
//	    BoarderID: b.ID,
//	    Date:      today,
//	    Breakfast: types.MustParseAmount("1"),
//	    Lunch:     types.MustParseAmount("1"),
//	    Dinner:    types.MustParseAmount("1"),
//	})
//
// Statements combine the month's facts into one figure per boarder:
//
//	report, err := m.MonthlyReport(ctx, hostelID, period, boarder.FilterAll)
//
// Locking a month freezes its statements so later corrections cannot
// silently change a bill that was already collected:
//
//	c, err := m.LockMonth(ctx, hostelID, period, managerID)
//
// # Money
//
// All monetary values and meal counts use the Amount type, backed by
// arbitrary-precision decimals. Derived figures (meal rate, meal cost) are
// rounded to two decimal places, half away from zero, so bills match what
// a manager computes by hand.
//
// # Integration
//
// Messbill integrates with the Forgery ecosystem:
//
//   - Forge: application lifecycle and configuration (see the extension package)
//   - Grove: storage drivers for PostgreSQL, SQLite, and MongoDB
//   - Chronicle: audit trail for billing events (see the audit_hook package)
//   - go-utils: production metrics (see the observability package)
//
// # TypeID
//
// All entities use TypeID for globally unique, type-safe identifiers:
//
//	bdr_01h2xcejqtf2nbrexx3vqjhp41  // Boarder ID
//	meal_01h2xcejqtf2nbrexx3vqjhp41 // Meal entry ID
//	cls_01h455vb4pex5vsknk084sn02q  // Monthly closing ID
//
// TypeIDs are K-sortable, making them ideal for database indexes and
// providing natural time-ordering of entities.
package messbill
