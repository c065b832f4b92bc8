package messbill

import (
	"context"
	"log/slog"
	"time"

	"github.com/xraph/messbill/bill"
	"github.com/xraph/messbill/boarder"
	"github.com/xraph/messbill/closing"
	"github.com/xraph/messbill/expense"
	"github.com/xraph/messbill/id"
	"github.com/xraph/messbill/meal"
	"github.com/xraph/messbill/payment"
	"github.com/xraph/messbill/plugin"
	"github.com/xraph/messbill/store"
	"github.com/xraph/messbill/types"
)

// Engine is the main billing engine for a hostel mess.
type Engine struct {
	store   store.Store
	plugins *plugin.Registry
	logger  *slog.Logger

	// Serializes lock transitions and guarded fact writes per month
	months *monthMutex

	// Billing months are evaluated in this location
	loc *time.Location
}

// New creates a new Engine instance.
func New(s store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:   s,
		plugins: plugin.NewRegistry(),
		logger:  slog.Default(),
		months:  newMonthMutex(),
		loc:     time.UTC,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Option configures an Engine instance.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
		e.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Engine) {
		_ = e.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithLocation sets the location billing months are evaluated in.
// Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// Start migrates the store and initializes plugins.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.store.Migrate(ctx); err != nil {
		return err
	}

	e.plugins.EmitInit(ctx, e)

	e.logger.Info("messbill started",
		"location", e.loc.String(),
		"plugins", e.plugins.Count(),
	)

	return nil
}

// Stop shuts down the Engine.
func (e *Engine) Stop() error {
	ctx := context.Background()
	e.plugins.EmitShutdown(ctx)

	return e.store.Close()
}

// ──────────────────────────────────────────────────
// Boarder Management
// ──────────────────────────────────────────────────

// CreateBoarder registers a new boarder.
func (e *Engine) CreateBoarder(ctx context.Context, b *boarder.Boarder) error {
	if b.HostelID.IsNil() || b.Name == "" {
		return ErrInvalidInput
	}
	if b.SeatRent.IsNegative() {
		return ValidationError{Field: "seat_rent", Message: "must not be negative"}
	}

	if b.ID == (id.BoarderID{}) {
		b.ID = id.NewBoarderID()
	}
	if b.Status == "" {
		b.Status = boarder.StatusActive
	}
	if b.JoinedAt.IsZero() {
		b.JoinedAt = time.Now().In(e.loc)
	}
	b.Entity = types.NewEntity()

	if err := e.store.CreateBoarder(ctx, b); err != nil {
		return err
	}

	e.plugins.EmitBoarderCreated(ctx, b)
	return nil
}

// GetBoarder retrieves a boarder by ID.
func (e *Engine) GetBoarder(ctx context.Context, boarderID id.BoarderID) (*boarder.Boarder, error) {
	return e.store.GetBoarder(ctx, boarderID)
}

// ListBoarders lists a hostel's boarders under the given filter.
func (e *Engine) ListBoarders(ctx context.Context, hostelID id.HostelID, filter boarder.Filter, opts boarder.ListOpts) ([]*boarder.Boarder, error) {
	return e.store.ListBoarders(ctx, hostelID, filter, opts)
}

// UpdateBoarder updates a boarder's profile.
func (e *Engine) UpdateBoarder(ctx context.Context, b *boarder.Boarder) error {
	if b.SeatRent.IsNegative() {
		return ValidationError{Field: "seat_rent", Message: "must not be negative"}
	}

	old, err := e.store.GetBoarder(ctx, b.ID)
	if err != nil {
		return err
	}
	if old.Deleted {
		return ErrBoarderDeleted
	}

	b.Touch()
	if err := e.store.UpdateBoarder(ctx, b); err != nil {
		return err
	}

	e.plugins.EmitBoarderUpdated(ctx, old, b)
	return nil
}

// RemoveBoarder soft-deletes a boarder. Their history is kept so past
// months still bill correctly.
func (e *Engine) RemoveBoarder(ctx context.Context, boarderID id.BoarderID) error {
	if err := e.store.SoftDeleteBoarder(ctx, boarderID); err != nil {
		return err
	}

	e.plugins.EmitBoarderDeleted(ctx, boarderID.String())
	return nil
}

// ──────────────────────────────────────────────────
// Meal Recording
// ──────────────────────────────────────────────────

// RecordMeal records or replaces one boarder's meal entry for a day.
// Fails with ErrMonthLocked if the day's billing month is locked.
func (e *Engine) RecordMeal(ctx context.Context, entry *meal.Entry) error {
	if entry.HostelID.IsNil() || entry.BoarderID.IsNil() || entry.Date.IsZero() {
		return ErrInvalidInput
	}
	if err := entry.Validate(); err != nil {
		return ErrNegativeMealCount
	}

	entry.Normalize()
	period := types.PeriodOf(entry.Date)

	release := e.months.Acquire(entry.HostelID, period)
	defer release()

	if err := e.guardUnlocked(ctx, entry.HostelID, period, "meal"); err != nil {
		return err
	}

	if entry.ID == (id.MealID{}) {
		entry.ID = id.NewMealID()
	}
	entry.Entity = types.NewEntity()

	if err := e.store.UpsertMeal(ctx, entry); err != nil {
		return err
	}

	e.plugins.EmitMealRecorded(ctx, entry)
	return nil
}

// RecordMealsBulk records a batch of meal entries, e.g. one manager
// pass over the whole hostel for a day. Entries are validated up front;
// a locked month rejects the batch entries that fall inside it.
func (e *Engine) RecordMealsBulk(ctx context.Context, entries []*meal.Entry) error {
	var errs MultiError

	for _, entry := range entries {
		if err := e.RecordMeal(ctx, entry); err != nil {
			errs.Add(err)
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// GetMealByDay returns the boarder's entry for a day, or ErrMealNotFound.
func (e *Engine) GetMealByDay(ctx context.Context, hostelID id.HostelID, boarderID id.BoarderID, day time.Time) (*meal.Entry, error) {
	return e.store.GetMealByDay(ctx, hostelID, boarderID, meal.Day(day))
}

// ListMeals lists meal entries for a hostel.
func (e *Engine) ListMeals(ctx context.Context, hostelID id.HostelID, opts meal.ListOpts) ([]*meal.Entry, error) {
	return e.store.ListMeals(ctx, hostelID, opts)
}

// DeleteMeal removes a meal entry, subject to the month lock.
func (e *Engine) DeleteMeal(ctx context.Context, mealID id.MealID) error {
	entry, err := e.store.GetMeal(ctx, mealID)
	if err != nil {
		return err
	}

	period := types.PeriodOf(entry.Date)

	release := e.months.Acquire(entry.HostelID, period)
	defer release()

	if err := e.guardUnlocked(ctx, entry.HostelID, period, "meal"); err != nil {
		return err
	}

	return e.store.DeleteMeal(ctx, mealID)
}

// ──────────────────────────────────────────────────
// Expense Recording
// ──────────────────────────────────────────────────

// RecordExpense records a shared mess expense.
// Fails with ErrMonthLocked if the expense month is locked.
func (e *Engine) RecordExpense(ctx context.Context, exp *expense.Expense) error {
	if exp.HostelID.IsNil() || exp.Title == "" || exp.Date.IsZero() {
		return ErrInvalidInput
	}
	if !exp.Category.Valid() {
		return ErrInvalidCategory
	}
	if exp.Amount.IsNegative() {
		return ErrNegativeAmount
	}

	period := types.PeriodOf(exp.Date)

	release := e.months.Acquire(exp.HostelID, period)
	defer release()

	if err := e.guardUnlocked(ctx, exp.HostelID, period, "expense"); err != nil {
		return err
	}

	if exp.ID == (id.ExpenseID{}) {
		exp.ID = id.NewExpenseID()
	}
	exp.Entity = types.NewEntity()

	if err := e.store.CreateExpense(ctx, exp); err != nil {
		return err
	}

	e.plugins.EmitExpenseRecorded(ctx, exp)
	return nil
}

// UpdateExpense updates an expense, subject to the month lock on both
// the old and the new date's month.
func (e *Engine) UpdateExpense(ctx context.Context, exp *expense.Expense) error {
	if !exp.Category.Valid() {
		return ErrInvalidCategory
	}
	if exp.Amount.IsNegative() {
		return ErrNegativeAmount
	}

	old, err := e.store.GetExpense(ctx, exp.ID)
	if err != nil {
		return err
	}
	if old.Deleted {
		return ErrExpenseDeleted
	}

	// Both the old and the new date's months must be open. Acquire in
	// chronological order so concurrent cross-month updates cannot
	// deadlock.
	periods := []types.Period{types.PeriodOf(old.Date)}
	if newPeriod := types.PeriodOf(exp.Date); !newPeriod.Equal(periods[0]) {
		if newPeriod.Before(periods[0]) {
			periods = []types.Period{newPeriod, periods[0]}
		} else {
			periods = append(periods, newPeriod)
		}
	}

	for _, period := range periods {
		release := e.months.Acquire(exp.HostelID, period)
		defer release()

		if err := e.guardUnlocked(ctx, exp.HostelID, period, "expense"); err != nil {
			return err
		}
	}

	exp.Touch()
	return e.store.UpdateExpense(ctx, exp)
}

// RemoveExpense soft-deletes an expense, subject to the month lock.
func (e *Engine) RemoveExpense(ctx context.Context, expenseID id.ExpenseID) error {
	exp, err := e.store.GetExpense(ctx, expenseID)
	if err != nil {
		return err
	}

	period := types.PeriodOf(exp.Date)

	release := e.months.Acquire(exp.HostelID, period)
	defer release()

	if err := e.guardUnlocked(ctx, exp.HostelID, period, "expense"); err != nil {
		return err
	}

	return e.store.SoftDeleteExpense(ctx, expenseID)
}

// ListExpenses lists a hostel's expenses.
func (e *Engine) ListExpenses(ctx context.Context, hostelID id.HostelID, opts expense.ListOpts) ([]*expense.Expense, error) {
	return e.store.ListExpenses(ctx, hostelID, opts)
}

// ExpenseBreakdown returns the month's expense total per category.
func (e *Engine) ExpenseBreakdown(ctx context.Context, hostelID id.HostelID, period types.Period) (map[expense.Category]types.Amount, error) {
	if err := period.Validate(); err != nil {
		return nil, ErrInvalidPeriod
	}

	start, end := period.Range(e.loc)
	return e.store.ExpenseTotalsByCategory(ctx, hostelID, start, end)
}

// ──────────────────────────────────────────────────
// Payment Recording
// ──────────────────────────────────────────────────

// RecordPayment records a boarder's payment.
// Fails with ErrMonthLocked if the payment month is locked.
func (e *Engine) RecordPayment(ctx context.Context, p *payment.Payment) error {
	if p.HostelID.IsNil() || p.BoarderID.IsNil() || p.Date.IsZero() {
		return ErrInvalidInput
	}
	if !p.Method.Valid() {
		return ErrInvalidMethod
	}
	if !p.Amount.IsPositive() {
		return ErrNegativeAmount
	}

	period := types.PeriodOf(p.Date)

	release := e.months.Acquire(p.HostelID, period)
	defer release()

	if err := e.guardUnlocked(ctx, p.HostelID, period, "payment"); err != nil {
		return err
	}

	if p.ID == (id.PaymentID{}) {
		p.ID = id.NewPaymentID()
	}
	p.Entity = types.NewEntity()

	if err := e.store.CreatePayment(ctx, p); err != nil {
		return err
	}

	e.plugins.EmitPaymentRecorded(ctx, p)
	return nil
}

// UpdatePayment corrects a payment, subject to the month lock on both
// the old and the new date's month.
func (e *Engine) UpdatePayment(ctx context.Context, p *payment.Payment) error {
	if !p.Method.Valid() {
		return ErrInvalidMethod
	}
	if !p.Amount.IsPositive() {
		return ErrNegativeAmount
	}

	old, err := e.store.GetPayment(ctx, p.ID)
	if err != nil {
		return err
	}

	periods := []types.Period{types.PeriodOf(old.Date)}
	if newPeriod := types.PeriodOf(p.Date); !newPeriod.Equal(periods[0]) {
		if newPeriod.Before(periods[0]) {
			periods = []types.Period{newPeriod, periods[0]}
		} else {
			periods = append(periods, newPeriod)
		}
	}

	for _, period := range periods {
		release := e.months.Acquire(p.HostelID, period)
		defer release()

		if err := e.guardUnlocked(ctx, p.HostelID, period, "payment"); err != nil {
			return err
		}
	}

	p.Touch()
	return e.store.UpdatePayment(ctx, p)
}

// DeletePayment removes a payment, subject to the month lock.
func (e *Engine) DeletePayment(ctx context.Context, paymentID id.PaymentID) error {
	p, err := e.store.GetPayment(ctx, paymentID)
	if err != nil {
		return err
	}

	period := types.PeriodOf(p.Date)

	release := e.months.Acquire(p.HostelID, period)
	defer release()

	if err := e.guardUnlocked(ctx, p.HostelID, period, "payment"); err != nil {
		return err
	}

	return e.store.DeletePayment(ctx, paymentID)
}

// ListPayments lists a hostel's payments.
func (e *Engine) ListPayments(ctx context.Context, hostelID id.HostelID, opts payment.ListOpts) ([]*payment.Payment, error) {
	return e.store.ListPayments(ctx, hostelID, opts)
}

// ──────────────────────────────────────────────────
// Billing
// ──────────────────────────────────────────────────

// MealRate derives the month's meal rate from total expense and total
// meal units. A month with no meals has rate zero.
func (e *Engine) MealRate(ctx context.Context, hostelID id.HostelID, period types.Period) (bill.RateSummary, error) {
	if err := period.Validate(); err != nil {
		return bill.RateSummary{}, ErrInvalidPeriod
	}

	start, end := period.Range(e.loc)

	totalMeals, err := e.store.TotalMealsForHostel(ctx, hostelID, start, end)
	if err != nil {
		return bill.RateSummary{}, err
	}

	totalExpense, err := e.store.TotalExpenseForPeriod(ctx, hostelID, start, end)
	if err != nil {
		return bill.RateSummary{}, err
	}

	return bill.NewRateSummary(totalExpense, totalMeals), nil
}

// BoarderStatement computes one boarder's bill for the month from
// current facts.
func (e *Engine) BoarderStatement(ctx context.Context, hostelID id.HostelID, boarderID id.BoarderID, period types.Period) (bill.Statement, error) {
	rate, err := e.MealRate(ctx, hostelID, period)
	if err != nil {
		return bill.Statement{}, err
	}

	b, err := e.store.GetBoarder(ctx, boarderID)
	if err != nil {
		return bill.Statement{}, err
	}
	if b.HostelID != hostelID {
		return bill.Statement{}, ErrBoarderNotFound
	}

	return e.buildStatement(ctx, rate, b, period)
}

// MonthlyReport builds per-boarder statements across the hostel for the
// month. FilterAll covers everyone non-deleted; FilterActive narrows to
// active boarders for dashboard views.
func (e *Engine) MonthlyReport(ctx context.Context, hostelID id.HostelID, period types.Period, filter boarder.Filter) (*bill.MonthlyReport, error) {
	rate, err := e.MealRate(ctx, hostelID, period)
	if err != nil {
		return nil, err
	}

	boarders, err := e.store.ListBoarders(ctx, hostelID, filter, boarder.ListOpts{})
	if err != nil {
		return nil, err
	}

	statements := make([]bill.Statement, 0, len(boarders))
	for _, b := range boarders {
		st, err := e.buildStatement(ctx, rate, b, period)
		if err != nil {
			return nil, err
		}
		statements = append(statements, st)
	}

	bill.SortStatements(statements)

	report := &bill.MonthlyReport{
		HostelID:   hostelID,
		Period:     period,
		Rate:       rate,
		Statements: statements,
	}

	e.plugins.EmitStatementsGenerated(ctx, report)
	return report, nil
}

// DueList returns every boarder's statement for the month ordered by
// due amount, highest first, with settled boarders trailing at zero
// due. Boarders who left mid-month are included; only deleted ones
// drop out.
func (e *Engine) DueList(ctx context.Context, hostelID id.HostelID, period types.Period) (*bill.DueList, error) {
	report, err := e.MonthlyReport(ctx, hostelID, period, boarder.FilterAll)
	if err != nil {
		return nil, err
	}

	statements := make([]bill.Statement, len(report.Statements))
	copy(statements, report.Statements)
	bill.SortByDueDesc(statements)

	return &bill.DueList{
		HostelID:   hostelID,
		Period:     period,
		MealRate:   report.Rate.MealRate,
		TotalDue:   report.TotalDue(),
		Statements: statements,
	}, nil
}

// MonthSummary returns the dashboard figures for a hostel month,
// restricted to active boarders.
func (e *Engine) MonthSummary(ctx context.Context, hostelID id.HostelID, period types.Period) (*bill.MonthSummary, error) {
	report, err := e.MonthlyReport(ctx, hostelID, period, boarder.FilterActive)
	if err != nil {
		return nil, err
	}

	start, end := period.Range(e.loc)

	totalPayments, err := e.store.TotalPaymentsForHostel(ctx, hostelID, start, end)
	if err != nil {
		return nil, err
	}

	locked, err := e.store.IsMonthLocked(ctx, hostelID, period)
	if err != nil {
		return nil, err
	}

	return &bill.MonthSummary{
		HostelID:       hostelID,
		Period:         period,
		ActiveBoarders: len(report.Statements),
		TotalMeals:     report.Rate.TotalMeals,
		TotalExpense:   report.Rate.TotalExpense,
		MealRate:       report.Rate.MealRate,
		TotalPayments:  totalPayments,
		TotalBilled:    report.TotalBilled(),
		TotalDue:       report.TotalDue(),
		TotalAdvance:   report.TotalAdvance(),
		Locked:         locked,
	}, nil
}

// buildStatement computes one boarder's statement against the month rate.
func (e *Engine) buildStatement(ctx context.Context, rate bill.RateSummary, b *boarder.Boarder, period types.Period) (bill.Statement, error) {
	start, end := period.Range(e.loc)

	meals, err := e.store.TotalMealsForBoarder(ctx, b.HostelID, b.ID, start, end)
	if err != nil {
		return bill.Statement{}, err
	}

	payments, err := e.store.TotalPaymentsForBoarder(ctx, b.HostelID, b.ID, start, end)
	if err != nil {
		return bill.Statement{}, err
	}

	st := rate.Compute(bill.StatementInput{
		Meals:          meals,
		SeatRent:       b.SeatRent,
		Payments:       payments,
		OpeningBalance: b.OpeningBalance,
	})
	st.BoarderID = b.ID
	st.BoarderName = b.Name
	st.RoomNumber = b.RoomNumber

	return st, nil
}

// ──────────────────────────────────────────────────
// Monthly Closing
// ──────────────────────────────────────────────────

// LockMonth freezes a billing month: statements are computed from
// current facts, snapshotted, and the month is marked locked. Fails
// with ErrAlreadyLocked if the month is already locked. Re-locking an
// unlocked month recomputes the snapshot from scratch.
func (e *Engine) LockMonth(ctx context.Context, hostelID id.HostelID, period types.Period, lockedBy id.UserID) (*closing.MonthlyClosing, error) {
	if err := period.Validate(); err != nil {
		return nil, ErrInvalidPeriod
	}

	release := e.months.Acquire(hostelID, period)
	defer release()

	existing, err := e.store.GetClosing(ctx, hostelID, period)
	if err != nil && !IsNotFound(err) {
		return nil, err
	}
	if existing != nil && existing.Locked {
		return nil, ErrAlreadyLocked
	}

	report, err := e.MonthlyReport(ctx, hostelID, period, boarder.FilterAll)
	if err != nil {
		return nil, err
	}

	now := time.Now().In(e.loc)

	c := &closing.MonthlyClosing{
		ID:         id.NewClosingID(),
		HostelID:   hostelID,
		Period:     period,
		Locked:     true,
		LockedBy:   lockedBy,
		LockedAt:   &now,
		Rate:       report.Rate,
		Statements: report.Statements,
	}
	if existing != nil {
		// Overwrite in place, keeping the record's identity.
		c.ID = existing.ID
		c.Entity = existing.Entity
		c.Touch()
	} else {
		c.Entity = types.NewEntity()
	}

	if err := e.store.SaveClosing(ctx, c); err != nil {
		return nil, err
	}

	e.logger.Info("month locked",
		"hostel_id", hostelID.String(),
		"period", period.String(),
		"boarders", len(c.Statements),
		"total_due", report.TotalDue().String(),
	)

	e.plugins.EmitMonthLocked(ctx, c)
	return c, nil
}

// UnlockMonth reopens a locked month for corrections. The stored
// snapshot is left untouched; it goes stale until the month is locked
// again. Fails with ErrClosingNotFound if the month was never locked.
func (e *Engine) UnlockMonth(ctx context.Context, hostelID id.HostelID, period types.Period, unlockedBy id.UserID) (*closing.MonthlyClosing, error) {
	if err := period.Validate(); err != nil {
		return nil, ErrInvalidPeriod
	}

	release := e.months.Acquire(hostelID, period)
	defer release()

	c, err := e.store.GetClosing(ctx, hostelID, period)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrClosingNotFound
		}
		return nil, err
	}

	now := time.Now().In(e.loc)
	c.Locked = false
	c.UnlockedBy = unlockedBy
	c.UnlockedAt = &now
	c.Touch()

	if err := e.store.SaveClosing(ctx, c); err != nil {
		return nil, err
	}

	e.logger.Info("month unlocked",
		"hostel_id", hostelID.String(),
		"period", period.String(),
	)

	e.plugins.EmitMonthUnlocked(ctx, c)
	return c, nil
}

// ClosingDetails returns the stored closing for the month, or a live
// view computed from current facts when no closing exists yet.
func (e *Engine) ClosingDetails(ctx context.Context, hostelID id.HostelID, period types.Period) (*closing.Details, error) {
	if err := period.Validate(); err != nil {
		return nil, ErrInvalidPeriod
	}

	c, err := e.store.GetClosing(ctx, hostelID, period)
	if err != nil && !IsNotFound(err) {
		return nil, err
	}

	if c != nil {
		return &closing.Details{
			HostelID:   c.HostelID,
			Period:     c.Period,
			Locked:     c.Locked,
			LockedBy:   c.LockedBy,
			LockedAt:   c.LockedAt,
			Rate:       c.Rate,
			Statements: c.Statements,
		}, nil
	}

	report, err := e.MonthlyReport(ctx, hostelID, period, boarder.FilterAll)
	if err != nil {
		return nil, err
	}

	return &closing.Details{
		HostelID:   hostelID,
		Period:     period,
		Locked:     false,
		Live:       true,
		Rate:       report.Rate,
		Statements: report.Statements,
	}, nil
}

// ListClosings lists a hostel's closing records.
func (e *Engine) ListClosings(ctx context.Context, hostelID id.HostelID, opts closing.ListOpts) ([]*closing.MonthlyClosing, error) {
	return e.store.ListClosings(ctx, hostelID, opts)
}

// IsMonthLocked reports whether the month is locked.
func (e *Engine) IsMonthLocked(ctx context.Context, hostelID id.HostelID, period types.Period) (bool, error) {
	return e.store.IsMonthLocked(ctx, hostelID, period)
}

// guardUnlocked rejects a fact write into a locked month.
func (e *Engine) guardUnlocked(ctx context.Context, hostelID id.HostelID, period types.Period, kind string) error {
	locked, err := e.store.IsMonthLocked(ctx, hostelID, period)
	if err != nil {
		return err
	}
	if !locked {
		return nil
	}

	e.logger.Warn("write rejected, month is locked",
		"hostel_id", hostelID.String(),
		"period", period.String(),
		"kind", kind,
	)

	e.plugins.EmitLockedWriteRejected(ctx, hostelID.String(), period.String(), kind)
	return ErrMonthLocked
}
