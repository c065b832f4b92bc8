package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"
	"github.com/xraph/grove/migrate"

	messbill "github.com/xraph/messbill"
	"github.com/xraph/messbill/boarder"
	"github.com/xraph/messbill/closing"
	"github.com/xraph/messbill/expense"
	"github.com/xraph/messbill/id"
	"github.com/xraph/messbill/meal"
	"github.com/xraph/messbill/payment"
	messbillstore "github.com/xraph/messbill/store"
	"github.com/xraph/messbill/types"
)

// compile-time interface check
var _ messbillstore.Store = (*Store)(nil)

// Store implements store.Store using SQLite via Grove ORM.
type Store struct {
	db  *grove.DB
	sdb *sqlitedriver.SqliteDB
}

// New creates a new SQLite store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		sdb: sqlitedriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.sdb)
	if err != nil {
		return fmt.Errorf("messbill/sqlite: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("messbill/sqlite: migration failed: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Boarder Store ====================

func (s *Store) CreateBoarder(ctx context.Context, b *boarder.Boarder) error {
	m := toBoarderModel(b)
	_, err := s.sdb.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) GetBoarder(ctx context.Context, boarderID id.BoarderID) (*boarder.Boarder, error) {
	m := new(boarderModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", boarderID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, messbill.ErrBoarderNotFound
		}
		return nil, err
	}
	return fromBoarderModel(m)
}

func (s *Store) ListBoarders(ctx context.Context, hostelID id.HostelID, filter boarder.Filter, opts boarder.ListOpts) ([]*boarder.Boarder, error) {
	var models []boarderModel
	q := s.sdb.NewSelect(&models).
		Where("hostel_id = ?", hostelID.String()).
		Where("deleted = 0")

	if filter == boarder.FilterActive {
		q = q.Where("status = ?", string(boarder.StatusActive))
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("name ASC, id ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*boarder.Boarder, len(models))
	for i := range models {
		b, err := fromBoarderModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = b
	}
	return result, nil
}

func (s *Store) UpdateBoarder(ctx context.Context, b *boarder.Boarder) error {
	m := toBoarderModel(b)
	m.UpdatedAt = now()
	res, err := s.sdb.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return messbill.ErrBoarderNotFound
	}
	return nil
}

func (s *Store) SoftDeleteBoarder(ctx context.Context, boarderID id.BoarderID) error {
	t := now()
	res, err := s.sdb.NewUpdate((*boarderModel)(nil)).
		Set("deleted = 1").
		Set("status = ?", string(boarder.StatusInactive)).
		Set("deleted_at = ?", t).
		Set("updated_at = ?", t).
		Where("id = ?", boarderID.String()).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return messbill.ErrBoarderNotFound
	}
	return nil
}

// ==================== Meal Store ====================

// UpsertMeal replaces the entry for the meal's (hostel, boarder, day),
// keeping the stored row's identity when one already exists.
func (s *Store) UpsertMeal(ctx context.Context, e *meal.Entry) error {
	m := toMealModel(e)
	m.UpdatedAt = now()
	_, err := s.sdb.NewInsert(m).
		OnConflict("(hostel_id, boarder_id, date) DO UPDATE").
		Set("breakfast = excluded.breakfast").
		Set("lunch = excluded.lunch").
		Set("dinner = excluded.dinner").
		Set("custom_meals = excluded.custom_meals").
		Set("off_day = excluded.off_day").
		Set("total = excluded.total").
		Set("updated_at = excluded.updated_at").
		Exec(ctx)
	return err
}

func (s *Store) GetMeal(ctx context.Context, mealID id.MealID) (*meal.Entry, error) {
	m := new(mealModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", mealID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, messbill.ErrMealNotFound
		}
		return nil, err
	}
	return fromMealModel(m)
}

func (s *Store) GetMealByDay(ctx context.Context, hostelID id.HostelID, boarderID id.BoarderID, day time.Time) (*meal.Entry, error) {
	m := new(mealModel)
	err := s.sdb.NewSelect(m).
		Where("hostel_id = ?", hostelID.String()).
		Where("boarder_id = ?", boarderID.String()).
		Where("date = ?", meal.Day(day)).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, messbill.ErrMealNotFound
		}
		return nil, err
	}
	return fromMealModel(m)
}

func (s *Store) ListMeals(ctx context.Context, hostelID id.HostelID, opts meal.ListOpts) ([]*meal.Entry, error) {
	var models []mealModel
	q := s.sdb.NewSelect(&models).Where("hostel_id = ?", hostelID.String())

	if !opts.BoarderID.IsNil() {
		q = q.Where("boarder_id = ?", opts.BoarderID.String())
	}
	if !opts.Start.IsZero() {
		q = q.Where("date >= ?", opts.Start)
	}
	if !opts.End.IsZero() {
		q = q.Where("date <= ?", opts.End)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("date DESC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*meal.Entry, len(models))
	for i := range models {
		e, err := fromMealModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = e
	}
	return result, nil
}

func (s *Store) DeleteMeal(ctx context.Context, mealID id.MealID) error {
	res, err := s.sdb.NewDelete((*mealModel)(nil)).
		Where("id = ?", mealID.String()).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return messbill.ErrMealNotFound
	}
	return nil
}

func (s *Store) TotalMealsForBoarder(ctx context.Context, hostelID id.HostelID, boarderID id.BoarderID, start, end time.Time) (types.Amount, error) {
	query := `SELECT COALESCE(SUM(total), 0) FROM messbill_meals WHERE hostel_id = ? AND boarder_id = ?`
	args := []any{hostelID.String(), boarderID.String()}
	query, args = appendDateWindow(query, args, "date", start, end)

	return s.sumRaw(ctx, query, args...)
}

func (s *Store) TotalMealsForHostel(ctx context.Context, hostelID id.HostelID, start, end time.Time) (types.Amount, error) {
	query := `SELECT COALESCE(SUM(total), 0) FROM messbill_meals WHERE hostel_id = ?`
	args := []any{hostelID.String()}
	query, args = appendDateWindow(query, args, "date", start, end)

	return s.sumRaw(ctx, query, args...)
}

// ==================== Expense Store ====================

func (s *Store) CreateExpense(ctx context.Context, e *expense.Expense) error {
	m := toExpenseModel(e)
	_, err := s.sdb.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) GetExpense(ctx context.Context, expenseID id.ExpenseID) (*expense.Expense, error) {
	m := new(expenseModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", expenseID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, messbill.ErrExpenseNotFound
		}
		return nil, err
	}
	return fromExpenseModel(m)
}

func (s *Store) ListExpenses(ctx context.Context, hostelID id.HostelID, opts expense.ListOpts) ([]*expense.Expense, error) {
	var models []expenseModel
	q := s.sdb.NewSelect(&models).
		Where("hostel_id = ?", hostelID.String()).
		Where("deleted = 0")

	if opts.Category != "" {
		q = q.Where("category = ?", string(opts.Category))
	}
	if !opts.Start.IsZero() {
		q = q.Where("date >= ?", opts.Start)
	}
	if !opts.End.IsZero() {
		q = q.Where("date <= ?", opts.End)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("date DESC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*expense.Expense, len(models))
	for i := range models {
		e, err := fromExpenseModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = e
	}
	return result, nil
}

func (s *Store) UpdateExpense(ctx context.Context, e *expense.Expense) error {
	m := toExpenseModel(e)
	m.UpdatedAt = now()
	res, err := s.sdb.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return messbill.ErrExpenseNotFound
	}
	return nil
}

func (s *Store) SoftDeleteExpense(ctx context.Context, expenseID id.ExpenseID) error {
	t := now()
	res, err := s.sdb.NewUpdate((*expenseModel)(nil)).
		Set("deleted = 1").
		Set("deleted_at = ?", t).
		Set("updated_at = ?", t).
		Where("id = ?", expenseID.String()).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return messbill.ErrExpenseNotFound
	}
	return nil
}

func (s *Store) TotalExpenseForPeriod(ctx context.Context, hostelID id.HostelID, start, end time.Time) (types.Amount, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM messbill_expenses WHERE hostel_id = ? AND deleted = 0`
	args := []any{hostelID.String()}
	query, args = appendDateWindow(query, args, "date", start, end)

	return s.sumRaw(ctx, query, args...)
}

func (s *Store) ExpenseTotalsByCategory(ctx context.Context, hostelID id.HostelID, start, end time.Time) (map[expense.Category]types.Amount, error) {
	totals := make(map[expense.Category]types.Amount)
	for _, cat := range expense.Categories {
		query := `SELECT COALESCE(SUM(amount), 0) FROM messbill_expenses WHERE hostel_id = ? AND deleted = 0 AND category = ?`
		args := []any{hostelID.String(), string(cat)}
		query, args = appendDateWindow(query, args, "date", start, end)

		total, err := s.sumRaw(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		if !total.IsZero() {
			totals[cat] = total
		}
	}
	return totals, nil
}

// ==================== Payment Store ====================

func (s *Store) CreatePayment(ctx context.Context, p *payment.Payment) error {
	m := toPaymentModel(p)
	_, err := s.sdb.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) GetPayment(ctx context.Context, paymentID id.PaymentID) (*payment.Payment, error) {
	m := new(paymentModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", paymentID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, messbill.ErrPaymentNotFound
		}
		return nil, err
	}
	return fromPaymentModel(m)
}

func (s *Store) ListPayments(ctx context.Context, hostelID id.HostelID, opts payment.ListOpts) ([]*payment.Payment, error) {
	var models []paymentModel
	q := s.sdb.NewSelect(&models).Where("hostel_id = ?", hostelID.String())

	if !opts.BoarderID.IsNil() {
		q = q.Where("boarder_id = ?", opts.BoarderID.String())
	}
	if opts.Method != "" {
		q = q.Where("method = ?", string(opts.Method))
	}
	if !opts.Start.IsZero() {
		q = q.Where("date >= ?", opts.Start)
	}
	if !opts.End.IsZero() {
		q = q.Where("date <= ?", opts.End)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("date DESC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*payment.Payment, len(models))
	for i := range models {
		p, err := fromPaymentModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = p
	}
	return result, nil
}

func (s *Store) UpdatePayment(ctx context.Context, p *payment.Payment) error {
	m := toPaymentModel(p)
	m.UpdatedAt = now()
	res, err := s.sdb.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return messbill.ErrPaymentNotFound
	}
	return nil
}

func (s *Store) DeletePayment(ctx context.Context, paymentID id.PaymentID) error {
	res, err := s.sdb.NewDelete((*paymentModel)(nil)).
		Where("id = ?", paymentID.String()).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return messbill.ErrPaymentNotFound
	}
	return nil
}

func (s *Store) TotalPaymentsForBoarder(ctx context.Context, hostelID id.HostelID, boarderID id.BoarderID, start, end time.Time) (types.Amount, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM messbill_payments WHERE hostel_id = ? AND boarder_id = ?`
	args := []any{hostelID.String(), boarderID.String()}
	query, args = appendDateWindow(query, args, "date", start, end)

	return s.sumRaw(ctx, query, args...)
}

func (s *Store) TotalPaymentsForHostel(ctx context.Context, hostelID id.HostelID, start, end time.Time) (types.Amount, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM messbill_payments WHERE hostel_id = ?`
	args := []any{hostelID.String()}
	query, args = appendDateWindow(query, args, "date", start, end)

	return s.sumRaw(ctx, query, args...)
}

// ==================== Closing Store ====================

// SaveClosing inserts or overwrites the closing for the record's
// (hostel, period). The stored row's identity is kept on overwrite.
func (s *Store) SaveClosing(ctx context.Context, c *closing.MonthlyClosing) error {
	m := toClosingModel(c)
	m.UpdatedAt = now()
	_, err := s.sdb.NewInsert(m).
		OnConflict("(hostel_id, year, month) DO UPDATE").
		Set("locked = excluded.locked").
		Set("locked_by = excluded.locked_by").
		Set("locked_at = excluded.locked_at").
		Set("unlocked_by = excluded.unlocked_by").
		Set("unlocked_at = excluded.unlocked_at").
		Set("rate = excluded.rate").
		Set("statements = excluded.statements").
		Set("updated_at = excluded.updated_at").
		Exec(ctx)
	return err
}

func (s *Store) GetClosing(ctx context.Context, hostelID id.HostelID, period types.Period) (*closing.MonthlyClosing, error) {
	m := new(closingModel)
	err := s.sdb.NewSelect(m).
		Where("hostel_id = ?", hostelID.String()).
		Where("year = ?", period.Year).
		Where("month = ?", int(period.Month)).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, messbill.ErrClosingNotFound
		}
		return nil, err
	}
	return fromClosingModel(m)
}

func (s *Store) ListClosings(ctx context.Context, hostelID id.HostelID, opts closing.ListOpts) ([]*closing.MonthlyClosing, error) {
	var models []closingModel
	q := s.sdb.NewSelect(&models).Where("hostel_id = ?", hostelID.String())

	if opts.LockedOnly {
		q = q.Where("locked = 1")
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("year DESC, month DESC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*closing.MonthlyClosing, len(models))
	for i := range models {
		c, err := fromClosingModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = c
	}
	return result, nil
}

// IsMonthLocked reports the closing's lock flag. A missing closing
// row counts as unlocked.
func (s *Store) IsMonthLocked(ctx context.Context, hostelID id.HostelID, period types.Period) (bool, error) {
	var locked bool
	err := s.sdb.NewRaw(`
		SELECT locked FROM messbill_closings
		WHERE hostel_id = ? AND year = ? AND month = ?
	`, hostelID.String(), period.Year, int(period.Month)).Scan(ctx, &locked)
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, err
	}
	return locked, nil
}

// ==================== Helpers ====================

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// appendDateWindow adds an inclusive [start, end] range on field,
// skipping zero bounds.
func appendDateWindow(query string, args []any, field string, start, end time.Time) (string, []any) {
	if !start.IsZero() {
		args = append(args, start)
		query += fmt.Sprintf(" AND %s >= ?", field)
	}
	if !end.IsZero() {
		args = append(args, end)
		query += fmt.Sprintf(" AND %s <= ?", field)
	}
	return query, args
}

// sumRaw runs an aggregate query returning one numeric value.
func (s *Store) sumRaw(ctx context.Context, query string, args ...any) (types.Amount, error) {
	var total decimal.Decimal
	if err := s.sdb.NewRaw(query, args...).Scan(ctx, &total); err != nil {
		return types.AmountZero, err
	}
	return types.AmountFromDecimal(total), nil
}
