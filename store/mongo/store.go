package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

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

// Collection name constants.
const (
	colBoarders = "messbill_boarders"
	colMeals    = "messbill_meals"
	colExpenses = "messbill_expenses"
	colPayments = "messbill_payments"
	colClosings = "messbill_closings"
)

// compile-time interface check
var _ messbillstore.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for all messbill collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()

	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("messbill/mongo: migrate %s indexes: %w", col, err)
		}
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
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		return fmt.Errorf("messbill/mongo: create boarder: %w", err)
	}
	return nil
}

func (s *Store) GetBoarder(ctx context.Context, boarderID id.BoarderID) (*boarder.Boarder, error) {
	var m boarderModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": boarderID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, messbill.ErrBoarderNotFound
		}
		return nil, fmt.Errorf("messbill/mongo: get boarder: %w", err)
	}
	return fromBoarderModel(&m)
}

func (s *Store) ListBoarders(ctx context.Context, hostelID id.HostelID, filter boarder.Filter, opts boarder.ListOpts) ([]*boarder.Boarder, error) {
	var models []boarderModel

	query := bson.M{"hostel_id": hostelID.String(), "deleted": false}
	if filter == boarder.FilterActive {
		query["status"] = string(boarder.StatusActive)
	}

	q := s.mdb.NewFind(&models).
		Filter(query).
		Sort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("messbill/mongo: list boarders: %w", err)
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

	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("messbill/mongo: update boarder: %w", err)
	}
	if res.MatchedCount() == 0 {
		return messbill.ErrBoarderNotFound
	}
	return nil
}

func (s *Store) SoftDeleteBoarder(ctx context.Context, boarderID id.BoarderID) error {
	t := now()
	res, err := s.mdb.NewUpdate((*boarderModel)(nil)).
		Filter(bson.M{"_id": boarderID.String()}).
		Set("deleted", true).
		Set("status", string(boarder.StatusInactive)).
		Set("deleted_at", t).
		Set("updated_at", t).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("messbill/mongo: soft delete boarder: %w", err)
	}
	if res.MatchedCount() == 0 {
		return messbill.ErrBoarderNotFound
	}
	return nil
}

// ==================== Meal Store ====================

// UpsertMeal replaces the entry for the meal's (hostel, boarder, day),
// keeping the stored entry's identity when one already exists.
func (s *Store) UpsertMeal(ctx context.Context, e *meal.Entry) error {
	m := toMealModel(e)
	m.UpdatedAt = now()

	_, err := s.mdb.NewUpdate(m).
		Filter(bson.M{
			"hostel_id":  m.HostelID,
			"boarder_id": m.BoarderID,
			"date":       m.Date,
		}).
		SetUpdate(bson.M{
			"$set": bson.M{
				"breakfast":    m.Breakfast,
				"lunch":        m.Lunch,
				"dinner":       m.Dinner,
				"custom_meals": m.CustomMeals,
				"off":          m.Off,
				"total":        m.Total,
				"updated_at":   m.UpdatedAt,
			},
			"$setOnInsert": bson.M{
				"_id":        m.ID,
				"hostel_id":  m.HostelID,
				"boarder_id": m.BoarderID,
				"date":       m.Date,
				"created_at": m.CreatedAt,
			},
		}).
		Upsert().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("messbill/mongo: upsert meal: %w", err)
	}
	return nil
}

func (s *Store) GetMeal(ctx context.Context, mealID id.MealID) (*meal.Entry, error) {
	var m mealModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": mealID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, messbill.ErrMealNotFound
		}
		return nil, fmt.Errorf("messbill/mongo: get meal: %w", err)
	}
	return fromMealModel(&m)
}

func (s *Store) GetMealByDay(ctx context.Context, hostelID id.HostelID, boarderID id.BoarderID, day time.Time) (*meal.Entry, error) {
	var m mealModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{
			"hostel_id":  hostelID.String(),
			"boarder_id": boarderID.String(),
			"date":       meal.Day(day),
		}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, messbill.ErrMealNotFound
		}
		return nil, fmt.Errorf("messbill/mongo: get meal by day: %w", err)
	}
	return fromMealModel(&m)
}

func (s *Store) ListMeals(ctx context.Context, hostelID id.HostelID, opts meal.ListOpts) ([]*meal.Entry, error) {
	var models []mealModel

	filter := bson.M{"hostel_id": hostelID.String()}
	if !opts.BoarderID.IsNil() {
		filter["boarder_id"] = opts.BoarderID.String()
	}
	applyDateWindow(filter, "date", opts.Start, opts.End)

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "date", Value: -1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("messbill/mongo: list meals: %w", err)
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
	res, err := s.mdb.NewDelete((*mealModel)(nil)).
		Filter(bson.M{"_id": mealID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("messbill/mongo: delete meal: %w", err)
	}
	if res.DeletedCount() == 0 {
		return messbill.ErrMealNotFound
	}
	return nil
}

func (s *Store) TotalMealsForBoarder(ctx context.Context, hostelID id.HostelID, boarderID id.BoarderID, start, end time.Time) (types.Amount, error) {
	match := bson.M{
		"hostel_id":  hostelID.String(),
		"boarder_id": boarderID.String(),
	}
	applyDateWindow(match, "date", start, end)

	return s.sumCollection(ctx, colMeals, match, "$total", "total meals for boarder")
}

func (s *Store) TotalMealsForHostel(ctx context.Context, hostelID id.HostelID, start, end time.Time) (types.Amount, error) {
	match := bson.M{"hostel_id": hostelID.String()}
	applyDateWindow(match, "date", start, end)

	return s.sumCollection(ctx, colMeals, match, "$total", "total meals for hostel")
}

// ==================== Expense Store ====================

func (s *Store) CreateExpense(ctx context.Context, e *expense.Expense) error {
	m := toExpenseModel(e)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		return fmt.Errorf("messbill/mongo: create expense: %w", err)
	}
	return nil
}

func (s *Store) GetExpense(ctx context.Context, expenseID id.ExpenseID) (*expense.Expense, error) {
	var m expenseModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": expenseID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, messbill.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("messbill/mongo: get expense: %w", err)
	}
	return fromExpenseModel(&m)
}

func (s *Store) ListExpenses(ctx context.Context, hostelID id.HostelID, opts expense.ListOpts) ([]*expense.Expense, error) {
	var models []expenseModel

	filter := bson.M{"hostel_id": hostelID.String(), "deleted": false}
	if opts.Category != "" {
		filter["category"] = string(opts.Category)
	}
	applyDateWindow(filter, "date", opts.Start, opts.End)

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "date", Value: -1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("messbill/mongo: list expenses: %w", err)
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

	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("messbill/mongo: update expense: %w", err)
	}
	if res.MatchedCount() == 0 {
		return messbill.ErrExpenseNotFound
	}
	return nil
}

func (s *Store) SoftDeleteExpense(ctx context.Context, expenseID id.ExpenseID) error {
	t := now()
	res, err := s.mdb.NewUpdate((*expenseModel)(nil)).
		Filter(bson.M{"_id": expenseID.String()}).
		Set("deleted", true).
		Set("deleted_at", t).
		Set("updated_at", t).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("messbill/mongo: soft delete expense: %w", err)
	}
	if res.MatchedCount() == 0 {
		return messbill.ErrExpenseNotFound
	}
	return nil
}

func (s *Store) TotalExpenseForPeriod(ctx context.Context, hostelID id.HostelID, start, end time.Time) (types.Amount, error) {
	match := bson.M{"hostel_id": hostelID.String(), "deleted": false}
	applyDateWindow(match, "date", start, end)

	return s.sumCollection(ctx, colExpenses, match, "$amount", "total expense for period")
}

func (s *Store) ExpenseTotalsByCategory(ctx context.Context, hostelID id.HostelID, start, end time.Time) (map[expense.Category]types.Amount, error) {
	match := bson.M{"hostel_id": hostelID.String(), "deleted": false}
	applyDateWindow(match, "date", start, end)

	pipeline := bson.A{
		bson.M{"$match": match},
		bson.M{
			"$group": bson.M{
				"_id":   "$category",
				"total": bson.M{"$sum": "$amount"},
			},
		},
	}

	cursor, err := s.mdb.Collection(colExpenses).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("messbill/mongo: expense totals by category: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Category string          `bson:"_id"`
		Total    bson.Decimal128 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("messbill/mongo: expense totals decode: %w", err)
	}

	totals := make(map[expense.Category]types.Amount, len(results))
	for _, r := range results {
		total, convErr := fromDecimal(r.Total)
		if convErr != nil {
			return nil, convErr
		}
		totals[expense.Category(r.Category)] = total
	}
	return totals, nil
}

// ==================== Payment Store ====================

func (s *Store) CreatePayment(ctx context.Context, p *payment.Payment) error {
	m := toPaymentModel(p)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		return fmt.Errorf("messbill/mongo: create payment: %w", err)
	}
	return nil
}

func (s *Store) GetPayment(ctx context.Context, paymentID id.PaymentID) (*payment.Payment, error) {
	var m paymentModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": paymentID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, messbill.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("messbill/mongo: get payment: %w", err)
	}
	return fromPaymentModel(&m)
}

func (s *Store) ListPayments(ctx context.Context, hostelID id.HostelID, opts payment.ListOpts) ([]*payment.Payment, error) {
	var models []paymentModel

	filter := bson.M{"hostel_id": hostelID.String()}
	if !opts.BoarderID.IsNil() {
		filter["boarder_id"] = opts.BoarderID.String()
	}
	if opts.Method != "" {
		filter["method"] = string(opts.Method)
	}
	applyDateWindow(filter, "date", opts.Start, opts.End)

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "date", Value: -1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("messbill/mongo: list payments: %w", err)
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

	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("messbill/mongo: update payment: %w", err)
	}
	if res.MatchedCount() == 0 {
		return messbill.ErrPaymentNotFound
	}
	return nil
}

func (s *Store) DeletePayment(ctx context.Context, paymentID id.PaymentID) error {
	res, err := s.mdb.NewDelete((*paymentModel)(nil)).
		Filter(bson.M{"_id": paymentID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("messbill/mongo: delete payment: %w", err)
	}
	if res.DeletedCount() == 0 {
		return messbill.ErrPaymentNotFound
	}
	return nil
}

func (s *Store) TotalPaymentsForBoarder(ctx context.Context, hostelID id.HostelID, boarderID id.BoarderID, start, end time.Time) (types.Amount, error) {
	match := bson.M{
		"hostel_id":  hostelID.String(),
		"boarder_id": boarderID.String(),
	}
	applyDateWindow(match, "date", start, end)

	return s.sumCollection(ctx, colPayments, match, "$amount", "total payments for boarder")
}

func (s *Store) TotalPaymentsForHostel(ctx context.Context, hostelID id.HostelID, start, end time.Time) (types.Amount, error) {
	match := bson.M{"hostel_id": hostelID.String()}
	applyDateWindow(match, "date", start, end)

	return s.sumCollection(ctx, colPayments, match, "$amount", "total payments for hostel")
}

// ==================== Closing Store ====================

// SaveClosing inserts or overwrites the closing for the record's
// (hostel, period). The stored document's identity is kept on overwrite.
func (s *Store) SaveClosing(ctx context.Context, c *closing.MonthlyClosing) error {
	m := toClosingModel(c)
	m.UpdatedAt = now()

	_, err := s.mdb.NewUpdate(m).
		Filter(bson.M{
			"hostel_id": m.HostelID,
			"year":      m.Year,
			"month":     m.Month,
		}).
		SetUpdate(bson.M{
			"$set": bson.M{
				"locked":      m.Locked,
				"locked_by":   m.LockedBy,
				"locked_at":   m.LockedAt,
				"unlocked_by": m.UnlockedBy,
				"unlocked_at": m.UnlockedAt,
				"rate":        m.Rate,
				"statements":  m.Statements,
				"updated_at":  m.UpdatedAt,
			},
			"$setOnInsert": bson.M{
				"_id":        m.ID,
				"hostel_id":  m.HostelID,
				"year":       m.Year,
				"month":      m.Month,
				"created_at": m.CreatedAt,
			},
		}).
		Upsert().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("messbill/mongo: save closing: %w", err)
	}
	return nil
}

func (s *Store) GetClosing(ctx context.Context, hostelID id.HostelID, period types.Period) (*closing.MonthlyClosing, error) {
	var m closingModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{
			"hostel_id": hostelID.String(),
			"year":      period.Year,
			"month":     int(period.Month),
		}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, messbill.ErrClosingNotFound
		}
		return nil, fmt.Errorf("messbill/mongo: get closing: %w", err)
	}
	return fromClosingModel(&m)
}

func (s *Store) ListClosings(ctx context.Context, hostelID id.HostelID, opts closing.ListOpts) ([]*closing.MonthlyClosing, error) {
	var models []closingModel

	filter := bson.M{"hostel_id": hostelID.String()}
	if opts.LockedOnly {
		filter["locked"] = true
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "year", Value: -1}, {Key: "month", Value: -1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("messbill/mongo: list closings: %w", err)
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
// record counts as unlocked.
func (s *Store) IsMonthLocked(ctx context.Context, hostelID id.HostelID, period types.Period) (bool, error) {
	var m closingModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{
			"hostel_id": hostelID.String(),
			"year":      period.Year,
			"month":     int(period.Month),
		}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return false, nil
		}
		return false, fmt.Errorf("messbill/mongo: is month locked: %w", err)
	}
	return m.Locked, nil
}

// ==================== Helpers ====================

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// applyDateWindow adds an inclusive [start, end] range on field,
// skipping zero bounds.
func applyDateWindow(filter bson.M, field string, start, end time.Time) {
	window := bson.M{}
	if !start.IsZero() {
		window["$gte"] = start
	}
	if !end.IsZero() {
		window["$lte"] = end
	}
	if len(window) > 0 {
		filter[field] = window
	}
}

// sumCollection runs a $match/$group pipeline summing one field.
func (s *Store) sumCollection(ctx context.Context, col string, match bson.M, field, op string) (types.Amount, error) {
	pipeline := bson.A{
		bson.M{"$match": match},
		bson.M{
			"$group": bson.M{
				"_id":   nil,
				"total": bson.M{"$sum": field},
			},
		},
	}

	cursor, err := s.mdb.Collection(col).Aggregate(ctx, pipeline)
	if err != nil {
		return types.AmountZero, fmt.Errorf("messbill/mongo: %s: %w", op, err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total bson.Decimal128 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return types.AmountZero, fmt.Errorf("messbill/mongo: %s decode: %w", op, err)
	}

	if len(results) == 0 {
		return types.AmountZero, nil
	}
	return fromDecimal(results[0].Total)
}

// migrationIndexes returns the index definitions for all messbill collections.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colBoarders: {
			{Keys: bson.D{{Key: "hostel_id", Value: 1}, {Key: "deleted", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "hostel_id", Value: 1}, {Key: "name", Value: 1}}},
		},
		colMeals: {
			{
				Keys:    bson.D{{Key: "hostel_id", Value: 1}, {Key: "boarder_id", Value: 1}, {Key: "date", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "hostel_id", Value: 1}, {Key: "date", Value: -1}}},
		},
		colExpenses: {
			{Keys: bson.D{{Key: "hostel_id", Value: 1}, {Key: "date", Value: -1}}},
			{Keys: bson.D{{Key: "hostel_id", Value: 1}, {Key: "category", Value: 1}, {Key: "date", Value: -1}}},
		},
		colPayments: {
			{Keys: bson.D{{Key: "hostel_id", Value: 1}, {Key: "boarder_id", Value: 1}, {Key: "date", Value: -1}}},
			{Keys: bson.D{{Key: "hostel_id", Value: 1}, {Key: "date", Value: -1}}},
		},
		colClosings: {
			{
				Keys:    bson.D{{Key: "hostel_id", Value: 1}, {Key: "year", Value: 1}, {Key: "month", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
	}
}
