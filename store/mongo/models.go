package mongo

import (
	"time"

	"github.com/xraph/grove"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/xraph/messbill/bill"
	"github.com/xraph/messbill/boarder"
	"github.com/xraph/messbill/closing"
	"github.com/xraph/messbill/expense"
	"github.com/xraph/messbill/id"
	"github.com/xraph/messbill/meal"
	"github.com/xraph/messbill/payment"
	"github.com/xraph/messbill/types"
)

// Amounts are persisted as Decimal128 so the aggregation pipelines can
// $sum them without losing precision.

func toDecimal(a types.Amount) bson.Decimal128 {
	d, err := bson.ParseDecimal128(a.String())
	if err != nil {
		return bson.Decimal128{}
	}

	return d
}

func fromDecimal(d bson.Decimal128) (types.Amount, error) {
	return types.ParseAmount(d.String())
}

func parseOptionalUserID(s string) (id.UserID, error) {
	if s == "" {
		return id.Nil, nil
	}

	return id.ParseUserID(s)
}

// ==================== Boarder models ====================

type boarderModel struct {
	grove.BaseModel `grove:"table:messbill_boarders"`

	ID             string            `grove:"id,pk"           bson:"_id"`
	HostelID       string            `grove:"hostel_id"       bson:"hostel_id"`
	Name           string            `grove:"name"            bson:"name"`
	Phone          string            `grove:"phone"           bson:"phone,omitempty"`
	Email          string            `grove:"email"           bson:"email,omitempty"`
	RoomNumber     string            `grove:"room_number"     bson:"room_number,omitempty"`
	SeatRent       bson.Decimal128   `grove:"seat_rent"       bson:"seat_rent"`
	OpeningBalance bson.Decimal128   `grove:"opening_balance" bson:"opening_balance"`
	Status         string            `grove:"status"          bson:"status"`
	JoinedAt       time.Time         `grove:"joined_at"       bson:"joined_at"`
	Deleted        bool              `grove:"deleted"         bson:"deleted"`
	DeletedAt      *time.Time        `grove:"deleted_at"      bson:"deleted_at,omitempty"`
	Metadata       map[string]string `grove:"metadata"        bson:"metadata,omitempty"`
	CreatedAt      time.Time         `grove:"created_at"      bson:"created_at"`
	UpdatedAt      time.Time         `grove:"updated_at"      bson:"updated_at"`
}

func toBoarderModel(b *boarder.Boarder) *boarderModel {
	return &boarderModel{
		ID:             b.ID.String(),
		HostelID:       b.HostelID.String(),
		Name:           b.Name,
		Phone:          b.Phone,
		Email:          b.Email,
		RoomNumber:     b.RoomNumber,
		SeatRent:       toDecimal(b.SeatRent),
		OpeningBalance: toDecimal(b.OpeningBalance),
		Status:         string(b.Status),
		JoinedAt:       b.JoinedAt,
		Deleted:        b.Deleted,
		DeletedAt:      b.DeletedAt,
		Metadata:       b.Metadata,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func fromBoarderModel(m *boarderModel) (*boarder.Boarder, error) {
	boarderID, err := id.ParseBoarderID(m.ID)
	if err != nil {
		return nil, err
	}
	hostelID, err := id.ParseHostelID(m.HostelID)
	if err != nil {
		return nil, err
	}
	seatRent, err := fromDecimal(m.SeatRent)
	if err != nil {
		return nil, err
	}
	openingBalance, err := fromDecimal(m.OpeningBalance)
	if err != nil {
		return nil, err
	}

	return &boarder.Boarder{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:             boarderID,
		HostelID:       hostelID,
		Name:           m.Name,
		Phone:          m.Phone,
		Email:          m.Email,
		RoomNumber:     m.RoomNumber,
		SeatRent:       seatRent,
		OpeningBalance: openingBalance,
		Status:         boarder.Status(m.Status),
		JoinedAt:       m.JoinedAt,
		Deleted:        m.Deleted,
		DeletedAt:      m.DeletedAt,
		Metadata:       m.Metadata,
	}, nil
}

// ==================== Meal models ====================

type mealModel struct {
	grove.BaseModel `grove:"table:messbill_meals"`

	ID          string            `grove:"id,pk"        bson:"_id"`
	HostelID    string            `grove:"hostel_id"    bson:"hostel_id"`
	BoarderID   string            `grove:"boarder_id"   bson:"boarder_id"`
	Date        time.Time         `grove:"date"         bson:"date"`
	Breakfast   bson.Decimal128   `grove:"breakfast"    bson:"breakfast"`
	Lunch       bson.Decimal128   `grove:"lunch"        bson:"lunch"`
	Dinner      bson.Decimal128   `grove:"dinner"       bson:"dinner"`
	CustomMeals []customMealModel `grove:"custom_meals" bson:"custom_meals,omitempty"`
	Off         bool              `grove:"off"          bson:"off"`
	Total       bson.Decimal128   `grove:"total"        bson:"total"`
	CreatedAt   time.Time         `grove:"created_at"   bson:"created_at"`
	UpdatedAt   time.Time         `grove:"updated_at"   bson:"updated_at"`
}

type customMealModel struct {
	Name  string          `bson:"name"`
	Value bson.Decimal128 `bson:"value"`
}

func toMealModel(e *meal.Entry) *mealModel {
	var customs []customMealModel
	if len(e.CustomMeals) > 0 {
		customs = make([]customMealModel, len(e.CustomMeals))
		for i, cm := range e.CustomMeals {
			customs[i] = customMealModel{Name: cm.Name, Value: toDecimal(cm.Value)}
		}
	}

	// Total is denormalized so the meal aggregations can $sum one field.
	return &mealModel{
		ID:          e.ID.String(),
		HostelID:    e.HostelID.String(),
		BoarderID:   e.BoarderID.String(),
		Date:        e.Date,
		Breakfast:   toDecimal(e.Breakfast),
		Lunch:       toDecimal(e.Lunch),
		Dinner:      toDecimal(e.Dinner),
		CustomMeals: customs,
		Off:         e.Off,
		Total:       toDecimal(e.Total()),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func fromMealModel(m *mealModel) (*meal.Entry, error) {
	mealID, err := id.ParseMealID(m.ID)
	if err != nil {
		return nil, err
	}
	hostelID, err := id.ParseHostelID(m.HostelID)
	if err != nil {
		return nil, err
	}
	boarderID, err := id.ParseBoarderID(m.BoarderID)
	if err != nil {
		return nil, err
	}
	breakfast, err := fromDecimal(m.Breakfast)
	if err != nil {
		return nil, err
	}
	lunch, err := fromDecimal(m.Lunch)
	if err != nil {
		return nil, err
	}
	dinner, err := fromDecimal(m.Dinner)
	if err != nil {
		return nil, err
	}

	var customs []meal.CustomMeal
	if len(m.CustomMeals) > 0 {
		customs = make([]meal.CustomMeal, len(m.CustomMeals))
		for i, cm := range m.CustomMeals {
			value, cmErr := fromDecimal(cm.Value)
			if cmErr != nil {
				return nil, cmErr
			}
			customs[i] = meal.CustomMeal{Name: cm.Name, Value: value}
		}
	}

	return &meal.Entry{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:          mealID,
		HostelID:    hostelID,
		BoarderID:   boarderID,
		Date:        m.Date,
		Breakfast:   breakfast,
		Lunch:       lunch,
		Dinner:      dinner,
		CustomMeals: customs,
		Off:         m.Off,
	}, nil
}

// ==================== Expense models ====================

type expenseModel struct {
	grove.BaseModel `grove:"table:messbill_expenses"`

	ID         string            `grove:"id,pk"      bson:"_id"`
	HostelID   string            `grove:"hostel_id"  bson:"hostel_id"`
	Title      string            `grove:"title"      bson:"title"`
	Category   string            `grove:"category"   bson:"category"`
	Amount     bson.Decimal128   `grove:"amount"     bson:"amount"`
	Date       time.Time         `grove:"date"       bson:"date"`
	AddedBy    string            `grove:"added_by"   bson:"added_by,omitempty"`
	Notes      string            `grove:"notes"      bson:"notes,omitempty"`
	Attachment string            `grove:"attachment" bson:"attachment,omitempty"`
	Deleted    bool              `grove:"deleted"    bson:"deleted"`
	DeletedAt  *time.Time        `grove:"deleted_at" bson:"deleted_at,omitempty"`
	Metadata   map[string]string `grove:"metadata"   bson:"metadata,omitempty"`
	CreatedAt  time.Time         `grove:"created_at" bson:"created_at"`
	UpdatedAt  time.Time         `grove:"updated_at" bson:"updated_at"`
}

func toExpenseModel(e *expense.Expense) *expenseModel {
	return &expenseModel{
		ID:         e.ID.String(),
		HostelID:   e.HostelID.String(),
		Title:      e.Title,
		Category:   string(e.Category),
		Amount:     toDecimal(e.Amount),
		Date:       e.Date,
		AddedBy:    e.AddedBy.String(),
		Notes:      e.Notes,
		Attachment: e.Attachment,
		Deleted:    e.Deleted,
		DeletedAt:  e.DeletedAt,
		Metadata:   e.Metadata,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func fromExpenseModel(m *expenseModel) (*expense.Expense, error) {
	expenseID, err := id.ParseExpenseID(m.ID)
	if err != nil {
		return nil, err
	}
	hostelID, err := id.ParseHostelID(m.HostelID)
	if err != nil {
		return nil, err
	}
	amount, err := fromDecimal(m.Amount)
	if err != nil {
		return nil, err
	}
	addedBy, err := parseOptionalUserID(m.AddedBy)
	if err != nil {
		return nil, err
	}

	return &expense.Expense{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:         expenseID,
		HostelID:   hostelID,
		Title:      m.Title,
		Category:   expense.Category(m.Category),
		Amount:     amount,
		Date:       m.Date,
		AddedBy:    addedBy,
		Notes:      m.Notes,
		Attachment: m.Attachment,
		Deleted:    m.Deleted,
		DeletedAt:  m.DeletedAt,
		Metadata:   m.Metadata,
	}, nil
}

// ==================== Payment models ====================

type paymentModel struct {
	grove.BaseModel `grove:"table:messbill_payments"`

	ID         string            `grove:"id,pk"       bson:"_id"`
	HostelID   string            `grove:"hostel_id"   bson:"hostel_id"`
	BoarderID  string            `grove:"boarder_id"  bson:"boarder_id"`
	Amount     bson.Decimal128   `grove:"amount"      bson:"amount"`
	Date       time.Time         `grove:"date"        bson:"date"`
	Method     string            `grove:"method"      bson:"method"`
	Reference  string            `grove:"reference"   bson:"reference,omitempty"`
	ReceivedBy string            `grove:"received_by" bson:"received_by,omitempty"`
	Notes      string            `grove:"notes"       bson:"notes,omitempty"`
	Metadata   map[string]string `grove:"metadata"    bson:"metadata,omitempty"`
	CreatedAt  time.Time         `grove:"created_at"  bson:"created_at"`
	UpdatedAt  time.Time         `grove:"updated_at"  bson:"updated_at"`
}

func toPaymentModel(p *payment.Payment) *paymentModel {
	return &paymentModel{
		ID:         p.ID.String(),
		HostelID:   p.HostelID.String(),
		BoarderID:  p.BoarderID.String(),
		Amount:     toDecimal(p.Amount),
		Date:       p.Date,
		Method:     string(p.Method),
		Reference:  p.Reference,
		ReceivedBy: p.ReceivedBy.String(),
		Notes:      p.Notes,
		Metadata:   p.Metadata,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func fromPaymentModel(m *paymentModel) (*payment.Payment, error) {
	paymentID, err := id.ParsePaymentID(m.ID)
	if err != nil {
		return nil, err
	}
	hostelID, err := id.ParseHostelID(m.HostelID)
	if err != nil {
		return nil, err
	}
	boarderID, err := id.ParseBoarderID(m.BoarderID)
	if err != nil {
		return nil, err
	}
	amount, err := fromDecimal(m.Amount)
	if err != nil {
		return nil, err
	}
	receivedBy, err := parseOptionalUserID(m.ReceivedBy)
	if err != nil {
		return nil, err
	}

	return &payment.Payment{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:         paymentID,
		HostelID:   hostelID,
		BoarderID:  boarderID,
		Amount:     amount,
		Date:       m.Date,
		Method:     payment.Method(m.Method),
		Reference:  m.Reference,
		ReceivedBy: receivedBy,
		Notes:      m.Notes,
		Metadata:   m.Metadata,
	}, nil
}

// ==================== Closing models ====================

type closingModel struct {
	grove.BaseModel `grove:"table:messbill_closings"`

	ID         string           `grove:"id,pk"       bson:"_id"`
	HostelID   string           `grove:"hostel_id"   bson:"hostel_id"`
	Year       int              `grove:"year"        bson:"year"`
	Month      int              `grove:"month"       bson:"month"`
	Locked     bool             `grove:"locked"      bson:"locked"`
	LockedBy   string           `grove:"locked_by"   bson:"locked_by,omitempty"`
	LockedAt   *time.Time       `grove:"locked_at"   bson:"locked_at,omitempty"`
	UnlockedBy string           `grove:"unlocked_by" bson:"unlocked_by,omitempty"`
	UnlockedAt *time.Time       `grove:"unlocked_at" bson:"unlocked_at,omitempty"`
	Rate       rateModel        `grove:"rate"        bson:"rate"`
	Statements []statementModel `grove:"statements"  bson:"statements"`
	CreatedAt  time.Time        `grove:"created_at"  bson:"created_at"`
	UpdatedAt  time.Time        `grove:"updated_at"  bson:"updated_at"`
}

type rateModel struct {
	TotalMeals   bson.Decimal128 `bson:"total_meals"`
	TotalExpense bson.Decimal128 `bson:"total_expense"`
	MealRate     bson.Decimal128 `bson:"meal_rate"`
}

type statementModel struct {
	BoarderID      string          `bson:"boarder_id"`
	BoarderName    string          `bson:"boarder_name"`
	RoomNumber     string          `bson:"room_number,omitempty"`
	TotalMeals     bson.Decimal128 `bson:"total_meals"`
	MealRate       bson.Decimal128 `bson:"meal_rate"`
	MealCost       bson.Decimal128 `bson:"meal_cost"`
	SeatRent       bson.Decimal128 `bson:"seat_rent"`
	TotalBill      bson.Decimal128 `bson:"total_bill"`
	TotalPayment   bson.Decimal128 `bson:"total_payment"`
	OpeningBalance bson.Decimal128 `bson:"opening_balance"`
	Due            bson.Decimal128 `bson:"due"`
	Advance        bson.Decimal128 `bson:"advance"`
}

func toRateModel(r bill.RateSummary) rateModel {
	return rateModel{
		TotalMeals:   toDecimal(r.TotalMeals),
		TotalExpense: toDecimal(r.TotalExpense),
		MealRate:     toDecimal(r.MealRate),
	}
}

func fromRateModel(m rateModel) (bill.RateSummary, error) {
	totalMeals, err := fromDecimal(m.TotalMeals)
	if err != nil {
		return bill.RateSummary{}, err
	}
	totalExpense, err := fromDecimal(m.TotalExpense)
	if err != nil {
		return bill.RateSummary{}, err
	}
	mealRate, err := fromDecimal(m.MealRate)
	if err != nil {
		return bill.RateSummary{}, err
	}

	return bill.RateSummary{
		TotalMeals:   totalMeals,
		TotalExpense: totalExpense,
		MealRate:     mealRate,
	}, nil
}

func toStatementModel(s bill.Statement) statementModel {
	return statementModel{
		BoarderID:      s.BoarderID.String(),
		BoarderName:    s.BoarderName,
		RoomNumber:     s.RoomNumber,
		TotalMeals:     toDecimal(s.TotalMeals),
		MealRate:       toDecimal(s.MealRate),
		MealCost:       toDecimal(s.MealCost),
		SeatRent:       toDecimal(s.SeatRent),
		TotalBill:      toDecimal(s.TotalBill),
		TotalPayment:   toDecimal(s.TotalPayment),
		OpeningBalance: toDecimal(s.OpeningBalance),
		Due:            toDecimal(s.Due),
		Advance:        toDecimal(s.Advance),
	}
}

func fromStatementModel(m statementModel) (bill.Statement, error) {
	boarderID, err := id.ParseBoarderID(m.BoarderID)
	if err != nil {
		return bill.Statement{}, err
	}

	s := bill.Statement{
		BoarderID:   boarderID,
		BoarderName: m.BoarderName,
		RoomNumber:  m.RoomNumber,
	}

	fields := map[*types.Amount]bson.Decimal128{
		&s.TotalMeals:     m.TotalMeals,
		&s.MealRate:       m.MealRate,
		&s.MealCost:       m.MealCost,
		&s.SeatRent:       m.SeatRent,
		&s.TotalBill:      m.TotalBill,
		&s.TotalPayment:   m.TotalPayment,
		&s.OpeningBalance: m.OpeningBalance,
		&s.Due:            m.Due,
		&s.Advance:        m.Advance,
	}
	for dst, src := range fields {
		v, convErr := fromDecimal(src)
		if convErr != nil {
			return bill.Statement{}, convErr
		}
		*dst = v
	}

	return s, nil
}

func toClosingModel(c *closing.MonthlyClosing) *closingModel {
	statements := make([]statementModel, len(c.Statements))
	for i, s := range c.Statements {
		statements[i] = toStatementModel(s)
	}

	return &closingModel{
		ID:         c.ID.String(),
		HostelID:   c.HostelID.String(),
		Year:       c.Period.Year,
		Month:      int(c.Period.Month),
		Locked:     c.Locked,
		LockedBy:   c.LockedBy.String(),
		LockedAt:   c.LockedAt,
		UnlockedBy: c.UnlockedBy.String(),
		UnlockedAt: c.UnlockedAt,
		Rate:       toRateModel(c.Rate),
		Statements: statements,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func fromClosingModel(m *closingModel) (*closing.MonthlyClosing, error) {
	closingID, err := id.ParseClosingID(m.ID)
	if err != nil {
		return nil, err
	}
	hostelID, err := id.ParseHostelID(m.HostelID)
	if err != nil {
		return nil, err
	}
	lockedBy, err := parseOptionalUserID(m.LockedBy)
	if err != nil {
		return nil, err
	}
	unlockedBy, err := parseOptionalUserID(m.UnlockedBy)
	if err != nil {
		return nil, err
	}
	rate, err := fromRateModel(m.Rate)
	if err != nil {
		return nil, err
	}

	statements := make([]bill.Statement, len(m.Statements))
	for i, sm := range m.Statements {
		s, sErr := fromStatementModel(sm)
		if sErr != nil {
			return nil, sErr
		}
		statements[i] = s
	}

	return &closing.MonthlyClosing{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:         closingID,
		HostelID:   hostelID,
		Period:     types.NewPeriod(m.Year, time.Month(m.Month)),
		Locked:     m.Locked,
		LockedBy:   lockedBy,
		LockedAt:   m.LockedAt,
		UnlockedBy: unlockedBy,
		UnlockedAt: m.UnlockedAt,
		Rate:       rate,
		Statements: statements,
	}, nil
}
