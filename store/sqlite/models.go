package sqlite

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xraph/grove"

	"github.com/xraph/messbill/bill"
	"github.com/xraph/messbill/boarder"
	"github.com/xraph/messbill/closing"
	"github.com/xraph/messbill/expense"
	"github.com/xraph/messbill/id"
	"github.com/xraph/messbill/meal"
	"github.com/xraph/messbill/payment"
	"github.com/xraph/messbill/types"
)

func parseOptionalUserID(s string) (id.UserID, error) {
	if s == "" {
		return id.Nil, nil
	}

	return id.ParseUserID(s)
}

// ==================== Boarder models ====================

type boarderModel struct {
	grove.BaseModel `grove:"table:messbill_boarders"`

	ID             string            `grove:"id,pk"`
	HostelID       string            `grove:"hostel_id"`
	Name           string            `grove:"name"`
	Phone          string            `grove:"phone"`
	Email          string            `grove:"email"`
	RoomNumber     string            `grove:"room_number"`
	SeatRent       decimal.Decimal   `grove:"seat_rent"`
	OpeningBalance decimal.Decimal   `grove:"opening_balance"`
	Status         string            `grove:"status"`
	JoinedAt       time.Time         `grove:"joined_at"`
	Deleted        bool              `grove:"deleted"`
	DeletedAt      *time.Time        `grove:"deleted_at"`
	Metadata       map[string]string `grove:"metadata"`
	CreatedAt      time.Time         `grove:"created_at"`
	UpdatedAt      time.Time         `grove:"updated_at"`
}

func toBoarderModel(b *boarder.Boarder) *boarderModel {
	return &boarderModel{
		ID:             b.ID.String(),
		HostelID:       b.HostelID.String(),
		Name:           b.Name,
		Phone:          b.Phone,
		Email:          b.Email,
		RoomNumber:     b.RoomNumber,
		SeatRent:       b.SeatRent.Decimal(),
		OpeningBalance: b.OpeningBalance.Decimal(),
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
		SeatRent:       types.AmountFromDecimal(m.SeatRent),
		OpeningBalance: types.AmountFromDecimal(m.OpeningBalance),
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

	ID          string          `grove:"id,pk"`
	HostelID    string          `grove:"hostel_id"`
	BoarderID   string          `grove:"boarder_id"`
	Date        time.Time       `grove:"date"`
	Breakfast   decimal.Decimal `grove:"breakfast"`
	Lunch       decimal.Decimal `grove:"lunch"`
	Dinner      decimal.Decimal `grove:"dinner"`
	CustomMeals json.RawMessage `grove:"custom_meals"`
	Off         bool            `grove:"off_day"`
	Total       decimal.Decimal `grove:"total"`
	CreatedAt   time.Time       `grove:"created_at"`
	UpdatedAt   time.Time       `grove:"updated_at"`
}

func toMealModel(e *meal.Entry) *mealModel {
	customs, _ := json.Marshal(e.CustomMeals) //nolint:errcheck // best-effort

	// Total is denormalized so the meal totals reduce to a SUM.
	return &mealModel{
		ID:          e.ID.String(),
		HostelID:    e.HostelID.String(),
		BoarderID:   e.BoarderID.String(),
		Date:        e.Date,
		Breakfast:   e.Breakfast.Decimal(),
		Lunch:       e.Lunch.Decimal(),
		Dinner:      e.Dinner.Decimal(),
		CustomMeals: customs,
		Off:         e.Off,
		Total:       e.Total().Decimal(),
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

	var customs []meal.CustomMeal
	if len(m.CustomMeals) > 0 && string(m.CustomMeals) != "null" {
		_ = json.Unmarshal(m.CustomMeals, &customs) //nolint:errcheck // best-effort
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
		Breakfast:   types.AmountFromDecimal(m.Breakfast),
		Lunch:       types.AmountFromDecimal(m.Lunch),
		Dinner:      types.AmountFromDecimal(m.Dinner),
		CustomMeals: customs,
		Off:         m.Off,
	}, nil
}

// ==================== Expense models ====================

type expenseModel struct {
	grove.BaseModel `grove:"table:messbill_expenses"`

	ID         string            `grove:"id,pk"`
	HostelID   string            `grove:"hostel_id"`
	Title      string            `grove:"title"`
	Category   string            `grove:"category"`
	Amount     decimal.Decimal   `grove:"amount"`
	Date       time.Time         `grove:"date"`
	AddedBy    string            `grove:"added_by"`
	Notes      string            `grove:"notes"`
	Attachment string            `grove:"attachment"`
	Deleted    bool              `grove:"deleted"`
	DeletedAt  *time.Time        `grove:"deleted_at"`
	Metadata   map[string]string `grove:"metadata"`
	CreatedAt  time.Time         `grove:"created_at"`
	UpdatedAt  time.Time         `grove:"updated_at"`
}

func toExpenseModel(e *expense.Expense) *expenseModel {
	return &expenseModel{
		ID:         e.ID.String(),
		HostelID:   e.HostelID.String(),
		Title:      e.Title,
		Category:   string(e.Category),
		Amount:     e.Amount.Decimal(),
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
		Amount:     types.AmountFromDecimal(m.Amount),
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

	ID         string            `grove:"id,pk"`
	HostelID   string            `grove:"hostel_id"`
	BoarderID  string            `grove:"boarder_id"`
	Amount     decimal.Decimal   `grove:"amount"`
	Date       time.Time         `grove:"date"`
	Method     string            `grove:"method"`
	Reference  string            `grove:"reference"`
	ReceivedBy string            `grove:"received_by"`
	Notes      string            `grove:"notes"`
	Metadata   map[string]string `grove:"metadata"`
	CreatedAt  time.Time         `grove:"created_at"`
	UpdatedAt  time.Time         `grove:"updated_at"`
}

func toPaymentModel(p *payment.Payment) *paymentModel {
	return &paymentModel{
		ID:         p.ID.String(),
		HostelID:   p.HostelID.String(),
		BoarderID:  p.BoarderID.String(),
		Amount:     p.Amount.Decimal(),
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
		Amount:     types.AmountFromDecimal(m.Amount),
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

	ID         string          `grove:"id,pk"`
	HostelID   string          `grove:"hostel_id"`
	Year       int             `grove:"year"`
	Month      int             `grove:"month"`
	Locked     bool            `grove:"locked"`
	LockedBy   string          `grove:"locked_by"`
	LockedAt   *time.Time      `grove:"locked_at"`
	UnlockedBy string          `grove:"unlocked_by"`
	UnlockedAt *time.Time      `grove:"unlocked_at"`
	Rate       json.RawMessage `grove:"rate"`
	Statements json.RawMessage `grove:"statements"`
	CreatedAt  time.Time       `grove:"created_at"`
	UpdatedAt  time.Time       `grove:"updated_at"`
}

func toClosingModel(c *closing.MonthlyClosing) *closingModel {
	rate, _ := json.Marshal(c.Rate)             //nolint:errcheck // best-effort
	statements, _ := json.Marshal(c.Statements) //nolint:errcheck // best-effort

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
		Rate:       rate,
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

	var rate bill.RateSummary
	if len(m.Rate) > 0 && string(m.Rate) != "null" {
		_ = json.Unmarshal(m.Rate, &rate) //nolint:errcheck // best-effort
	}

	var statements []bill.Statement
	if len(m.Statements) > 0 && string(m.Statements) != "null" {
		_ = json.Unmarshal(m.Statements, &statements) //nolint:errcheck // best-effort
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
