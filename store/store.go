package store

import (
	"context"
	"time"

	"github.com/xraph/messbill/boarder"
	"github.com/xraph/messbill/closing"
	"github.com/xraph/messbill/expense"
	"github.com/xraph/messbill/id"
	"github.com/xraph/messbill/meal"
	"github.com/xraph/messbill/payment"
	"github.com/xraph/messbill/types"
)

// Store is the unified storage interface for all Messbill entities.
// Instead of embedding the sub-interfaces, we explicitly declare all methods
// to avoid naming conflicts.
type Store interface {
	// Boarder methods
	CreateBoarder(ctx context.Context, b *boarder.Boarder) error
	GetBoarder(ctx context.Context, boarderID id.BoarderID) (*boarder.Boarder, error)
	ListBoarders(ctx context.Context, hostelID id.HostelID, filter boarder.Filter, opts boarder.ListOpts) ([]*boarder.Boarder, error)
	UpdateBoarder(ctx context.Context, b *boarder.Boarder) error
	SoftDeleteBoarder(ctx context.Context, boarderID id.BoarderID) error

	// Meal methods
	UpsertMeal(ctx context.Context, e *meal.Entry) error
	GetMeal(ctx context.Context, mealID id.MealID) (*meal.Entry, error)
	GetMealByDay(ctx context.Context, hostelID id.HostelID, boarderID id.BoarderID, day time.Time) (*meal.Entry, error)
	ListMeals(ctx context.Context, hostelID id.HostelID, opts meal.ListOpts) ([]*meal.Entry, error)
	DeleteMeal(ctx context.Context, mealID id.MealID) error
	TotalMealsForBoarder(ctx context.Context, hostelID id.HostelID, boarderID id.BoarderID, start, end time.Time) (types.Amount, error)
	TotalMealsForHostel(ctx context.Context, hostelID id.HostelID, start, end time.Time) (types.Amount, error)

	// Expense methods
	CreateExpense(ctx context.Context, e *expense.Expense) error
	GetExpense(ctx context.Context, expenseID id.ExpenseID) (*expense.Expense, error)
	ListExpenses(ctx context.Context, hostelID id.HostelID, opts expense.ListOpts) ([]*expense.Expense, error)
	UpdateExpense(ctx context.Context, e *expense.Expense) error
	SoftDeleteExpense(ctx context.Context, expenseID id.ExpenseID) error
	TotalExpenseForPeriod(ctx context.Context, hostelID id.HostelID, start, end time.Time) (types.Amount, error)
	ExpenseTotalsByCategory(ctx context.Context, hostelID id.HostelID, start, end time.Time) (map[expense.Category]types.Amount, error)

	// Payment methods
	CreatePayment(ctx context.Context, p *payment.Payment) error
	GetPayment(ctx context.Context, paymentID id.PaymentID) (*payment.Payment, error)
	ListPayments(ctx context.Context, hostelID id.HostelID, opts payment.ListOpts) ([]*payment.Payment, error)
	UpdatePayment(ctx context.Context, p *payment.Payment) error
	DeletePayment(ctx context.Context, paymentID id.PaymentID) error
	TotalPaymentsForBoarder(ctx context.Context, hostelID id.HostelID, boarderID id.BoarderID, start, end time.Time) (types.Amount, error)
	TotalPaymentsForHostel(ctx context.Context, hostelID id.HostelID, start, end time.Time) (types.Amount, error)

	// Closing methods
	SaveClosing(ctx context.Context, c *closing.MonthlyClosing) error
	GetClosing(ctx context.Context, hostelID id.HostelID, period types.Period) (*closing.MonthlyClosing, error)
	ListClosings(ctx context.Context, hostelID id.HostelID, opts closing.ListOpts) ([]*closing.MonthlyClosing, error)
	IsMonthLocked(ctx context.Context, hostelID id.HostelID, period types.Period) (bool, error)

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
