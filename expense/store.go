package expense

import (
	"context"
	"time"

	"github.com/xraph/messbill/id"
	"github.com/xraph/messbill/types"
)

type Store interface {
	Create(ctx context.Context, e *Expense) error
	Get(ctx context.Context, expenseID id.ExpenseID) (*Expense, error)
	List(ctx context.Context, hostelID id.HostelID, opts ListOpts) ([]*Expense, error)
	Update(ctx context.Context, e *Expense) error
	SoftDelete(ctx context.Context, expenseID id.ExpenseID) error

	// TotalForPeriod sums non-deleted expense amounts inside [start, end].
	TotalForPeriod(ctx context.Context, hostelID id.HostelID, start, end time.Time) (types.Amount, error)
	// TotalsByCategory breaks the period total down per category.
	TotalsByCategory(ctx context.Context, hostelID id.HostelID, start, end time.Time) (map[Category]types.Amount, error)
}

type ListOpts struct {
	Category Category
	Start    time.Time
	End      time.Time
	Limit    int
	Offset   int
}
