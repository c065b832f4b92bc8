package meal

import (
	"context"
	"time"

	"github.com/xraph/messbill/id"
	"github.com/xraph/messbill/types"
)

type Store interface {
	// Upsert inserts the entry, or replaces the existing entry for the
	// same (hostel, boarder, day).
	Upsert(ctx context.Context, e *Entry) error
	Get(ctx context.Context, mealID id.MealID) (*Entry, error)
	GetByDay(ctx context.Context, hostelID id.HostelID, boarderID id.BoarderID, day time.Time) (*Entry, error)
	List(ctx context.Context, hostelID id.HostelID, opts ListOpts) ([]*Entry, error)
	Delete(ctx context.Context, mealID id.MealID) error

	// TotalForBoarder sums meal units for one boarder inside [start, end].
	TotalForBoarder(ctx context.Context, hostelID id.HostelID, boarderID id.BoarderID, start, end time.Time) (types.Amount, error)
	// TotalForHostel sums meal units across all boarders inside [start, end].
	TotalForHostel(ctx context.Context, hostelID id.HostelID, start, end time.Time) (types.Amount, error)
}

type ListOpts struct {
	BoarderID id.BoarderID
	Start     time.Time
	End       time.Time
	Limit     int
	Offset    int
}
