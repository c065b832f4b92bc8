package closing

import (
	"context"

	"github.com/xraph/messbill/id"
	"github.com/xraph/messbill/types"
)

type Store interface {
	// Save inserts the closing, or overwrites the existing record for
	// the same (hostel, period).
	Save(ctx context.Context, c *MonthlyClosing) error
	GetByPeriod(ctx context.Context, hostelID id.HostelID, period types.Period) (*MonthlyClosing, error)
	List(ctx context.Context, hostelID id.HostelID, opts ListOpts) ([]*MonthlyClosing, error)

	// IsLocked reports whether a locked closing exists for the period.
	// This is the guard query for fact writes; a missing record counts
	// as unlocked.
	IsLocked(ctx context.Context, hostelID id.HostelID, period types.Period) (bool, error)
}

type ListOpts struct {
	LockedOnly bool
	Limit      int
	Offset     int
}
