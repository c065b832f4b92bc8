package closing

import (
	"time"

	"github.com/xraph/messbill/bill"
	"github.com/xraph/messbill/id"
	"github.com/xraph/messbill/types"
)

// MonthlyClosing is the lock record and frozen statement snapshot for
// one hostel month. At most one closing exists per (hostel, period).
//
// Unlocking flips Locked off but leaves the snapshot in place; the
// snapshot is only recomputed when the month is locked again.
type MonthlyClosing struct {
	types.Entity
	ID         id.ClosingID     `json:"id"`
	HostelID   id.HostelID      `json:"hostel_id"`
	Period     types.Period     `json:"period"`
	Locked     bool             `json:"locked"`
	LockedBy   id.UserID        `json:"locked_by,omitempty"`
	LockedAt   *time.Time       `json:"locked_at,omitempty"`
	UnlockedBy id.UserID        `json:"unlocked_by,omitempty"`
	UnlockedAt *time.Time       `json:"unlocked_at,omitempty"`
	Rate       bill.RateSummary `json:"rate"`
	Statements []bill.Statement `json:"statements"`
}

// Details is what a closing-details view renders. When no closing
// record exists yet, Live is true and the figures are computed from
// current facts rather than a stored snapshot.
type Details struct {
	HostelID   id.HostelID      `json:"hostel_id"`
	Period     types.Period     `json:"period"`
	Locked     bool             `json:"locked"`
	Live       bool             `json:"live"`
	LockedBy   id.UserID        `json:"locked_by,omitempty"`
	LockedAt   *time.Time       `json:"locked_at,omitempty"`
	Rate       bill.RateSummary `json:"rate"`
	Statements []bill.Statement `json:"statements"`
}
