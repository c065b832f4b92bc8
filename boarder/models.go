package boarder

import (
	"time"

	"github.com/xraph/messbill/id"
	"github.com/xraph/messbill/types"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusLeft     Status = "left"
)

type Boarder struct {
	types.Entity
	ID             id.BoarderID      `json:"id"`
	HostelID       id.HostelID       `json:"hostel_id"`
	Name           string            `json:"name"`
	Phone          string            `json:"phone,omitempty"`
	Email          string            `json:"email,omitempty"`
	RoomNumber     string            `json:"room_number,omitempty"`
	SeatRent       types.Amount      `json:"seat_rent"`
	OpeningBalance types.Amount      `json:"opening_balance"`
	Status         Status            `json:"status"`
	JoinedAt       time.Time         `json:"joined_at"`
	Deleted        bool              `json:"deleted"`
	DeletedAt      *time.Time        `json:"deleted_at,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// Filter selects which boarders a billing pass considers.
//
// FilterAll covers every non-deleted boarder regardless of status, so a
// boarder who left mid-month still appears on the due list and in closing
// snapshots. FilterActive narrows to active boarders for live dashboard
// figures. The two are distinct on purpose; do not collapse them.
type Filter string

const (
	FilterAll    Filter = "all"
	FilterActive Filter = "active"
)

// Matches reports whether b passes the filter.
func (f Filter) Matches(b *Boarder) bool {
	if b.Deleted {
		return false
	}

	if f == FilterActive {
		return b.Status == StatusActive
	}

	return true
}
