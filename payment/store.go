package payment

import (
	"context"
	"time"

	"github.com/xraph/messbill/id"
	"github.com/xraph/messbill/types"
)

type Store interface {
	Create(ctx context.Context, p *Payment) error
	Get(ctx context.Context, paymentID id.PaymentID) (*Payment, error)
	List(ctx context.Context, hostelID id.HostelID, opts ListOpts) ([]*Payment, error)
	Update(ctx context.Context, p *Payment) error
	Delete(ctx context.Context, paymentID id.PaymentID) error

	// TotalForBoarder sums payment amounts for one boarder inside [start, end].
	TotalForBoarder(ctx context.Context, hostelID id.HostelID, boarderID id.BoarderID, start, end time.Time) (types.Amount, error)
	// TotalForHostel sums payment amounts across the hostel inside [start, end].
	TotalForHostel(ctx context.Context, hostelID id.HostelID, start, end time.Time) (types.Amount, error)
}

type ListOpts struct {
	BoarderID id.BoarderID
	Method    Method
	Start     time.Time
	End       time.Time
	Limit     int
	Offset    int
}
