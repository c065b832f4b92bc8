package boarder

import (
	"context"

	"github.com/xraph/messbill/id"
)

type Store interface {
	Create(ctx context.Context, b *Boarder) error
	Get(ctx context.Context, boarderID id.BoarderID) (*Boarder, error)
	List(ctx context.Context, hostelID id.HostelID, filter Filter, opts ListOpts) ([]*Boarder, error)
	Update(ctx context.Context, b *Boarder) error
	SoftDelete(ctx context.Context, boarderID id.BoarderID) error
}

type ListOpts struct {
	Limit  int
	Offset int
}
