package payment

import (
	"time"

	"github.com/xraph/messbill/id"
	"github.com/xraph/messbill/types"
)

type Method string

const (
	MethodCash         Method = "cash"
	MethodBkash        Method = "bkash"
	MethodNagad        Method = "nagad"
	MethodBankTransfer Method = "bank_transfer"
)

// Methods lists all valid payment methods.
var Methods = []Method{
	MethodCash,
	MethodBkash,
	MethodNagad,
	MethodBankTransfer,
}

// Valid reports whether m is a known method.
func (m Method) Valid() bool {
	for _, known := range Methods {
		if m == known {
			return true
		}
	}

	return false
}

type Payment struct {
	types.Entity
	ID         id.PaymentID      `json:"id"`
	HostelID   id.HostelID       `json:"hostel_id"`
	BoarderID  id.BoarderID      `json:"boarder_id"`
	Amount     types.Amount      `json:"amount"`
	Date       time.Time         `json:"date"`
	Method     Method            `json:"method"`
	Reference  string            `json:"reference,omitempty"`
	ReceivedBy id.UserID         `json:"received_by,omitempty"`
	Notes      string            `json:"notes,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}
