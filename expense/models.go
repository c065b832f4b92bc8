package expense

import (
	"time"

	"github.com/xraph/messbill/id"
	"github.com/xraph/messbill/types"
)

type Category string

const (
	CategoryBazar     Category = "bazar"
	CategoryGas       Category = "gas"
	CategorySalary    Category = "salary"
	CategoryUtilities Category = "utilities"
	CategoryOthers    Category = "others"
)

// Categories lists all valid expense categories.
var Categories = []Category{
	CategoryBazar,
	CategoryGas,
	CategorySalary,
	CategoryUtilities,
	CategoryOthers,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}

	return false
}

type Expense struct {
	types.Entity
	ID        id.ExpenseID      `json:"id"`
	HostelID  id.HostelID       `json:"hostel_id"`
	Title     string            `json:"title"`
	Category  Category          `json:"category"`
	Amount    types.Amount      `json:"amount"`
	Date      time.Time         `json:"date"`
	AddedBy   id.UserID         `json:"added_by,omitempty"`
	Notes     string            `json:"notes,omitempty"`
	// Attachment is an opaque reference to a stored receipt (object key
	// or URL); this library does not handle the upload itself.
	Attachment string `json:"attachment,omitempty"`
	Deleted   bool              `json:"deleted"`
	DeletedAt *time.Time        `json:"deleted_at,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}
