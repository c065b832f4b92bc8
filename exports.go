package messbill

import "github.com/xraph/messbill/types"

// Re-export common types for convenience so users don't have to import types package.

// Amount is re-exported from types package.
type Amount = types.Amount

// Period is re-exported from types package.
type Period = types.Period

// Entity is re-exported from types package.
type Entity = types.Entity

// Re-export Amount constructors
var (
	NewAmount          = types.NewAmount
	NewAmountFromFloat = types.NewAmountFromFloat
	ParseAmount        = types.ParseAmount
	MustParseAmount    = types.MustParseAmount
	SumAmounts         = types.SumAmounts
)

// Re-export Period constructors
var (
	NewPeriod = types.NewPeriod
	PeriodOf  = types.PeriodOf
)

// Re-export Entity constructor
var NewEntity = types.NewEntity
