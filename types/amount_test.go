package types_test

import (
	"encoding/json"
	"testing"

	"github.com/xraph/messbill/types"
)

func TestAmountArithmetic(t *testing.T) {
	a := types.NewAmount(4500)
	b := types.NewAmount(90)

	if got := a.Add(b).String(); got != "4590" {
		t.Errorf("Add: expected 4590, got %s", got)
	}
	if got := a.Sub(b).String(); got != "4410" {
		t.Errorf("Sub: expected 4410, got %s", got)
	}
	if got := b.Mul(types.MustParseAmount("0.5")).String(); got != "45" {
		t.Errorf("Mul: expected 45, got %s", got)
	}
	if got := a.Div(b).String(); got != "50" {
		t.Errorf("Div: expected 50, got %s", got)
	}
}

func TestAmountDivByZeroPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on division by zero")
		}
	}()

	types.NewAmount(100).Div(types.AmountZero)
}

func TestAmountRound2(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no rounding needed", "52.78", "52.78"},
		{"truncates extra places", "52.784", "52.78"},
		{"rounds half up", "52.785", "52.79"},
		{"rounds above half up", "52.786", "52.79"},
		{"negative half away from zero", "-52.785", "-52.79"},
		{"whole number unchanged", "50", "50"},
		{"repeating division", "47.619047619", "47.62"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := types.MustParseAmount(tt.in).Round2().String()
			if got != tt.want {
				t.Errorf("Round2(%s): expected %s, got %s", tt.in, tt.want, got)
			}
		})
	}
}

func TestAmountComparisons(t *testing.T) {
	a := types.NewAmount(100)
	b := types.NewAmount(200)

	if !a.LessThan(b) {
		t.Error("expected 100 < 200")
	}
	if !b.GreaterThan(a) {
		t.Error("expected 200 > 100")
	}
	if !a.Equal(types.NewAmount(100)) {
		t.Error("expected 100 == 100")
	}
	if a.Cmp(b) != -1 || b.Cmp(a) != 1 || a.Cmp(a) != 0 {
		t.Error("Cmp returned wrong ordering")
	}
	if !a.Min(b).Equal(a) || !a.Max(b).Equal(b) {
		t.Error("Min/Max returned wrong value")
	}
}

func TestAmountSigns(t *testing.T) {
	pos := types.NewAmount(5)
	neg := types.NewAmount(-5)

	if !pos.IsPositive() || pos.IsNegative() || pos.IsZero() {
		t.Error("sign checks wrong for positive amount")
	}
	if !neg.IsNegative() || neg.IsPositive() {
		t.Error("sign checks wrong for negative amount")
	}
	if !types.AmountZero.IsZero() {
		t.Error("AmountZero should be zero")
	}
	if !neg.Abs().Equal(pos) {
		t.Error("Abs(-5) should be 5")
	}
	if !pos.Neg().Equal(neg) {
		t.Error("Neg(5) should be -5")
	}
}

func TestAmountParse(t *testing.T) {
	a, err := types.ParseAmount("12.5")
	if err != nil {
		t.Fatalf("ParseAmount failed: %v", err)
	}
	if a.String() != "12.5" {
		t.Errorf("expected 12.5, got %s", a.String())
	}

	if _, err := types.ParseAmount("not-a-number"); err == nil {
		t.Error("expected error for invalid input")
	}
}

func TestAmountJSON(t *testing.T) {
	type payload struct {
		Total types.Amount `json:"total"`
	}

	data, err := json.Marshal(payload{Total: types.MustParseAmount("52.78")})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `{"total":52.78}` {
		t.Errorf("unexpected JSON: %s", data)
	}

	var restored payload
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !restored.Total.Equal(types.MustParseAmount("52.78")) {
		t.Errorf("round-trip mismatch: %s", restored.Total)
	}

	// Quoted strings are accepted too.
	var quoted payload
	if err := json.Unmarshal([]byte(`{"total":"12.5"}`), &quoted); err != nil {
		t.Fatalf("unmarshal quoted failed: %v", err)
	}
	if !quoted.Total.Equal(types.MustParseAmount("12.5")) {
		t.Errorf("quoted round-trip mismatch: %s", quoted.Total)
	}
}

func TestSumAmounts(t *testing.T) {
	got := types.SumAmounts(
		types.NewAmount(1),
		types.MustParseAmount("2.5"),
		types.MustParseAmount("0.5"),
	)
	if !got.Equal(types.NewAmount(4)) {
		t.Errorf("expected 4, got %s", got)
	}

	if !types.SumAmounts().IsZero() {
		t.Error("empty sum should be zero")
	}
}

func TestAmountStringFixed2(t *testing.T) {
	if got := types.NewAmount(4500).StringFixed2(); got != "4500.00" {
		t.Errorf("expected 4500.00, got %s", got)
	}
}
