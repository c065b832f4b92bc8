package meal_test

import (
	"testing"
	"time"

	"github.com/xraph/messbill/meal"
	"github.com/xraph/messbill/types"
)

func amt(s string) types.Amount { return types.MustParseAmount(s) }

func TestEntryTotal(t *testing.T) {
	tests := []struct {
		name  string
		entry meal.Entry
		want  string
	}{
		{
			"standard three meals",
			meal.Entry{Breakfast: amt("1"), Lunch: amt("1"), Dinner: amt("1")},
			"3",
		},
		{
			"half meals count",
			meal.Entry{Breakfast: amt("0.5"), Lunch: amt("1"), Dinner: amt("0.5")},
			"2",
		},
		{
			"custom meals add on",
			meal.Entry{
				Breakfast:   amt("1"),
				Lunch:       amt("1"),
				Dinner:      amt("1"),
				CustomMeals: []meal.CustomMeal{{Name: "feast", Value: amt("2")}, {Name: "guest", Value: amt("1")}},
			},
			"6",
		},
		{
			"off day zeroes everything",
			meal.Entry{
				Breakfast:   amt("1"),
				Lunch:       amt("1"),
				Dinner:      amt("1"),
				CustomMeals: []meal.CustomMeal{{Name: "feast", Value: amt("2")}},
				Off:         true,
			},
			"0",
		},
		{
			"empty entry",
			meal.Entry{},
			"0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.entry.Total()
			if !got.Equal(amt(tt.want)) {
				t.Errorf("Total: expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestEntryNormalize(t *testing.T) {
	e := meal.Entry{
		Date:      time.Date(2024, time.March, 15, 14, 30, 45, 0, time.UTC),
		Breakfast: amt("1"),
		Lunch:     amt("1"),
		Dinner:    amt("1"),
		Off:       true,
	}

	e.Normalize()

	wantDay := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	if !e.Date.Equal(wantDay) {
		t.Errorf("Date: expected %v, got %v", wantDay, e.Date)
	}
	if !e.Breakfast.IsZero() || !e.Lunch.IsZero() || !e.Dinner.IsZero() {
		t.Error("off day should zero all components")
	}
	if e.CustomMeals != nil {
		t.Error("off day should clear custom meals")
	}
	if !e.Total().IsZero() {
		t.Error("normalized off day should total zero")
	}
}

func TestEntryValidate(t *testing.T) {
	valid := meal.Entry{Breakfast: amt("1"), Lunch: amt("0.5")}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid entry rejected: %v", err)
	}

	negative := meal.Entry{Lunch: amt("-1")}
	if err := negative.Validate(); err == nil {
		t.Error("expected error for negative lunch")
	}

	negativeCustom := meal.Entry{CustomMeals: []meal.CustomMeal{{Name: "feast", Value: amt("-2")}}}
	if err := negativeCustom.Validate(); err == nil {
		t.Error("expected error for negative custom meal")
	}
}

func TestDay(t *testing.T) {
	in := time.Date(2024, time.March, 15, 23, 59, 59, 0, time.UTC)
	want := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	if got := meal.Day(in); !got.Equal(want) {
		t.Errorf("Day: expected %v, got %v", want, got)
	}
}
