package models

import (
	"strings"
	"time"
)

// MealType is the slot a log entry belongs to.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// MealTypes lists the valid meal slots in display order.
var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack}

// ParseMealType accepts any casing ("Breakfast", "LUNCH", ...).
func ParseMealType(s string) (MealType, bool) {
	mt := MealType(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range MealTypes {
		if v == mt {
			return mt, true
		}
	}
	return "", false
}

// NutritionResult is a profile scaled to a requested amount.
type NutritionResult struct {
	NutritionProfile
	Amount     float64 `json:"amount"`
	UnitID     string  `json:"unit"`
	BaseAmount float64 `json:"base_amount"` // amount in the base unit used for scaling
	BaseUnitID string  `json:"base_unit"`
}

// FoodLogEntry is the record handed to the log sink. Storing it is the
// sink's concern.
type FoodLogEntry struct {
	ID        string           `json:"id"`
	FoodID    string           `json:"food_id"`
	FoodName  string           `json:"food_name"`
	Amount    float64          `json:"amount"`
	UnitID    string           `json:"unit"`
	MealType  MealType         `json:"meal_type"`
	LoggedAt  time.Time        `json:"logged_at"`
	Nutrition NutritionProfile `json:"nutrition"`
}
