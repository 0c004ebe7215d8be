package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rhit-reddyap/FitFusion-backend-sub003/models"
)

// ErrUnknownUnit is returned for unit ids missing from the registry.
var ErrUnknownUnit = errors.New("unknown unit")

// IncompatibleUnitError is returned when two units live in different
// categories and no food-specific conversion is available.
type IncompatibleUnitError struct {
	From models.Unit
	To   models.Unit
}

func (e *IncompatibleUnitError) Error() string {
	return fmt.Sprintf("cannot convert %s (%s) to %s (%s)",
		e.From.ID, e.From.Category, e.To.ID, e.To.Category)
}

// DefaultUnits is the unit registry, grouped by category.
var DefaultUnits = []models.Unit{
	// weight, base g
	{ID: "g", Name: "Grams", Symbol: "g", Category: models.CategoryWeight, BaseMultiplier: 1},
	{ID: "kg", Name: "Kilograms", Symbol: "kg", Category: models.CategoryWeight, BaseMultiplier: 1000},
	{ID: "oz", Name: "Ounces", Symbol: "oz", Category: models.CategoryWeight, BaseMultiplier: 28.3495},
	{ID: "lb", Name: "Pounds", Symbol: "lb", Category: models.CategoryWeight, BaseMultiplier: 453.592},
	{ID: "mg", Name: "Milligrams", Symbol: "mg", Category: models.CategoryWeight, BaseMultiplier: 0.001},

	// volume, base ml
	{ID: "ml", Name: "Milliliters", Symbol: "ml", Category: models.CategoryVolume, BaseMultiplier: 1},
	{ID: "l", Name: "Liters", Symbol: "l", Category: models.CategoryVolume, BaseMultiplier: 1000},
	{ID: "cup", Name: "Cups", Symbol: "cup", Category: models.CategoryVolume, BaseMultiplier: 236.588},
	{ID: "tbsp", Name: "Tablespoons", Symbol: "tbsp", Category: models.CategoryVolume, BaseMultiplier: 14.7868},
	{ID: "tsp", Name: "Teaspoons", Symbol: "tsp", Category: models.CategoryVolume, BaseMultiplier: 4.92892},
	{ID: "fl_oz", Name: "Fluid Ounces", Symbol: "fl oz", Category: models.CategoryVolume, BaseMultiplier: 29.5735},
	{ID: "pint", Name: "Pints", Symbol: "pt", Category: models.CategoryVolume, BaseMultiplier: 473.176},
	{ID: "quart", Name: "Quarts", Symbol: "qt", Category: models.CategoryVolume, BaseMultiplier: 946.353},
	{ID: "gallon", Name: "Gallons", Symbol: "gal", Category: models.CategoryVolume, BaseMultiplier: 3785.41},

	// piece
	{ID: "piece", Name: "Piece", Symbol: "pc", Category: models.CategoryPiece, BaseMultiplier: 1},
	{ID: "slice", Name: "Slice", Symbol: "slice", Category: models.CategoryPiece, BaseMultiplier: 1},
	{ID: "serving", Name: "Serving", Symbol: "serving", Category: models.CategoryPiece, BaseMultiplier: 1},

	// length, base cm
	{ID: "cm", Name: "Centimeters", Symbol: "cm", Category: models.CategoryLength, BaseMultiplier: 1},
	{ID: "inch", Name: "Inches", Symbol: "in", Category: models.CategoryLength, BaseMultiplier: 2.54},
}

// baseUnitIDs maps each category to the id of its base unit.
var baseUnitIDs = map[models.UnitCategory]string{
	models.CategoryWeight: "g",
	models.CategoryVolume: "ml",
	models.CategoryPiece:  "piece",
	models.CategoryLength: "cm",
}

// UnitSystem is a read-only unit registry. It is safe for concurrent use.
type UnitSystem struct {
	units []models.Unit
	byID  map[string]models.Unit
}

func NewUnitSystem() *UnitSystem {
	return NewUnitSystemWith(DefaultUnits)
}

// NewUnitSystemWith builds a registry from a custom table. Later duplicates
// of an id are ignored.
func NewUnitSystemWith(units []models.Unit) *UnitSystem {
	us := &UnitSystem{byID: make(map[string]models.Unit, len(units))}
	for _, u := range units {
		if _, dup := us.byID[u.ID]; dup {
			continue
		}
		us.units = append(us.units, u)
		us.byID[u.ID] = u
	}
	return us
}

// Lookup resolves a unit id. Ids are matched case-insensitively.
func (us *UnitSystem) Lookup(id string) (models.Unit, bool) {
	if u, ok := us.byID[id]; ok {
		return u, true
	}
	u, ok := us.byID[strings.ToLower(strings.TrimSpace(id))]
	return u, ok
}

func (us *UnitSystem) resolve(id string) (models.Unit, error) {
	u, ok := us.Lookup(id)
	if !ok {
		return models.Unit{}, fmt.Errorf("%w: %q", ErrUnknownUnit, id)
	}
	return u, nil
}

// BaseUnit returns the base unit of a category.
func (us *UnitSystem) BaseUnit(c models.UnitCategory) (models.Unit, bool) {
	id, ok := baseUnitIDs[c]
	if !ok {
		return models.Unit{}, false
	}
	return us.Lookup(id)
}

// Convert converts value between two units of the same category.
func (us *UnitSystem) Convert(value float64, fromID, toID string) (float64, error) {
	from, err := us.resolve(fromID)
	if err != nil {
		return 0, err
	}
	to, err := us.resolve(toID)
	if err != nil {
		return 0, err
	}
	if !from.SameCategory(to) {
		return 0, &IncompatibleUnitError{From: from, To: to}
	}
	return value * from.BaseMultiplier / to.BaseMultiplier, nil
}

// ToBase converts value into the base unit of the unit's category.
func (us *UnitSystem) ToBase(value float64, id string) (float64, models.Unit, error) {
	u, err := us.resolve(id)
	if err != nil {
		return 0, models.Unit{}, err
	}
	return value * u.BaseMultiplier, u, nil
}

// CompatibleUnits returns every unit sharing id's category, in registry
// order. Unknown ids yield an empty slice.
func (us *UnitSystem) CompatibleUnits(id string) []models.Unit {
	u, ok := us.Lookup(id)
	if !ok {
		return []models.Unit{}
	}
	return us.UnitsByCategory(u.Category)
}

func (us *UnitSystem) UnitsByCategory(c models.UnitCategory) []models.Unit {
	out := []models.Unit{}
	for _, u := range us.units {
		if u.Category == c {
			out = append(out, u)
		}
	}
	return out
}

// All returns a copy of the registry.
func (us *UnitSystem) All() []models.Unit {
	out := make([]models.Unit, len(us.units))
	copy(out, us.units)
	return out
}

// FormatQuantity pluralizes the unit symbol: "g" for 1, "gs" otherwise,
// including 0.
func (us *UnitSystem) FormatQuantity(id string, amount float64) string {
	u, ok := us.Lookup(id)
	if !ok {
		return id
	}
	if amount == 1 {
		return u.Symbol
	}
	return u.Symbol + "s"
}

type servingGroup struct {
	key      string
	servings []models.FoodServing
}

// commonServings is ordered so partial matches are deterministic.
var commonServings = []servingGroup{
	{"chicken breast", []models.FoodServing{
		{ID: "100g", Name: "100g", Amount: 100, UnitID: "g", Description: "Standard portion", IsCommon: true},
		{ID: "4oz", Name: "4 oz", Amount: 4, UnitID: "oz", Description: "Small breast", IsCommon: true},
		{ID: "6oz", Name: "6 oz", Amount: 6, UnitID: "oz", Description: "Medium breast", IsCommon: true},
		{ID: "8oz", Name: "8 oz", Amount: 8, UnitID: "oz", Description: "Large breast", IsCommon: true},
	}},
	{"banana", []models.FoodServing{
		{ID: "1medium", Name: "1 medium", Amount: 1, UnitID: "piece", Description: "7-8 inches", IsCommon: true},
		{ID: "1small", Name: "1 small", Amount: 1, UnitID: "piece", Description: "6 inches", IsCommon: true},
		{ID: "1large", Name: "1 large", Amount: 1, UnitID: "piece", Description: "8-9 inches", IsCommon: true},
		{ID: "100g", Name: "100g", Amount: 100, UnitID: "g", Description: "Sliced"},
	}},
	{"rice", []models.FoodServing{
		{ID: "1cup", Name: "1 cup", Amount: 1, UnitID: "cup", Description: "Cooked", IsCommon: true},
		{ID: "0.5cup", Name: "1/2 cup", Amount: 0.5, UnitID: "cup", Description: "Cooked", IsCommon: true},
		{ID: "100g", Name: "100g", Amount: 100, UnitID: "g", Description: "Cooked", IsCommon: true},
		{ID: "1serving", Name: "1 serving", Amount: 1, UnitID: "serving", Description: "Package serving", IsCommon: true},
	}},
	{"milk", []models.FoodServing{
		{ID: "1cup", Name: "1 cup", Amount: 1, UnitID: "cup", Description: "8 fl oz", IsCommon: true},
		{ID: "250ml", Name: "250ml", Amount: 250, UnitID: "ml", Description: "Standard glass", IsCommon: true},
		{ID: "1pint", Name: "1 pint", Amount: 1, UnitID: "pint", Description: "16 fl oz", IsCommon: true},
	}},
	{"bread", []models.FoodServing{
		{ID: "1slice", Name: "1 slice", Amount: 1, UnitID: "slice", Description: "Standard slice", IsCommon: true},
		{ID: "2slices", Name: "2 slices", Amount: 2, UnitID: "slice", Description: "Sandwich", IsCommon: true},
		{ID: "100g", Name: "100g", Amount: 100, UnitID: "g", Description: "Weight"},
	}},
}

var defaultServings = []models.FoodServing{
	{ID: "100g", Name: "100g", Amount: 100, UnitID: "g", IsCommon: true},
	{ID: "1serving", Name: "1 serving", Amount: 1, UnitID: "serving", IsCommon: true},
	{ID: "1cup", Name: "1 cup", Amount: 1, UnitID: "cup", IsCommon: true},
}

// CommonServings returns serving shortcuts for a food name: exact match
// first, then the first group whose key contains or is contained in the
// name, else a generic set.
func (us *UnitSystem) CommonServings(foodName string) []models.FoodServing {
	name := strings.ToLower(strings.TrimSpace(foodName))
	for _, g := range commonServings {
		if g.key == name {
			return cloneServings(g.servings)
		}
	}
	if name != "" {
		for _, g := range commonServings {
			if strings.Contains(name, g.key) || strings.Contains(g.key, name) {
				return cloneServings(g.servings)
			}
		}
	}
	return cloneServings(defaultServings)
}

func cloneServings(in []models.FoodServing) []models.FoodServing {
	out := make([]models.FoodServing, len(in))
	copy(out, in)
	return out
}
