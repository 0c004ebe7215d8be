package services

import (
	"errors"
	"fmt"
	"math"

	"github.com/rhit-reddyap/FitFusion-backend-sub003/models"
)

// ErrInvalidServing is returned for records whose canonical serving cannot
// be used as a scaling basis.
var ErrInvalidServing = errors.New("invalid canonical serving")

// ErrInvalidAmount is returned for NaN or infinite amounts.
var ErrInvalidAmount = errors.New("amount must be a finite number")

// servingUnitID is the unit that always means "one canonical serving of
// this record", whatever the record's serving unit is.
const servingUnitID = "serving"

// displayDecimals is the rounding applied by Compute.
const displayDecimals = 1

// NutritionCalculator scales a record's nutrients to a requested amount.
type NutritionCalculator struct {
	units *UnitSystem
}

func NewNutritionCalculator(units *UnitSystem) *NutritionCalculator {
	if units == nil {
		units = NewUnitSystem()
	}
	return &NutritionCalculator{units: units}
}

// Compute scales rec to amount of unitID and rounds every field to one
// decimal place, so results are proportional to amount only to within the
// rounding step. See ComputeExact for unrounded values and the conversion
// rules.
func (c *NutritionCalculator) Compute(rec models.NormalizedFoodRecord, amount float64, unitID string) (models.NutritionResult, error) {
	res, err := c.ComputeExact(rec, amount, unitID)
	if err != nil {
		return res, err
	}
	res.NutritionProfile = res.NutritionProfile.Round(displayDecimals)
	return res, nil
}

// ComputeExact scales rec to amount of unitID without rounding.
//
// The requested unit must share a category with the record's serving unit,
// or be a weight unit when the record knows its serving gram weight, or be
// "serving". Anything else is an *IncompatibleUnitError. Amounts <= 0 give
// an all-zero result; NaN and infinities are ErrInvalidAmount.
func (c *NutritionCalculator) ComputeExact(rec models.NormalizedFoodRecord, amount float64, unitID string) (models.NutritionResult, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return models.NutritionResult{}, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	requestBase, unit, err := c.units.ToBase(amount, unitID)
	if err != nil {
		return models.NutritionResult{}, err
	}
	serving, err := c.servingUnit(rec)
	if err != nil {
		return models.NutritionResult{}, err
	}

	var servingBase float64
	var baseUnit models.Unit
	switch {
	case unit.ID == servingUnitID:
		baseUnit, _ = c.units.BaseUnit(serving.Category)
		servingBase = rec.CanonicalServingAmount * serving.BaseMultiplier
		requestBase = amount * servingBase
	case unit.SameCategory(serving):
		baseUnit, _ = c.units.BaseUnit(serving.Category)
		servingBase = rec.CanonicalServingAmount * serving.BaseMultiplier
	case rec.ServingGrams > 0 && unit.Category == models.CategoryWeight:
		baseUnit, _ = c.units.BaseUnit(models.CategoryWeight)
		servingBase = rec.ServingGrams
	default:
		return models.NutritionResult{}, &IncompatibleUnitError{From: unit, To: serving}
	}

	res := models.NutritionResult{
		Amount:     amount,
		UnitID:     unit.ID,
		BaseUnitID: baseUnit.ID,
	}
	if amount <= 0 {
		return res, nil
	}
	res.BaseAmount = requestBase
	rate := rec.Nutrients.Scale(1 / servingBase)
	res.NutritionProfile = rate.Scale(requestBase)
	return res, nil
}

// servingUnit resolves the record's serving unit against the registry so a
// stale multiplier on the record cannot skew the math.
func (c *NutritionCalculator) servingUnit(rec models.NormalizedFoodRecord) (models.Unit, error) {
	if rec.CanonicalServingAmount <= 0 {
		return models.Unit{}, fmt.Errorf("%w: amount %v for %q", ErrInvalidServing, rec.CanonicalServingAmount, rec.ID)
	}
	if u, ok := c.units.Lookup(rec.CanonicalServingUnit.ID); ok {
		return u, nil
	}
	if rec.CanonicalServingUnit.BaseMultiplier <= 0 {
		return models.Unit{}, fmt.Errorf("%w: unit %q for %q", ErrInvalidServing, rec.CanonicalServingUnit.ID, rec.ID)
	}
	return rec.CanonicalServingUnit, nil
}

// Sum adds profiles field by field. No profiles yields the zero profile.
// The result does not depend on argument order.
func (c *NutritionCalculator) Sum(profiles ...models.NutritionProfile) models.NutritionProfile {
	return SumProfiles(profiles...)
}

func SumProfiles(profiles ...models.NutritionProfile) models.NutritionProfile {
	return models.SumProfiles(profiles...)
}
