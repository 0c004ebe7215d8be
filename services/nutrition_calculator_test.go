package services

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhit-reddyap/FitFusion-backend-sub003/models"
)

func mustUnit(t *testing.T, id string) models.Unit {
	t.Helper()
	u, ok := NewUnitSystem().Lookup(id)
	require.True(t, ok, id)
	return u
}

func chickenRecord(t *testing.T) models.NormalizedFoodRecord {
	return models.NormalizedFoodRecord{
		ID:                     "chicken",
		Name:                   "Chicken Breast",
		CanonicalServingAmount: 113,
		CanonicalServingUnit:   mustUnit(t, "g"),
		ServingGrams:           113,
		Nutrients:              models.NutritionProfile{Calories: 185, Protein: 35, Fat: 4, Sodium: 84},
		Source:                 models.SourceLocal,
		Verified:               true,
	}
}

func bananaRecord(t *testing.T) models.NormalizedFoodRecord {
	return models.NormalizedFoodRecord{
		ID:                     "banana",
		Name:                   "Banana",
		CanonicalServingAmount: 1,
		CanonicalServingUnit:   mustUnit(t, "piece"),
		ServingGrams:           118,
		Nutrients:              models.NutritionProfile{Calories: 105, Protein: 1.3, Carbs: 27, Fat: 0.4, Fiber: 3, Sugar: 14},
	}
}

func TestNutritionCalculator_Compute_SameUnit(t *testing.T) {
	calc := NewNutritionCalculator(nil)

	res, err := calc.Compute(chickenRecord(t), 113, "g")
	require.NoError(t, err)
	assert.Equal(t, 185.0, res.Calories)
	assert.Equal(t, 35.0, res.Protein)
	assert.Equal(t, "g", res.BaseUnitID)
	assert.Equal(t, 113.0, res.BaseAmount)
}

func TestNutritionCalculator_Compute_CrossUnitWeight(t *testing.T) {
	calc := NewNutritionCalculator(nil)

	// 8 oz of a 113 g serving
	res, err := calc.Compute(chickenRecord(t), 8, "oz")
	require.NoError(t, err)
	assert.InDelta(t, 185*8*28.3495/113, res.Calories, 0.05)
	assert.InDelta(t, 371.3, res.Calories, 0.1)
	assert.Equal(t, "oz", res.UnitID)
}

func TestNutritionCalculator_Compute_PieceAndServing(t *testing.T) {
	calc := NewNutritionCalculator(nil)
	banana := bananaRecord(t)

	res, err := calc.Compute(banana, 2, "piece")
	require.NoError(t, err)
	assert.Equal(t, 210.0, res.Calories)
	assert.Equal(t, 54.0, res.Carbs)

	res, err = calc.Compute(banana, 59, "g")
	require.NoError(t, err)
	assert.InDelta(t, 52.5, res.Calories, 0.05)

	res, err = calc.Compute(chickenRecord(t), 2, "serving")
	require.NoError(t, err)
	assert.Equal(t, 370.0, res.Calories)
}

func TestNutritionCalculator_Compute_Incompatible(t *testing.T) {
	calc := NewNutritionCalculator(nil)

	_, err := calc.Compute(bananaRecord(t), 1, "cup")
	var incompatible *IncompatibleUnitError
	require.True(t, errors.As(err, &incompatible))
	assert.Equal(t, "cup", incompatible.From.ID)
	assert.Equal(t, "piece", incompatible.To.ID)

	// the unit check runs before the zero-amount shortcut
	_, err = calc.Compute(chickenRecord(t), 0, "cup")
	assert.True(t, errors.As(err, &incompatible))

	noGrams := bananaRecord(t)
	noGrams.ServingGrams = 0
	_, err = calc.Compute(noGrams, 100, "g")
	assert.True(t, errors.As(err, &incompatible))
}

func TestNutritionCalculator_Compute_NonPositiveAmount(t *testing.T) {
	calc := NewNutritionCalculator(nil)
	for _, amount := range []float64{0, -5} {
		res, err := calc.Compute(chickenRecord(t), amount, "g")
		require.NoError(t, err)
		assert.True(t, res.NutritionProfile.IsZero())
		assert.Equal(t, "g", res.BaseUnitID)
	}
}

func TestNutritionCalculator_Compute_NonFiniteAmount(t *testing.T) {
	calc := NewNutritionCalculator(nil)
	for _, amount := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := calc.Compute(chickenRecord(t), amount, "g")
		assert.ErrorIs(t, err, ErrInvalidAmount)

		_, err = calc.ComputeExact(bananaRecord(t), amount, "serving")
		assert.ErrorIs(t, err, ErrInvalidAmount)
	}
}

func TestNutritionCalculator_Compute_Errors(t *testing.T) {
	calc := NewNutritionCalculator(nil)

	_, err := calc.Compute(chickenRecord(t), 1, "handful")
	assert.ErrorIs(t, err, ErrUnknownUnit)

	bad := chickenRecord(t)
	bad.CanonicalServingAmount = 0
	_, err = calc.Compute(bad, 1, "g")
	assert.ErrorIs(t, err, ErrInvalidServing)

	custom := chickenRecord(t)
	custom.CanonicalServingUnit = models.Unit{ID: "scoop", Category: models.CategoryVolume}
	_, err = calc.Compute(custom, 1, "ml")
	assert.ErrorIs(t, err, ErrInvalidServing)
}

// ComputeExact scales exactly; Compute only to within its one-decimal
// rounding step.
func TestNutritionCalculator_Proportional(t *testing.T) {
	calc := NewNutritionCalculator(nil)
	rec := chickenRecord(t)

	one, err := calc.ComputeExact(rec, 3, "oz")
	require.NoError(t, err)
	two, err := calc.ComputeExact(rec, 6, "oz")
	require.NoError(t, err)
	assert.InDelta(t, 2*one.Calories, two.Calories, 1e-9)
	assert.InDelta(t, 2*one.Protein, two.Protein, 1e-9)

	r1, err := calc.Compute(rec, 3, "oz")
	require.NoError(t, err)
	r2, err := calc.Compute(rec, 6, "oz")
	require.NoError(t, err)
	assert.InDelta(t, 2*r1.Calories, r2.Calories, 0.1)
}

func TestNutritionCalculator_Compute_RoundsToOneDecimal(t *testing.T) {
	calc := NewNutritionCalculator(nil)
	res, err := calc.Compute(chickenRecord(t), 7.3, "oz")
	require.NoError(t, err)
	for _, v := range []float64{res.Calories, res.Protein, res.Fat, res.Sodium} {
		assert.InDelta(t, math.Round(v*10), v*10, 1e-6)
	}
}

func TestNutritionCalculator_Sum(t *testing.T) {
	calc := NewNutritionCalculator(nil)

	assert.True(t, calc.Sum().IsZero())

	total := calc.Sum(
		models.NutritionProfile{Calories: 100, Protein: 5, Iron: 1},
		models.NutritionProfile{Calories: 50.5, Fat: 2, Iron: 0.5},
	)
	assert.Equal(t, 150.5, total.Calories)
	assert.Equal(t, 5.0, total.Protein)
	assert.Equal(t, 2.0, total.Fat)
	assert.Equal(t, 1.5, total.Iron)
}

func TestNutritionCalculator_Sum_OrderIndependent(t *testing.T) {
	calc := NewNutritionCalculator(nil)
	ps := []models.NutritionProfile{
		{Calories: 0.1, Protein: 1e16, Sodium: 0.7},
		{Calories: 0.2, Protein: 1, Sodium: 0.3},
		{Calories: 0.3, Protein: -1e16, Sodium: 1.1},
		{Calories: 1e-3, Protein: 3, Iron: 0.15},
	}

	want := calc.Sum(ps...)
	for _, perm := range permutations(ps) {
		assert.Equal(t, want, calc.Sum(perm...))
	}
	assert.InDelta(t, 0.601, want.Calories, 1e-12)

	a, b, c := ps[0], ps[1], ps[2]
	left := calc.Sum(calc.Sum(a, b), c)
	right := calc.Sum(a, calc.Sum(b, c))
	assert.InDelta(t, left.Calories, right.Calories, 1e-9)
	assert.InDelta(t, left.Sodium, right.Sodium, 1e-9)
}

func permutations(ps []models.NutritionProfile) [][]models.NutritionProfile {
	if len(ps) <= 1 {
		return [][]models.NutritionProfile{append([]models.NutritionProfile(nil), ps...)}
	}
	var out [][]models.NutritionProfile
	for i := range ps {
		rest := make([]models.NutritionProfile, 0, len(ps)-1)
		rest = append(rest, ps[:i]...)
		rest = append(rest, ps[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]models.NutritionProfile{ps[i]}, p...))
		}
	}
	return out
}
