package services

import (
	"strings"

	"github.com/rhit-reddyap/FitFusion-backend-sub003/models"
)

// FallbackRule maps a name keyword to an estimated profile per 100 g.
type FallbackRule struct {
	Keyword string
	Profile models.NutritionProfile
}

// defaultFallbackKeyword labels the catch-all profile in metrics.
const defaultFallbackKeyword = "default"

// FallbackRules is checked top to bottom; the first keyword contained in the
// food name wins, so order matters.
var FallbackRules = []FallbackRule{
	{Keyword: "chicken", Profile: models.NutritionProfile{Calories: 165, Protein: 31, Carbs: 0, Fat: 3.6, Fiber: 0, Sugar: 0, Sodium: 74}},
	{Keyword: "beef", Profile: models.NutritionProfile{Calories: 250, Protein: 26, Carbs: 0, Fat: 15, Fiber: 0, Sugar: 0, Sodium: 72}},
	{Keyword: "rice", Profile: models.NutritionProfile{Calories: 130, Protein: 2.7, Carbs: 28, Fat: 0.3, Fiber: 0.4, Sugar: 0.1, Sodium: 1}},
}

// DefaultFallbackProfile is used when no keyword matches.
var DefaultFallbackProfile = models.NutritionProfile{Calories: 100, Protein: 5, Carbs: 15, Fat: 2, Fiber: 2, Sugar: 5, Sodium: 50}

// FallbackProfile picks the estimated profile for a food name and reports
// which keyword matched.
func FallbackProfile(name string) (models.NutritionProfile, string) {
	lower := strings.ToLower(name)
	for _, r := range FallbackRules {
		if strings.Contains(lower, r.Keyword) {
			return r.Profile, r.Keyword
		}
	}
	return DefaultFallbackProfile, defaultFallbackKeyword
}

// applyFallback swaps in the keyword profile when the provider gave no core
// macros. Only the fields the fallback table knows about are replaced;
// provider micronutrients are kept. The record is marked unverified.
func applyFallback(rec models.NormalizedFoodRecord) (models.NormalizedFoodRecord, string, bool) {
	if rec.Nutrients.HasCoreMacros() {
		return rec, "", false
	}
	fb, keyword := FallbackProfile(rec.Name)
	n := rec.Nutrients
	n.Calories = fb.Calories
	n.Protein = fb.Protein
	n.Carbs = fb.Carbs
	n.Fat = fb.Fat
	n.Fiber = fb.Fiber
	n.Sugar = fb.Sugar
	n.Sodium = fb.Sodium
	rec.Nutrients = n
	rec.Verified = false
	return rec, keyword, true
}
