package services

import (
	"strings"

	"github.com/rhit-reddyap/FitFusion-backend-sub003/models"
)

// nutrientField selects one slot of a NutritionProfile.
type nutrientField func(*models.NutritionProfile) *float64

var (
	fieldCalories     nutrientField = func(p *models.NutritionProfile) *float64 { return &p.Calories }
	fieldProtein      nutrientField = func(p *models.NutritionProfile) *float64 { return &p.Protein }
	fieldCarbs        nutrientField = func(p *models.NutritionProfile) *float64 { return &p.Carbs }
	fieldFat          nutrientField = func(p *models.NutritionProfile) *float64 { return &p.Fat }
	fieldFiber        nutrientField = func(p *models.NutritionProfile) *float64 { return &p.Fiber }
	fieldSugar        nutrientField = func(p *models.NutritionProfile) *float64 { return &p.Sugar }
	fieldSodium       nutrientField = func(p *models.NutritionProfile) *float64 { return &p.Sodium }
	fieldCholesterol  nutrientField = func(p *models.NutritionProfile) *float64 { return &p.Cholesterol }
	fieldSaturatedFat nutrientField = func(p *models.NutritionProfile) *float64 { return &p.SaturatedFat }
	fieldTransFat     nutrientField = func(p *models.NutritionProfile) *float64 { return &p.TransFat }
	fieldPotassium    nutrientField = func(p *models.NutritionProfile) *float64 { return &p.Potassium }
	fieldCalcium      nutrientField = func(p *models.NutritionProfile) *float64 { return &p.Calcium }
	fieldIron         nutrientField = func(p *models.NutritionProfile) *float64 { return &p.Iron }
	fieldVitaminA     nutrientField = func(p *models.NutritionProfile) *float64 { return &p.VitaminA }
	fieldVitaminC     nutrientField = func(p *models.NutritionProfile) *float64 { return &p.VitaminC }
)

// splitList turns "a, b,,c" into [a b c].
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
