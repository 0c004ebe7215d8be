package services

import (
	"context"
	"errors"

	"github.com/rhit-reddyap/FitFusion-backend-sub003/models"
	"github.com/rhit-reddyap/FitFusion-backend-sub003/utils"
)

var (
	ErrFoodNotFound        = errors.New("food not found")
	ErrRecognitionDisabled = errors.New("image recognition is not configured")
	ErrNoLabels            = errors.New("no labels detected")
)

// LabelRecognizer turns an image data URI into descriptive labels.
type LabelRecognizer interface {
	RecognizeLabels(ctx context.Context, dataURI string) ([]string, error)
}

type FoodService struct {
	foods  *FoodDataAggregator
	calc   *NutritionCalculator
	units  *UnitSystem
	labels LabelRecognizer
}

// RecognitionResult is the search run for the best image label.
type RecognitionResult struct {
	Labels []string             `json:"labels"`
	Query  string               `json:"query"`
	Result *models.SearchResult `json:"result"`
}

// NutritionPreview is the nutrition of a chosen amount of one food.
type NutritionPreview struct {
	Food      models.NormalizedFoodRecord `json:"food"`
	Quantity  string                      `json:"quantity"`
	Nutrition models.NutritionResult      `json:"nutrition"`
	Warnings  []utils.Warning             `json:"warnings"`
}

// NewFoodService wires the food use cases. labels may be nil, which turns
// Recognize off.
func NewFoodService(foods *FoodDataAggregator, calc *NutritionCalculator, units *UnitSystem, labels LabelRecognizer) *FoodService {
	if units == nil {
		units = NewUnitSystem()
	}
	if calc == nil {
		calc = NewNutritionCalculator(units)
	}
	return &FoodService{foods: foods, calc: calc, units: units, labels: labels}
}

func (s *FoodService) Search(ctx context.Context, query string, page, pageSize int) (*models.SearchResult, error) {
	return s.foods.Search(ctx, query, page, pageSize)
}

func (s *FoodService) Food(ctx context.Context, id string) (*models.NormalizedFoodRecord, error) {
	rec, ok := s.foods.GetByID(ctx, id)
	if !ok {
		return nil, ErrFoodNotFound
	}
	return rec, nil
}

func (s *FoodService) Barcode(ctx context.Context, code string) (*models.NormalizedFoodRecord, error) {
	rec, ok := s.foods.SearchByBarcode(ctx, code)
	if !ok {
		return nil, ErrFoodNotFound
	}
	return rec, nil
}

func (s *FoodService) Popular(ctx context.Context, limit int) []models.NormalizedFoodRecord {
	return s.foods.PopularFoods(ctx, limit)
}

// Servings lists the serving shortcuts for a food, led by its canonical
// serving.
func (s *FoodService) Servings(ctx context.Context, id string) ([]models.FoodServing, error) {
	rec, err := s.Food(ctx, id)
	if err != nil {
		return nil, err
	}
	canonical := models.FoodServing{
		ID:          "canonical",
		Name:        s.units.FormatQuantity(rec.CanonicalServingUnit.ID, rec.CanonicalServingAmount),
		Amount:      rec.CanonicalServingAmount,
		UnitID:      rec.CanonicalServingUnit.ID,
		Description: rec.ServingDescription,
		IsCommon:    true,
	}
	return append([]models.FoodServing{canonical}, s.units.CommonServings(rec.Name)...), nil
}

// Recognize labels the image and searches for the first label.
func (s *FoodService) Recognize(ctx context.Context, dataURI string) (*RecognitionResult, error) {
	if s.labels == nil {
		return nil, ErrRecognitionDisabled
	}
	labels, err := s.labels.RecognizeLabels(ctx, dataURI)
	if err != nil {
		return nil, err
	}
	if len(labels) == 0 {
		return nil, ErrNoLabels
	}
	res, err := s.foods.Search(ctx, labels[0], 1, DefaultPageSize)
	if err != nil {
		return nil, err
	}
	return &RecognitionResult{Labels: labels, Query: labels[0], Result: res}, nil
}

// Preview computes nutrition for amount of unitID of a food, plus guideline
// warnings for that portion.
func (s *FoodService) Preview(ctx context.Context, foodID string, amount float64, unitID string) (*NutritionPreview, error) {
	rec, err := s.Food(ctx, foodID)
	if err != nil {
		return nil, err
	}
	res, err := s.calc.Compute(*rec, amount, unitID)
	if err != nil {
		return nil, err
	}
	return &NutritionPreview{
		Food:      *rec,
		Quantity:  s.units.FormatQuantity(unitID, amount),
		Nutrition: res,
		Warnings:  utils.AssessNutrition(rec.Name, res.NutritionProfile, s.portionGrams(*rec, amount, unitID), utils.AssessmentContext{}),
	}, nil
}

// portionGrams is the weight of the portion, or 0 when it cannot be known.
func (s *FoodService) portionGrams(rec models.NormalizedFoodRecord, amount float64, unitID string) float64 {
	if u, ok := s.units.Lookup(unitID); ok && u.Category == models.CategoryWeight {
		g, err := s.units.Convert(amount, u.ID, "g")
		if err == nil {
			return g
		}
	}
	if rec.ServingGrams <= 0 || rec.CanonicalServingAmount <= 0 {
		return 0
	}
	if unitID == servingUnitID {
		return amount * rec.ServingGrams
	}
	inServingUnit, err := s.units.Convert(amount, unitID, rec.CanonicalServingUnit.ID)
	if err != nil {
		return 0
	}
	return inServingUnit / rec.CanonicalServingAmount * rec.ServingGrams
}
