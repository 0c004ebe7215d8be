package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/rhit-reddyap/FitFusion-backend-sub003/models"
	"github.com/rhit-reddyap/FitFusion-backend-sub003/utils"
)

var ErrInvalidMealType = errors.New("meal type must be breakfast, lunch, dinner or snack")

type MealService struct {
	foodSvc *FoodService
	now     func() time.Time
}

func NewMealService(fs *FoodService) *MealService {
	return &MealService{foodSvc: fs, now: time.Now}
}

// GoalProgress is consumption against one daily target. Percent is capped
// at 1.
type GoalProgress struct {
	Consumed float64 `json:"consumed"`
	Goal     float64 `json:"goal"`
	Percent  float64 `json:"percent"`
}

// DailySummary aggregates a day's log entries.
type DailySummary struct {
	Entries  int                                         `json:"entries"`
	Totals   models.NutritionProfile                     `json:"totals"`
	ByMeal   map[models.MealType]models.NutritionProfile `json:"by_meal"`
	Warnings []utils.Warning                             `json:"warnings"`
	Progress map[string]GoalProgress                     `json:"progress,omitempty"`
}

// LogEntry resolves the food, computes its nutrition and returns the entry
// ready for storage.
func (s *MealService) LogEntry(ctx context.Context, foodID string, amount float64, unitID, mealType string) (*models.FoodLogEntry, error) {
	mt, ok := models.ParseMealType(mealType)
	if !ok {
		return nil, ErrInvalidMealType
	}
	rec, err := s.foodSvc.Food(ctx, foodID)
	if err != nil {
		return nil, err
	}
	res, err := s.foodSvc.calc.Compute(*rec, amount, unitID)
	if err != nil {
		return nil, err
	}
	return &models.FoodLogEntry{
		ID:        uuid.NewString(),
		FoodID:    rec.ID,
		FoodName:  rec.Name,
		Amount:    amount,
		UnitID:    res.UnitID,
		MealType:  mt,
		LoggedAt:  s.now().UTC(),
		Nutrition: res.NutritionProfile,
	}, nil
}

// Summarize totals entries overall and per meal. Meal types are matched
// case-insensitively; an entry with an unknown type counts toward Totals
// only. goal may be nil.
func (s *MealService) Summarize(entries []models.FoodLogEntry, goal *models.DailyGoal) DailySummary {
	byMeal := make(map[models.MealType]models.NutritionProfile, len(models.MealTypes))
	for _, mt := range models.MealTypes {
		byMeal[mt] = models.NutritionProfile{}
	}
	profiles := make([]models.NutritionProfile, 0, len(entries))
	for _, e := range entries {
		profiles = append(profiles, e.Nutrition)
		if mt, ok := models.ParseMealType(string(e.MealType)); ok {
			byMeal[mt] = byMeal[mt].Add(e.Nutrition)
		}
	}
	for mt, p := range byMeal {
		byMeal[mt] = p.Round(displayDecimals)
	}
	totals := s.foodSvc.calc.Sum(profiles...).Round(displayDecimals)

	summary := DailySummary{
		Entries:  len(entries),
		Totals:   totals,
		ByMeal:   byMeal,
		Warnings: []utils.Warning{},
	}
	if len(entries) > 0 {
		summary.Warnings = utils.AssessNutrition("", totals, 0, utils.AssessmentContextFromGoal(0, goal))
	}
	if goal != nil {
		summary.Progress = goalProgress(totals, *goal)
	}
	return summary
}

func goalProgress(t models.NutritionProfile, g models.DailyGoal) map[string]GoalProgress {
	pct := func(consumed, target float64) float64 {
		if target <= 0 {
			return 0
		}
		p := consumed / target
		if p > 1 {
			return 1
		}
		return p
	}
	row := func(consumed, target float64) GoalProgress {
		return GoalProgress{Consumed: consumed, Goal: target, Percent: pct(consumed, target)}
	}
	return map[string]GoalProgress{
		"calories": row(t.Calories, g.Calories),
		"protein":  row(t.Protein, g.Protein),
		"carbs":    row(t.Carbs, g.Carbs),
		"fat":      row(t.Fat, g.Fat),
		"sodium":   row(t.Sodium, g.Sodium),
		"sugar":    row(t.Sugar, g.Sugar),
	}
}
