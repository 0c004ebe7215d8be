package models

// DailyGoal holds daily nutrient-intake targets. Zero means "no target".
type DailyGoal struct {
	Calories float64 `json:"calories"` // e.g. 2200 kcal
	Protein  float64 `json:"protein"`  // e.g. 120 g
	Carbs    float64 `json:"carbs"`    // e.g. 275 g
	Fat      float64 `json:"fat"`      // e.g. 70 g
	Sodium   float64 `json:"sodium"`   // e.g. 2300 mg
	Sugar    float64 `json:"sugar"`    // e.g. 50 g
}
