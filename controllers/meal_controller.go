package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rhit-reddyap/FitFusion-backend-sub003/models"
	"github.com/rhit-reddyap/FitFusion-backend-sub003/services"
)

type MealController struct {
	foods *services.FoodService
	meals *services.MealService
}

func NewMealController(foods *services.FoodService, meals *services.MealService) *MealController {
	return &MealController{foods: foods, meals: meals}
}

type portionRequest struct {
	FoodID string  `json:"food_id" binding:"required"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit" binding:"required"`
}

// POST /nutrition/compute {food_id, amount, unit}
func (mc *MealController) Compute(c *gin.Context) {
	var body portionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	out, err := mc.foods.Preview(c.Request.Context(), body.FoodID, body.Amount, body.Unit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// POST /nutrition/log {food_id, amount, unit, meal_type}
func (mc *MealController) LogMeal(c *gin.Context) {
	var body struct {
		portionRequest
		MealType string `json:"meal_type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entry, err := mc.meals.LogEntry(c.Request.Context(), body.FoodID, body.Amount, body.Unit, body.MealType)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// POST /nutrition/summary {entries, goal}
func (mc *MealController) Summary(c *gin.Context) {
	var body struct {
		Entries []models.FoodLogEntry `json:"entries"`
		Goal    *models.DailyGoal     `json:"goal"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, mc.meals.Summarize(body.Entries, body.Goal))
}
