package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rhit-reddyap/FitFusion-backend-sub003/controllers"
	"github.com/rhit-reddyap/FitFusion-backend-sub003/middlewares"
	"github.com/rhit-reddyap/FitFusion-backend-sub003/services"
)

// Deps is everything the router hands to its controllers.
type Deps struct {
	Units   *services.UnitSystem
	Catalog *services.LocalFoodCatalog
	Foods   *services.FoodService
	Meals   *services.MealService
	Metrics *services.Metrics
	Logger  *zap.Logger
}

func SetupRouter(d Deps) *gin.Engine {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Metrics.Registry(), promhttp.HandlerOpts{})))
	}

	unitCtl := controllers.NewUnitController(d.Units)
	units := r.Group("/units")
	{
		units.GET("", unitCtl.ListUnits)
		units.GET("/:id/compatible", unitCtl.CompatibleUnits)
	}

	foodCtl := controllers.NewFoodController(d.Foods, d.Catalog)
	foods := r.Group("/foods")
	{
		foods.GET("/search", foodCtl.SearchFoods)
		foods.GET("/popular", foodCtl.PopularFoods)
		foods.GET("/catalog", foodCtl.Catalog)
		foods.GET("/barcode/:code", foodCtl.Barcode)
		foods.POST("/recognize", foodCtl.RecognizeFood)
		foods.GET("/:id", foodCtl.GetFood)
		foods.GET("/:id/servings", foodCtl.Servings)
	}

	mealCtl := controllers.NewMealController(d.Foods, d.Meals)
	nutrition := r.Group("/nutrition")
	{
		nutrition.POST("/compute", mealCtl.Compute)
		nutrition.POST("/log", mealCtl.LogMeal)
		nutrition.POST("/summary", mealCtl.Summary)
	}

	return r
}
