package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rhit-reddyap/FitFusion-backend-sub003/services"
)

type FoodController struct {
	foods   *services.FoodService
	catalog *services.LocalFoodCatalog
}

func NewFoodController(foods *services.FoodService, catalog *services.LocalFoodCatalog) *FoodController {
	return &FoodController{foods: foods, catalog: catalog}
}

// GET /foods/search?q=apple&page=1&page_size=20
func (fc *FoodController) SearchFoods(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("page_size"))
	out, err := fc.foods.Search(c.Request.Context(), c.Query("q"), page, size)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /foods/popular?limit=10
func (fc *FoodController) PopularFoods(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	c.JSON(http.StatusOK, gin.H{"foods": fc.foods.Popular(c.Request.Context(), limit)})
}

// GET /foods/catalog?category=Fruits&q=apple
func (fc *FoodController) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": fc.catalog.Categories(),
		"foods":      fc.catalog.Search(c.Query("q"), c.Query("category")),
	})
}

// GET /foods/barcode/:code
func (fc *FoodController) Barcode(c *gin.Context) {
	rec, err := fc.foods.Barcode(c.Request.Context(), c.Param("code"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// GET /foods/:id
func (fc *FoodController) GetFood(c *gin.Context) {
	rec, err := fc.foods.Food(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// GET /foods/:id/servings
func (fc *FoodController) Servings(c *gin.Context) {
	servings, err := fc.foods.Servings(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"servings": servings})
}

// POST /foods/recognize  { "image_base64": "data:…"}
func (fc *FoodController) RecognizeFood(c *gin.Context) {
	var req struct {
		ImageBase64 string `json:"image_base64" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	out, err := fc.foods.Recognize(c.Request.Context(), req.ImageBase64)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
