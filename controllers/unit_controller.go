package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rhit-reddyap/FitFusion-backend-sub003/models"
	"github.com/rhit-reddyap/FitFusion-backend-sub003/services"
)

type UnitController struct {
	units *services.UnitSystem
}

func NewUnitController(units *services.UnitSystem) *UnitController {
	return &UnitController{units: units}
}

// GET /units?category=weight
func (uc *UnitController) ListUnits(c *gin.Context) {
	if cat := c.Query("category"); cat != "" {
		c.JSON(http.StatusOK, gin.H{"units": uc.units.UnitsByCategory(models.UnitCategory(cat))})
		return
	}
	c.JSON(http.StatusOK, gin.H{"units": uc.units.All()})
}

// GET /units/:id/compatible
func (uc *UnitController) CompatibleUnits(c *gin.Context) {
	id := c.Param("id")
	if _, ok := uc.units.Lookup(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown unit"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"units": uc.units.CompatibleUnits(id)})
}
