package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rhit-reddyap/FitFusion-backend-sub003/services"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	var incompatible *services.IncompatibleUnitError
	switch {
	case errors.As(err, &incompatible),
		errors.Is(err, services.ErrUnknownUnit),
		errors.Is(err, services.ErrEmptyQuery),
		errors.Is(err, services.ErrInvalidServing),
		errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidMealType),
		errors.Is(err, services.ErrInvalidImage):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrFoodNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrNoLabels):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrRecognitionDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
