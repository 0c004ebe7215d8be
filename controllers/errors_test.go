package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rhit-reddyap/FitFusion-backend-sub003/models"
	"github.com/rhit-reddyap/FitFusion-backend-sub003/services"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{&services.IncompatibleUnitError{From: models.Unit{ID: "cup"}, To: models.Unit{ID: "g"}}, http.StatusBadRequest},
		{fmt.Errorf("%w: %q", services.ErrUnknownUnit, "parsec"), http.StatusBadRequest},
		{services.ErrEmptyQuery, http.StatusBadRequest},
		{services.ErrInvalidServing, http.StatusBadRequest},
		{fmt.Errorf("%w: NaN", services.ErrInvalidAmount), http.StatusBadRequest},
		{services.ErrInvalidMealType, http.StatusBadRequest},
		{services.ErrInvalidImage, http.StatusBadRequest},
		{services.ErrFoodNotFound, http.StatusNotFound},
		{services.ErrNoLabels, http.StatusUnprocessableEntity},
		{services.ErrRecognitionDisabled, http.StatusServiceUnavailable},
		{errors.New("rekognition: throttled"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}
