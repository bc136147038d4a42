package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"backend/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRespondDomainErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", domain.ValidationError{Field: "trip_id", Msg: "id tidak valid"}, http.StatusBadRequest},
		{"not found", domain.NotFoundError{Resource: "trip"}, http.StatusNotFound},
		{"insufficient capacity", domain.InsufficientCapacityError{TripID: 3, Requested: 4, Available: 1}, http.StatusConflict},
		{"invalid segment", domain.InvalidSegmentError{Route: 7, Waypoint: "Puebla"}, http.StatusUnprocessableEntity},
		{"concurrent modification", domain.ConcurrentModificationError{TripID: 3}, http.StatusConflict},
		{"conflict", domain.ConflictError{Resource: "reservation", Msg: "sudah dibatalkan"}, http.StatusConflict},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			RespondDomainError(c, tc.err)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestRespondDomainErrorHidesInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	RespondDomainError(c, errors.New("dsn password leaked"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "dsn password")
	assert.Contains(t, w.Body.String(), "terjadi kesalahan")
}
