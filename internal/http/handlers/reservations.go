package handlers

import (
	"net/http"
	"strings"

	"backend/internal/domain/models"
	"backend/internal/http/middleware"
	"backend/internal/services"

	"github.com/gin-gonic/gin"
)

type createReservationRequest struct {
	TripID      int64              `json:"trip_id"`
	TotalAmount int64              `json:"total_amount"`
	Passengers  []models.Passenger `json:"passengers"`
}

// POST /api/reservations
func CreateReservation(c *gin.Context) {
	var req createReservationRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	svc := services.ReservationService{RequestID: middleware.GetRequestID(c)}
	res, err := svc.CreateReservation(c.Request.Context(), req.TripID, req.Passengers, req.TotalAmount)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// GET /api/reservations/:id
func GetReservation(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	svc := services.ReservationService{RequestID: middleware.GetRequestID(c)}
	res, err := svc.GetReservation(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// PUT /api/reservations/:id/cancel?refund=true
func CancelReservation(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	refund := strings.EqualFold(strings.TrimSpace(c.Query("refund")), "true")

	svc := services.ReservationService{RequestID: middleware.GetRequestID(c)}
	res, err := svc.CancelReservation(c.Request.Context(), id, refund)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type transferReservationRequest struct {
	TripID int64 `json:"trip_id"`
}

// POST /api/reservations/:id/transfer
func TransferReservation(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	var req transferReservationRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	svc := services.ReservationService{RequestID: middleware.GetRequestID(c)}
	res, err := svc.TransferReservation(c.Request.Context(), id, req.TripID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}
