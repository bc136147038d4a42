package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"backend/internal/domain/models"
	"backend/internal/http/middleware"
	"backend/internal/repositories"
	"backend/internal/services"
	"backend/internal/utils"

	"github.com/gin-gonic/gin"
)

// dateQuery validates the optional date filter and returns it in canonical
// YYYY-MM-DD form. false means the response was already written.
func dateQuery(c *gin.Context) (string, bool) {
	raw := strings.TrimSpace(c.Query("date"))
	if raw == "" {
		return "", true
	}
	d, err := utils.ParseDate(raw)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "format tanggal tidak valid (YYYY-MM-DD)", nil)
		return "", false
	}
	return utils.FormatDate(d), true
}

type publishTripRequest struct {
	RouteID       int64            `json:"route_id"`
	DepartureDate string           `json:"departure_date"`
	DepartureTime string           `json:"departure_time"`
	ArrivalTime   string           `json:"arrival_time"`
	Capacity      int              `json:"capacity"`
	Segments      []models.Segment `json:"segments"`
}

// POST /api/trips
func PublishTrip(c *gin.Context) {
	var req publishTripRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	svc := services.TripService{RequestID: middleware.GetRequestID(c)}
	hier, err := svc.PublishTrip(c.Request.Context(), services.PublishTripInput{
		RouteID:       req.RouteID,
		DepartureDate: req.DepartureDate,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		Capacity:      req.Capacity,
		Segments:      req.Segments,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, hier)
}

// GET /api/trips?route_id=&date=
func GetTrips(c *gin.Context) {
	var filter repositories.TripFilter
	if raw := strings.TrimSpace(c.Query("route_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			RespondError(c, http.StatusBadRequest, "route_id tidak valid", nil)
			return
		}
		filter.RouteID = id
	}
	date, ok := dateQuery(c)
	if !ok {
		return
	}
	filter.Date = date

	svc := services.TripService{RequestID: middleware.GetRequestID(c)}
	trips, err := svc.ListTrips(filter)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, trips)
}

// GET /api/trips/:id
func GetTripByID(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}

	svc := services.TripService{RequestID: middleware.GetRequestID(c)}
	trip, route, hier, err := svc.GetTripDetail(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"trip":      trip,
		"route":     route,
		"hierarchy": hier,
	})
}

// GET /api/trips/search?origin=&destination=&date=&seats=
func SearchTrips(c *gin.Context) {
	date, ok := dateQuery(c)
	if !ok {
		return
	}
	q := services.SearchQuery{
		Origin:      c.Query("origin"),
		Destination: c.Query("destination"),
		Date:        date,
	}
	if raw := strings.TrimSpace(c.Query("seats")); raw != "" {
		seats, err := strconv.Atoi(raw)
		if err != nil || seats <= 0 {
			RespondError(c, http.StatusBadRequest, "seats tidak valid", nil)
			return
		}
		q.Seats = seats
	}

	svc := services.SearchService{}
	results, err := svc.SearchTrips(q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}
