package handlers

import (
	"net/http"

	"backend/internal/domain/models"
	"backend/internal/http/middleware"
	"backend/internal/repositories"
	"backend/internal/segments"
	"backend/internal/utils"

	"github.com/gin-gonic/gin"
)

type createRouteRequest struct {
	Origin      string   `json:"origin"`
	Stops       []string `json:"stops"`
	Destination string   `json:"destination"`
}

// POST /api/routes
func CreateRoute(c *gin.Context) {
	var req createRouteRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	origin := utils.NormalizeSpace(req.Origin)
	destination := utils.NormalizeSpace(req.Destination)
	if origin == "" || destination == "" {
		RespondError(c, http.StatusBadRequest, "origin dan destination wajib diisi", nil)
		return
	}

	stops := make([]string, 0, len(req.Stops))
	seen := map[string]bool{origin: true, destination: true}
	for _, s := range req.Stops {
		s = utils.NormalizeSpace(s)
		if s == "" {
			continue
		}
		if seen[s] {
			RespondError(c, http.StatusBadRequest, "waypoint duplikat: "+s, nil)
			return
		}
		seen[s] = true
		stops = append(stops, s)
	}

	repo := repositories.RouteRepository{}
	id, err := repo.CreateRoute(models.Route{
		Origin:      origin,
		Stops:       stops,
		Destination: destination,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "route", "create", origin+" -> "+destination)
	route, err := repo.GetRoute(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, route)
}

// GET /api/routes
func GetRoutes(c *gin.Context) {
	repo := repositories.RouteRepository{}
	routes, err := repo.ListRoutes()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, routes)
}

// GET /api/routes/:id
func GetRouteByID(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	repo := repositories.RouteRepository{}
	route, err := repo.GetRoute(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, route)
}

// GET /api/routes/:id/segments
// The publish UI calls this to let the operator pick which sub-segments to
// sell for a run on this route.
func GetRouteSegments(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	repo := repositories.RouteRepository{}
	route, err := repo.GetRoute(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	gen := segments.Generator{}
	c.JSON(http.StatusOK, gin.H{
		"route_id": route.ID,
		"segments": gen.Generate(route),
	})
}
