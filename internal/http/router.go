package api

import (
	"log"
	stdhttp "net/http"
	"time"

	intconfig "backend/internal/config"
	h "backend/internal/http/handlers"
	"backend/internal/http/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), cors.New(corsConfig(env)))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route tidak ditemukan",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		// Routes & sellable segments
		routes := api.Group("/routes")
		routes.GET("", h.GetRoutes)
		routes.POST("", h.CreateRoute)
		routes.GET("/:id", h.GetRouteByID)
		routes.GET("/:id/segments", h.GetRouteSegments)

		// Trips (main + sub-trip hierarchy)
		trips := api.Group("/trips")
		trips.GET("", h.GetTrips)
		trips.POST("", h.PublishTrip)
		trips.GET("/search", h.SearchTrips)
		trips.GET("/:id", h.GetTripByID)

		// Reservations
		reservations := api.Group("/reservations")
		reservations.POST("", h.CreateReservation)
		reservations.GET("/:id", h.GetReservation)
		reservations.PUT("/:id/cancel", h.CancelReservation)
		reservations.POST("/:id/transfer", h.TransferReservation)
	}

	return r
}

func corsConfig(env intconfig.Env) cors.Config {
	cfg := cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}
	if len(env.CORSOrigins) > 0 {
		cfg.AllowOrigins = env.CORSOrigins
	}
	return cfg
}
