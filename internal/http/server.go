// README: API gateway; registers HTTP routes and delegates to module services.
package http

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"taxi/internal/http/handlers"
	"taxi/internal/http/middleware"
	"taxi/internal/modules/matching"
	"taxi/internal/modules/ride"
)

type ServerDeps struct {
	Ride        *ride.Service
	Matching    *matching.Service
	Log         logrus.FieldLogger
	CORSOrigins []string
}

type Server struct {
	ride        *ride.Service
	matching    *matching.Service
	log         logrus.FieldLogger
	corsOrigins []string
}

func NewServer(deps ServerDeps) *Server {
	return &Server{
		ride:        deps.Ride,
		matching:    deps.Matching,
		log:         deps.Log,
		corsOrigins: deps.CORSOrigins,
	}
}

func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logging(s.log),
		middleware.Metrics(),
		middleware.Recovery(s.log),
	)
	if len(s.corsOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: s.corsOrigins,
			AllowMethods: []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders: []string{"Content-Type", "Authorization", middleware.RequestIDHeader},
		}))
	}

	rideHandler := handlers.NewRideHandler(s.ride)
	r.POST("/ride/estimate", rideHandler.Estimate)
	r.PATCH("/ride/confirm", rideHandler.Confirm)
	r.GET("/ride/:customer_id", rideHandler.History)

	driverHandler := handlers.NewDriverHandler(s.matching)
	r.GET("/drivers", driverHandler.List)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	return r
}
