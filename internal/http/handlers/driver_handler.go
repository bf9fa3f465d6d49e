// README: Driver catalog listing.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxi/internal/modules/matching"
)

type DriverHandler struct {
	matching *matching.Service
}

func NewDriverHandler(matchingSvc *matching.Service) *DriverHandler {
	return &DriverHandler{matching: matchingSvc}
}

type driverResp struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Vehicle       string     `json:"vehicle"`
	Review        reviewResp `json:"review"`
	FarePerKm     float64    `json:"fare_per_km"`
	MinDistanceKm float64    `json:"min_distance_km"`
}

func (h *DriverHandler) List(c *gin.Context) {
	profiles := h.matching.Drivers()
	out := make([]driverResp, 0, len(profiles))
	for _, d := range profiles {
		out = append(out, driverResp{
			ID:            d.ID,
			Name:          d.Name,
			Description:   d.Description,
			Vehicle:       d.Vehicle,
			Review:        reviewResp{Rating: d.Review.Rating, Comment: d.Review.Comment},
			FarePerKm:     d.FarePerKm,
			MinDistanceKm: d.MinDistanceKm,
		})
	}
	writeJSON(c, http.StatusOK, map[string]any{"drivers": out})
}
