// README: Ride handlers for estimate, confirm and history.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"taxi/internal/modules/ride"
)

type RideHandler struct {
	ride *ride.Service
}

func NewRideHandler(svc *ride.Service) *RideHandler {
	return &RideHandler{ride: svc}
}

type estimateReq struct {
	CustomerID  string `json:"customer_id"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

type coordinateResp struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type reviewResp struct {
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment"`
}

type optionResp struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Vehicle     string     `json:"vehicle"`
	Review      reviewResp `json:"review"`
	Value       float64    `json:"value"`
}

type estimateResp struct {
	Origin        coordinateResp  `json:"origin"`
	Destination   coordinateResp  `json:"destination"`
	Distance      int             `json:"distance"`
	Duration      string          `json:"duration"`
	Options       []optionResp    `json:"options"`
	RouteResponse json.RawMessage `json:"routeResponse"`
}

func (h *RideHandler) Estimate(c *gin.Context) {
	var req estimateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeRideError(c, ride.ErrInvalidData, msgRouteFailure)
		return
	}
	res, err := h.ride.Estimate(c.Request.Context(), ride.EstimateCommand{
		CustomerID:  req.CustomerID,
		Origin:      req.Origin,
		Destination: req.Destination,
	})
	if err != nil {
		writeRideError(c, err, msgRouteFailure)
		return
	}
	if len(res.Options) == 0 {
		writeError(c, http.StatusNotFound, CodeNoDriversAvailable, "Não há motoristas disponíveis")
		return
	}

	options := make([]optionResp, 0, len(res.Options))
	for _, o := range res.Options {
		options = append(options, optionResp{
			ID:          o.ID,
			Name:        o.Name,
			Description: o.Description,
			Vehicle:     o.Vehicle,
			Review:      reviewResp{Rating: o.Review.Rating, Comment: o.Review.Comment},
			Value:       o.Value,
		})
	}
	raw := res.Route.Raw
	if len(raw) == 0 {
		raw = json.RawMessage("null")
	}
	writeJSON(c, http.StatusOK, estimateResp{
		Origin:        coordinateResp{Latitude: res.Route.Origin.Lat, Longitude: res.Route.Origin.Lng},
		Destination:   coordinateResp{Latitude: res.Route.Destination.Lat, Longitude: res.Route.Destination.Lng},
		Distance:      res.Route.DistanceMeters,
		Duration:      res.Route.DurationText,
		Options:       options,
		RouteResponse: raw,
	})
}

type driverRefReq struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Driver is decoded separately: a driver of the wrong shape is an unknown driver,
// not a malformed request.
type confirmReq struct {
	CustomerID  string          `json:"customer_id"`
	Origin      string          `json:"origin"`
	Destination string          `json:"destination"`
	Distance    float64         `json:"distance"`
	Duration    string          `json:"duration"`
	Driver      json.RawMessage `json:"driver"`
	Value       float64         `json:"value"`
}

func (h *RideHandler) Confirm(c *gin.Context) {
	var req confirmReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeRideError(c, ride.ErrInvalidData, msgSaveRide)
		return
	}
	cmd := ride.ConfirmCommand{
		CustomerID:     req.CustomerID,
		Origin:         req.Origin,
		Destination:    req.Destination,
		DistanceMeters: req.Distance,
		DurationText:   req.Duration,
		Value:          req.Value,
	}
	if len(req.Driver) > 0 {
		var driver *driverRefReq
		if err := json.Unmarshal(req.Driver, &driver); err != nil {
			// Zero ref: the service rejects it as an unknown driver after the trip checks.
			cmd.Driver = &ride.DriverRef{}
		} else if driver != nil {
			cmd.Driver = &ride.DriverRef{ID: driver.ID, Name: driver.Name}
		}
	}
	if _, err := h.ride.Confirm(c.Request.Context(), cmd); err != nil {
		writeRideError(c, err, msgSaveRide)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"success": true})
}

type rideDriverResp struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type rideResp struct {
	ID          int64          `json:"id"`
	Date        time.Time      `json:"date"`
	Origin      string         `json:"origin"`
	Destination string         `json:"destination"`
	Distance    float64        `json:"distance"`
	Duration    string         `json:"duration"`
	Driver      rideDriverResp `json:"driver"`
	Value       float64        `json:"value"`
}

func (h *RideHandler) History(c *gin.Context) {
	customerID := strings.TrimSpace(c.Param("customer_id"))
	rides, err := h.ride.History(c.Request.Context(), ride.HistoryQuery{
		CustomerID:   customerID,
		DriverFilter: c.Query("driver_id"),
	})
	if err != nil {
		writeRideError(c, err, msgListRides)
		return
	}
	if len(rides) == 0 {
		writeError(c, http.StatusNotFound, CodeNoRidesFound, "Nenhum registro encontrado")
		return
	}

	out := make([]rideResp, 0, len(rides))
	for _, r := range rides {
		out = append(out, rideResp{
			ID:          r.ID,
			Date:        r.Date,
			Origin:      r.Origin,
			Destination: r.Destination,
			Distance:    r.DistanceMeters,
			Duration:    r.DurationText,
			Driver:      rideDriverResp{ID: r.DriverID, Name: r.DriverName},
			Value:       r.Value,
		})
	}
	writeJSON(c, http.StatusOK, map[string]any{"customer_id": customerID, "rides": out})
}
