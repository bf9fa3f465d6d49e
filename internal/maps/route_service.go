// README: Route provider adapter over the Google Maps Directions API.
package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"googlemaps.github.io/maps"

	"taxi/internal/observability"
	"taxi/internal/types"
)

var ErrNoRoute = errors.New("no route found")

// Estimate is the part of a directions lookup the ride flows consume. Raw is the
// provider's first route, passed through to clients untouched.
type Estimate struct {
	Origin         types.Point     `json:"origin"`
	Destination    types.Point     `json:"destination"`
	DistanceMeters int             `json:"distance_meters"`
	DurationText   string          `json:"duration_text"`
	Raw            json.RawMessage `json:"raw"`
}

type Provider interface {
	Route(ctx context.Context, origin, destination string) (Estimate, error)
}

// RouteService handles interactions with Google Maps API.
type RouteService struct {
	client  *maps.Client
	timeout time.Duration
}

// NewRouteService creates a new RouteService with the given API Key. Each lookup is
// cut off after timeout.
func NewRouteService(apiKey string, timeout time.Duration) (*RouteService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client, timeout: timeout}, nil
}

// Route looks up a driving route and summarises its first leg.
func (s *RouteService) Route(ctx context.Context, origin, destination string) (Estimate, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	routes, _, err := s.client.Directions(ctx, &maps.DirectionsRequest{
		Origin:      origin,
		Destination: destination,
		Mode:        maps.TravelModeDriving,
	})
	observability.RouteLookupDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		observability.RouteLookupsTotal.WithLabelValues("error", "false").Inc()
		return Estimate{}, fmt.Errorf("maps api error: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		observability.RouteLookupsTotal.WithLabelValues("no_route", "false").Inc()
		return Estimate{}, ErrNoRoute
	}
	observability.RouteLookupsTotal.WithLabelValues("ok", "false").Inc()

	raw, err := json.Marshal(routes[0])
	if err != nil {
		return Estimate{}, fmt.Errorf("encode route: %w", err)
	}
	leg := routes[0].Legs[0]
	return Estimate{
		Origin:         types.Point{Lat: leg.StartLocation.Lat, Lng: leg.StartLocation.Lng},
		Destination:    types.Point{Lat: leg.EndLocation.Lat, Lng: leg.EndLocation.Lng},
		DistanceMeters: leg.Distance.Meters,
		DurationText:   durationText(leg.Duration),
		Raw:            raw,
	}, nil
}

// durationText renders a duration the way the Directions API labels legs
// ("1 hour 5 mins", "23 mins", "1 min").
func durationText(d time.Duration) string {
	mins := int(d.Round(time.Minute) / time.Minute)
	if mins < 1 {
		mins = 1
	}
	days, mins := mins/(24*60), mins%(24*60)
	hours, mins := mins/60, mins%60

	var parts []string
	if days > 0 {
		parts = append(parts, plural(days, "day"))
	}
	if hours > 0 {
		parts = append(parts, plural(hours, "hour"))
	}
	if mins > 0 && days == 0 {
		parts = append(parts, plural(mins, "min"))
	}
	return strings.Join(parts, " ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
