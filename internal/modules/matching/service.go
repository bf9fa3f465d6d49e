// README: Matching service filters eligible drivers for a route and prices each option.
package matching

import (
	"sort"
	"strings"

	"taxi/internal/modules/pricing"
)

type Service struct {
	catalog *Catalog
	pricing *pricing.Service
}

func NewService(catalog *Catalog, pricing *pricing.Service) *Service {
	return &Service{catalog: catalog, pricing: pricing}
}

// Estimate returns the drivers willing to take a route of distanceMeters, cheapest first.
// Equal fares keep catalog order. An empty result means no driver accepts the trip.
func (s *Service) Estimate(distanceMeters float64) []Option {
	options := make([]Option, 0, s.catalog.Len())
	for _, d := range s.catalog.drivers {
		rate := d.Rate()
		if !rate.Eligible(distanceMeters) {
			continue
		}
		options = append(options, Option{
			ID:          d.ID,
			Name:        d.Name,
			Description: d.Description,
			Vehicle:     d.Vehicle,
			Review:      d.Review,
			Value:       s.pricing.Fare(rate, distanceMeters).Major(),
		})
	}
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].Value < options[j].Value
	})
	return options
}

// ValidateSelection re-checks a driver chosen by the client. Both id and name must match
// the same catalog entry; names compare case-insensitively after trimming.
func (s *Service) ValidateSelection(driverID int64, driverName string, distanceMeters float64) (DriverProfile, error) {
	name := strings.TrimSpace(driverName)
	if name == "" {
		return DriverProfile{}, ErrDriverNotFound
	}
	d, ok := s.catalog.ByID(driverID)
	if !ok || !strings.EqualFold(strings.TrimSpace(d.Name), name) {
		return DriverProfile{}, ErrDriverNotFound
	}
	if distanceMeters/1000 < d.MinDistanceKm {
		return DriverProfile{}, ErrInvalidDistance
	}
	return d, nil
}

func (s *Service) Exists(driverID int64) bool {
	_, ok := s.catalog.ByID(driverID)
	return ok
}

func (s *Service) Drivers() []DriverProfile {
	return s.catalog.Profiles()
}
