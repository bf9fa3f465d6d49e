// README: Driver profile and estimate option definitions.
package matching

import (
	"errors"

	"taxi/internal/modules/pricing"
)

var (
	ErrDriverNotFound  = errors.New("driver not found")
	ErrInvalidDistance = errors.New("distance below driver minimum")
	ErrInvalidCatalog  = errors.New("invalid driver catalog")
)

type Review struct {
	Rating  float64 `yaml:"rating"`
	Comment string  `yaml:"comment"`
}

type DriverProfile struct {
	ID            int64   `yaml:"id"`
	Name          string  `yaml:"name"`
	Description   string  `yaml:"description"`
	Vehicle       string  `yaml:"vehicle"`
	Review        Review  `yaml:"review"`
	FarePerKm     float64 `yaml:"fare_per_km"`
	MinDistanceKm float64 `yaml:"min_distance_km"`
}

func (d DriverProfile) Rate() pricing.Rate {
	return pricing.Rate{PerKm: d.FarePerKm, MinDistanceKm: d.MinDistanceKm}
}

// Option is a driver offered for a route, with the fare priced for that route.
type Option struct {
	ID          int64
	Name        string
	Description string
	Vehicle     string
	Review      Review
	Value       float64
}
