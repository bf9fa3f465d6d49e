// README: Pricing service computes fare estimates.
package pricing

import (
	"math"

	"taxi/internal/types"
)

type Service struct {
	currency string
}

func NewService(currency string) *Service {
	return &Service{currency: currency}
}

func (s *Service) Currency() string {
	return s.currency
}

// Fare prices a trip as PerKm * km, rounded half-up to whole cents.
// PerKm * meters / 10 is the fare in cents; computing it directly keeps
// exact half-cent results (e.g. 308.5) from drifting below .5.
func (s *Service) Fare(rate Rate, distanceMeters float64) types.Money {
	cents := math.Round(rate.PerKm * distanceMeters / 10)
	return types.Money{Amount: int64(cents), Currency: s.currency}
}
