// README: Per-driver rate used to price a trip.
package pricing

// Rate is the linear tariff a driver charges. MinDistanceKm is the shortest trip the
// driver accepts.
type Rate struct {
	PerKm         float64
	MinDistanceKm float64
}

// Eligible reports whether a route of distanceMeters meets the rate's minimum trip length.
func (r Rate) Eligible(distanceMeters float64) bool {
	return distanceMeters >= r.MinDistanceKm*1000
}
