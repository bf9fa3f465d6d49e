// README: Ride record and command/query definitions.
package ride

import (
	"time"

	"taxi/internal/maps"
	"taxi/internal/modules/matching"
)

// Ride is an immutable record of a confirmed trip. DriverName is the name at
// confirmation time and is kept even if the catalog later changes.
type Ride struct {
	ID             int64
	CustomerID     string
	Date           time.Time
	Origin         string
	Destination    string
	DistanceMeters float64
	DurationText   string
	DriverID       int64
	DriverName     string
	Value          float64
}

type EstimateCommand struct {
	CustomerID  string
	Origin      string
	Destination string
}

// EstimateResult carries the route and the priced options. Options is empty, not nil,
// when no driver accepts the distance.
type EstimateResult struct {
	Route   maps.Estimate
	Options []matching.Option
}

type DriverRef struct {
	ID   int64
	Name string
}

type ConfirmCommand struct {
	CustomerID     string
	Origin         string
	Destination    string
	DistanceMeters float64
	DurationText   string
	Driver         *DriverRef
	Value          float64
}

// HistoryQuery filters a customer's rides. DriverFilter is the raw driver id from the
// request; empty means all drivers.
type HistoryQuery struct {
	CustomerID   string
	DriverFilter string
}
