// README: Geographic point shared by the route adapter and HTTP payloads.
package types

type Point struct {
	Lat float64
	Lng float64
}
