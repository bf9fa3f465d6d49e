// README: Ride service orchestrates estimate, confirm and history flows.
package ride

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"taxi/internal/maps"
	"taxi/internal/modules/matching"
	"taxi/internal/observability"
)

var (
	ErrInvalidData     = errors.New("invalid request data")
	ErrInvalidDriver   = errors.New("invalid driver")
	ErrRoutingFailure  = errors.New("route lookup failed")
	ErrStorageFailure  = errors.New("ride storage failed")
	ErrDriverNotFound  = matching.ErrDriverNotFound
	ErrInvalidDistance = matching.ErrInvalidDistance
)

type RideStore interface {
	EnsureCustomer(ctx context.Context, customerID string) error
	RecordRide(ctx context.Context, r *Ride) error
	ListByCustomer(ctx context.Context, customerID string, driverID *int64) ([]Ride, error)
}

type Service struct {
	store    RideStore
	matching *matching.Service
	routes   maps.Provider
	events   EventPublisher
	log      logrus.FieldLogger
}

// NewService wires the ride flows. events may be nil when no broker is configured.
func NewService(store RideStore, matchingSvc *matching.Service, routes maps.Provider, events EventPublisher, log logrus.FieldLogger) *Service {
	if events == nil {
		events = nopPublisher{}
	}
	return &Service{store: store, matching: matchingSvc, routes: routes, events: events, log: log}
}

func validTrip(customerID, origin, destination string) bool {
	return customerID != "" && origin != "" && destination != "" && origin != destination
}

func (s *Service) Estimate(ctx context.Context, cmd EstimateCommand) (EstimateResult, error) {
	customerID := strings.TrimSpace(cmd.CustomerID)
	origin := strings.TrimSpace(cmd.Origin)
	destination := strings.TrimSpace(cmd.Destination)
	if !validTrip(customerID, origin, destination) {
		observability.EstimatesTotal.WithLabelValues("invalid").Inc()
		return EstimateResult{}, ErrInvalidData
	}

	route, err := s.routes.Route(ctx, origin, destination)
	if err != nil {
		observability.EstimatesTotal.WithLabelValues("routing_failure").Inc()
		s.log.WithError(err).WithFields(logrus.Fields{
			"customer_id": customerID,
			"origin":      origin,
			"destination": destination,
		}).Error("route lookup failed")
		return EstimateResult{}, fmt.Errorf("%w: %v", ErrRoutingFailure, err)
	}

	options := s.matching.Estimate(float64(route.DistanceMeters))
	if len(options) == 0 {
		observability.EstimatesTotal.WithLabelValues("no_drivers").Inc()
	} else {
		observability.EstimatesTotal.WithLabelValues("ok").Inc()
	}
	return EstimateResult{Route: route, Options: options}, nil
}

// Confirm persists a ride chosen from an estimate. The payload comes from the client,
// so the driver and distance are checked again against the catalog.
func (s *Service) Confirm(ctx context.Context, cmd ConfirmCommand) (Ride, error) {
	customerID := strings.TrimSpace(cmd.CustomerID)
	origin := strings.TrimSpace(cmd.Origin)
	destination := strings.TrimSpace(cmd.Destination)
	if !validTrip(customerID, origin, destination) {
		return Ride{}, ErrInvalidData
	}
	if cmd.Driver == nil || cmd.Driver.ID == 0 || strings.TrimSpace(cmd.Driver.Name) == "" {
		return Ride{}, ErrDriverNotFound
	}

	driver, err := s.matching.ValidateSelection(cmd.Driver.ID, cmd.Driver.Name, cmd.DistanceMeters)
	if err != nil {
		return Ride{}, err
	}

	if err := s.store.EnsureCustomer(ctx, customerID); err != nil {
		s.log.WithError(err).WithField("customer_id", customerID).Error("ensure customer failed")
		return Ride{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	r := Ride{
		CustomerID:     customerID,
		Origin:         origin,
		Destination:    destination,
		DistanceMeters: cmd.DistanceMeters,
		DurationText:   cmd.DurationText,
		DriverID:       driver.ID,
		DriverName:     driver.Name,
		Value:          cmd.Value,
	}
	if err := s.store.RecordRide(ctx, &r); err != nil {
		s.log.WithError(err).WithField("customer_id", customerID).Error("record ride failed")
		return Ride{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	observability.RidesConfirmedTotal.Inc()

	if err := s.events.PublishRideConfirmed(ctx, r); err != nil {
		s.log.WithError(err).WithField("ride_id", r.ID).Warn("publish ride.confirmed failed")
	}
	return r, nil
}

// History lists a customer's rides, newest first. An empty slice means nothing matched.
func (s *Service) History(ctx context.Context, q HistoryQuery) ([]Ride, error) {
	customerID := strings.TrimSpace(q.CustomerID)
	if customerID == "" {
		return nil, ErrInvalidData
	}

	var driverID *int64
	if raw := strings.TrimSpace(q.DriverFilter); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || !s.matching.Exists(id) {
			return nil, ErrInvalidDriver
		}
		driverID = &id
	}

	rides, err := s.store.ListByCustomer(ctx, customerID, driverID)
	if err != nil {
		s.log.WithError(err).WithField("customer_id", customerID).Error("list rides failed")
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	return rides, nil
}
