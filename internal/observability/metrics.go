// README: Prometheus collectors shared by the HTTP layer and the ride flows.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "taxi"

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	HTTPRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "http_requests_in_flight", Help: "HTTP requests currently being served"})

	RouteLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "route_lookups_total", Help: "Route provider lookups by outcome"},
		[]string{"status", "cached"},
	)
	RouteLookupDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "route_lookup_duration_seconds",
		Help:      "Route provider latency",
		Buckets:   prometheus.DefBuckets,
	})

	EstimatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "estimates_total", Help: "Ride estimates by outcome"},
		[]string{"outcome"},
	)
	RidesConfirmedTotal = promauto.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "rides_confirmed_total", Help: "Rides persisted"})
)
