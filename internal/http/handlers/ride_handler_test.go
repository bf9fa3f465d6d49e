// README: HTTP tests for the ride endpoints (status codes, error codes, payload shape).
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"taxi/internal/http/handlers"
	"taxi/internal/maps"
	"taxi/internal/modules/matching"
	"taxi/internal/modules/pricing"
	"taxi/internal/modules/ride"
	"taxi/internal/types"
)

// memoryRideStore is a test double for ride.RideStore.
type memoryRideStore struct {
	mu     sync.Mutex
	rides  []ride.Ride
	nextID int64
	err    error
}

func (m *memoryRideStore) EnsureCustomer(_ context.Context, _ string) error {
	return m.err
}

func (m *memoryRideStore) RecordRide(_ context.Context, r *ride.Ride) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.nextID++
	r.ID = m.nextID
	r.Date = time.Date(2026, 3, 1, 12, int(m.nextID), 0, 0, time.UTC)
	m.rides = append(m.rides, *r)
	return nil
}

func (m *memoryRideStore) ListByCustomer(_ context.Context, customerID string, driverID *int64) ([]ride.Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []ride.Ride{}
	for i := len(m.rides) - 1; i >= 0; i-- {
		r := m.rides[i]
		if r.CustomerID == customerID && (driverID == nil || r.DriverID == *driverID) {
			out = append(out, r)
		}
	}
	return out, nil
}

// stubRouteProvider is a test double for maps.Provider.
type stubRouteProvider struct {
	est maps.Estimate
	err error
}

func (s *stubRouteProvider) Route(_ context.Context, _, _ string) (maps.Estimate, error) {
	return s.est, s.err
}

func buildTestRouter(store ride.RideStore, routes maps.Provider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)

	matchingSvc := matching.NewService(matching.DefaultCatalog(), pricing.NewService("BRL"))
	rideSvc := ride.NewService(store, matchingSvc, routes, nil, log)

	r := gin.New()
	h := handlers.NewRideHandler(rideSvc)
	r.POST("/ride/estimate", h.Estimate)
	r.PATCH("/ride/confirm", h.Confirm)
	r.GET("/ride/:customer_id", h.History)
	d := handlers.NewDriverHandler(matchingSvc)
	r.GET("/drivers", d.List)
	return r
}

func routeOf(distance int) *stubRouteProvider {
	return &stubRouteProvider{est: maps.Estimate{
		Origin:         types.Point{Lat: -23.5614, Lng: -46.6559},
		Destination:    types.Point{Lat: -23.5874, Lng: -46.6576},
		DistanceMeters: distance,
		DurationText:   "21 mins",
		Raw:            json.RawMessage(`{"summary":"Av. 23 de Maio","legs":[]}`),
	}}
}

func doRequest(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		ErrorCode        string `json:"error_code"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, w.Body.String())
	}
	if body.ErrorDescription == "" {
		t.Errorf("missing error_description in %s", w.Body.String())
	}
	return body.ErrorCode
}

func homerConfirmBody(customerID string) map[string]any {
	return map[string]any{
		"customer_id": customerID,
		"origin":      "A",
		"destination": "B",
		"distance":    10000,
		"duration":    "21 mins",
		"driver":      map[string]any{"id": 1, "name": "Homer Simpson"},
		"value":       25.00,
	}
}

// ---------------------------------------------------------------------------
// Estimate
// ---------------------------------------------------------------------------

func TestEstimate_OK(t *testing.T) {
	r := buildTestRouter(&memoryRideStore{}, routeOf(10000))
	w := doRequest(r, http.MethodPost, "/ride/estimate", map[string]any{
		"customer_id": "C1", "origin": "A", "destination": "B",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		Origin struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"origin"`
		Distance int    `json:"distance"`
		Duration string `json:"duration"`
		Options  []struct {
			ID     int64   `json:"id"`
			Name   string  `json:"name"`
			Value  float64 `json:"value"`
			Review struct {
				Rating float64 `json:"rating"`
			} `json:"review"`
		} `json:"options"`
		RouteResponse map[string]any `json:"routeResponse"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Origin.Latitude != -23.5614 || body.Distance != 10000 || body.Duration != "21 mins" {
		t.Fatalf("unexpected route fields: %+v", body)
	}
	if len(body.Options) != 3 {
		t.Fatalf("expected 3 options, got %d", len(body.Options))
	}
	if body.Options[0].Name != "Homer Simpson" || body.Options[0].Value != 25 || body.Options[0].Review.Rating != 2 {
		t.Errorf("unexpected first option: %+v", body.Options[0])
	}
	if body.RouteResponse["summary"] != "Av. 23 de Maio" {
		t.Errorf("route response not passed through: %v", body.RouteResponse)
	}
}

func TestEstimate_InvalidData(t *testing.T) {
	r := buildTestRouter(&memoryRideStore{}, routeOf(10000))
	bodies := []any{
		map[string]any{"origin": "A", "destination": "B"},
		map[string]any{"customer_id": "C1", "origin": "A", "destination": "A"},
		nil,
	}
	for _, b := range bodies {
		w := doRequest(r, http.MethodPost, "/ride/estimate", b)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %v: expected 400, got %d", b, w.Code)
		}
		if code := errorCode(t, w); code != handlers.CodeInvalidData {
			t.Fatalf("body %v: error_code = %s", b, code)
		}
	}
}

func TestEstimate_NoDrivers(t *testing.T) {
	r := buildTestRouter(&memoryRideStore{}, routeOf(500))
	w := doRequest(r, http.MethodPost, "/ride/estimate", map[string]any{
		"customer_id": "C1", "origin": "A", "destination": "B",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if code := errorCode(t, w); code != handlers.CodeNoDriversAvailable {
		t.Fatalf("error_code = %s", code)
	}
}

func TestEstimate_RoutingFailure(t *testing.T) {
	r := buildTestRouter(&memoryRideStore{}, &stubRouteProvider{err: errors.New("timeout")})
	w := doRequest(r, http.MethodPost, "/ride/estimate", map[string]any{
		"customer_id": "C1", "origin": "A", "destination": "B",
	})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if code := errorCode(t, w); code != handlers.CodeRoutingFailure {
		t.Fatalf("error_code = %s", code)
	}
}

// ---------------------------------------------------------------------------
// Confirm
// ---------------------------------------------------------------------------

func TestConfirm_Errors(t *testing.T) {
	cases := []struct {
		name     string
		mutate   func(map[string]any)
		store    *memoryRideStore
		wantCode int
		wantErr  string
	}{
		{"missing customer", func(b map[string]any) { delete(b, "customer_id") }, nil, http.StatusBadRequest, handlers.CodeInvalidData},
		{"same endpoints", func(b map[string]any) { b["destination"] = "A" }, nil, http.StatusBadRequest, handlers.CodeInvalidData},
		{"missing driver", func(b map[string]any) { delete(b, "driver") }, nil, http.StatusNotFound, handlers.CodeDriverNotFound},
		{"empty driver name", func(b map[string]any) { b["driver"] = map[string]any{"id": 1, "name": " "} }, nil, http.StatusNotFound, handlers.CodeDriverNotFound},
		{"name mismatch", func(b map[string]any) { b["driver"] = map[string]any{"id": 1, "name": "James Bond"} }, nil, http.StatusNotFound, handlers.CodeDriverNotFound},
		{"distance below minimum", func(b map[string]any) {
			b["driver"] = map[string]any{"id": 3, "name": "James Bond"}
			b["distance"] = 9500
		}, nil, http.StatusNotAcceptable, handlers.CodeInvalidDistance},
		{"driver id as string", func(b map[string]any) { b["driver"] = map[string]any{"id": "1", "name": "Homer Simpson"} }, nil, http.StatusNotFound, handlers.CodeDriverNotFound},
		{"fractional driver id", func(b map[string]any) { b["driver"] = map[string]any{"id": 1.5, "name": "Homer Simpson"} }, nil, http.StatusNotFound, handlers.CodeDriverNotFound},
		{"driver as string", func(b map[string]any) { b["driver"] = "Homer Simpson" }, nil, http.StatusNotFound, handlers.CodeDriverNotFound},
		{"driver name as number", func(b map[string]any) { b["driver"] = map[string]any{"id": 1, "name": 7} }, nil, http.StatusNotFound, handlers.CodeDriverNotFound},
		{"null driver", func(b map[string]any) { b["driver"] = nil }, nil, http.StatusNotFound, handlers.CodeDriverNotFound},
		{"malformed driver and missing customer", func(b map[string]any) {
			delete(b, "customer_id")
			b["driver"] = "Homer Simpson"
		}, nil, http.StatusBadRequest, handlers.CodeInvalidData},
		{"storage failure", func(map[string]any) {}, &memoryRideStore{err: errors.New("db down")}, http.StatusInternalServerError, handlers.CodeDatabaseError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := tc.store
			if store == nil {
				store = &memoryRideStore{}
			}
			r := buildTestRouter(store, routeOf(10000))
			body := homerConfirmBody("C1")
			tc.mutate(body)
			w := doRequest(r, http.MethodPatch, "/ride/confirm", body)
			if w.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d: %s", tc.wantCode, w.Code, w.Body.String())
			}
			if code := errorCode(t, w); code != tc.wantErr {
				t.Fatalf("error_code = %s, want %s", code, tc.wantErr)
			}
		})
	}
}

func TestConfirm_MalformedBody(t *testing.T) {
	r := buildTestRouter(&memoryRideStore{}, routeOf(10000))
	req := httptest.NewRequest(http.MethodPatch, "/ride/confirm", strings.NewReader(`{"customer_id": "C1", "driver": {`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if code := errorCode(t, w); code != handlers.CodeInvalidData {
		t.Fatalf("error_code = %s", code)
	}
}

func TestStorageFailureDescriptions(t *testing.T) {
	r := buildTestRouter(&memoryRideStore{err: errors.New("db down")}, routeOf(10000))

	cases := []struct {
		name     string
		method   string
		path     string
		body     any
		wantDesc string
	}{
		{"confirm", http.MethodPatch, "/ride/confirm", homerConfirmBody("C1"), "Erro ao salvar a viagem"},
		{"history", http.MethodGet, "/ride/C1", nil, "Erro ao consultar as viagens"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(r, tc.method, tc.path, tc.body)
			if w.Code != http.StatusInternalServerError {
				t.Fatalf("expected 500, got %d", w.Code)
			}
			var body struct {
				ErrorCode        string `json:"error_code"`
				ErrorDescription string `json:"error_description"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.ErrorCode != handlers.CodeDatabaseError || body.ErrorDescription != tc.wantDesc {
				t.Fatalf("got %+v, want %s / %q", body, handlers.CodeDatabaseError, tc.wantDesc)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// History
// ---------------------------------------------------------------------------

func TestHistory_Errors(t *testing.T) {
	r := buildTestRouter(&memoryRideStore{}, routeOf(10000))

	w := doRequest(r, http.MethodGet, "/ride/C1?driver_id=99", nil)
	if w.Code != http.StatusBadRequest || errorCode(t, w) != handlers.CodeInvalidDriver {
		t.Fatalf("unknown driver: got %d %s", w.Code, w.Body.String())
	}

	w = doRequest(r, http.MethodGet, "/ride/%20", nil)
	if w.Code != http.StatusBadRequest || errorCode(t, w) != handlers.CodeInvalidData {
		t.Fatalf("blank customer: got %d %s", w.Code, w.Body.String())
	}

	w = doRequest(r, http.MethodGet, "/ride/C1", nil)
	if w.Code != http.StatusNotFound || errorCode(t, w) != handlers.CodeNoRidesFound {
		t.Fatalf("no rides: got %d %s", w.Code, w.Body.String())
	}
}

// TestConfirmThenHistory covers the full confirm → history round trip for one customer.
func TestConfirmThenHistory(t *testing.T) {
	r := buildTestRouter(&memoryRideStore{}, routeOf(10000))

	w := doRequest(r, http.MethodPatch, "/ride/confirm", homerConfirmBody("C1"))
	if w.Code != http.StatusOK {
		t.Fatalf("confirm: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var ok struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &ok); err != nil || !ok.Success {
		t.Fatalf("confirm body = %s", w.Body.String())
	}

	w = doRequest(r, http.MethodGet, "/ride/C1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("history: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var hist struct {
		CustomerID string `json:"customer_id"`
		Rides      []struct {
			ID          int64   `json:"id"`
			Date        string  `json:"date"`
			Origin      string  `json:"origin"`
			Destination string  `json:"destination"`
			Distance    float64 `json:"distance"`
			Duration    string  `json:"duration"`
			Driver      struct {
				ID   int64  `json:"id"`
				Name string `json:"name"`
			} `json:"driver"`
			Value float64 `json:"value"`
		} `json:"rides"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &hist); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if hist.CustomerID != "C1" || len(hist.Rides) != 1 {
		t.Fatalf("unexpected history: %+v", hist)
	}
	got := hist.Rides[0]
	if got.Driver.ID != 1 || got.Driver.Name != "Homer Simpson" || got.Value != 25.00 ||
		got.Origin != "A" || got.Destination != "B" || got.Distance != 10000 || got.Date == "" {
		t.Fatalf("unexpected ride: %+v", got)
	}

	w = doRequest(r, http.MethodGet, "/ride/C1?driver_id=2", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("filter by other driver: expected 404, got %d", w.Code)
	}
	w = doRequest(r, http.MethodGet, "/ride/C1?driver_id=1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("filter by Homer: expected 200, got %d", w.Code)
	}

	w = doRequest(r, http.MethodGet, "/ride/%20C1%20", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("padded customer id: expected 200, got %d", w.Code)
	}
	var padded struct {
		CustomerID string `json:"customer_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &padded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if padded.CustomerID != "C1" {
		t.Fatalf("customer_id = %q, want trimmed C1", padded.CustomerID)
	}
}

func TestDrivers_List(t *testing.T) {
	r := buildTestRouter(&memoryRideStore{}, routeOf(10000))
	w := doRequest(r, http.MethodGet, "/drivers", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Drivers []struct {
			ID        int64   `json:"id"`
			FarePerKm float64 `json:"fare_per_km"`
		} `json:"drivers"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Drivers) != 3 || body.Drivers[2].FarePerKm != 10 {
		t.Fatalf("unexpected drivers: %+v", body.Drivers)
	}
}
