package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/bezrodnovart03/BnovAuto/internal/access"
	"github.com/bezrodnovart03/BnovAuto/internal/fleet"
	"github.com/bezrodnovart03/BnovAuto/internal/metrics"
	"github.com/bezrodnovart03/BnovAuto/internal/models"
)

// BuildRouteRequest is the payload for geometric route construction.
// Waypoints are a flat sequence of alternating latitude/longitude values.
type BuildRouteRequest struct {
	Name      string    `json:"name"`
	CompanyID string    `json:"company_id"`
	StartLat  float64   `json:"start_lat"`
	StartLng  float64   `json:"start_lng"`
	EndLat    float64   `json:"end_lat"`
	EndLng    float64   `json:"end_lng"`
	Waypoints []float64 `json:"waypoints"`
}

// AssignRouteRequest attaches a vehicle and/or driver to a route.
type AssignRouteRequest struct {
	VehicleID string `json:"vehicle_id"`
	DriverID  string `json:"driver_id"`
}

// RouteHandler serves route queries, passthrough CRUD, and the geometric
// builder endpoint.
type RouteHandler struct {
	routes  *fleet.RouteService
	metrics *metrics.Metrics
}

// NewRouteHandler creates a route handler.
func NewRouteHandler(routes *fleet.RouteService, m *metrics.Metrics) *RouteHandler {
	return &RouteHandler{routes: routes, metrics: m}
}

// Handle routes /api/routes requests.
func (h *RouteHandler) Handle(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/routes"), "/")
	parts := strings.Split(rest, "/")

	switch {
	case rest == "":
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	case rest == "between":
		h.buildBetween(w, r)
	case rest == "active":
		h.active(w, r)
	case len(parts) == 2 && parts[0] == "company":
		h.listScoped(w, r, access.OpRoutesByCompany, access.Target{}, func() ([]models.Route, error) {
			return h.routes.ByCompany(r.Context(), parts[1])
		})
	case len(parts) == 2 && parts[0] == "vehicle":
		h.listScoped(w, r, access.OpRoutesByVehicle, access.Target{}, func() ([]models.Route, error) {
			return h.routes.ByVehicle(r.Context(), parts[1])
		})
	case len(parts) == 2 && parts[0] == "driver":
		h.listScoped(w, r, access.OpRoutesByDriver, access.Target{SubjectUserID: parts[1]}, func() ([]models.Route, error) {
			return h.routes.ByDriver(r.Context(), parts[1])
		})
	case len(parts) == 2 && parts[1] == "assign":
		h.assign(w, r, parts[0])
	case len(parts) == 1:
		switch r.Method {
		case http.MethodGet:
			h.get(w, r, parts[0])
		case http.MethodPut:
			h.update(w, r, parts[0])
		case http.MethodDelete:
			h.delete(w, r, parts[0])
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	default:
		http.NotFound(w, r)
	}
}

func (h *RouteHandler) list(w http.ResponseWriter, r *http.Request) {
	if !authorize(w, r, h.metrics, access.OpListRoutes, access.Target{}) {
		return
	}
	routes, err := h.routes.All(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, routes)
}

func (h *RouteHandler) active(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !authorize(w, r, h.metrics, access.OpActiveRoutes, access.Target{}) {
		return
	}
	routes, err := h.routes.Active(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, routes)
}

func (h *RouteHandler) listScoped(w http.ResponseWriter, r *http.Request, op access.Operation, target access.Target, query func() ([]models.Route, error)) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !authorize(w, r, h.metrics, op, target) {
		return
	}
	routes, err := query()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, routes)
}

func (h *RouteHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	if !authorize(w, r, h.metrics, access.OpReadRoute, access.Target{}) {
		return
	}
	route, err := h.routes.ByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, route)
}

func (h *RouteHandler) create(w http.ResponseWriter, r *http.Request) {
	if !authorize(w, r, h.metrics, access.OpWriteRoute, access.Target{}) {
		return
	}

	var route models.Route
	if !decodeBody(w, r, &route) {
		return
	}

	created, err := h.routes.Create(r.Context(), route)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *RouteHandler) buildBetween(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !authorize(w, r, h.metrics, access.OpWriteRoute, access.Target{}) {
		return
	}

	var req BuildRouteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		http.Error(w, "Route name is required", http.StatusBadRequest)
		return
	}

	route, err := h.routes.BuildBetween(r.Context(), req.Name, req.CompanyID,
		req.StartLat, req.StartLng, req.EndLat, req.EndLng, req.Waypoints)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, route)
}

func (h *RouteHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	if !authorize(w, r, h.metrics, access.OpWriteRoute, access.Target{}) {
		return
	}

	var details models.Route
	if !decodeBody(w, r, &details) {
		return
	}

	updated, err := h.routes.Update(r.Context(), id, details)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *RouteHandler) assign(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !authorize(w, r, h.metrics, access.OpAssignRoute, access.Target{}) {
		return
	}

	var req AssignRouteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	route, err := h.routes.Assign(r.Context(), id, req.VehicleID, req.DriverID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, route)
}

func (h *RouteHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if !authorize(w, r, h.metrics, access.OpWriteRoute, access.Target{}) {
		return
	}
	if err := h.routes.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return false
	}
	return true
}
