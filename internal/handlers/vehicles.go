package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/bezrodnovart03/BnovAuto/internal/access"
	"github.com/bezrodnovart03/BnovAuto/internal/fleet"
	"github.com/bezrodnovart03/BnovAuto/internal/metrics"
	"github.com/bezrodnovart03/BnovAuto/internal/models"
)

// VehicleHandler serves the vehicle registry and the per-vehicle telemetry
// views. The access policy is evaluated before any lookup or mutation.
type VehicleHandler struct {
	vehicles  *fleet.VehicleService
	telemetry *fleet.TelemetryService
	metrics   *metrics.Metrics
	validate  *validator.Validate
}

// NewVehicleHandler creates a vehicle handler.
func NewVehicleHandler(vehicles *fleet.VehicleService, telemetry *fleet.TelemetryService, m *metrics.Metrics) *VehicleHandler {
	return &VehicleHandler{
		vehicles:  vehicles,
		telemetry: telemetry,
		metrics:   m,
		validate:  validator.New(),
	}
}

// Handle routes /api/vehicles requests.
func (h *VehicleHandler) Handle(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/vehicles"), "/")
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
	case parts[0] == "company" && len(parts) == 2:
		h.listByCompany(w, r, parts[1])
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
	case len(parts) == 2 && parts[1] == "telemetry":
		h.telemetryRange(w, r, parts[0])
	case len(parts) == 3 && parts[1] == "telemetry" && parts[2] == "latest":
		h.telemetryLatest(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "statistics":
		h.statistics(w, r, parts[0])
	default:
		http.NotFound(w, r)
	}
}

func (h *VehicleHandler) list(w http.ResponseWriter, r *http.Request) {
	if !authorize(w, r, h.metrics, access.OpListVehicles, access.Target{}) {
		return
	}
	vehicles, err := h.vehicles.All(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicles)
}

func (h *VehicleHandler) listByCompany(w http.ResponseWriter, r *http.Request, companyID string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !authorize(w, r, h.metrics, access.OpVehiclesByCompany, access.Target{}) {
		return
	}
	vehicles, err := h.vehicles.ByCompany(r.Context(), companyID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicles)
}

func (h *VehicleHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	if !authorize(w, r, h.metrics, access.OpReadVehicle, access.Target{}) {
		return
	}
	vehicle, err := h.vehicles.ByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

func (h *VehicleHandler) create(w http.ResponseWriter, r *http.Request) {
	if !authorize(w, r, h.metrics, access.OpWriteVehicle, access.Target{}) {
		return
	}

	vehicle, ok := h.decodeVehicle(w, r)
	if !ok {
		return
	}

	created, err := h.vehicles.Create(r.Context(), *vehicle)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *VehicleHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	if !authorize(w, r, h.metrics, access.OpWriteVehicle, access.Target{}) {
		return
	}

	vehicle, ok := h.decodeVehicle(w, r)
	if !ok {
		return
	}

	updated, err := h.vehicles.Update(r.Context(), id, *vehicle)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *VehicleHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if !authorize(w, r, h.metrics, access.OpWriteVehicle, access.Target{}) {
		return
	}
	if err := h.vehicles.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *VehicleHandler) telemetryRange(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !authorize(w, r, h.metrics, access.OpVehicleTelemetry, access.Target{}) {
		return
	}

	start := r.URL.Query().Get("startDate")
	end := r.URL.Query().Get("endDate")
	records, err := h.telemetry.Range(r.Context(), id, start, end)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *VehicleHandler) telemetryLatest(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !authorize(w, r, h.metrics, access.OpVehicleTelemetry, access.Target{}) {
		return
	}

	latest, err := h.telemetry.Latest(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if latest == nil {
		// No telemetry yet is an empty result, not an error.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, latest)
}

func (h *VehicleHandler) statistics(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !authorize(w, r, h.metrics, access.OpVehicleStatistics, access.Target{}) {
		return
	}

	start := r.URL.Query().Get("startDate")
	end := r.URL.Query().Get("endDate")
	statistics, err := h.vehicles.Statistics(r.Context(), id, start, end)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statistics)
}

func (h *VehicleHandler) decodeVehicle(w http.ResponseWriter, r *http.Request) (*models.Vehicle, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return nil, false
	}
	var vehicle models.Vehicle
	if err := json.Unmarshal(body, &vehicle); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return nil, false
	}
	if err := h.validate.Struct(vehicle); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return &vehicle, true
}
