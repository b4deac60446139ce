package handlers

import (
	"net/http"

	"github.com/bezrodnovart03/BnovAuto/internal/access"
	"github.com/bezrodnovart03/BnovAuto/internal/fleet"
	"github.com/bezrodnovart03/BnovAuto/internal/ingest"
	"github.com/bezrodnovart03/BnovAuto/internal/metrics"
	"github.com/bezrodnovart03/BnovAuto/internal/models"
)

// TelemetryHandler serves the direct HTTP ingestion endpoint and the global
// telemetry listing. The request body matches the MQTT wire payload so a
// device can use either transport.
type TelemetryHandler struct {
	telemetry *fleet.TelemetryService
	metrics   *metrics.Metrics
}

// NewTelemetryHandler creates a telemetry handler.
func NewTelemetryHandler(telemetry *fleet.TelemetryService, m *metrics.Metrics) *TelemetryHandler {
	return &TelemetryHandler{telemetry: telemetry, metrics: m}
}

// Handle routes /api/telemetry requests.
func (h *TelemetryHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.record(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *TelemetryHandler) record(w http.ResponseWriter, r *http.Request) {
	if !authorize(w, r, h.metrics, access.OpRecordTelemetry, access.Target{}) {
		return
	}

	var msg ingest.Message
	if !decodeBody(w, r, &msg) {
		return
	}
	if msg.VehicleID == "" {
		http.Error(w, "vehicle_id is required", http.StatusBadRequest)
		return
	}

	record, err := h.telemetry.Record(r.Context(), msg.VehicleID, msg.Lat, msg.Lng, msg.Measurements())
	if err != nil {
		writeError(w, err)
		return
	}
	h.metrics.TelemetryIngested.WithLabelValues("http").Inc()
	writeJSON(w, http.StatusCreated, record)
}

func (h *TelemetryHandler) list(w http.ResponseWriter, r *http.Request) {
	if !authorize(w, r, h.metrics, access.OpListTelemetry, access.Target{}) {
		return
	}
	records, err := h.telemetry.All(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if records == nil {
		records = []models.Telemetry{}
	}
	writeJSON(w, http.StatusOK, records)
}
