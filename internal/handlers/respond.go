package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bezrodnovart03/BnovAuto/internal/access"
	"github.com/bezrodnovart03/BnovAuto/internal/fleet"
	"github.com/bezrodnovart03/BnovAuto/internal/geo"
	"github.com/bezrodnovart03/BnovAuto/internal/metrics"
	"github.com/bezrodnovart03/BnovAuto/internal/middleware"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the core error taxonomy onto HTTP statuses. All of these
// are deterministic client errors; nothing is retried.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, access.ErrAccessDenied):
		http.Error(w, "Access denied", http.StatusForbidden)
	case fleet.IsNotFound(err):
		http.Error(w, err.Error(), http.StatusNotFound)
	case fleet.IsAlreadyExists(err):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, geo.ErrInvalidGeometry), errors.Is(err, fleet.ErrInvalidTimeRange):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// authorize evaluates the access policy for the request's caller. Denials
// are written out and counted; the caller runs nothing else on denial.
func authorize(w http.ResponseWriter, r *http.Request, m *metrics.Metrics, op access.Operation, target access.Target) bool {
	caller, ok := middleware.GetCallerFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return false
	}
	if err := access.Evaluate(caller, op, target); err != nil {
		if m != nil {
			m.AccessDenied.WithLabelValues(string(op)).Inc()
		}
		writeError(w, err)
		return false
	}
	return true
}
