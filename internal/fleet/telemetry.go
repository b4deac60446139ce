package fleet

import (
	"context"
	"errors"
	"time"

	"github.com/bezrodnovart03/BnovAuto/internal/db"
	"github.com/bezrodnovart03/BnovAuto/internal/geo"
	"github.com/bezrodnovart03/BnovAuto/internal/models"
)

// timeBoundLayouts are the accepted ISO-8601 shapes for range bounds. The
// second form has no zone and is read as UTC.
var timeBoundLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// TelemetryService ingests and retrieves telemetry records. Ingestion is
// append-only; retries of Record create new rows, there is no dedup key.
type TelemetryService struct {
	telemetry db.TelemetryCollection
	vehicles  db.VehicleCollection
}

// NewTelemetryService creates a telemetry service over the given collections.
func NewTelemetryService(telemetry db.TelemetryCollection, vehicles db.VehicleCollection) *TelemetryService {
	return &TelemetryService{telemetry: telemetry, vehicles: vehicles}
}

// Record ingests one telemetry snapshot for a vehicle. The timestamp is the
// server-observed ingestion instant; client-supplied timestamps are ignored.
// Fails with NotFound(Vehicle) if the vehicle does not resolve.
func (s *TelemetryService) Record(ctx context.Context, vehicleID string, lat, lng float64, m models.Measurements) (*models.Telemetry, error) {
	vehicle, err := s.resolveVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	telemetry := models.Telemetry{
		VehicleID:    vehicle.ID,
		Timestamp:    time.Now().UTC(),
		Location:     geo.NewPoint(lat, lng),
		Measurements: m,
	}
	id, err := s.telemetry.InsertTelemetry(ctx, telemetry)
	if err != nil {
		return nil, err
	}
	telemetry.ID = id
	return &telemetry, nil
}

// Range returns the telemetry of a vehicle ordered by timestamp descending,
// filtered by optional inclusive ISO-8601 bounds. An empty bound string
// means unbounded; an unparseable bound fails with ErrInvalidTimeRange. A
// vehicle with no rows yields an empty result, not an error.
func (s *TelemetryService) Range(ctx context.Context, vehicleID, start, end string) ([]models.Telemetry, error) {
	if _, err := s.resolveVehicle(ctx, vehicleID); err != nil {
		return nil, err
	}

	startTime, err := parseTimeBound(start)
	if err != nil {
		return nil, err
	}
	endTime, err := parseTimeBound(end)
	if err != nil {
		return nil, err
	}

	records, err := s.telemetry.FindTelemetryByVehicleID(ctx, vehicleID, startTime, endTime)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.Telemetry{}
	}
	return records, nil
}

// Latest returns the most recent record for a vehicle, or nil if the
// vehicle has no telemetry. Emptiness is not an error.
func (s *TelemetryService) Latest(ctx context.Context, vehicleID string) (*models.Telemetry, error) {
	if _, err := s.resolveVehicle(ctx, vehicleID); err != nil {
		return nil, err
	}

	telemetry, err := s.telemetry.FindLatestTelemetry(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return telemetry, nil
}

// All returns every telemetry record in the system, newest first.
func (s *TelemetryService) All(ctx context.Context) ([]models.Telemetry, error) {
	return s.telemetry.FindTelemetry(ctx)
}

func (s *TelemetryService) resolveVehicle(ctx context.Context, vehicleID string) (*models.Vehicle, error) {
	vehicle, err := s.vehicles.FindVehicleByID(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, NotFound(KindVehicle, vehicleID)
		}
		return nil, err
	}
	return vehicle, nil
}

// parseTimeBound parses an optional ISO-8601 bound. Empty means unbounded.
func parseTimeBound(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range timeBoundLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, ErrInvalidTimeRange
}
