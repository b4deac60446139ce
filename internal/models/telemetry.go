package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bezrodnovart03/BnovAuto/internal/geo"
)

// Telemetry is a single timestamped measurement snapshot for one vehicle.
// The timestamp is always assigned by the server at ingestion time.
// Telemetry is append-only: created and read, never updated.
type Telemetry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VehicleID primitive.ObjectID `bson:"vehicle_id" json:"vehicle_id"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
	Location  geo.Point          `bson:"location" json:"location"`
	Measurements
}

// Measurements is the optional measurement set attached to a telemetry
// record. Nil pointers mean the measurement was absent; an empty error code
// means no error.
type Measurements struct {
	Speed             *float64 `bson:"speed,omitempty" json:"speed,omitempty"`
	FuelLevel         *float64 `bson:"fuel_level,omitempty" json:"fuel_level,omitempty"`
	EngineTemperature *float64 `bson:"engine_temperature,omitempty" json:"engine_temperature,omitempty"`
	EngineRPM         *int     `bson:"engine_rpm,omitempty" json:"engine_rpm,omitempty"`
	BatteryVoltage    *float64 `bson:"battery_voltage,omitempty" json:"battery_voltage,omitempty"`
	ErrorCode         string   `bson:"error_code,omitempty" json:"error_code,omitempty"`
}

// HasError reports whether the record carries a non-empty error code.
func (m Measurements) HasError() bool {
	return m.ErrorCode != ""
}
