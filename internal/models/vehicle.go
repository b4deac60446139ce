package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Vehicle statuses used by the fleet. Status is an open string, not a closed
// enumeration; these are the conventional values.
const (
	VehicleStatusActive      = "ACTIVE"
	VehicleStatusInactive    = "INACTIVE"
	VehicleStatusMaintenance = "MAINTENANCE"
)

// Vehicle is a fleet vehicle owned by one company. The license plate is
// unique across the whole system, not per company.
type Vehicle struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CompanyID    primitive.ObjectID `bson:"company_id" json:"company_id"`
	Name         string             `bson:"name" json:"name" validate:"required"`
	Model        string             `bson:"model" json:"model"`
	LicensePlate string             `bson:"license_plate" json:"license_plate" validate:"required"`
	Year         int                `bson:"year" json:"year"`
	Status       string             `bson:"status" json:"status"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}
