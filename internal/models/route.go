package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bezrodnovart03/BnovAuto/internal/geo"
)

// Route is a named geographic path owned by one company. StartPoint,
// EndPoint, and Path are independent fields: direct create/update sets them
// piecewise with no cross-field consistency check, while the builder path
// derives all three together.
type Route struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	CompanyID  primitive.ObjectID   `bson:"company_id" json:"company_id"`
	Name       string               `bson:"name" json:"name" validate:"required"`
	StartPoint geo.Point            `bson:"start_point,omitempty" json:"start_point,omitempty"`
	EndPoint   geo.Point            `bson:"end_point,omitempty" json:"end_point,omitempty"`
	Path       geo.Path             `bson:"path,omitempty" json:"path,omitempty"`
	Status     string               `bson:"status" json:"status"`
	VehicleIDs []primitive.ObjectID `bson:"vehicle_ids,omitempty" json:"vehicle_ids,omitempty"`
	DriverIDs  []primitive.ObjectID `bson:"driver_ids,omitempty" json:"driver_ids,omitempty"`
	CreatedAt  time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time            `bson:"updated_at" json:"updated_at"`
}
