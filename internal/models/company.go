package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Company is the tenant boundary. Every vehicle, route, and user belongs to
// exactly one company.
type Company struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name" validate:"required"`
	Address   string             `bson:"address" json:"address"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
