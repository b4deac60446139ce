package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bezrodnovart03/BnovAuto/internal/models"
)

// VehicleCollection defines the interface for vehicle data operations.
type VehicleCollection interface {
	InsertVehicle(ctx context.Context, vehicle models.Vehicle) (primitive.ObjectID, error)
	FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error)
	FindVehicles(ctx context.Context) ([]models.Vehicle, error)
	FindVehiclesByCompanyID(ctx context.Context, companyID string) ([]models.Vehicle, error)
	ExistsByLicensePlate(ctx context.Context, licensePlate string) (bool, error)
	UpdateVehicle(ctx context.Context, id string, vehicle models.Vehicle) error
	DeleteVehicle(ctx context.Context, id string) error
}

// MongoVehicleCollection implements VehicleCollection for MongoDB.
type MongoVehicleCollection struct {
	Collection *mongo.Collection
}

// InsertVehicle inserts a vehicle record into the collection.
func (c *MongoVehicleCollection) InsertVehicle(ctx context.Context, vehicle models.Vehicle) (primitive.ObjectID, error) {
	if c.Collection == nil {
		return primitive.NilObjectID, fmt.Errorf("mongo collection is nil")
	}
	vehicle.CreatedAt = time.Now()
	vehicle.UpdatedAt = time.Now()
	res, err := c.Collection.InsertOne(ctx, vehicle)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

// FindVehicleByID finds a vehicle by its ID.
func (c *MongoVehicleCollection) FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var vehicle models.Vehicle
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&vehicle)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

// FindVehicles returns all vehicles.
func (c *MongoVehicleCollection) FindVehicles(ctx context.Context) ([]models.Vehicle, error) {
	return c.findVehicles(ctx, bson.M{})
}

// FindVehiclesByCompanyID returns the vehicles owned by a company.
func (c *MongoVehicleCollection) FindVehiclesByCompanyID(ctx context.Context, companyID string) ([]models.Vehicle, error) {
	objectID, err := primitive.ObjectIDFromHex(companyID)
	if err != nil {
		return nil, ErrNotFound
	}
	return c.findVehicles(ctx, bson.M{"company_id": objectID})
}

// ExistsByLicensePlate reports whether any vehicle carries the given plate.
// Uniqueness is global, not per company.
func (c *MongoVehicleCollection) ExistsByLicensePlate(ctx context.Context, licensePlate string) (bool, error) {
	count, err := c.Collection.CountDocuments(ctx, bson.M{"license_plate": licensePlate})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateVehicle updates a vehicle by its ID.
func (c *MongoVehicleCollection) UpdateVehicle(ctx context.Context, id string, vehicle models.Vehicle) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	vehicle.UpdatedAt = time.Now()
	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": vehicle})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteVehicle deletes a vehicle by its ID. Telemetry of the vehicle is
// not cascaded; dependent records keep their reference and reads against
// them stay fail-safe.
func (c *MongoVehicleCollection) DeleteVehicle(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *MongoVehicleCollection) findVehicles(ctx context.Context, filter bson.M) ([]models.Vehicle, error) {
	cursor, err := c.Collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var vehicles []models.Vehicle
	if err := cursor.All(ctx, &vehicles); err != nil {
		return nil, err
	}
	return vehicles, nil
}
