package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bezrodnovart03/BnovAuto/internal/models"
)

// TelemetryCollection defines the interface for telemetry data operations.
// Telemetry is append-only; there is no update.
type TelemetryCollection interface {
	InsertTelemetry(ctx context.Context, telemetry models.Telemetry) (primitive.ObjectID, error)
	FindTelemetry(ctx context.Context) ([]models.Telemetry, error)
	FindTelemetryByVehicleID(ctx context.Context, vehicleID string, start, end *time.Time) ([]models.Telemetry, error)
	FindLatestTelemetry(ctx context.Context, vehicleID string) (*models.Telemetry, error)
}

// MongoTelemetryCollection implements TelemetryCollection for MongoDB.
type MongoTelemetryCollection struct {
	Collection *mongo.Collection
}

// InsertTelemetry inserts a telemetry record into the collection.
func (c *MongoTelemetryCollection) InsertTelemetry(ctx context.Context, telemetry models.Telemetry) (primitive.ObjectID, error) {
	if c.Collection == nil {
		return primitive.NilObjectID, fmt.Errorf("mongo collection is nil")
	}
	res, err := c.Collection.InsertOne(ctx, telemetry)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

// FindTelemetry returns all telemetry records ordered by timestamp descending.
func (c *MongoTelemetryCollection) FindTelemetry(ctx context.Context) ([]models.Telemetry, error) {
	return c.findTelemetry(ctx, bson.M{})
}

// FindTelemetryByVehicleID returns the telemetry of a vehicle ordered by
// timestamp descending. Bounds are inclusive and optional; nil means
// unbounded. A vehicle with no rows yields an empty slice, not an error.
func (c *MongoTelemetryCollection) FindTelemetryByVehicleID(ctx context.Context, vehicleID string, start, end *time.Time) ([]models.Telemetry, error) {
	objectID, err := primitive.ObjectIDFromHex(vehicleID)
	if err != nil {
		return nil, ErrNotFound
	}

	filter := bson.M{"vehicle_id": objectID}
	bounds := bson.M{}
	if start != nil {
		bounds["$gte"] = *start
	}
	if end != nil {
		bounds["$lte"] = *end
	}
	if len(bounds) > 0 {
		filter["timestamp"] = bounds
	}
	return c.findTelemetry(ctx, filter)
}

// FindLatestTelemetry returns the single most recent record for a vehicle,
// or ErrNotFound if the vehicle has no telemetry.
func (c *MongoTelemetryCollection) FindLatestTelemetry(ctx context.Context, vehicleID string) (*models.Telemetry, error) {
	objectID, err := primitive.ObjectIDFromHex(vehicleID)
	if err != nil {
		return nil, ErrNotFound
	}

	opts := options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	var telemetry models.Telemetry
	err = c.Collection.FindOne(ctx, bson.M{"vehicle_id": objectID}, opts).Decode(&telemetry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &telemetry, nil
}

func (c *MongoTelemetryCollection) findTelemetry(ctx context.Context, filter bson.M) ([]models.Telemetry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := c.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.Telemetry
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
