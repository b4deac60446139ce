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

// RouteCollection defines the interface for route data operations.
type RouteCollection interface {
	InsertRoute(ctx context.Context, route models.Route) (primitive.ObjectID, error)
	FindRouteByID(ctx context.Context, id string) (*models.Route, error)
	FindRoutes(ctx context.Context) ([]models.Route, error)
	FindRoutesByCompanyID(ctx context.Context, companyID string) ([]models.Route, error)
	FindRoutesByVehicleID(ctx context.Context, vehicleID string) ([]models.Route, error)
	FindRoutesByDriverID(ctx context.Context, driverID string) ([]models.Route, error)
	FindActiveRoutes(ctx context.Context) ([]models.Route, error)
	UpdateRoute(ctx context.Context, id string, route models.Route) error
	DeleteRoute(ctx context.Context, id string) error
}

// MongoRouteCollection implements RouteCollection for MongoDB.
type MongoRouteCollection struct {
	Collection *mongo.Collection
}

// InsertRoute inserts a route record into the collection.
func (c *MongoRouteCollection) InsertRoute(ctx context.Context, route models.Route) (primitive.ObjectID, error) {
	if c.Collection == nil {
		return primitive.NilObjectID, fmt.Errorf("mongo collection is nil")
	}
	route.CreatedAt = time.Now()
	route.UpdatedAt = time.Now()
	res, err := c.Collection.InsertOne(ctx, route)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

// FindRouteByID finds a route by its ID.
func (c *MongoRouteCollection) FindRouteByID(ctx context.Context, id string) (*models.Route, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var route models.Route
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&route)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &route, nil
}

// FindRoutes returns all routes.
func (c *MongoRouteCollection) FindRoutes(ctx context.Context) ([]models.Route, error) {
	return c.findRoutes(ctx, bson.M{})
}

// FindRoutesByCompanyID returns the routes owned by a company.
func (c *MongoRouteCollection) FindRoutesByCompanyID(ctx context.Context, companyID string) ([]models.Route, error) {
	objectID, err := primitive.ObjectIDFromHex(companyID)
	if err != nil {
		return nil, ErrNotFound
	}
	return c.findRoutes(ctx, bson.M{"company_id": objectID})
}

// FindRoutesByVehicleID returns the routes a vehicle is assigned to.
func (c *MongoRouteCollection) FindRoutesByVehicleID(ctx context.Context, vehicleID string) ([]models.Route, error) {
	objectID, err := primitive.ObjectIDFromHex(vehicleID)
	if err != nil {
		return nil, ErrNotFound
	}
	return c.findRoutes(ctx, bson.M{"vehicle_ids": objectID})
}

// FindRoutesByDriverID returns the routes a driver is assigned to.
func (c *MongoRouteCollection) FindRoutesByDriverID(ctx context.Context, driverID string) ([]models.Route, error) {
	objectID, err := primitive.ObjectIDFromHex(driverID)
	if err != nil {
		return nil, ErrNotFound
	}
	return c.findRoutes(ctx, bson.M{"driver_ids": objectID})
}

// FindActiveRoutes returns the routes with status ACTIVE.
func (c *MongoRouteCollection) FindActiveRoutes(ctx context.Context) ([]models.Route, error) {
	return c.findRoutes(ctx, bson.M{"status": "ACTIVE"})
}

// UpdateRoute updates a route by its ID.
func (c *MongoRouteCollection) UpdateRoute(ctx context.Context, id string, route models.Route) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	route.UpdatedAt = time.Now()
	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": route})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteRoute deletes a route by its ID.
func (c *MongoRouteCollection) DeleteRoute(ctx context.Context, id string) error {
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

func (c *MongoRouteCollection) findRoutes(ctx context.Context, filter bson.M) ([]models.Route, error) {
	cursor, err := c.Collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var routes []models.Route
	if err := cursor.All(ctx, &routes); err != nil {
		return nil, err
	}
	return routes, nil
}
