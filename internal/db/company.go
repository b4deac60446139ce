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

// CompanyCollection defines the interface for company data operations.
type CompanyCollection interface {
	InsertCompany(ctx context.Context, company models.Company) (primitive.ObjectID, error)
	FindCompanyByID(ctx context.Context, id string) (*models.Company, error)
	FindCompanyByName(ctx context.Context, name string) (*models.Company, error)
	ExistsCompanyByName(ctx context.Context, name string) (bool, error)
	FindCompanies(ctx context.Context) ([]models.Company, error)
	UpdateCompany(ctx context.Context, id string, company models.Company) error
	DeleteCompany(ctx context.Context, id string) error
}

// MongoCompanyCollection implements CompanyCollection for MongoDB.
type MongoCompanyCollection struct {
	Collection *mongo.Collection
}

// InsertCompany inserts a company record into the collection.
func (c *MongoCompanyCollection) InsertCompany(ctx context.Context, company models.Company) (primitive.ObjectID, error) {
	if c.Collection == nil {
		return primitive.NilObjectID, fmt.Errorf("mongo collection is nil")
	}
	company.CreatedAt = time.Now()
	company.UpdatedAt = time.Now()
	res, err := c.Collection.InsertOne(ctx, company)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

// FindCompanyByID finds a company by its ID.
func (c *MongoCompanyCollection) FindCompanyByID(ctx context.Context, id string) (*models.Company, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var company models.Company
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&company)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &company, nil
}

// FindCompanyByName finds a company by its name.
func (c *MongoCompanyCollection) FindCompanyByName(ctx context.Context, name string) (*models.Company, error) {
	var company models.Company
	err := c.Collection.FindOne(ctx, bson.M{"name": name}).Decode(&company)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &company, nil
}

// ExistsCompanyByName reports whether a company with the given name exists.
func (c *MongoCompanyCollection) ExistsCompanyByName(ctx context.Context, name string) (bool, error) {
	count, err := c.Collection.CountDocuments(ctx, bson.M{"name": name})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindCompanies returns all companies.
func (c *MongoCompanyCollection) FindCompanies(ctx context.Context) ([]models.Company, error) {
	cursor, err := c.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var companies []models.Company
	if err := cursor.All(ctx, &companies); err != nil {
		return nil, err
	}
	return companies, nil
}

// UpdateCompany updates a company by its ID.
func (c *MongoCompanyCollection) UpdateCompany(ctx context.Context, id string, company models.Company) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	company.UpdatedAt = time.Now()
	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": company})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCompany deletes a company by its ID.
func (c *MongoCompanyCollection) DeleteCompany(ctx context.Context, id string) error {
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
