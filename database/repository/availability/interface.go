// File: database/repository/availability/interface.go
package availabilityRepo

import (
	"context"

	"appointly/database"
	"appointly/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// AvailabilityRepository persists weekly rules and date exceptions.
type AvailabilityRepository interface {
	GetRules(ctx context.Context, professionalID string) ([]models.AvailabilityRule, error)
	ReplaceRule(ctx context.Context, rule models.AvailabilityRule) error
	GetException(ctx context.Context, professionalID, date string) (*models.AvailabilityException, error)
	GetExceptions(ctx context.Context, professionalID, from, to string) ([]models.AvailabilityException, error)
	UpsertException(ctx context.Context, exc models.AvailabilityException) error
}

type mongoAvailabilityRepo struct {
	rules      *mongo.Collection
	exceptions *mongo.Collection
}

// NewMongoAvailabilityRepo constructs a MongoDB-backed AvailabilityRepository.
func NewMongoAvailabilityRepo() AvailabilityRepository {
	db := database.DB()
	return &mongoAvailabilityRepo{
		rules:      db.Collection("availability_rules"),
		exceptions: db.Collection("availability_exceptions"),
	}
}
