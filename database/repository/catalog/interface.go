// File: database/repository/catalog/interface.go
package catalogRepo

import (
	"context"

	"appointly/database"
	"appointly/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// CatalogRepository persists services and booking policies.
type CatalogRepository interface {
	GetService(ctx context.Context, serviceID string) (*models.Service, error)
	GetServicesByProfessional(ctx context.Context, professionalID string) ([]models.Service, error)
	CreateService(ctx context.Context, svc *models.Service) error
	UpdateService(ctx context.Context, svc *models.Service) error
	GetPolicy(ctx context.Context, professionalID string) (*models.BookingPolicy, error)
	UpsertPolicy(ctx context.Context, policy models.BookingPolicy) error
}

type mongoCatalogRepo struct {
	services *mongo.Collection
	policies *mongo.Collection
}

// NewMongoCatalogRepo constructs a MongoDB-backed CatalogRepository.
func NewMongoCatalogRepo() CatalogRepository {
	db := database.DB()
	return &mongoCatalogRepo{
		services: db.Collection("services"),
		policies: db.Collection("booking_policies"),
	}
}
