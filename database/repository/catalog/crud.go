// File: database/repository/catalog/crud.go
package catalogRepo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"appointly/models"
)

func (r *mongoCatalogRepo) GetService(ctx context.Context, serviceID string) (*models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var svc models.Service
	if err := r.services.FindOne(ctx, bson.M{"id": serviceID}).Decode(&svc); err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *mongoCatalogRepo) GetServicesByProfessional(ctx context.Context, professionalID string) ([]models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.services.Find(ctx, bson.M{"professional_id": professionalID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var svcs []models.Service
	if err := cursor.All(ctx, &svcs); err != nil {
		return nil, err
	}
	return svcs, nil
}

func (r *mongoCatalogRepo) CreateService(ctx context.Context, svc *models.Service) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.services.InsertOne(ctx, svc)
	return err
}

func (r *mongoCatalogRepo) UpdateService(ctx context.Context, svc *models.Service) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": svc.ID, "professional_id": svc.ProfessionalID}
	res, err := r.services.ReplaceOne(ctx, filter, svc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoCatalogRepo) GetPolicy(ctx context.Context, professionalID string) (*models.BookingPolicy, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var policy models.BookingPolicy
	err := r.policies.FindOne(ctx, bson.M{"professional_id": professionalID}).Decode(&policy)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &policy, nil
}

func (r *mongoCatalogRepo) UpsertPolicy(ctx context.Context, policy models.BookingPolicy) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"professional_id": policy.ProfessionalID}
	opts := options.Replace().SetUpsert(true)
	_, err := r.policies.ReplaceOne(ctx, filter, policy, opts)
	return err
}
