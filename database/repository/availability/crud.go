// File: database/repository/availability/crud.go
package availabilityRepo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"appointly/models"
)

func (r *mongoAvailabilityRepo) GetRules(ctx context.Context, professionalID string) ([]models.AvailabilityRule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"professional_id": professionalID}
	cursor, err := r.rules.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rules []models.AvailabilityRule
	if err := cursor.All(ctx, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *mongoAvailabilityRepo) ReplaceRule(ctx context.Context, rule models.AvailabilityRule) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"professional_id": rule.ProfessionalID, "day_of_week": rule.DayOfWeek}
	opts := options.Replace().SetUpsert(true)
	_, err := r.rules.ReplaceOne(ctx, filter, rule, opts)
	return err
}

func (r *mongoAvailabilityRepo) GetException(ctx context.Context, professionalID, date string) (*models.AvailabilityException, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"professional_id": professionalID, "date": date}
	var exc models.AvailabilityException
	err := r.exceptions.FindOne(ctx, filter).Decode(&exc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &exc, nil
}

func (r *mongoAvailabilityRepo) GetExceptions(ctx context.Context, professionalID, from, to string) ([]models.AvailabilityException, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"professional_id": professionalID,
		"date":            bson.M{"$gte": from, "$lte": to},
	}
	cursor, err := r.exceptions.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var excs []models.AvailabilityException
	if err := cursor.All(ctx, &excs); err != nil {
		return nil, err
	}
	return excs, nil
}

func (r *mongoAvailabilityRepo) UpsertException(ctx context.Context, exc models.AvailabilityException) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"professional_id": exc.ProfessionalID, "date": exc.Date}
	opts := options.Replace().SetUpsert(true)
	_, err := r.exceptions.ReplaceOne(ctx, filter, exc, opts)
	return err
}
