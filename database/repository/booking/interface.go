// File: database/repository/booking/interface.go
package bookingRepo

import (
	"context"
	"time"

	"appointly/database"
	"appointly/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// BookingRepository persists booking records.
type BookingRepository interface {
	GetByID(ctx context.Context, bookingID string) (*models.Booking, error)
	GetForDate(ctx context.Context, professionalID, date string) ([]models.Booking, error)
	GetForRange(ctx context.Context, professionalID, from, to string) ([]models.Booking, error)
	Create(ctx context.Context, booking *models.Booking) error
	Update(ctx context.Context, booking *models.Booking) error
	// GetConfirmedEndedBefore returns confirmed bookings whose end has passed
	// relative to the given instant. Used by the completion sweeper.
	GetConfirmedEndedBefore(ctx context.Context, now time.Time) ([]models.Booking, error)
}

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a MongoDB-backed BookingRepository.
func NewMongoBookingRepo() BookingRepository {
	return &mongoBookingRepo{coll: database.DB().Collection("bookings")}
}
