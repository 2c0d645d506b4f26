package booking

import (
	"context"
	"time"

	bookingRepo "appointly/database/repository/booking"
	catalogRepo "appointly/database/repository/catalog"
	"appointly/models"
	"appointly/services/availability"

	"github.com/go-redis/redis/v8"
)

// SystemActor identifies automated callers (the completion sweeper, payment
// webhooks) that act with professional-level authority.
const SystemActor = "system"

// SchedulingEngine computes bookable slots and owns the booking lifecycle.
type SchedulingEngine interface {
	// GenerateSlots computes the bookable slots for a professional/service
	// over an inclusive date range. When includeUnavailable is set, conflicted
	// slots are emitted with Available=false instead of being dropped.
	GenerateSlots(ctx context.Context, professionalID, serviceID, from, to string, includeUnavailable bool) ([]models.Slot, error)

	CreateBooking(ctx context.Context, clientID string, req models.CreateBookingRequest) (*models.Booking, error)
	ConfirmBooking(ctx context.Context, bookingID, actorID string) (*models.Booking, error)
	CancelBooking(ctx context.Context, bookingID, actorID string) (*models.Booking, error)
	MarkCompleted(ctx context.Context, bookingID, actorID string) (*models.Booking, error)
	MarkNoShow(ctx context.Context, bookingID, actorID string) (*models.Booking, error)
	UpdatePaymentStatus(ctx context.Context, bookingID string, status models.PaymentStatus) (*models.Booking, error)

	GetBooking(ctx context.Context, bookingID string) (*models.Booking, error)
	ListBookings(ctx context.Context, professionalID, from, to string) ([]models.Booking, error)
}

// DefaultSchedulingEngine is the production implementation.
type DefaultSchedulingEngine struct {
	Availability availability.Service
	Bookings     bookingRepo.BookingRepository
	Catalog      catalogRepo.CatalogRepository

	// Cache holds short-TTL slot listings; nil disables caching.
	Cache *redis.Client

	// Location is the canonical timezone for wall-clock math. Defaults to
	// time.Local when unset.
	Location *time.Location

	// Now allows tests to pin the clock. Defaults to time.Now.
	Now func() time.Time

	locks professionalLocks
}

func (se *DefaultSchedulingEngine) now() time.Time {
	if se.Now != nil {
		return se.Now()
	}
	return time.Now()
}

func (se *DefaultSchedulingEngine) loc() *time.Location {
	if se.Location != nil {
		return se.Location
	}
	return time.Local
}
