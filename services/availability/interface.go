package availability

import (
	"context"
	"time"

	availabilityRepo "appointly/database/repository/availability"
	"appointly/models"

	"github.com/go-redis/redis/v8"
)

// Service manages a professional's recurring weekly availability and one-off
// date exceptions.
type Service interface {
	// SetWeeklyRule replaces the given weekday's availability wholesale.
	SetWeeklyRule(ctx context.Context, professionalID string, day time.Weekday, ranges []models.TimeRange) error
	// SetException sets a date-specific override. Nil ranges marks the
	// professional unavailable for the whole date.
	SetException(ctx context.Context, professionalID, date string, ranges []models.TimeRange) error
	// GetEffectiveRanges resolves the ranges in force on a date: the
	// exception if one exists, else the weekly rule, else none.
	GetEffectiveRanges(ctx context.Context, professionalID, date string) ([]models.TimeRange, error)
}

// DefaultAvailabilityService implements Service on top of the availability repository.
type DefaultAvailabilityService struct {
	Repo availabilityRepo.AvailabilityRepository

	// Cache, when set, is the slot-listing cache to invalidate on writes.
	Cache *redis.Client
}
