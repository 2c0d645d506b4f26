package booking

import (
	"context"
	"fmt"
	"time"

	"appointly/models"
	"appointly/utils"

	"go.uber.org/zap"
)

const minutesPerDay = 24 * 60

// policyFor loads the professional's booking policy, falling back to the
// default when none has been configured.
func (se *DefaultSchedulingEngine) policyFor(ctx context.Context, professionalID string) (models.BookingPolicy, error) {
	policy, err := se.Catalog.GetPolicy(ctx, professionalID)
	if err != nil {
		return models.BookingPolicy{}, fmt.Errorf("failed to load booking policy: %w", err)
	}
	if policy == nil {
		return models.DefaultBookingPolicy(professionalID), nil
	}
	return *policy, nil
}

// GenerateSlots walks each date in [from, to], instantiates candidate slots
// from the effective availability ranges, and marks candidates that overlap a
// blocked interval as unavailable. It is a pure function of current state and
// can be re-run at any time; a redis cache of the listing is consulted first
// when configured.
func (se *DefaultSchedulingEngine) GenerateSlots(ctx context.Context, professionalID, serviceID, from, to string, includeUnavailable bool) ([]models.Slot, error) {
	logger := utils.GetLogger()

	if cached, ok := se.cachedSlots(ctx, professionalID, serviceID, from, to, includeUnavailable); ok {
		return cached, nil
	}

	svc, err := se.Catalog.GetService(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load service %s: %w", serviceID, err)
	}
	if !svc.Active {
		return nil, fmt.Errorf("service %s is not active", serviceID)
	}
	if svc.ProfessionalID != professionalID {
		return nil, fmt.Errorf("service %s does not belong to professional %s", serviceID, professionalID)
	}

	policy, err := se.policyFor(ctx, professionalID)
	if err != nil {
		return nil, err
	}

	loc := se.loc()
	fromDay, err := time.ParseInLocation("2006-01-02", from, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid range start %q: %w", from, err)
	}
	toDay, err := time.ParseInLocation("2006-01-02", to, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid range end %q: %w", to, err)
	}

	now := se.now()
	earliest := now.Add(time.Duration(policy.MinAdvanceHours) * time.Hour)
	latest := now.AddDate(0, 0, policy.MaxAdvanceDays)

	stride := svc.DurationMinutes + policy.BufferMinutes
	var slots []models.Slot

	for d := fromDay; !d.After(toDay); d = d.AddDate(0, 0, 1) {
		// Whole dates outside the booking window produce no slots.
		if d.AddDate(0, 0, 1).Add(-time.Nanosecond).Before(earliest) || d.After(latest) {
			continue
		}
		dateStr := d.Format("2006-01-02")

		ranges, err := se.Availability.GetEffectiveRanges(ctx, professionalID, dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve availability for %s: %w", dateStr, err)
		}
		if len(ranges) == 0 {
			continue
		}

		dayBookings, err := se.Bookings.GetForDate(ctx, professionalID, dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to load bookings for %s: %w", dateStr, err)
		}
		blocked := BlockedIntervals(dayBookings, policy.BufferMinutes)

		for _, r := range ranges {
			for start := r.Start; start+svc.DurationMinutes <= r.End; start += stride {
				absStart := d.Add(time.Duration(start) * time.Minute)
				// On the boundary date, candidates before the advance cutoff
				// are excluded rather than the whole date.
				if absStart.Before(earliest) || absStart.After(latest) {
					continue
				}

				candidate := Interval{Start: start, End: start + svc.DurationMinutes}
				available := len(FindConflicts(candidate, blocked)) == 0
				if !available && !includeUnavailable {
					continue
				}
				slots = append(slots, models.Slot{
					Date:      dateStr,
					Start:     candidate.Start,
					End:       candidate.End,
					Available: available,
				})
			}
		}
	}

	logger.Debug("slots generated",
		zap.String("professionalID", professionalID),
		zap.String("serviceID", serviceID),
		zap.String("from", from), zap.String("to", to),
		zap.Int("count", len(slots)))

	se.storeSlots(ctx, professionalID, serviceID, from, to, includeUnavailable, slots)
	return slots, nil
}
