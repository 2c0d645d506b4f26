package availability

import (
	"context"
	"fmt"
	"time"

	"appointly/models"
	"appointly/utils"

	"go.uber.org/zap"
)

const minutesPerDay = 24 * 60

// ValidateRanges enforces the range invariant: each range within [0, 1440),
// end strictly after start, sorted by start, pairwise non-overlapping.
// Adjacent ranges (prev.End == next.Start) are allowed.
func ValidateRanges(ranges []models.TimeRange) error {
	for i, r := range ranges {
		if r.Start < 0 || r.End > minutesPerDay {
			return NewInvalidRangeError("range %d [%d, %d) outside the day", i, r.Start, r.End)
		}
		if r.End <= r.Start {
			return NewInvalidRangeError("range %d [%d, %d) has non-positive length", i, r.Start, r.End)
		}
		if i > 0 {
			prev := ranges[i-1]
			if r.Start < prev.Start {
				return NewInvalidRangeError("ranges not sorted by start time")
			}
			if r.Start < prev.End {
				return NewInvalidRangeError("range %d overlaps range %d", i, i-1)
			}
		}
	}
	return nil
}

func (s *DefaultAvailabilityService) SetWeeklyRule(ctx context.Context, professionalID string, day time.Weekday, ranges []models.TimeRange) error {
	if day < time.Sunday || day > time.Saturday {
		return NewInvalidRangeError("day of week %d out of range", day)
	}
	if err := ValidateRanges(ranges); err != nil {
		return err
	}

	rule := models.AvailabilityRule{
		ProfessionalID: professionalID,
		DayOfWeek:      day,
		Ranges:         ranges,
	}
	if err := s.Repo.ReplaceRule(ctx, rule); err != nil {
		return fmt.Errorf("failed to replace weekly rule: %w", err)
	}
	utils.BumpSlotVersion(ctx, s.Cache, professionalID)

	utils.GetLogger().Info("weekly rule replaced",
		zap.String("professionalID", professionalID),
		zap.Int("dayOfWeek", int(day)),
		zap.Int("ranges", len(ranges)))
	return nil
}

func (s *DefaultAvailabilityService) SetException(ctx context.Context, professionalID, date string, ranges []models.TimeRange) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return NewInvalidRangeError("invalid date %q", date)
	}
	if ranges != nil {
		if err := ValidateRanges(ranges); err != nil {
			return err
		}
	}

	exc := models.AvailabilityException{
		ProfessionalID: professionalID,
		Date:           date,
		Ranges:         ranges,
	}
	if err := s.Repo.UpsertException(ctx, exc); err != nil {
		return fmt.Errorf("failed to upsert exception: %w", err)
	}
	utils.BumpSlotVersion(ctx, s.Cache, professionalID)

	utils.GetLogger().Info("availability exception set",
		zap.String("professionalID", professionalID),
		zap.String("date", date),
		zap.Bool("closed", len(ranges) == 0))
	return nil
}

func (s *DefaultAvailabilityService) GetEffectiveRanges(ctx context.Context, professionalID, date string) ([]models.TimeRange, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, NewInvalidRangeError("invalid date %q", date)
	}

	exc, err := s.Repo.GetException(ctx, professionalID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load exception: %w", err)
	}
	if exc != nil {
		return exc.Ranges, nil
	}

	rules, err := s.Repo.GetRules(ctx, professionalID)
	if err != nil {
		return nil, fmt.Errorf("failed to load weekly rules: %w", err)
	}
	for _, rule := range rules {
		if rule.DayOfWeek == day.Weekday() {
			return rule.Ranges, nil
		}
	}
	return nil, nil
}
