package booking

import (
	"context"
	"fmt"
	"time"

	"appointly/models"
	"appointly/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateBooking validates the requested interval against live booking state
// and persists a new pending booking. The conflict check runs under the
// professional's lock so at most one of two racing requests for overlapping
// intervals can succeed; the loser gets a SlotUnavailableError and nothing is
// persisted.
func (se *DefaultSchedulingEngine) CreateBooking(ctx context.Context, clientID string, req models.CreateBookingRequest) (*models.Booking, error) {
	logger := utils.GetLogger()

	svc, err := se.Catalog.GetService(ctx, req.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load service %s: %w", req.ServiceID, err)
	}
	if !svc.Active {
		return nil, fmt.Errorf("service %s is not active", req.ServiceID)
	}
	if svc.ProfessionalID != req.ProfessionalID {
		return nil, fmt.Errorf("service %s does not belong to professional %s", req.ServiceID, req.ProfessionalID)
	}

	policy, err := se.policyFor(ctx, req.ProfessionalID)
	if err != nil {
		return nil, err
	}

	end := req.Start + svc.DurationMinutes
	if end > minutesPerDay {
		return nil, NewSlotUnavailableError("appointment would extend past the end of the day")
	}

	day, err := time.ParseInLocation("2006-01-02", req.Date, se.loc())
	if err != nil {
		return nil, fmt.Errorf("invalid booking date %q: %w", req.Date, err)
	}
	startAt := day.Add(time.Duration(req.Start) * time.Minute)

	now := se.now()
	if startAt.Before(now.Add(time.Duration(policy.MinAdvanceHours) * time.Hour)) {
		return nil, NewSlotUnavailableError("slot starts inside the %d-hour minimum advance window", policy.MinAdvanceHours)
	}
	if startAt.After(now.AddDate(0, 0, policy.MaxAdvanceDays)) {
		return nil, NewSlotUnavailableError("slot is beyond the %d-day maximum advance window", policy.MaxAdvanceDays)
	}

	// The interval must sit inside the professional's effective availability;
	// conflict checks alone would admit bookings on closed dates.
	ranges, err := se.Availability.GetEffectiveRanges(ctx, req.ProfessionalID, req.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve availability for %s: %w", req.Date, err)
	}
	if !withinRanges(req.Start, end, ranges) {
		return nil, NewSlotUnavailableError("interval [%d, %d) on %s is outside the professional's availability", req.Start, end, req.Date)
	}

	unlock := se.locks.lock(req.ProfessionalID)
	defer unlock()

	// Slot listings shown to the user may be stale; always re-check against
	// live bookings at creation time.
	existing, err := se.Bookings.GetForDate(ctx, req.ProfessionalID, req.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings for %s: %w", req.Date, err)
	}
	blocked := BlockedIntervals(existing, policy.BufferMinutes)
	if conflicts := FindConflicts(Interval{Start: req.Start, End: end}, blocked); len(conflicts) > 0 {
		return nil, NewSlotUnavailableError("interval [%d, %d) on %s conflicts with an existing booking", req.Start, end, req.Date)
	}

	booking := &models.Booking{
		ID:             uuid.New().String(),
		ProfessionalID: req.ProfessionalID,
		ClientID:       clientID,
		ServiceID:      req.ServiceID,
		Date:           req.Date,
		Start:          req.Start,
		End:            end,
		Status:         models.BookingPending,
		PaymentStatus:  models.PaymentPending,
		Notes:          req.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if policy.AutoConfirm {
		booking.Status = models.BookingConfirmed
	}

	if err := se.Bookings.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	se.bumpSlotVersion(ctx, req.ProfessionalID)

	logger.Info("booking created",
		zap.String("bookingID", booking.ID),
		zap.String("professionalID", booking.ProfessionalID),
		zap.String("date", booking.Date),
		zap.Int("start", booking.Start), zap.Int("end", booking.End),
		zap.String("status", string(booking.Status)))
	return booking, nil
}

// ConfirmBooking moves a pending booking to confirmed. Only the owning
// professional or the system actor may confirm.
func (se *DefaultSchedulingEngine) ConfirmBooking(ctx context.Context, bookingID, actorID string) (*models.Booking, error) {
	unlock, booking, err := se.lockAndLoad(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if booking.Status != models.BookingPending {
		return nil, &InvalidTransitionError{Op: "confirm", From: booking.Status}
	}
	if actorID != booking.ProfessionalID && actorID != SystemActor {
		return nil, &NotAuthorizedError{ActorID: actorID, Op: "confirm"}
	}

	booking.Status = models.BookingConfirmed
	return se.saveTransition(ctx, booking, "confirmed")
}

// CancelBooking cancels a pending or confirmed booking. Professionals may
// cancel any time before the start; clients are held to the policy's
// minimum-advance-notice window.
func (se *DefaultSchedulingEngine) CancelBooking(ctx context.Context, bookingID, actorID string) (*models.Booking, error) {
	unlock, booking, err := se.lockAndLoad(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if booking.Status.Terminal() {
		return nil, &InvalidTransitionError{Op: "cancel", From: booking.Status}
	}

	startAt, err := booking.StartsAt(se.loc())
	if err != nil {
		return nil, fmt.Errorf("corrupt booking date %q: %w", booking.Date, err)
	}
	now := se.now()
	if !now.Before(startAt) {
		return nil, &InvalidTransitionError{Op: "cancel", From: booking.Status}
	}

	switch actorID {
	case booking.ProfessionalID, SystemActor:
		// Professionals may cancel any time up to the start.
	case booking.ClientID:
		policy, err := se.policyFor(ctx, booking.ProfessionalID)
		if err != nil {
			return nil, err
		}
		cutoff := startAt.Add(-time.Duration(policy.MinAdvanceHours) * time.Hour)
		if now.After(cutoff) {
			return nil, &CancellationWindowError{MinAdvanceHours: policy.MinAdvanceHours}
		}
	default:
		return nil, &NotAuthorizedError{ActorID: actorID, Op: "cancel"}
	}

	booking.Status = models.BookingCancelled
	return se.saveTransition(ctx, booking, "cancelled")
}

// MarkCompleted records that a confirmed booking took place. Only valid after
// the appointment has ended.
func (se *DefaultSchedulingEngine) MarkCompleted(ctx context.Context, bookingID, actorID string) (*models.Booking, error) {
	return se.markAttendance(ctx, bookingID, actorID, models.BookingCompleted, "complete")
}

// MarkNoShow records that a confirmed booking was not attended. Only valid
// after the appointment has ended.
func (se *DefaultSchedulingEngine) MarkNoShow(ctx context.Context, bookingID, actorID string) (*models.Booking, error) {
	return se.markAttendance(ctx, bookingID, actorID, models.BookingNoShow, "mark no-show")
}

func (se *DefaultSchedulingEngine) markAttendance(ctx context.Context, bookingID, actorID string, to models.BookingStatus, op string) (*models.Booking, error) {
	unlock, booking, err := se.lockAndLoad(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if booking.Status != models.BookingConfirmed {
		return nil, &InvalidTransitionError{Op: op, From: booking.Status}
	}
	if actorID != booking.ProfessionalID && actorID != SystemActor {
		return nil, &NotAuthorizedError{ActorID: actorID, Op: op}
	}

	endAt, err := booking.EndsAt(se.loc())
	if err != nil {
		return nil, fmt.Errorf("corrupt booking date %q: %w", booking.Date, err)
	}
	if se.now().Before(endAt) {
		return nil, &TooEarlyError{Op: op}
	}

	booking.Status = to
	return se.saveTransition(ctx, booking, string(to))
}

// UpdatePaymentStatus records a payment state change. Payment status moves
// independently of the booking lifecycle; only enum membership is validated.
// The write runs under the professional's lock like every other mutation, so
// a lifecycle transition committing concurrently is never overwritten with a
// stale snapshot.
func (se *DefaultSchedulingEngine) UpdatePaymentStatus(ctx context.Context, bookingID string, status models.PaymentStatus) (*models.Booking, error) {
	if !models.ValidPaymentStatus(status) {
		return nil, fmt.Errorf("unknown payment status %q", status)
	}

	unlock, booking, err := se.lockAndLoad(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	booking.PaymentStatus = status
	booking.UpdatedAt = se.now()
	if err := se.Bookings.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to update booking %s: %w", bookingID, err)
	}

	utils.GetLogger().Info("payment status updated",
		zap.String("bookingID", booking.ID),
		zap.String("paymentStatus", string(status)))
	return booking, nil
}

// GetBooking loads a single booking.
func (se *DefaultSchedulingEngine) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	return se.Bookings.GetByID(ctx, bookingID)
}

// ListBookings loads a professional's bookings over an inclusive date range.
func (se *DefaultSchedulingEngine) ListBookings(ctx context.Context, professionalID, from, to string) ([]models.Booking, error) {
	return se.Bookings.GetForRange(ctx, professionalID, from, to)
}

func (se *DefaultSchedulingEngine) lockAndLoad(ctx context.Context, bookingID string) (func(), *models.Booking, error) {
	booking, err := se.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load booking %s: %w", bookingID, err)
	}

	unlock := se.locks.lock(booking.ProfessionalID)

	// Reload under the lock; the record may have transitioned while we waited.
	booking, err = se.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		unlock()
		return nil, nil, fmt.Errorf("failed to load booking %s: %w", bookingID, err)
	}
	return unlock, booking, nil
}

func (se *DefaultSchedulingEngine) saveTransition(ctx context.Context, booking *models.Booking, event string) (*models.Booking, error) {
	booking.UpdatedAt = se.now()
	if err := se.Bookings.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to update booking %s: %w", booking.ID, err)
	}
	se.bumpSlotVersion(ctx, booking.ProfessionalID)

	utils.GetLogger().Info("booking "+event,
		zap.String("bookingID", booking.ID),
		zap.String("professionalID", booking.ProfessionalID))
	return booking, nil
}
