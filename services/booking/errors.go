package booking

import (
	"fmt"

	"appointly/models"
)

// SlotUnavailableError reports a booking request that conflicts with an
// existing non-terminal booking or falls outside the bookable window.
type SlotUnavailableError struct {
	Reason string
}

func (e *SlotUnavailableError) Error() string {
	return fmt.Sprintf("slotUnavailable: %s", e.Reason)
}

func NewSlotUnavailableError(format string, args ...any) error {
	return &SlotUnavailableError{Reason: fmt.Sprintf(format, args...)}
}

// InvalidTransitionError reports a lifecycle operation not permitted from the
// booking's current status.
type InvalidTransitionError struct {
	Op   string
	From models.BookingStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalidTransition: cannot %s a booking in status %q", e.Op, e.From)
}

// NotAuthorizedError reports an actor lacking permission for a mutation.
type NotAuthorizedError struct {
	ActorID string
	Op      string
}

func (e *NotAuthorizedError) Error() string {
	return fmt.Sprintf("notAuthorized: actor %q may not %s this booking", e.ActorID, e.Op)
}

// CancellationWindowError reports a client cancellation attempted inside the
// minimum-advance-notice window.
type CancellationWindowError struct {
	MinAdvanceHours int
}

func (e *CancellationWindowError) Error() string {
	return fmt.Sprintf("cancellationWindow: cancellations require at least %d hours notice", e.MinAdvanceHours)
}

// TooEarlyError reports a completion/no-show mark before the appointment end.
type TooEarlyError struct {
	Op string
}

func (e *TooEarlyError) Error() string {
	return fmt.Sprintf("tooEarly: cannot %s before the appointment has ended", e.Op)
}
