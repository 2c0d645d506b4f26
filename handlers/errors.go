package handlers

import (
	"errors"
	"net/http"

	"appointly/services/availability"
	"appointly/services/booking"
)

// statusForError maps engine business-rule errors to HTTP statuses. Anything
// unrecognized is treated as an infrastructure failure.
func statusForError(err error) int {
	var (
		invalidRange  *availability.InvalidRangeError
		unavailable   *booking.SlotUnavailableError
		badTransition *booking.InvalidTransitionError
		notAuthorized *booking.NotAuthorizedError
		cancelWindow  *booking.CancellationWindowError
		tooEarly      *booking.TooEarlyError
	)
	switch {
	case errors.As(err, &invalidRange):
		return http.StatusUnprocessableEntity
	case errors.As(err, &unavailable):
		return http.StatusConflict
	case errors.As(err, &badTransition):
		return http.StatusConflict
	case errors.As(err, &notAuthorized):
		return http.StatusForbidden
	case errors.As(err, &cancelWindow):
		return http.StatusForbidden
	case errors.As(err, &tooEarly):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
