package models

// SetWeeklyRuleRequest replaces one weekday's availability wholesale.
type SetWeeklyRuleRequest struct {
	DayOfWeek int         `json:"dayOfWeek" binding:"min=0,max=6"`
	Ranges    []TimeRange `json:"ranges" binding:"required"`
}

// SetExceptionRequest sets or clears a one-off override for a date.
// Omitting ranges marks the professional unavailable for the whole date.
type SetExceptionRequest struct {
	Date   string      `json:"date" binding:"required"`
	Ranges []TimeRange `json:"ranges"`
}

// CreateBookingRequest is the client-facing booking payload.
type CreateBookingRequest struct {
	ProfessionalID string `json:"professionalId" binding:"required"`
	ServiceID      string `json:"serviceId" binding:"required"`
	Date           string `json:"date" binding:"required"`
	Start          int    `json:"start" binding:"min=0,max=1439"`
	Notes          string `json:"notes"`
}

// UpdatePaymentStatusRequest carries a payment status change.
type UpdatePaymentStatusRequest struct {
	PaymentStatus PaymentStatus `json:"paymentStatus" binding:"required"`
}

// UpsertServiceRequest creates or updates a bookable service.
type UpsertServiceRequest struct {
	Name            string  `json:"name" binding:"required"`
	DurationMinutes int     `json:"durationMinutes" binding:"required,gt=0"`
	Price           float64 `json:"price" binding:"min=0"`
	Active          *bool   `json:"active"`
}

// UpsertPolicyRequest replaces a professional's booking policy.
type UpsertPolicyRequest struct {
	BufferMinutes   int  `json:"bufferMinutes" binding:"min=0"`
	MinAdvanceHours int  `json:"minAdvanceHours" binding:"min=0"`
	MaxAdvanceDays  int  `json:"maxAdvanceDays" binding:"required,gt=0"`
	AutoConfirm     bool `json:"autoConfirm"`
}
