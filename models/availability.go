package models

import "time"

// TimeRange is a half-open [Start, End) window in minutes from midnight.
type TimeRange struct {
	Start int `bson:"start" json:"start"`
	End   int `bson:"end" json:"end"`
}

// AvailabilityRule is a professional's recurring weekly availability for one
// day of the week. Setting a rule replaces that day's ranges entirely.
type AvailabilityRule struct {
	ProfessionalID string       `bson:"professional_id" json:"professionalId"`
	DayOfWeek      time.Weekday `bson:"day_of_week" json:"dayOfWeek"`
	Ranges         []TimeRange  `bson:"ranges" json:"ranges"`
}

// AvailabilityException overrides the weekly rule for a single date. Nil
// ranges marks the date fully closed.
type AvailabilityException struct {
	ProfessionalID string      `bson:"professional_id" json:"professionalId"`
	Date           string      `bson:"date" json:"date"` // "2006-01-02"
	Ranges         []TimeRange `bson:"ranges" json:"ranges"`
}

// BookingPolicy holds a professional's scheduling constraints.
type BookingPolicy struct {
	ProfessionalID  string `bson:"professional_id" json:"professionalId"`
	BufferMinutes   int    `bson:"buffer_minutes" json:"bufferMinutes"`
	MinAdvanceHours int    `bson:"min_advance_hours" json:"minAdvanceHours"`
	MaxAdvanceDays  int    `bson:"max_advance_days" json:"maxAdvanceDays"`
	AutoConfirm     bool   `bson:"auto_confirm" json:"autoConfirm"`
}

// DefaultBookingPolicy applies when a professional has not configured one.
func DefaultBookingPolicy(professionalID string) BookingPolicy {
	return BookingPolicy{
		ProfessionalID: professionalID,
		MaxAdvanceDays: 30,
	}
}
