package models

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
	BookingNoShow    BookingStatus = "no_show"
)

// Terminal reports whether the status admits no further lifecycle transitions.
func (s BookingStatus) Terminal() bool {
	switch s {
	case BookingCancelled, BookingCompleted, BookingNoShow:
		return true
	}
	return false
}

// PaymentStatus is tracked independently of the booking lifecycle.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

// ValidPaymentStatus reports enum membership.
func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentRefunded, PaymentFailed:
		return true
	}
	return false
}

// Booking is an appointment record between a client and a professional.
// Start and End are minutes from midnight on Date; End is derived from the
// service duration at creation time.
type Booking struct {
	ID             string        `bson:"id" json:"id"`
	ProfessionalID string        `bson:"professional_id" json:"professionalId"`
	ClientID       string        `bson:"client_id" json:"clientId"`
	ServiceID      string        `bson:"service_id" json:"serviceId"`
	Date           string        `bson:"date" json:"date"` // "2006-01-02"
	Start          int           `bson:"start" json:"start"`
	End            int           `bson:"end" json:"end"`
	Status         BookingStatus `bson:"status" json:"status"`
	PaymentStatus  PaymentStatus `bson:"payment_status" json:"paymentStatus"`
	Notes          string        `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt      time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time     `bson:"updated_at" json:"updatedAt"`
}

// StartsAt resolves the booking's absolute start in the given location.
func (b Booking) StartsAt(loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", b.Date, loc)
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(time.Duration(b.Start) * time.Minute), nil
}

// EndsAt resolves the booking's absolute end in the given location.
func (b Booking) EndsAt(loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", b.Date, loc)
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(time.Duration(b.End) * time.Minute), nil
}
