package models

// Slot is a derived bookable candidate. Slots are generated on demand from
// availability ranges and live bookings; they are never persisted.
type Slot struct {
	Date      string `json:"date"` // "2006-01-02"
	Start     int    `json:"start"`
	End       int    `json:"end"`
	Available bool   `json:"available"`
}
