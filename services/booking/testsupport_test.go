package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"appointly/models"
)

// In-memory collaborators standing in for the mongo repositories.

type fakeCatalog struct {
	services map[string]models.Service
	policies map[string]models.BookingPolicy
}

func (f *fakeCatalog) GetService(_ context.Context, serviceID string) (*models.Service, error) {
	svc, ok := f.services[serviceID]
	if !ok {
		return nil, errors.New("service not found")
	}
	return &svc, nil
}

func (f *fakeCatalog) GetServicesByProfessional(_ context.Context, professionalID string) ([]models.Service, error) {
	var out []models.Service
	for _, svc := range f.services {
		if svc.ProfessionalID == professionalID {
			out = append(out, svc)
		}
	}
	return out, nil
}

func (f *fakeCatalog) CreateService(_ context.Context, svc *models.Service) error {
	f.services[svc.ID] = *svc
	return nil
}

func (f *fakeCatalog) UpdateService(_ context.Context, svc *models.Service) error {
	f.services[svc.ID] = *svc
	return nil
}

func (f *fakeCatalog) GetPolicy(_ context.Context, professionalID string) (*models.BookingPolicy, error) {
	policy, ok := f.policies[professionalID]
	if !ok {
		return nil, nil
	}
	return &policy, nil
}

func (f *fakeCatalog) UpsertPolicy(_ context.Context, policy models.BookingPolicy) error {
	f.policies[policy.ProfessionalID] = policy
	return nil
}

type fakeBookings struct {
	mu       sync.Mutex
	bookings map[string]models.Booking
}

func newFakeBookings() *fakeBookings {
	return &fakeBookings{bookings: make(map[string]models.Booking)}
}

func (f *fakeBookings) GetByID(_ context.Context, bookingID string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[bookingID]
	if !ok {
		return nil, errors.New("booking not found")
	}
	return &b, nil
}

func (f *fakeBookings) GetForDate(_ context.Context, professionalID, date string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.ProfessionalID == professionalID && b.Date == date {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookings) GetForRange(_ context.Context, professionalID, from, to string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.ProfessionalID == professionalID && b.Date >= from && b.Date <= to {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookings) Create(_ context.Context, booking *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookings[booking.ID] = *booking
	return nil
}

func (f *fakeBookings) Update(_ context.Context, booking *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.bookings[booking.ID]; !ok {
		return errors.New("booking not found")
	}
	f.bookings[booking.ID] = *booking
	return nil
}

func (f *fakeBookings) GetConfirmedEndedBefore(_ context.Context, now time.Time) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.Status != models.BookingConfirmed {
			continue
		}
		endAt, err := b.EndsAt(time.UTC)
		if err != nil {
			continue
		}
		if !endAt.After(now) {
			out = append(out, b)
		}
	}
	return out, nil
}

// fakeAvailability serves canned effective ranges keyed by professional and date.
type fakeAvailability struct {
	ranges map[string][]models.TimeRange
}

func (f *fakeAvailability) SetWeeklyRule(context.Context, string, time.Weekday, []models.TimeRange) error {
	return nil
}

func (f *fakeAvailability) SetException(context.Context, string, string, []models.TimeRange) error {
	return nil
}

func (f *fakeAvailability) GetEffectiveRanges(_ context.Context, professionalID, date string) ([]models.TimeRange, error) {
	return f.ranges[professionalID+"|"+date], nil
}

// testClock is a fixed Monday noon so date math in tests is deterministic.
var testClock = time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)

func newTestEngine(avail *fakeAvailability, bookings *fakeBookings, catalog *fakeCatalog) *DefaultSchedulingEngine {
	if avail == nil {
		avail = &fakeAvailability{ranges: map[string][]models.TimeRange{}}
	}
	if bookings == nil {
		bookings = newFakeBookings()
	}
	if catalog == nil {
		catalog = &fakeCatalog{
			services: map[string]models.Service{},
			policies: map[string]models.BookingPolicy{},
		}
	}
	return &DefaultSchedulingEngine{
		Availability: avail,
		Bookings:     bookings,
		Catalog:      catalog,
		Location:     time.UTC,
		Now:          func() time.Time { return testClock },
	}
}
