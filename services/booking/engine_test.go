package booking

import (
	"context"
	"errors"
	"sync"
	"testing"

	"appointly/models"
)

// openDays builds availability with the professional open the whole day on
// each given date.
func openDays(dates ...string) *fakeAvailability {
	ranges := make(map[string][]models.TimeRange)
	for _, d := range dates {
		ranges[testPro+"|"+d] = []models.TimeRange{{Start: 0, End: 1440}}
	}
	return &fakeAvailability{ranges: ranges}
}

func createTestBooking(t *testing.T, engine *DefaultSchedulingEngine, date string, start int) *models.Booking {
	t.Helper()
	b, err := engine.CreateBooking(context.Background(), testClient, models.CreateBookingRequest{
		ProfessionalID: testPro,
		ServiceID:      testService,
		Date:           date,
		Start:          start,
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	return b
}

func TestCreateBookingRoundTrip(t *testing.T) {
	catalog := seedCatalog(models.BookingPolicy{ProfessionalID: testPro, MaxAdvanceDays: 30})
	engine := newTestEngine(openDays("2025-03-10"), nil, catalog)

	b := createTestBooking(t, engine, "2025-03-10", 540)

	if b.ID == "" {
		t.Fatal("expected a generated booking ID")
	}
	if b.Status != models.BookingPending {
		t.Fatalf("new booking status = %q, want pending", b.Status)
	}
	if b.PaymentStatus != models.PaymentPending {
		t.Fatalf("new booking payment status = %q, want pending", b.PaymentStatus)
	}
	if b.End != 600 {
		t.Fatalf("booking end = %d, want start + service duration = 600", b.End)
	}

	loaded, err := engine.GetBooking(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("GetBooking: %v", err)
	}
	if loaded.ClientID != testClient || loaded.Date != "2025-03-10" {
		t.Fatalf("loaded booking does not match: %+v", loaded)
	}
}

func TestCreateBookingAutoConfirm(t *testing.T) {
	catalog := seedCatalog(models.BookingPolicy{
		ProfessionalID: testPro,
		MaxAdvanceDays: 30,
		AutoConfirm:    true,
	})
	engine := newTestEngine(openDays("2025-03-10"), nil, catalog)

	b := createTestBooking(t, engine, "2025-03-10", 540)
	if b.Status != models.BookingConfirmed {
		t.Fatalf("auto-confirm booking status = %q, want confirmed", b.Status)
	}
}

func TestCreateBookingOutsideAvailability(t *testing.T) {
	// Open 09:00-12:00 on the 10th only.
	avail := &fakeAvailability{ranges: map[string][]models.TimeRange{
		testPro + "|2025-03-10": {{Start: 540, End: 720}},
	}}
	catalog := seedCatalog(models.BookingPolicy{ProfessionalID: testPro, MaxAdvanceDays: 30})
	engine := newTestEngine(avail, nil, catalog)

	var unavailable *SlotUnavailableError

	// A closed date is not bookable even with no conflicting bookings.
	_, err := engine.CreateBooking(context.Background(), testClient, models.CreateBookingRequest{
		ProfessionalID: testPro, ServiceID: testService, Date: "2025-03-11", Start: 540,
	})
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected SlotUnavailableError on a closed date, got %v", err)
	}

	// An interval spilling past the range end is rejected.
	_, err = engine.CreateBooking(context.Background(), testClient, models.CreateBookingRequest{
		ProfessionalID: testPro, ServiceID: testService, Date: "2025-03-10", Start: 680,
	})
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected SlotUnavailableError past range end, got %v", err)
	}

	// Fully inside the range succeeds.
	if _, err := engine.CreateBooking(context.Background(), testClient, models.CreateBookingRequest{
		ProfessionalID: testPro, ServiceID: testService, Date: "2025-03-10", Start: 600,
	}); err != nil {
		t.Fatalf("expected booking inside availability to succeed: %v", err)
	}
}

func TestCreateBookingConflict(t *testing.T) {
	catalog := seedCatalog(models.BookingPolicy{
		ProfessionalID: testPro,
		BufferMinutes:  15,
		MaxAdvanceDays: 30,
	})
	engine := newTestEngine(openDays("2025-03-10"), nil, catalog)

	createTestBooking(t, engine, "2025-03-10", 600)

	// 11:00 collides with the 15-minute buffer after the 10:00-11:00 booking.
	_, err := engine.CreateBooking(context.Background(), "client-2", models.CreateBookingRequest{
		ProfessionalID: testPro, ServiceID: testService, Date: "2025-03-10", Start: 660,
	})
	var unavailable *SlotUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected SlotUnavailableError, got %v", err)
	}

	// 11:15 clears the buffer.
	if _, err := engine.CreateBooking(context.Background(), "client-2", models.CreateBookingRequest{
		ProfessionalID: testPro, ServiceID: testService, Date: "2025-03-10", Start: 675,
	}); err != nil {
		t.Fatalf("expected booking after buffer to succeed: %v", err)
	}
}

func TestCreateBookingFreesSlotAfterCancel(t *testing.T) {
	catalog := seedCatalog(models.BookingPolicy{ProfessionalID: testPro, MaxAdvanceDays: 30})
	engine := newTestEngine(openDays("2025-03-10"), nil, catalog)

	b := createTestBooking(t, engine, "2025-03-10", 540)
	if _, err := engine.CancelBooking(context.Background(), b.ID, testClient); err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}

	// Cancelled bookings no longer block the interval.
	if _, err := engine.CreateBooking(context.Background(), "client-2", models.CreateBookingRequest{
		ProfessionalID: testPro, ServiceID: testService, Date: "2025-03-10", Start: 540,
	}); err != nil {
		t.Fatalf("expected slot to reopen after cancellation: %v", err)
	}
}

func TestCreateBookingWindow(t *testing.T) {
	catalog := seedCatalog(models.BookingPolicy{
		ProfessionalID:  testPro,
		MinAdvanceHours: 2,
		MaxAdvanceDays:  30,
	})
	engine := newTestEngine(openDays("2025-03-03"), nil, catalog)

	// Clock is Monday 12:00; 13:00 is inside the 2-hour minimum.
	_, err := engine.CreateBooking(context.Background(), testClient, models.CreateBookingRequest{
		ProfessionalID: testPro, ServiceID: testService, Date: "2025-03-03", Start: 780,
	})
	var unavailable *SlotUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected SlotUnavailableError inside advance window, got %v", err)
	}

	// Beyond the 30-day horizon.
	_, err = engine.CreateBooking(context.Background(), testClient, models.CreateBookingRequest{
		ProfessionalID: testPro, ServiceID: testService, Date: "2025-05-10", Start: 540,
	})
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected SlotUnavailableError beyond max advance, got %v", err)
	}

	// 14:00 today is exactly at the cutoff and allowed.
	if _, err := engine.CreateBooking(context.Background(), testClient, models.CreateBookingRequest{
		ProfessionalID: testPro, ServiceID: testService, Date: "2025-03-03", Start: 840,
	}); err != nil {
		t.Fatalf("expected booking at the window boundary to succeed: %v", err)
	}
}

func TestCreateBookingRace(t *testing.T) {
	catalog := seedCatalog(models.BookingPolicy{ProfessionalID: testPro, MaxAdvanceDays: 30})
	engine := newTestEngine(openDays("2025-03-10"), nil, catalog)

	req := models.CreateBookingRequest{
		ProfessionalID: testPro, ServiceID: testService, Date: "2025-03-10", Start: 600,
	}

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = engine.CreateBooking(context.Background(), "client-race", req)
		}(i)
	}
	wg.Wait()

	var successes, conflicts int
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		default:
			var unavailable *SlotUnavailableError
			if !errors.As(err, &unavailable) {
				t.Fatalf("unexpected error from racing create: %v", err)
			}
			conflicts++
		}
	}
	if successes != 1 || conflicts != 1 {
		t.Fatalf("racing creates: %d successes and %d conflicts, want exactly one of each", successes, conflicts)
	}
}

func TestConfirmBooking(t *testing.T) {
	catalog := seedCatalog(models.BookingPolicy{ProfessionalID: testPro, MaxAdvanceDays: 30})
	engine := newTestEngine(openDays("2025-03-10"), nil, catalog)
	b := createTestBooking(t, engine, "2025-03-10", 540)

	// Clients cannot confirm.
	_, err := engine.ConfirmBooking(context.Background(), b.ID, testClient)
	var notAuthorized *NotAuthorizedError
	if !errors.As(err, &notAuthorized) {
		t.Fatalf("expected NotAuthorizedError for client confirm, got %v", err)
	}

	confirmed, err := engine.ConfirmBooking(context.Background(), b.ID, testPro)
	if err != nil {
		t.Fatalf("ConfirmBooking: %v", err)
	}
	if confirmed.Status != models.BookingConfirmed {
		t.Fatalf("status = %q, want confirmed", confirmed.Status)
	}

	// Confirming twice is an invalid transition.
	_, err = engine.ConfirmBooking(context.Background(), b.ID, testPro)
	var invalid *InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTransitionError on double confirm, got %v", err)
	}
}

func TestCancelBookingTwice(t *testing.T) {
	catalog := seedCatalog(models.BookingPolicy{ProfessionalID: testPro, MaxAdvanceDays: 30})
	engine := newTestEngine(openDays("2025-03-10"), nil, catalog)
	b := createTestBooking(t, engine, "2025-03-10", 540)

	if _, err := engine.CancelBooking(context.Background(), b.ID, testPro); err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}

	_, err := engine.CancelBooking(context.Background(), b.ID, testPro)
	var invalid *InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTransitionError on double cancel, got %v", err)
	}
}

func TestCancelBookingWindow(t *testing.T) {
	catalog := seedCatalog(models.BookingPolicy{
		ProfessionalID:  testPro,
		MinAdvanceHours: 2,
		MaxAdvanceDays:  30,
	})
	engine := newTestEngine(nil, nil, catalog)

	// Booking starts at 13:00 today, one hour from the fixed noon clock;
	// inside the client's 2-hour cancellation window. Seed it directly since
	// CreateBooking would refuse this start.
	b := &models.Booking{
		ID: "soon", ProfessionalID: testPro, ClientID: testClient,
		ServiceID: testService, Date: "2025-03-03", Start: 780, End: 840,
		Status: models.BookingConfirmed, PaymentStatus: models.PaymentPaid,
	}
	if err := engine.Bookings.Create(context.Background(), b); err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	_, err := engine.CancelBooking(context.Background(), b.ID, testClient)
	var window *CancellationWindowError
	if !errors.As(err, &window) {
		t.Fatalf("expected CancellationWindowError for client, got %v", err)
	}

	// The professional may still cancel right up to the start.
	cancelled, err := engine.CancelBooking(context.Background(), b.ID, testPro)
	if err != nil {
		t.Fatalf("professional cancel inside window: %v", err)
	}
	if cancelled.Status != models.BookingCancelled {
		t.Fatalf("status = %q, want cancelled", cancelled.Status)
	}
}

func TestCancelBookingAfterStart(t *testing.T) {
	catalog := seedCatalog(models.BookingPolicy{ProfessionalID: testPro, MaxAdvanceDays: 30})
	engine := newTestEngine(nil, nil, catalog)

	// Started at 11:00, clock is noon.
	b := &models.Booking{
		ID: "underway", ProfessionalID: testPro, ClientID: testClient,
		ServiceID: testService, Date: "2025-03-03", Start: 660, End: 720,
		Status: models.BookingConfirmed,
	}
	if err := engine.Bookings.Create(context.Background(), b); err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	_, err := engine.CancelBooking(context.Background(), b.ID, testPro)
	var invalid *InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTransitionError after start, got %v", err)
	}
}

func TestCancelBookingStranger(t *testing.T) {
	catalog := seedCatalog(models.BookingPolicy{ProfessionalID: testPro, MaxAdvanceDays: 30})
	engine := newTestEngine(openDays("2025-03-10"), nil, catalog)
	b := createTestBooking(t, engine, "2025-03-10", 540)

	_, err := engine.CancelBooking(context.Background(), b.ID, "someone-else")
	var notAuthorized *NotAuthorizedError
	if !errors.As(err, &notAuthorized) {
		t.Fatalf("expected NotAuthorizedError for stranger, got %v", err)
	}
}

func TestMarkCompleted(t *testing.T) {
	catalog := seedCatalog(models.BookingPolicy{ProfessionalID: testPro, MaxAdvanceDays: 30})
	engine := newTestEngine(nil, nil, catalog)

	// Confirmed booking that ended at 11:00; clock is noon.
	b := &models.Booking{
		ID: "done", ProfessionalID: testPro, ClientID: testClient,
		ServiceID: testService, Date: "2025-03-03", Start: 600, End: 660,
		Status: models.BookingConfirmed,
	}
	if err := engine.Bookings.Create(context.Background(), b); err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	completed, err := engine.MarkCompleted(context.Background(), b.ID, testPro)
	if err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}
	if completed.Status != models.BookingCompleted {
		t.Fatalf("status = %q, want completed", completed.Status)
	}
}

func TestMarkCompletedTooEarly(t *testing.T) {
	catalog := seedCatalog(models.BookingPolicy{ProfessionalID: testPro, MaxAdvanceDays: 30})
	engine := newTestEngine(openDays("2025-03-10"), nil, catalog)

	b := createTestBooking(t, engine, "2025-03-10", 540)
	if _, err := engine.ConfirmBooking(context.Background(), b.ID, testPro); err != nil {
		t.Fatalf("ConfirmBooking: %v", err)
	}

	_, err := engine.MarkCompleted(context.Background(), b.ID, testPro)
	var tooEarly *TooEarlyError
	if !errors.As(err, &tooEarly) {
		t.Fatalf("expected TooEarlyError before the end, got %v", err)
	}
}

func TestMarkNoShowRequiresConfirmed(t *testing.T) {
	catalog := seedCatalog(models.BookingPolicy{ProfessionalID: testPro, MaxAdvanceDays: 30})
	engine := newTestEngine(openDays("2025-03-10"), nil, catalog)
	b := createTestBooking(t, engine, "2025-03-10", 540)

	_, err := engine.MarkNoShow(context.Background(), b.ID, testPro)
	var invalid *InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTransitionError from pending, got %v", err)
	}
}

func TestMarkNoShowBySystemActor(t *testing.T) {
	catalog := seedCatalog(models.BookingPolicy{ProfessionalID: testPro, MaxAdvanceDays: 30})
	engine := newTestEngine(nil, nil, catalog)

	b := &models.Booking{
		ID: "missed", ProfessionalID: testPro, ClientID: testClient,
		ServiceID: testService, Date: "2025-03-03", Start: 600, End: 660,
		Status: models.BookingConfirmed,
	}
	if err := engine.Bookings.Create(context.Background(), b); err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	marked, err := engine.MarkNoShow(context.Background(), b.ID, SystemActor)
	if err != nil {
		t.Fatalf("MarkNoShow as system: %v", err)
	}
	if marked.Status != models.BookingNoShow {
		t.Fatalf("status = %q, want no_show", marked.Status)
	}
}

func TestUpdatePaymentStatus(t *testing.T) {
	catalog := seedCatalog(models.BookingPolicy{ProfessionalID: testPro, MaxAdvanceDays: 30})
	engine := newTestEngine(openDays("2025-03-10"), nil, catalog)
	b := createTestBooking(t, engine, "2025-03-10", 540)

	updated, err := engine.UpdatePaymentStatus(context.Background(), b.ID, models.PaymentPaid)
	if err != nil {
		t.Fatalf("UpdatePaymentStatus: %v", err)
	}
	if updated.PaymentStatus != models.PaymentPaid {
		t.Fatalf("payment status = %q, want paid", updated.PaymentStatus)
	}

	if _, err := engine.UpdatePaymentStatus(context.Background(), b.ID, "partial"); err == nil {
		t.Fatal("expected error for unknown payment status")
	}

	// Refunds may land after the booking has been cancelled.
	if _, err := engine.CancelBooking(context.Background(), b.ID, testPro); err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}
	updated, err = engine.UpdatePaymentStatus(context.Background(), b.ID, models.PaymentRefunded)
	if err != nil {
		t.Fatalf("UpdatePaymentStatus after cancel: %v", err)
	}
	if updated.PaymentStatus != models.PaymentRefunded {
		t.Fatalf("payment status = %q, want refunded", updated.PaymentStatus)
	}
}

// hookedBookings interleaves a mutation between a load and the save that
// follows it.
type hookedBookings struct {
	*fakeBookings
	onGet func()
	fired bool
}

func (h *hookedBookings) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := h.fakeBookings.GetByID(ctx, bookingID)
	if h.onGet != nil && !h.fired {
		h.fired = true
		h.onGet()
	}
	return b, err
}

func TestUpdatePaymentStatusConcurrentCancel(t *testing.T) {
	catalog := seedCatalog(models.BookingPolicy{ProfessionalID: testPro, MaxAdvanceDays: 30})
	bookings := newFakeBookings()
	engine := newTestEngine(openDays("2025-03-10"), bookings, catalog)
	b := createTestBooking(t, engine, "2025-03-10", 540)

	// A cancellation commits right after the payment update's first load. The
	// update must pick up the cancelled record under the lock instead of
	// writing its pre-cancel snapshot back.
	hooked := &hookedBookings{fakeBookings: bookings}
	hooked.onGet = func() {
		if _, err := engine.CancelBooking(context.Background(), b.ID, testPro); err != nil {
			t.Errorf("cancel during payment update: %v", err)
		}
	}
	engine.Bookings = hooked

	updated, err := engine.UpdatePaymentStatus(context.Background(), b.ID, models.PaymentPaid)
	if err != nil {
		t.Fatalf("UpdatePaymentStatus: %v", err)
	}
	if updated.Status != models.BookingCancelled {
		t.Fatalf("payment update resurrected status %q, want cancelled", updated.Status)
	}
	if updated.PaymentStatus != models.PaymentPaid {
		t.Fatalf("payment status = %q, want paid", updated.PaymentStatus)
	}

	stored, err := bookings.GetByID(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != models.BookingCancelled {
		t.Fatalf("stored status = %q, want cancelled", stored.Status)
	}
}

func TestListBookings(t *testing.T) {
	catalog := seedCatalog(models.BookingPolicy{ProfessionalID: testPro, MaxAdvanceDays: 30})
	engine := newTestEngine(openDays("2025-03-10", "2025-03-11", "2025-03-20"), nil, catalog)

	createTestBooking(t, engine, "2025-03-10", 540)
	createTestBooking(t, engine, "2025-03-11", 540)
	createTestBooking(t, engine, "2025-03-20", 540)

	listed, err := engine.ListBookings(context.Background(), testPro, "2025-03-10", "2025-03-12")
	if err != nil {
		t.Fatalf("ListBookings: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 bookings in range, got %d", len(listed))
	}
}

func TestSweepCandidates(t *testing.T) {
	bookings := newFakeBookings()
	engine := newTestEngine(nil, bookings, seedCatalog(models.BookingPolicy{ProfessionalID: testPro, MaxAdvanceDays: 30}))

	seed := []*models.Booking{
		{ID: "ended", ProfessionalID: testPro, ClientID: testClient, Date: "2025-03-03", Start: 600, End: 660, Status: models.BookingConfirmed},
		{ID: "ongoing", ProfessionalID: testPro, ClientID: testClient, Date: "2025-03-03", Start: 700, End: 760, Status: models.BookingConfirmed},
		{ID: "pending", ProfessionalID: testPro, ClientID: testClient, Date: "2025-03-03", Start: 540, End: 600, Status: models.BookingPending},
	}
	for _, b := range seed {
		if err := bookings.Create(context.Background(), b); err != nil {
			t.Fatalf("seed booking %s: %v", b.ID, err)
		}
	}

	ended, err := bookings.GetConfirmedEndedBefore(context.Background(), testClock)
	if err != nil {
		t.Fatalf("GetConfirmedEndedBefore: %v", err)
	}
	if len(ended) != 1 || ended[0].ID != "ended" {
		t.Fatalf("expected only the ended confirmed booking, got %v", ended)
	}

	completed, err := engine.MarkCompleted(context.Background(), ended[0].ID, SystemActor)
	if err != nil {
		t.Fatalf("MarkCompleted via system actor: %v", err)
	}
	if completed.Status != models.BookingCompleted {
		t.Fatalf("status = %q, want completed", completed.Status)
	}
}
