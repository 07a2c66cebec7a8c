package booking

import (
	"context"
	"sync"
	"time"

	expertRepo "github.com/FacundoLlamas/sme-booking-app-sub002/database/repository/expert"
	schedulerRepo "github.com/FacundoLlamas/sme-booking-app-sub002/database/repository/scheduler"
	"github.com/FacundoLlamas/sme-booking-app-sub002/models"
)

// fakeSchedulerRepo is an in-memory SchedulerRepository. ReserveTransactionally
// holds a single mutex for the whole check-and-insert, mirroring the atomicity
// the real transaction provides.
type fakeSchedulerRepo struct {
	mu       sync.Mutex
	bookings []models.Booking

	// reserveErrs are popped and returned, one per ReserveTransactionally
	// call, before the reserve logic runs.
	reserveErrs  []error
	reserveCalls int
}

func (f *fakeSchedulerRepo) ListBookingsInWindow(ctx context.Context, expertID int, from, to time.Time, statuses []string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.ExpertID != expertID || !statusIn(b.Status, statuses) {
			continue
		}
		if b.Start.Before(from) || b.Start.After(to) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeSchedulerRepo) ReserveTransactionally(ctx context.Context, windowStart, windowEnd time.Time, booking *models.Booking) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reserveCalls++
	if len(f.reserveErrs) > 0 {
		err := f.reserveErrs[0]
		f.reserveErrs = f.reserveErrs[1:]
		return nil, err
	}
	for _, b := range f.bookings {
		if b.ExpertID != booking.ExpertID || !statusIn(b.Status, models.ActiveBookingStatuses) {
			continue
		}
		if !b.Start.Before(windowStart) && !b.Start.After(windowEnd) {
			conflict := b
			return &conflict, nil
		}
	}
	f.bookings = append(f.bookings, *booking)
	return nil, nil
}

func (f *fakeSchedulerRepo) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.ID == id {
			found := b
			return &found, nil
		}
	}
	return nil, schedulerRepo.ErrBookingNotFound
}

func (f *fakeSchedulerRepo) UpdateBookingStatus(ctx context.Context, id string, allowedFrom []string, to string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, b := range f.bookings {
		if b.ID == id && statusIn(b.Status, allowedFrom) {
			f.bookings[i].Status = to
			return nil
		}
	}
	return schedulerRepo.ErrBookingNotFound
}

func (f *fakeSchedulerRepo) ExpirePendingOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for i, b := range f.bookings {
		if b.Status == models.BookingPending && b.CreatedAt.Before(cutoff) {
			f.bookings[i].Status = models.BookingCancelled
			n++
		}
	}
	return n, nil
}

func statusIn(status string, set []string) bool {
	for _, s := range set {
		if s == status {
			return true
		}
	}
	return false
}

// fakeExpertRepo is an in-memory ExpertRepository.
type fakeExpertRepo struct {
	experts map[int]models.Expert
	listErr error
	getErr  error
}

func (f *fakeExpertRepo) ListAvailable(ctx context.Context, businessID string) ([]models.Expert, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.Expert
	for _, e := range f.experts {
		if e.Status == models.ExpertAvailable && (businessID == "" || e.BusinessID == businessID) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeExpertRepo) GetByID(ctx context.Context, id int) (*models.Expert, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if e, ok := f.experts[id]; ok {
		return &e, nil
	}
	return nil, expertRepo.ErrExpertNotFound
}

func (f *fakeExpertRepo) Upsert(ctx context.Context, expert *models.Expert) error {
	f.experts[expert.ID] = *expert
	return nil
}

func (f *fakeExpertRepo) UpdateStatus(ctx context.Context, id int, status string) error {
	e, ok := f.experts[id]
	if !ok {
		return expertRepo.ErrExpertNotFound
	}
	e.Status = status
	f.experts[id] = e
	return nil
}

// fakeSlotSource returns a fixed slot list per expert ID.
type fakeSlotSource struct {
	slots map[int][]models.TimeSlot
	errs  map[int]error
}

func (f *fakeSlotSource) GenerateSlots(ctx context.Context, expert models.Expert, daysAhead int, category string) ([]models.TimeSlot, error) {
	if err, ok := f.errs[expert.ID]; ok {
		return nil, err
	}
	return f.slots[expert.ID], nil
}

// fakeEmitter records emitted events on buffered channels so tests can wait
// for the fire-and-forget goroutine.
type fakeEmitter struct {
	created   chan models.Booking
	reminders chan time.Time
}

func newFakeEmitter() *fakeEmitter {
	return &fakeEmitter{
		created:   make(chan models.Booking, 4),
		reminders: make(chan time.Time, 4),
	}
}

func (f *fakeEmitter) BookingCreated(ctx context.Context, booking models.Booking) error {
	f.created <- booking
	return nil
}

func (f *fakeEmitter) ScheduleReminder(ctx context.Context, booking models.Booking, fireAt time.Time) error {
	f.reminders <- fireAt
	return nil
}
