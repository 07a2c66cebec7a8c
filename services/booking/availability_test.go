package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/FacundoLlamas/sme-booking-app-sub002/models"
	"github.com/FacundoLlamas/sme-booking-app-sub002/utils"
)

// monday7am is 2026-03-02 07:00 UTC, a Monday before opening time.
var monday7am = time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)

func newGridSource(repo *fakeSchedulerRepo, now time.Time) *SlotGridSource {
	return &SlotGridSource{
		Repo:    repo,
		Hours:   DefaultBusinessHours(),
		Catalog: models.DefaultServiceCatalog(),
		Clock:   utils.FixedClock{At: now},
		Logger:  zap.NewNop(),
	}
}

func TestGenerateSlotsFullWeek(t *testing.T) {
	if monday7am.Weekday() != time.Monday {
		t.Fatalf("fixture is %s, want Monday", monday7am.Weekday())
	}

	src := newGridSource(&fakeSchedulerRepo{}, monday7am)
	expert := models.Expert{ID: 7}

	slots, err := src.GenerateSlots(context.Background(), expert, 7, "electrical")
	if err != nil {
		t.Fatalf("GenerateSlots: %v", err)
	}

	// Six offsets per day, six open days (Sunday closed).
	if len(slots) != 36 {
		t.Fatalf("got %d slots, want 36", len(slots))
	}
	for _, s := range slots {
		if s.Start.Weekday() == time.Sunday {
			t.Errorf("slot on closed Sunday: %s", s.Start)
		}
		if s.Start.Before(monday7am) {
			t.Errorf("slot in the past: %s", s.Start)
		}
		if s.ExpertID != expert.ID {
			t.Errorf("slot for expert %d, want %d", s.ExpertID, expert.ID)
		}
		if got := s.End.Sub(s.Start); got != 60*time.Minute {
			t.Errorf("electrical slot duration %s, want 60m", got)
		}
	}
}

func TestGenerateSlotsSkipsPastStarts(t *testing.T) {
	// Mid-morning Monday: 08:00 and 09:30 offsets already gone.
	now := monday7am.Add(3 * time.Hour) // 10:00
	src := newGridSource(&fakeSchedulerRepo{}, now)

	slots, err := src.GenerateSlots(context.Background(), models.Expert{ID: 7}, 1, "electrical")
	if err != nil {
		t.Fatalf("GenerateSlots: %v", err)
	}
	if len(slots) != 4 {
		t.Fatalf("got %d slots, want 4", len(slots))
	}
	if got := slots[0].Start.Hour(); got != 11 {
		t.Errorf("first slot at %d:00, want 11:00", got)
	}
}

func TestGenerateSlotsSkipsBookedIntervals(t *testing.T) {
	repo := &fakeSchedulerRepo{
		bookings: []models.Booking{{
			ID:              "b1",
			ExpertID:        7,
			Start:           time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC),
			DurationMinutes: 90,
			Status:          models.BookingPending,
		}},
	}
	src := newGridSource(repo, monday7am)

	slots, err := src.GenerateSlots(context.Background(), models.Expert{ID: 7}, 1, "electrical")
	if err != nil {
		t.Fatalf("GenerateSlots: %v", err)
	}
	// The 11:00 offset overlaps the booking; the other five survive.
	if len(slots) != 5 {
		t.Fatalf("got %d slots, want 5", len(slots))
	}
	for _, s := range slots {
		if s.Start.Hour() == 11 {
			t.Errorf("booked 11:00 slot still offered")
		}
	}
}

func TestGenerateSlotsIgnoresInactiveBookings(t *testing.T) {
	repo := &fakeSchedulerRepo{
		bookings: []models.Booking{{
			ID:              "b1",
			ExpertID:        7,
			Start:           time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC),
			DurationMinutes: 90,
			Status:          models.BookingCancelled,
		}},
	}
	src := newGridSource(repo, monday7am)

	slots, err := src.GenerateSlots(context.Background(), models.Expert{ID: 7}, 1, "electrical")
	if err != nil {
		t.Fatalf("GenerateSlots: %v", err)
	}
	if len(slots) != 6 {
		t.Fatalf("got %d slots, want 6; cancelled bookings must not block", len(slots))
	}
}

func TestGenerateSlotsUsesCatalogDuration(t *testing.T) {
	src := newGridSource(&fakeSchedulerRepo{}, monday7am)

	slots, err := src.GenerateSlots(context.Background(), models.Expert{ID: 7}, 1, "hvac")
	if err != nil {
		t.Fatalf("GenerateSlots: %v", err)
	}
	if len(slots) == 0 {
		t.Fatal("no slots generated")
	}
	for _, s := range slots {
		if s.DurationMinutes != 120 {
			t.Errorf("hvac slot of %d minutes, want 120", s.DurationMinutes)
		}
	}
	// The 16:00 offset ends at 18:00, still within the same day.
	last := slots[len(slots)-1]
	if last.End.Day() != last.Start.Day() {
		t.Errorf("unexpected day rollover: %s -> %s", last.Start, last.End)
	}
}

func TestGenerateSlotsRejectsNonPositiveHorizon(t *testing.T) {
	src := newGridSource(&fakeSchedulerRepo{}, monday7am)

	_, err := src.GenerateSlots(context.Background(), models.Expert{ID: 7}, 0, "hvac")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v, want ValidationError", err)
	}
}

func TestBusyIntervalsKey(t *testing.T) {
	if got := BusyIntervalsKey(42); got != "calendar:busy:42" {
		t.Fatalf("key = %q", got)
	}
}

// stubBusyCache serves one canned payload (or error) for any key.
type stubBusyCache struct {
	payload string
	err     error
}

func (s stubBusyCache) Get(ctx context.Context, key string) *redis.StringCmd {
	return redis.NewStringResult(s.payload, s.err)
}

func TestExternalCalendarSourceFiltersBusyIntervals(t *testing.T) {
	// Monday busy 10:30-11:30 blocks the 11:00 grid slot.
	busyJSON := `[{"start":"2026-03-02T10:30:00Z","end":"2026-03-02T11:30:00Z"}]`

	cases := []struct {
		name      string
		cache     stubBusyCache
		wantSlots int
	}{
		{"busy interval blocks overlapping slot", stubBusyCache{payload: busyJSON}, 5},
		{"no synced intervals", stubBusyCache{err: redis.Nil}, 6},
		{"cache unreachable degrades to grid", stubBusyCache{err: errors.New("connection refused")}, 6},
		{"malformed payload degrades to grid", stubBusyCache{payload: "{not json"}, 6},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := &ExternalCalendarSource{
				Grid:   newGridSource(&fakeSchedulerRepo{}, monday7am),
				Cache:  tc.cache,
				Logger: zap.NewNop(),
			}

			slots, err := src.GenerateSlots(context.Background(), models.Expert{ID: 7}, 1, "electrical")
			if err != nil {
				t.Fatalf("GenerateSlots: %v", err)
			}
			if len(slots) != tc.wantSlots {
				t.Fatalf("got %d slots, want %d", len(slots), tc.wantSlots)
			}
			if tc.wantSlots == 5 {
				for _, s := range slots {
					if s.Start.Hour() == 11 {
						t.Errorf("slot at 11:00 still offered despite busy interval")
					}
				}
			}
		})
	}
}
