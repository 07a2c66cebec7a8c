package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	schedulerRepo "github.com/FacundoLlamas/sme-booking-app-sub002/database/repository/scheduler"
	"github.com/FacundoLlamas/sme-booking-app-sub002/models"
	"github.com/FacundoLlamas/sme-booking-app-sub002/utils"
)

// AvailabilitySource produces candidate slots for one expert. Implementations
// are chosen once at composition time, never branched per call site.
type AvailabilitySource interface {
	GenerateSlots(ctx context.Context, expert models.Expert, daysAhead int, category string) ([]models.TimeSlot, error)
}

// BusinessHours describes when slots may start. Minutes count from midnight
// local time.
type BusinessHours struct {
	OpenMinute     int
	CloseMinute    int
	StartOffsets   []int
	ClosedWeekdays map[time.Weekday]bool
}

// NewBusinessHours builds a BusinessHours from raw config values; closed is a
// list of weekday numbers with 0 = Sunday.
func NewBusinessHours(openMinute, closeMinute int, startOffsets, closed []int) BusinessHours {
	closedSet := make(map[time.Weekday]bool, len(closed))
	for _, d := range closed {
		closedSet[time.Weekday(d)] = true
	}
	offsets := append([]int(nil), startOffsets...)
	sort.Ints(offsets)
	return BusinessHours{
		OpenMinute:     openMinute,
		CloseMinute:    closeMinute,
		StartOffsets:   offsets,
		ClosedWeekdays: closedSet,
	}
}

// DefaultBusinessHours is 08:00-18:00, closed Sunday, with six fixed visit
// start times through the day.
func DefaultBusinessHours() BusinessHours {
	return NewBusinessHours(480, 1080, []int{480, 570, 660, 780, 870, 960}, []int{0})
}

// SlotGridSource generates the business-hour slot grid from the booking
// repository alone. Read-only; generated slots are never persisted.
type SlotGridSource struct {
	Repo    schedulerRepo.SchedulerRepository
	Hours   BusinessHours
	Catalog models.ServiceCatalog
	Clock   utils.Clock
	Logger  *zap.Logger
}

// GenerateSlots returns candidate slots for the expert over the next daysAhead
// days, sorted ascending by start, skipping closed days, past starts, and any
// slot overlapping an active booking. A slot starting near end-of-day may end
// on the following calendar day.
func (s *SlotGridSource) GenerateSlots(ctx context.Context, expert models.Expert, daysAhead int, category string) ([]models.TimeSlot, error) {
	if daysAhead <= 0 {
		return nil, &ValidationError{Field: "daysAhead", Reason: "must be positive"}
	}

	duration := time.Duration(s.Catalog.DurationFor(category)) * time.Minute
	now := s.Clock.Now()
	dayZero := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	// One window query covers the whole range; bookings started the previous
	// day can still overlap into it.
	rangeStart := dayZero.AddDate(0, 0, -1)
	rangeEnd := dayZero.AddDate(0, 0, daysAhead+1)
	existing, err := s.Repo.ListBookingsInWindow(ctx, expert.ID, rangeStart, rangeEnd, models.ActiveBookingStatuses)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings for expert %d: %w", expert.ID, err)
	}

	var slots []models.TimeSlot
	for day := 0; day < daysAhead; day++ {
		date := dayZero.AddDate(0, 0, day)
		if s.Hours.ClosedWeekdays[date.Weekday()] {
			continue
		}

		for _, offset := range s.Hours.StartOffsets {
			if offset < s.Hours.OpenMinute || offset > s.Hours.CloseMinute {
				continue
			}
			start := date.Add(time.Duration(offset) * time.Minute)
			if start.Before(now) {
				continue
			}
			end := start.Add(duration)

			if slotTaken(start, end, existing) {
				continue
			}

			slots = append(slots, models.TimeSlot{
				ExpertID:        expert.ID,
				Start:           start,
				End:             end,
				DurationMinutes: int(duration / time.Minute),
			})
		}
	}
	return slots, nil
}

func slotTaken(start, end time.Time, bookings []models.Booking) bool {
	for _, b := range bookings {
		if b.Overlaps(start, end) {
			return true
		}
	}
	return false
}

// busyInterval is one externally-synced busy block, as cached by the calendar
// webhook ingester.
type busyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// busyIntervalGetter is the slice of the redis client the calendar source
// needs; *redis.Client satisfies it.
type busyIntervalGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// ExternalCalendarSource layers externally-synced calendar busy intervals on
// top of the slot grid. Busy intervals are read from the cache the webhook
// ingester writes to; a cold or unreachable cache degrades to the plain grid,
// since the transactional conflict check still guards finalization.
type ExternalCalendarSource struct {
	Grid   *SlotGridSource
	Cache  busyIntervalGetter
	Logger *zap.Logger
}

// BusyIntervalsKey is the cache key holding an expert's synced busy intervals.
func BusyIntervalsKey(expertID int) string {
	return fmt.Sprintf("calendar:busy:%d", expertID)
}

func (s *ExternalCalendarSource) GenerateSlots(ctx context.Context, expert models.Expert, daysAhead int, category string) ([]models.TimeSlot, error) {
	slots, err := s.Grid.GenerateSlots(ctx, expert, daysAhead, category)
	if err != nil {
		return nil, err
	}

	raw, err := s.Cache.Get(ctx, BusyIntervalsKey(expert.ID)).Result()
	if err == redis.Nil {
		return slots, nil
	}
	if err != nil {
		s.Logger.Warn("calendar busy-interval lookup failed, using grid only",
			zap.Int("expertID", expert.ID), zap.Error(err))
		return slots, nil
	}

	var busy []busyInterval
	if err := json.Unmarshal([]byte(raw), &busy); err != nil {
		s.Logger.Warn("invalid calendar busy-interval payload, using grid only",
			zap.Int("expertID", expert.ID), zap.Error(err))
		return slots, nil
	}

	filtered := slots[:0]
	for _, slot := range slots {
		blocked := false
		for _, b := range busy {
			if slot.Start.Before(b.End) && b.Start.Before(slot.End) {
				blocked = true
				break
			}
		}
		if !blocked {
			filtered = append(filtered, slot)
		}
	}
	return filtered, nil
}
