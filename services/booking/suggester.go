package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/FacundoLlamas/sme-booking-app-sub002/models"
	"github.com/FacundoLlamas/sme-booking-app-sub002/utils"
)

// maxSuggestionCandidates bounds how many of the top-ranked experts get their
// availability computed per request.
const maxSuggestionCandidates = 3

// defaultMaxSuggestions is used when the caller does not cap the slot list.
const defaultMaxSuggestions = 5

// SlotSuggester merges and ranks candidate slots across experts according to
// urgency and customer preference. Read-only composition over the
// availability source.
type SlotSuggester struct {
	Source    AvailabilitySource
	Clock     utils.Clock
	DaysAhead int
	Logger    *zap.Logger
}

// Suggest collects slots for up to the top three candidates concurrently,
// filters them by preference, and ranks them. An expert whose availability
// lookup fails is logged and skipped, never fatal to the whole list.
func (s *SlotSuggester) Suggest(
	ctx context.Context,
	category string,
	urgency models.Urgency,
	candidates []models.RankedExpert,
	maxResults int,
	prefs *models.SlotPreference,
) (models.SchedulingSuggestions, error) {
	if maxResults <= 0 {
		maxResults = defaultMaxSuggestions
	}
	top := candidates
	if len(top) > maxSuggestionCandidates {
		top = top[:maxSuggestionCandidates]
	}
	if len(top) == 0 {
		return models.SchedulingSuggestions{}, &NoCandidatesError{
			Category: category, Reason: "no qualified experts to schedule",
		}
	}

	type expertSlots struct {
		candidate models.RankedExpert
		slots     []models.TimeSlot
	}
	resultsCh := make(chan expertSlots, len(top))
	var wg sync.WaitGroup

	for _, cand := range top {
		wg.Add(1)
		go func(cand models.RankedExpert) {
			defer wg.Done()
			slots, err := s.Source.GenerateSlots(ctx, cand.Expert, s.DaysAhead, category)
			if err != nil {
				s.Logger.Warn("availability lookup failed, skipping expert",
					zap.Int("expertID", cand.Expert.ID), zap.Error(err))
				return
			}
			resultsCh <- expertSlots{candidate: cand, slots: slots}
		}(cand)
	}

	wg.Wait()
	close(resultsCh)

	var merged []models.SuggestedSlot
	for r := range resultsCh {
		for _, slot := range r.slots {
			if !prefs.Allows(slot.Start) {
				continue
			}
			merged = append(merged, models.SuggestedSlot{
				TimeSlot:   slot,
				ExpertName: r.candidate.Expert.Name,
				MatchScore: r.candidate.Match.Score,
			})
		}
	}

	if len(merged) == 0 {
		return models.SchedulingSuggestions{}, &NoCandidatesError{
			Category: category, Reason: "no future availability for any qualified expert",
		}
	}

	now := s.Clock.Now()
	rankSlots(merged, urgency, now)

	earliest := merged[0]
	for _, slot := range merged[1:] {
		if slot.Start.Before(earliest.Start) {
			earliest = slot
		}
	}

	// The 2nd-ranked slot balances speed against match quality; emergencies
	// always take the fastest option.
	recommended := merged[0]
	if len(merged) >= 2 && urgency != models.UrgencyEmergency {
		recommended = merged[1]
	}

	suggestions := models.SchedulingSuggestions{
		Slots:       merged[:min(maxResults, len(merged))],
		Earliest:    &earliest,
		Recommended: &recommended,
		Note:        schedulingNote(urgency, earliest, now),
		Confidence:  availabilityConfidence(merged, urgency, earliest.Start.Sub(now)),
	}
	return suggestions, nil
}

// rankSlots orders slots in place: emergencies purely by earliest start,
// everything else same-day first, then by descending match score.
func rankSlots(slots []models.SuggestedSlot, urgency models.Urgency, now time.Time) {
	if urgency == models.UrgencyEmergency {
		sort.Slice(slots, func(i, j int) bool {
			return slots[i].Start.Before(slots[j].Start)
		})
		return
	}

	today := now.Format("2006-01-02")
	sort.Slice(slots, func(i, j int) bool {
		iToday := slots[i].Start.Format("2006-01-02") == today
		jToday := slots[j].Start.Format("2006-01-02") == today
		if iToday != jToday {
			return iToday
		}
		if slots[i].MatchScore != slots[j].MatchScore {
			return slots[i].MatchScore > slots[j].MatchScore
		}
		return slots[i].Start.Before(slots[j].Start)
	})
}

// availabilityConfidence scores 0-100 how confident we are the customer will
// get a good appointment: slot supply, average match quality, and how soon the
// earliest slot is relative to the declared urgency.
func availabilityConfidence(slots []models.SuggestedSlot, urgency models.Urgency, toEarliest time.Duration) int {
	supply := len(slots) * 3
	if supply > 30 {
		supply = 30
	}

	total := 0
	for _, s := range slots {
		total += s.MatchScore
	}
	quality := (total / len(slots)) * 40 / 100

	speed := 0
	switch urgency {
	case models.UrgencyEmergency:
		if toEarliest <= 4*time.Hour {
			speed = 30
		} else if toEarliest <= 24*time.Hour {
			speed = 15
		}
	case models.UrgencyHigh:
		if toEarliest <= 24*time.Hour {
			speed = 30
		} else if toEarliest <= 48*time.Hour {
			speed = 20
		}
	case models.UrgencyMedium:
		if toEarliest <= 48*time.Hour {
			speed = 25
		} else if toEarliest <= 72*time.Hour {
			speed = 15
		}
	default:
		if toEarliest <= 7*24*time.Hour {
			speed = 20
		}
	}

	score := supply + quality + speed
	if score > 100 {
		score = 100
	}
	return score
}

func schedulingNote(urgency models.Urgency, earliest models.SuggestedSlot, now time.Time) string {
	wait := earliest.Start.Sub(now).Round(time.Minute)
	if urgency == models.UrgencyEmergency {
		return fmt.Sprintf("Emergency request: %s can be on site at %s (in %s).",
			earliest.ExpertName, earliest.Start.Format("Mon 15:04"), wait)
	}
	return fmt.Sprintf("Earliest visit: %s on %s. Recommended option balances speed and expertise.",
		earliest.ExpertName, earliest.Start.Format("Mon Jan 2 15:04"))
}
