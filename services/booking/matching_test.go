package booking

import (
	"testing"

	"github.com/FacundoLlamas/sme-booking-app-sub002/models"
)

func TestMatchPriorityOrder(t *testing.T) {
	m := NewSkillMatcher(models.DefaultServiceCatalog())

	cases := []struct {
		name      string
		skills    []string
		category  string
		wantScore int
		wantType  string
	}{
		{"exact skill tag", []string{"plumbing"}, "plumbing", 100, models.MatchExact},
		{"tag contains category", []string{"emergency plumbing"}, "plumbing", 100, models.MatchExact},
		{"two category keyword hits", []string{"pipes", "drain cleaning"}, "plumbing", 70, models.MatchCategory},
		{"three category keyword hits", []string{"pipe fitting", "drain cleaning", "leak detection"}, "plumbing", 80, models.MatchCategory},
		{"fuzzy typo", []string{"hvak"}, "hvac", 60, models.MatchFuzzy},
		{"general maintenance", []string{"general maintenance"}, "plumbing", 45, models.MatchGeneral},
		{"unrelated skills", []string{"landscaping"}, "roofing", 30, models.MatchNone},
		{"no skills", nil, "plumbing", 30, models.MatchNone},
		{"empty category", []string{"plumbing"}, "", 30, models.MatchNone},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := m.Match(tc.skills, tc.category)
			if got.Score != tc.wantScore {
				t.Errorf("score = %d, want %d", got.Score, tc.wantScore)
			}
			if got.MatchType != tc.wantType {
				t.Errorf("matchType = %q, want %q", got.MatchType, tc.wantType)
			}
			if got.Score < 0 || got.Score > 100 {
				t.Errorf("score %d out of range", got.Score)
			}
		})
	}
}

func TestMatchCaseAndWhitespaceInsensitive(t *testing.T) {
	m := NewSkillMatcher(models.DefaultServiceCatalog())
	if got := m.Score([]string{"  Plumbing  "}, " PLUMBING "); got != 100 {
		t.Fatalf("score = %d, want 100", got)
	}
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"hvac", "hvak", 1},
		{"kitten", "sitting", 3},
		{"plumbing", "plumbing", 0},
	}
	for _, tc := range cases {
		if got := levenshtein(tc.a, tc.b); got != tc.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestRankExpertsFiltersAndSorts(t *testing.T) {
	m := NewSkillMatcher(models.DefaultServiceCatalog())
	experts := []models.Expert{
		{ID: 1, Name: "Ana", Skills: []string{"landscaping"}},             // baseline, filtered out
		{ID: 2, Name: "Bo", Skills: []string{"pipes", "drain cleaning"}},  // 70
		{ID: 3, Name: "Cy", Skills: []string{"plumbing"}},                 // 100
		{ID: 4, Name: "Di", Skills: []string{"general maintenance"}},      // 45
		{ID: 5, Name: "Ed", Skills: []string{"emergency plumbing"}},       // 100, tiebreak on ID
	}

	ranked := m.RankExperts(experts, "plumbing", models.UrgencyMedium, nil, 0)
	wantOrder := []int{3, 5, 2, 4}
	if len(ranked) != len(wantOrder) {
		t.Fatalf("got %d experts, want %d", len(ranked), len(wantOrder))
	}
	for i, want := range wantOrder {
		if ranked[i].Expert.ID != want {
			t.Errorf("position %d: expert %d, want %d", i, ranked[i].Expert.ID, want)
		}
	}
}

func TestRankExpertsEmergencyCapableFirst(t *testing.T) {
	m := NewSkillMatcher(models.DefaultServiceCatalog())
	experts := []models.Expert{
		{ID: 1, Skills: []string{"plumbing"}},                                            // 100
		{ID: 2, Skills: []string{"drain cleaning", "24/7 emergency"}, EmergencyCapable: true}, // 70
	}

	ranked := m.RankExperts(experts, "plumbing", models.UrgencyEmergency, nil, 0)
	if len(ranked) != 2 {
		t.Fatalf("got %d experts, want 2", len(ranked))
	}
	if ranked[0].Expert.ID != 2 {
		t.Errorf("emergency-capable expert should rank first, got expert %d", ranked[0].Expert.ID)
	}

	// Same experts, non-emergency urgency: score wins.
	ranked = m.RankExperts(experts, "plumbing", models.UrgencyMedium, nil, 0)
	if ranked[0].Expert.ID != 1 {
		t.Errorf("highest score should rank first, got expert %d", ranked[0].Expert.ID)
	}
}

func TestRankExpertsExcludeAndLimit(t *testing.T) {
	m := NewSkillMatcher(models.DefaultServiceCatalog())
	experts := []models.Expert{
		{ID: 1, Skills: []string{"plumbing"}},
		{ID: 2, Skills: []string{"plumbing"}},
		{ID: 3, Skills: []string{"plumbing"}},
	}

	ranked := m.RankExperts(experts, "plumbing", models.UrgencyLow, []int{2}, 1)
	if len(ranked) != 1 {
		t.Fatalf("got %d experts, want 1", len(ranked))
	}
	if ranked[0].Expert.ID != 1 {
		t.Errorf("got expert %d, want 1", ranked[0].Expert.ID)
	}
	for _, r := range ranked {
		if r.Expert.ID == 2 {
			t.Error("excluded expert 2 still present")
		}
	}
}
