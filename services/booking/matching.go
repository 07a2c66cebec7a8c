package booking

import (
	"sort"
	"strings"
	"sync"

	"github.com/FacundoLlamas/sme-booking-app-sub002/models"
)

// SkillMatcher scores how well an expert's declared skills cover a requested
// service category. Pure and deterministic; it never excludes an expert on its
// own — the minimum-score filter is applied by the caller.
type SkillMatcher struct {
	Catalog models.ServiceCatalog
}

// NewSkillMatcher constructs a matcher over the given service catalog.
func NewSkillMatcher(catalog models.ServiceCatalog) *SkillMatcher {
	return &SkillMatcher{Catalog: catalog}
}

// Score returns the 0-100 match score for the skills against the category.
func (m *SkillMatcher) Score(skills []string, category string) int {
	return m.Match(skills, category).Score
}

// Match evaluates the scoring rules in strict priority order; the first rule
// that fires wins.
func (m *SkillMatcher) Match(skills []string, category string) models.MatchResult {
	cat := strings.ToLower(strings.TrimSpace(category))

	tags := make([]string, 0, len(skills))
	for _, s := range skills {
		tag := strings.ToLower(strings.TrimSpace(s))
		if tag != "" {
			tags = append(tags, tag)
		}
	}

	if cat == "" || len(tags) == 0 {
		return baselineMatch()
	}

	// 1. Exact: a skill tag is a substring of the category or vice versa.
	for _, tag := range tags {
		if strings.Contains(cat, tag) || strings.Contains(tag, cat) {
			return models.MatchResult{Score: 100, MatchType: models.MatchExact, Confidence: 1.0}
		}
	}

	// 2. Category: resolve the request to a predefined skill category, then
	// count how many tags carry one of that category's keywords.
	if skillCat := m.Catalog.CategoryFor(cat); skillCat != "" {
		keywords := m.Catalog.CategoryKeywords[skillCat]
		hits := 0
		for _, tag := range tags {
			for _, kw := range keywords {
				if strings.Contains(tag, kw) {
					hits++
					break
				}
			}
		}
		switch {
		case hits >= 3:
			return models.MatchResult{Score: 80, MatchType: models.MatchCategory, Confidence: 0.8}
		case hits >= 1:
			return models.MatchResult{Score: 70, MatchType: models.MatchCategory, Confidence: 0.7}
		}
	}

	// 3. Fuzzy: small edit distance between the category and any tag.
	for _, tag := range tags {
		if levenshtein(cat, tag) <= 3 {
			return models.MatchResult{Score: 60, MatchType: models.MatchFuzzy, Confidence: 0.6}
		}
	}

	// 4. General maintenance/repair capability.
	for _, tag := range tags {
		for _, kw := range m.Catalog.GeneralKeywords {
			if strings.Contains(tag, kw) {
				return models.MatchResult{Score: 45, MatchType: models.MatchGeneral, Confidence: 0.45}
			}
		}
	}

	return baselineMatch()
}

// baselineMatch is the weak, non-excluding floor every expert gets.
func baselineMatch() models.MatchResult {
	return models.MatchResult{Score: 30, MatchType: models.MatchNone, Confidence: 0.3}
}

// levenshtein computes the edit distance between two strings.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// RankExperts scores every expert concurrently and returns those above the
// minimum score, best first. When the request is an emergency, emergency-
// capable experts sort ahead of everyone else regardless of score.
func (m *SkillMatcher) RankExperts(
	experts []models.Expert,
	category string,
	urgency models.Urgency,
	excludeIDs []int,
	maxResults int,
) []models.RankedExpert {
	excluded := make(map[int]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}

	resultsCh := make(chan models.RankedExpert, len(experts))
	var wg sync.WaitGroup

	for _, e := range experts {
		if excluded[e.ID] {
			continue
		}
		wg.Add(1)
		go func(e models.Expert) {
			defer wg.Done()
			resultsCh <- models.RankedExpert{
				Expert: e,
				Match:  m.Match(e.Skills, category),
			}
		}(e)
	}

	wg.Wait()
	close(resultsCh)

	var ranked []models.RankedExpert
	for r := range resultsCh {
		if r.Match.Score > models.MinimumMatchScore {
			ranked = append(ranked, r)
		}
	}

	emergency := urgency == models.UrgencyEmergency
	sort.Slice(ranked, func(i, j int) bool {
		if emergency && ranked[i].Expert.EmergencyCapable != ranked[j].Expert.EmergencyCapable {
			return ranked[i].Expert.EmergencyCapable
		}
		if ranked[i].Match.Score != ranked[j].Match.Score {
			return ranked[i].Match.Score > ranked[j].Match.Score
		}
		return ranked[i].Expert.ID < ranked[j].Expert.ID
	})

	if maxResults > 0 && len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}
	return ranked
}
