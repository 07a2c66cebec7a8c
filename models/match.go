package models

// Match types, in descending strength.
const (
	MatchExact    = "exact"
	MatchCategory = "category"
	MatchFuzzy    = "fuzzy"
	MatchGeneral  = "general"
	MatchNone     = "none"
)

// MinimumMatchScore is the score an expert must exceed to be retained as a
// candidate. The matcher itself never excludes anyone; this filter is applied
// by the caller.
const MinimumMatchScore = 30

// MatchResult describes how well an expert's skills cover a requested service
// category. Derived on demand, never persisted.
type MatchResult struct {
	Score      int     `json:"score"`      // 0-100
	MatchType  string  `json:"matchType"`  // exact|category|fuzzy|general|none
	Confidence float64 `json:"confidence"` // 0.0-1.0
}
