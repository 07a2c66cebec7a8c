package models

import (
	"sort"
	"strings"
)

// ServiceCatalog maps service categories to canonical visit durations and to
// the keyword sets used by skill matching.
type ServiceCatalog struct {
	Durations              map[string]int
	DefaultDurationMinutes int
	CategoryKeywords       map[string][]string
	GeneralKeywords        []string
}

// DefaultServiceCatalog returns the built-in catalog for SME field services.
func DefaultServiceCatalog() ServiceCatalog {
	return ServiceCatalog{
		Durations: map[string]int{
			"plumbing":    90,
			"electrical":  60,
			"hvac":        120,
			"cleaning":    120,
			"carpentry":   180,
			"painting":    240,
			"locksmith":   45,
			"landscaping": 120,
			"roofing":     180,
			"appliance":   75,
		},
		DefaultDurationMinutes: 60,
		CategoryKeywords: map[string][]string{
			"plumbing":    {"plumb", "pipe", "drain", "leak", "faucet", "water heater", "sewer"},
			"electrical":  {"electric", "wiring", "circuit", "outlet", "lighting", "breaker"},
			"hvac":        {"hvac", "heating", "cooling", "furnace", "air condition", "ventilation", "refrigerant"},
			"cleaning":    {"clean", "janitorial", "carpet", "window washing"},
			"carpentry":   {"carpentr", "woodwork", "cabinet", "framing", "trim"},
			"painting":    {"paint", "drywall", "plaster", "wallpaper"},
			"locksmith":   {"lock", "key", "deadbolt", "access control"},
			"landscaping": {"landscap", "lawn", "garden", "tree", "irrigation"},
			"roofing":     {"roof", "gutter", "shingle", "flashing"},
			"appliance":   {"appliance", "refrigerator", "washer", "dryer", "dishwasher", "oven"},
		},
		GeneralKeywords: []string{"maintenance", "repair", "handyman", "general", "fix"},
	}
}

// DurationFor returns the canonical duration for a category, falling back to
// the default for unknown categories.
func (c ServiceCatalog) DurationFor(category string) int {
	if d, ok := c.Durations[strings.ToLower(strings.TrimSpace(category))]; ok {
		return d
	}
	return c.DefaultDurationMinutes
}

// Knows reports whether the category has a canonical duration entry.
func (c ServiceCatalog) Knows(category string) bool {
	_, ok := c.Durations[strings.ToLower(strings.TrimSpace(category))]
	return ok
}

// CategoryFor resolves which predefined skill category the requested service
// belongs to, by keyword containment in either direction. Categories are
// scanned in sorted order so a request touching the keywords of two
// categories always resolves to the same one. Returns "" when the request
// maps to no category.
func (c ServiceCatalog) CategoryFor(requested string) string {
	req := strings.ToLower(strings.TrimSpace(requested))
	if req == "" {
		return ""
	}
	if _, ok := c.CategoryKeywords[req]; ok {
		return req
	}
	cats := make([]string, 0, len(c.CategoryKeywords))
	for cat := range c.CategoryKeywords {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	for _, cat := range cats {
		for _, kw := range c.CategoryKeywords[cat] {
			if strings.Contains(req, kw) || strings.Contains(kw, req) {
				return cat
			}
		}
	}
	return ""
}
