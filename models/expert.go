package models

import "strings"

// Expert availability statuses.
const (
	ExpertAvailable   = "available"
	ExpertUnavailable = "unavailable"
)

// Expert represents a schedulable service provider.
type Expert struct {
	ID                int      `bson:"id" json:"id"`
	Name              string   `bson:"name" json:"name"`
	BusinessID        string   `bson:"business_id" json:"businessId"`
	Skills            []string `bson:"skills" json:"skills"`
	Status            string   `bson:"status" json:"status"`
	EmergencyCapable  bool     `bson:"emergency_capable" json:"emergencyCapable"`
	Rating            float64  `bson:"rating,omitempty" json:"rating,omitempty"`
	CompletedBookings int      `bson:"completed_bookings,omitempty" json:"completedBookings,omitempty"`
}

// emergencyMarkers are skill-tag fragments that mark an expert as dispatchable
// for emergency requests.
var emergencyMarkers = []string{"emergency", "24/7", "24 hour", "urgent", "on-call"}

// ParseSkills splits a comma-delimited skill string into normalized tags.
// Empty tokens are dropped.
func ParseSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		tag := strings.TrimSpace(p)
		if tag != "" {
			skills = append(skills, tag)
		}
	}
	return skills
}

// DeriveEmergencyCapable reports whether any skill tag marks the expert as
// emergency-capable.
func DeriveEmergencyCapable(skills []string) bool {
	for _, s := range skills {
		tag := strings.ToLower(s)
		for _, m := range emergencyMarkers {
			if strings.Contains(tag, m) {
				return true
			}
		}
	}
	return false
}

// RankedExpert pairs an expert with its computed match result for a requested
// service category.
type RankedExpert struct {
	Expert Expert      `json:"expert"`
	Match  MatchResult `json:"match"`
}
