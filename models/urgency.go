package models

import "fmt"

// Urgency is the customer-declared priority of a service request.
type Urgency string

const (
	UrgencyLow       Urgency = "low"
	UrgencyMedium    Urgency = "medium"
	UrgencyHigh      Urgency = "high"
	UrgencyEmergency Urgency = "emergency"
)

// ParseUrgency validates a raw urgency string. An empty string defaults to
// medium.
func ParseUrgency(raw string) (Urgency, error) {
	switch Urgency(raw) {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyEmergency:
		return Urgency(raw), nil
	case "":
		return UrgencyMedium, nil
	default:
		return "", fmt.Errorf("unknown urgency %q", raw)
	}
}
