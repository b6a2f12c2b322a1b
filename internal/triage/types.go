package triage

import "strings"

// Urgency levels the model may return.
const (
	UrgencyUrgent    = "urgent"
	UrgencyNonUrgent = "non_urgent"
	UrgencyUnknown   = "unknown"
)

var allowedUrgencies = map[string]bool{
	UrgencyUrgent:    true,
	UrgencyNonUrgent: true,
	UrgencyUnknown:   true,
}

// Decision is the structured triage output parsed from the model response.
type Decision struct {
	Urgency       string        `json:"urgency"`
	UrgencyReason string        `json:"urgency_reason"`
	Tests         TestSelection `json:"tests_to_schedule"`
}

// TestSelection flags which diagnostic tests the model selected.
type TestSelection struct {
	BloodDraw bool   `json:"blood_draw"`
	XRay      bool   `json:"xray"`
	MRI       bool   `json:"mri"`
	Notes     string `json:"notes"`
}

// IsUrgent reports whether the decision takes the urgent path.
func (d *Decision) IsUrgent() bool {
	return strings.EqualFold(strings.TrimSpace(d.Urgency), UrgencyUrgent)
}

// normalize validates the urgency value and enforces the non-urgent
// invariant: unless the case is urgent, no tests may be scheduled no matter
// what the model returned.
func (d *Decision) normalize() {
	u := strings.ToLower(strings.TrimSpace(d.Urgency))
	if !allowedUrgencies[u] {
		u = UrgencyUnknown
	}
	d.Urgency = u

	if d.Urgency != UrgencyUrgent {
		d.Tests.BloodDraw = false
		d.Tests.XRay = false
		d.Tests.MRI = false
	}
}
