package schedule

import "time"

// TestType identifies a diagnostic test the stub API can book.
type TestType string

const (
	TestBloodDraw TestType = "blood_draw"
	TestXRay      TestType = "xray"
	TestMRI       TestType = "mri"
)

// dispatchOrder is the fixed order in which selected tests are scheduled.
var dispatchOrder = []TestType{TestBloodDraw, TestXRay, TestMRI}

// Request is the body posted to a scheduling endpoint.
type Request struct {
	PatientName string `json:"patientName"`
	Reason      string `json:"reason"`
	Urgency     string `json:"urgency,omitempty"`
	BodyPart    string `json:"bodyPart,omitempty"`
}

// Confirmation is the synthetic booking returned by the stub API. It lives
// for one run and is never persisted.
type Confirmation struct {
	TestType           TestType  `json:"testType"`
	Patient            string    `json:"patient"`
	Urgency            string    `json:"urgency"`
	Reason             string    `json:"reason"`
	BodyPart           string    `json:"bodyPart,omitempty"`
	AppointmentTimeUTC time.Time `json:"appointmentTimeUtc"`
	ConfirmationID     string    `json:"confirmationId"`
}

// SkipEntry records a test that was not scheduled and why.
type SkipEntry struct {
	TestType TestType `json:"testType"`
	Reason   string   `json:"reason"`
}

// Outcome is the full result of the dispatch step.
type Outcome struct {
	Scheduled []Confirmation `json:"scheduled"`
	Skipped   []SkipEntry    `json:"skipped"`
}
