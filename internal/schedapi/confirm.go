package schedapi

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/psiazon/clinical-triage/internal/schedule"
)

// Appointment offsets from request receipt time, urgent vs non-urgent.
var offsets = map[schedule.TestType]struct{ urgent, routine time.Duration }{
	schedule.TestBloodDraw: {2 * time.Hour, 48 * time.Hour},
	schedule.TestXRay:      {4 * time.Hour, 72 * time.Hour},
	schedule.TestMRI:       {8 * time.Hour, 120 * time.Hour},
}

var idPrefixes = map[schedule.TestType]string{
	schedule.TestBloodDraw: "BD-",
	schedule.TestXRay:      "XR-",
	schedule.TestMRI:       "MRI-",
}

// newConfirmation computes the synthetic booking for one request. Each call
// produces a fresh random ID and timestamp; idempotency is not a goal here.
func newConfirmation(testType schedule.TestType, req schedule.Request, now time.Time) schedule.Confirmation {
	conf := schedule.Confirmation{
		TestType:           testType,
		Patient:            req.PatientName,
		Urgency:            req.Urgency,
		Reason:             req.Reason,
		AppointmentTimeUTC: now.Add(appointmentOffset(testType, isUrgent(req.Urgency))),
		ConfirmationID:     newConfirmationID(testType),
	}

	if testType == schedule.TestXRay || testType == schedule.TestMRI {
		conf.BodyPart = req.BodyPart
		if conf.BodyPart == "" {
			conf.BodyPart = "Unknown"
		}
	}

	return conf
}

func appointmentOffset(testType schedule.TestType, urgent bool) time.Duration {
	o := offsets[testType]
	if urgent {
		return o.urgent
	}
	return o.routine
}

func isUrgent(urgency string) bool {
	return strings.EqualFold(strings.TrimSpace(urgency), "urgent")
}

func newConfirmationID(testType schedule.TestType) string {
	return idPrefixes[testType] + fmt.Sprintf("%06d", rand.Intn(1_000_000))
}
