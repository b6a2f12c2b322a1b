package schedule

import (
	"context"
	"fmt"
	"strings"

	"github.com/psiazon/clinical-triage/internal/triage"
)

const (
	// maxNoteChars caps the clinical-note excerpt embedded in the composed
	// scheduling reason.
	maxNoteChars = 240

	skipNotSelected = "not selected by triage decision"
)

// Dispatch walks the triage decision and books every selected test against
// the stub API, in fixed order (blood draw, x-ray, MRI). Calls are
// sequential; the first failure aborts the remaining ones. When the case is
// not urgent nothing is scheduled at all, regardless of the test flags.
func Dispatch(ctx context.Context, client *Client, decision *triage.Decision, patientName, clinicalNote string) (*Outcome, error) {
	outcome := &Outcome{
		Scheduled: []Confirmation{},
		Skipped:   []SkipEntry{},
	}

	if !decision.IsUrgent() {
		outcome.Skipped = append(outcome.Skipped, SkipEntry{
			TestType: "all",
			Reason:   fmt.Sprintf("triage urgency is %q; no tests scheduled", decision.Urgency),
		})
		return outcome, nil
	}

	reason := composeReason(decision, clinicalNote)

	selected := map[TestType]bool{
		TestBloodDraw: decision.Tests.BloodDraw,
		TestXRay:      decision.Tests.XRay,
		TestMRI:       decision.Tests.MRI,
	}

	for _, testType := range dispatchOrder {
		if !selected[testType] {
			outcome.Skipped = append(outcome.Skipped, SkipEntry{
				TestType: testType,
				Reason:   skipNotSelected,
			})
			continue
		}

		conf, err := client.Schedule(ctx, testType, Request{
			PatientName: patientName,
			Reason:      reason,
			Urgency:     decision.Urgency,
		})
		if err != nil {
			return nil, fmt.Errorf("schedule %s: %w", testType, err)
		}
		outcome.Scheduled = append(outcome.Scheduled, *conf)
	}

	return outcome, nil
}

// composeReason builds the scheduling reason from the urgency rationale, the
// triage notes, and a capped excerpt of the original clinical note.
func composeReason(decision *triage.Decision, clinicalNote string) string {
	var parts []string
	if r := strings.TrimSpace(decision.UrgencyReason); r != "" {
		parts = append(parts, r)
	}
	if n := strings.TrimSpace(decision.Tests.Notes); n != "" {
		parts = append(parts, n)
	}
	parts = append(parts, "Note: "+truncateNote(clinicalNote, maxNoteChars))
	return strings.Join(parts, " | ")
}

// truncateNote caps the note at maxChars characters, not bytes, so
// multi-byte runes are never split.
func truncateNote(note string, maxChars int) string {
	runes := []rune(note)
	if len(runes) <= maxChars {
		return note
	}
	return string(runes[:maxChars]) + "..."
}
