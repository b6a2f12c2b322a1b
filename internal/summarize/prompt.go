package summarize

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/psiazon/clinical-triage/internal/llm"
	"github.com/psiazon/clinical-triage/internal/schedule"
	"github.com/psiazon/clinical-triage/internal/triage"
)

const systemPrompt = `You summarize the outcome of a clinical triage run for a clinician.

Write a concise, human-readable summary in plain prose. Cover:
- the urgency call and its rationale,
- every scheduled test with its confirmation ID and appointment time,
- every skipped test with the reason it was skipped.

Keep it short. Do not invent details that are not in the input.`

// Input carries everything the summary prompt needs.
type Input struct {
	PatientName  string
	ClinicalNote string
	Decision     *triage.Decision
	Outcome      *schedule.Outcome
}

func buildMessages(in Input) []llm.Message {
	var b strings.Builder

	fmt.Fprintf(&b, "Patient: %s\n\n", in.PatientName)
	fmt.Fprintf(&b, "Clinical note:\n%s\n\n", in.ClinicalNote)

	b.WriteString("Triage decision:\n")
	writeJSON(&b, in.Decision)

	b.WriteString("\nScheduling results:\n")
	writeJSON(&b, in.Outcome)

	return []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: b.String()},
	}
}

func writeJSON(b *strings.Builder, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(b, "(unavailable: %v)\n", err)
		return
	}
	b.Write(data)
	b.WriteString("\n")
}
