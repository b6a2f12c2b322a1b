package triage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/psiazon/clinical-triage/internal/llm"
)

// Decide sends the clinical note to the model and parses its strict-JSON
// triage decision. A malformed response is a hard failure carrying the raw
// model output; there is no retry or repair pass.
func Decide(ctx context.Context, client *llm.Client, patientName, clinicalNote string) (*Decision, error) {
	content, err := client.Complete(ctx, buildMessages(patientName, clinicalNote), true)
	if err != nil {
		return nil, fmt.Errorf("triage completion: %w", err)
	}

	var d Decision
	if err := json.Unmarshal([]byte(content), &d); err != nil {
		return nil, fmt.Errorf("decode triage decision: %w; raw response: %s", err, content)
	}

	d.normalize()
	return &d, nil
}
