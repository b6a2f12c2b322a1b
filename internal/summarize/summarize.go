// Package summarize asks the model for a human-readable wrap-up of a triage
// run. The response is plain text and is passed through unvalidated.
package summarize

import (
	"context"
	"fmt"

	"github.com/psiazon/clinical-triage/internal/llm"
)

// Generate returns the model's free-text summary of the run.
func Generate(ctx context.Context, client *llm.Client, in Input) (string, error) {
	content, err := client.Complete(ctx, buildMessages(in), false)
	if err != nil {
		return "", fmt.Errorf("summary completion: %w", err)
	}
	return content, nil
}
