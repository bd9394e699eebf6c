package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/minhvu-dev/calassist/internal/llm"
	"github.com/minhvu-dev/calassist/internal/prompts"
)

// fallbackIntent is returned whenever classification fails for any reason.
// A wrong downstream prompt is recoverable; a raw provider or parse error
// shown to the user is not.
var fallbackIntent = IntentResult{
	Action:     ActionCreate,
	Confidence: 0.5,
	Reasoning:  "fallback",
}

// DetectIntent classifies the request into create/update/delete. It never
// returns an error: every failure downgrades to the fallback classification
// with the underlying cause logged.
func (p *Pipeline) DetectIntent(ctx context.Context, request string) IntentResult {
	instructions, err := prompts.Render(prompts.DetectAction, nil)
	if err != nil {
		// Template loss is non-fatal: send the unmodified message.
		if !errors.Is(err, prompts.ErrTemplateNotFound) {
			fmt.Printf("Intent: template render failed: %v\n", err)
		}
		instructions = ""
	}

	raw, err := p.gateway.Complete(ctx, instructions, request)
	if err != nil {
		fmt.Printf("Intent: falling back to default classification: %v\n", err)
		return fallbackIntent
	}

	var result IntentResult
	if err := json.Unmarshal([]byte(llm.ExtractJSON(raw)), &result); err != nil {
		fmt.Printf("Intent: falling back, unparseable model output: %v\n", err)
		return fallbackIntent
	}

	switch result.Action {
	case ActionCreate, ActionUpdate, ActionDelete:
	default:
		fmt.Printf("Intent: falling back, unknown action %q\n", result.Action)
		return fallbackIntent
	}

	if result.Confidence < 0 || result.Confidence > 1 {
		fmt.Printf("Intent: falling back, confidence %.2f out of range\n", result.Confidence)
		return fallbackIntent
	}

	return result
}
