package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/minhvu-dev/calassist/internal/calendar"
	"github.com/minhvu-dev/calassist/internal/llm"
	"github.com/minhvu-dev/calassist/internal/prompts"
)

// creationResponse is the closed result shape expected from the
// create-extraction prompt.
type creationResponse struct {
	Summary       string   `json:"summary"`
	StartDatetime string   `json:"start_datetime"`
	EndDatetime   string   `json:"end_datetime"`
	Description   string   `json:"description"`
	Location      string   `json:"location"`
	Attendees     []string `json:"attendees"`
	Recurrence    []string `json:"recurrence"`
	Error         string   `json:"error"`
}

// ExtractCreation converts the request plus current date and existing-events
// context into a validated event payload. The existing events are advisory
// conflict context only; overlap is never a hard rejection. A payload whose
// required fields are missing or inconsistent fails with *ValidationError
// rather than being repaired.
func (p *Pipeline) ExtractCreation(ctx context.Context, request string, now time.Time, events []calendar.Event) (*CreationPayload, error) {
	instructions, err := prompts.Render(prompts.CreateEvent, map[string]string{
		"current_date": formatPromptTime(now),
		"events":       formatEvents(events),
	})
	if err != nil {
		if !errors.Is(err, prompts.ErrTemplateNotFound) {
			return nil, err
		}
		instructions = ""
	}

	raw, err := p.gateway.Complete(ctx, instructions, request)
	if err != nil {
		return nil, err
	}

	var resp creationResponse
	if err := json.Unmarshal([]byte(llm.ExtractJSON(raw)), &resp); err != nil {
		return nil, &MalformedOutputError{Stage: "create-extraction", Err: err, Raw: raw}
	}

	if resp.Error != "" {
		return nil, &ValidationError{Reason: resp.Error}
	}

	return validateCreation(resp)
}

func validateCreation(resp creationResponse) (*CreationPayload, error) {
	if strings.TrimSpace(resp.Summary) == "" {
		return nil, &ValidationError{Reason: "event summary is required"}
	}
	if resp.StartDatetime == "" {
		return nil, &ValidationError{Reason: "start_datetime is required"}
	}
	if resp.EndDatetime == "" {
		// No silent duration default: the prompt tells the model to
		// supply an end time, so its absence is a hard failure.
		return nil, &ValidationError{Reason: "end_datetime is required"}
	}

	start, err := parseOffsetTime(resp.StartDatetime)
	if err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("invalid start_datetime: %v", err)}
	}
	end, err := parseOffsetTime(resp.EndDatetime)
	if err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("invalid end_datetime: %v", err)}
	}
	if !start.Before(end) {
		return nil, &ValidationError{Reason: "start_datetime must be before end_datetime"}
	}

	for _, email := range resp.Attendees {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, &ValidationError{Reason: fmt.Sprintf("invalid attendee email: %s", email)}
		}
	}

	return &CreationPayload{
		Summary:     resp.Summary,
		Description: resp.Description,
		Location:    resp.Location,
		StartTime:   start,
		EndTime:     end,
		Attendees:   resp.Attendees,
		Recurrence:  resp.Recurrence,
	}, nil
}
