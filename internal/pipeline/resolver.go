package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/minhvu-dev/calassist/internal/calendar"
	"github.com/minhvu-dev/calassist/internal/llm"
	"github.com/minhvu-dev/calassist/internal/prompts"
)

// resolverResponse is the closed result shape expected from the
// update/delete disambiguation prompts.
type resolverResponse struct {
	EventID      string        `json:"event_id"`
	Updates      *eventUpdates `json:"updates"`
	EventSummary string        `json:"event_summary"`
	Reasoning    string        `json:"reasoning"`
	Error        string        `json:"error"`
}

// eventUpdates is the partial field set from an update resolution. Pointer
// fields distinguish "omitted" from "set to empty": only keys the model
// actually emitted may reach the mutation request.
type eventUpdates struct {
	Summary       *string   `json:"summary"`
	StartDatetime *string   `json:"start_datetime"`
	EndDatetime   *string   `json:"end_datetime"`
	Description   *string   `json:"description"`
	Location      *string   `json:"location"`
	Attendees     *[]string `json:"attendees"`
	Recurrence    *[]string `json:"recurrence"`
}

// Resolve matches the request against the supplied events and selects the
// single target event, or reports no match. The returned target carries a
// usable EventID only when the model named an id present in events.
func (p *Pipeline) Resolve(ctx context.Context, request string, events []calendar.Event, op Action) (*ResolvedTarget, error) {
	var templateName string
	switch op {
	case ActionUpdate:
		templateName = prompts.UpdateEvent
	case ActionDelete:
		templateName = prompts.DeleteEvent
	default:
		return nil, &UnsupportedActionError{Action: string(op)}
	}

	instructions, err := prompts.Render(templateName, map[string]string{
		"current_date": formatPromptTime(p.now()),
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

	var resp resolverResponse
	extracted := llm.ExtractJSON(raw)
	if err := json.Unmarshal([]byte(extracted), &resp); err != nil {
		return nil, &MalformedOutputError{Stage: "resolve/" + string(op), Err: err, Raw: raw}
	}

	target := &ResolvedTarget{
		EventSummary: resp.EventSummary,
		Reasoning:    resp.Reasoning,
		ErrorText:    resp.Error,
	}

	// The model must name an id from the supplied list; anything else is
	// treated as "no matching event", never as a dangling reference.
	if resp.EventID == "" || !containsEventID(events, resp.EventID) {
		return target, nil
	}
	target.EventID = resp.EventID

	if op == ActionUpdate {
		patch, err := buildPatch(resp.Updates)
		if err != nil {
			return nil, err
		}
		target.Patch = patch
	}

	return target, nil
}

func containsEventID(events []calendar.Event, id string) bool {
	for _, event := range events {
		if event.ID == id {
			return true
		}
	}
	return false
}

// buildPatch converts the model's partial updates object into a transport
// patch, validating datetimes and attendee addresses. Omitted fields stay
// nil so the live event's values survive the mutation.
func buildPatch(updates *eventUpdates) (calendar.EventPatch, error) {
	var patch calendar.EventPatch
	if updates == nil {
		return patch, nil
	}

	patch.Summary = updates.Summary
	patch.Description = updates.Description
	patch.Location = updates.Location
	patch.Recurrence = updates.Recurrence

	if updates.StartDatetime != nil {
		start, err := parseOffsetTime(*updates.StartDatetime)
		if err != nil {
			return calendar.EventPatch{}, &ValidationError{Reason: fmt.Sprintf("invalid start_datetime: %v", err)}
		}
		patch.StartTime = &start
	}
	if updates.EndDatetime != nil {
		end, err := parseOffsetTime(*updates.EndDatetime)
		if err != nil {
			return calendar.EventPatch{}, &ValidationError{Reason: fmt.Sprintf("invalid end_datetime: %v", err)}
		}
		patch.EndTime = &end
	}
	if patch.StartTime != nil && patch.EndTime != nil && !patch.StartTime.Before(*patch.EndTime) {
		return calendar.EventPatch{}, &ValidationError{Reason: "start_datetime must be before end_datetime"}
	}

	if updates.Attendees != nil {
		for _, email := range *updates.Attendees {
			if _, err := mail.ParseAddress(email); err != nil {
				return calendar.EventPatch{}, &ValidationError{Reason: fmt.Sprintf("invalid attendee email: %s", email)}
			}
		}
		patch.Attendees = updates.Attendees
	}

	return patch, nil
}

// parseOffsetTime parses an ISO-8601 timestamp with an explicit offset.
func parseOffsetTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected ISO 8601 with offset, got %q", value)
	}
	return t, nil
}
