package pipeline

import (
	"context"
	"time"

	"github.com/minhvu-dev/calassist/internal/calendar"
)

// Action is the classified calendar action for a user utterance.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Gateway sends a composed prompt to the language-model provider.
// Implementations must be safe for concurrent use and perform no retries.
type Gateway interface {
	Complete(ctx context.Context, instructions, input string) (string, error)
}

// Transport is the narrow calendar collaborator interface. Implementations
// report ErrNotAuthenticated when no valid credential is held and wrap every
// other failure in *calendar.RemoteError.
type Transport interface {
	IsAuthenticated() bool
	ListUpcoming(maxResults int64, timeMin, timeMax time.Time) ([]calendar.Event, error)
	Insert(input calendar.EventInput) (*calendar.Event, error)
	Update(eventID string, patch calendar.EventPatch) (*calendar.Event, error)
	Delete(eventID string) error
}

// Turn is one prior conversation exchange folded into prompt context.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// IntentResult is the stage-1 classification. Produced once per request and
// consumed immediately by the orchestrator, never persisted.
type IntentResult struct {
	Action     Action  `json:"action"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// ResolvedTarget is the stage-2 result for update/delete. EventID is empty
// when the model named no event or an event outside the supplied list; the
// orchestrator treats that as "no matching event", never as success.
type ResolvedTarget struct {
	EventID      string
	Patch        calendar.EventPatch
	EventSummary string
	Reasoning    string
	ErrorText    string
}

// HasTarget reports whether the resolver produced a usable event id.
func (t *ResolvedTarget) HasTarget() bool {
	return t != nil && t.EventID != ""
}

// CreationPayload is the validated stage-2 result for create. A payload is
// only ever returned once every required field is present and consistent.
type CreationPayload struct {
	Summary     string
	Description string
	Location    string
	StartTime   time.Time
	EndTime     time.Time
	Attendees   []string
	Recurrence  []string
}

// Input converts the payload to a transport insert request.
func (p *CreationPayload) Input() calendar.EventInput {
	return calendar.EventInput{
		Summary:     p.Summary,
		Description: p.Description,
		Location:    p.Location,
		StartTime:   p.StartTime,
		EndTime:     p.EndTime,
		Attendees:   p.Attendees,
		Recurrence:  p.Recurrence,
	}
}
