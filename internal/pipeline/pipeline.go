package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/minhvu-dev/calassist/internal/calendar"
)

const (
	// Create extraction sees a week of context for conflict awareness.
	createWindow     = 7 * 24 * time.Hour
	createMaxResults = 50

	// Resolution works against a smaller candidate set.
	resolveWindow     = 7 * 24 * time.Hour
	resolveMaxResults = 20
)

// Pipeline turns a raw user utterance into a validated calendar mutation.
// Each invocation is stateless; concurrent requests share only the gateway
// and transport collaborators.
type Pipeline struct {
	gateway   Gateway
	transport Transport
	now       func() time.Time
}

// New creates a pipeline over the given collaborators.
func New(gateway Gateway, transport Transport) *Pipeline {
	return &Pipeline{
		gateway:   gateway,
		transport: transport,
		now:       time.Now,
	}
}

// ErrorInfo is the structured error carried on a failed result: a stable
// category plus human-readable detail, never a raw trace.
type ErrorInfo struct {
	Category string `json:"category"`
	Detail   string `json:"detail"`
}

// Result is the pipeline's answer to one user request.
type Result struct {
	Action  Action     `json:"action"`
	Message string     `json:"message"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// Failed reports whether the run terminated with an error.
func (r *Result) Failed() bool {
	return r.Error != nil
}

// DeleteConfirmation is the Data payload for a successful delete.
type DeleteConfirmation struct {
	EventID      string `json:"event_id"`
	EventSummary string `json:"event_summary"`
}

// UpdateResult is the Data payload for a successful update.
type UpdateResult struct {
	Event     *calendar.Event `json:"event"`
	Reasoning string          `json:"reasoning,omitempty"`
}

// HandleUserRequest runs one complete pipeline invocation: classify intent,
// resolve or extract, mutate, and map any failure to its category. No stage
// retries; a failed run is replayed by resubmitting the same request.
func (p *Pipeline) HandleUserRequest(ctx context.Context, text string, history []Turn) *Result {
	if !p.transport.IsAuthenticated() {
		return failure("", calendar.ErrNotAuthenticated)
	}

	request := foldHistory(text, history)
	intent := p.DetectIntent(ctx, request)

	switch intent.Action {
	case ActionCreate:
		return p.handleCreate(ctx, request)
	case ActionUpdate:
		return p.handleUpdate(ctx, request)
	case ActionDelete:
		return p.handleDelete(ctx, request)
	default:
		// Unreachable given the classifier's closed set.
		return failure(intent.Action, &UnsupportedActionError{Action: string(intent.Action)})
	}
}

func (p *Pipeline) handleCreate(ctx context.Context, request string) *Result {
	now := p.now()
	events, err := p.transport.ListUpcoming(createMaxResults, now, now.Add(createWindow))
	if err != nil {
		return failure(ActionCreate, err)
	}

	payload, err := p.ExtractCreation(ctx, request, now, events)
	if err != nil {
		return failure(ActionCreate, err)
	}

	created, err := p.transport.Insert(payload.Input())
	if err != nil {
		return failure(ActionCreate, err)
	}

	return &Result{
		Action:  ActionCreate,
		Message: fmt.Sprintf("Created %q on %s", created.Summary, created.StartTime.Format("Mon Jan 2 15:04")),
		Data:    created,
	}
}

func (p *Pipeline) handleUpdate(ctx context.Context, request string) *Result {
	target, res := p.resolveTarget(ctx, request, ActionUpdate)
	if res != nil {
		return res
	}

	// A resolved event with no changed fields would be a no-op PATCH.
	if target.Patch.IsEmpty() {
		return failure(ActionUpdate, &ValidationError{Reason: "no changes requested for the matched event"})
	}

	updated, err := p.transport.Update(target.EventID, target.Patch)
	if err != nil {
		return failure(ActionUpdate, err)
	}

	return &Result{
		Action:  ActionUpdate,
		Message: fmt.Sprintf("Updated %q", updated.Summary),
		Data:    &UpdateResult{Event: updated, Reasoning: target.Reasoning},
	}
}

func (p *Pipeline) handleDelete(ctx context.Context, request string) *Result {
	target, res := p.resolveTarget(ctx, request, ActionDelete)
	if res != nil {
		return res
	}

	if err := p.transport.Delete(target.EventID); err != nil {
		return failure(ActionDelete, err)
	}

	summary := target.EventSummary
	if summary == "" {
		summary = target.EventID
	}
	return &Result{
		Action:  ActionDelete,
		Message: fmt.Sprintf("Deleted %q", summary),
		Data:    &DeleteConfirmation{EventID: target.EventID, EventSummary: summary},
	}
}

// resolveTarget fetches the candidate events and runs resolution. It returns
// either a usable target or the terminal failure result.
func (p *Pipeline) resolveTarget(ctx context.Context, request string, op Action) (*ResolvedTarget, *Result) {
	now := p.now()
	events, err := p.transport.ListUpcoming(resolveMaxResults, now, now.Add(resolveWindow))
	if err != nil {
		return nil, failure(op, err)
	}

	target, err := p.Resolve(ctx, request, events, op)
	if err != nil {
		return nil, failure(op, err)
	}

	if !target.HasTarget() {
		reasoning := target.ErrorText
		if reasoning == "" {
			reasoning = target.Reasoning
		}
		return nil, failure(op, &NoMatchError{Reasoning: reasoning})
	}

	return target, nil
}

func failure(action Action, err error) *Result {
	return &Result{
		Action:  action,
		Message: userMessage(err),
		Error: &ErrorInfo{
			Category: Categorize(err),
			Detail:   err.Error(),
		},
	}
}

// userMessage gives each failure category a stable, human-readable line.
func userMessage(err error) string {
	switch Categorize(err) {
	case CategoryNotAuthenticated:
		return "Google Calendar is not connected. Please sign in first."
	case CategoryNoMatch:
		return "I couldn't find a single matching event for that request."
	case CategoryValidation:
		return "I couldn't turn that into a valid calendar event."
	case CategoryProvider, CategoryEmptyResponse:
		return "The assistant service is unavailable right now. Please try again."
	case CategoryMalformedOutput:
		return "The assistant gave an unusable answer. Please try rephrasing."
	case CategoryRemote:
		return "Google Calendar rejected the request."
	default:
		return "Something went wrong handling that request."
	}
}
