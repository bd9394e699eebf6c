package pipeline

import (
	"errors"
	"fmt"

	"github.com/minhvu-dev/calassist/internal/calendar"
	"github.com/minhvu-dev/calassist/internal/llm"
)

// Stable error categories surfaced to the invoking layer. Every pipeline
// failure maps to exactly one of these; the caller renders category plus
// detail without inspecting internals.
const (
	CategoryNotAuthenticated  = "not_authenticated"
	CategoryProvider          = "provider_error"
	CategoryEmptyResponse     = "empty_response"
	CategoryMalformedOutput   = "malformed_model_output"
	CategoryNoMatch           = "no_match"
	CategoryValidation        = "validation_error"
	CategoryUnsupportedAction = "unsupported_action"
	CategoryRemote            = "remote_error"
	CategoryInternal          = "internal_error"
)

// MalformedOutputError reports model output that survived extraction but
// failed to parse into the stage's expected shape.
type MalformedOutputError struct {
	Stage string
	Err   error
	Raw   string
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("%s: malformed model output: %v", e.Stage, e.Err)
}

func (e *MalformedOutputError) Unwrap() error { return e.Err }

// NoMatchError is the expected outcome of an ambiguous or absent target in
// update/delete: the resolver found no single matching event.
type NoMatchError struct {
	Reasoning string
}

func (e *NoMatchError) Error() string {
	if e.Reasoning == "" {
		return "no matching event found"
	}
	return "no matching event found: " + e.Reasoning
}

// ValidationError reports a creation or update payload that failed
// required-field or ordering checks, with the model's stated reason when
// available.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// UnsupportedActionError reports an action value outside the closed set.
type UnsupportedActionError struct {
	Action string
}

func (e *UnsupportedActionError) Error() string {
	return "unsupported action: " + e.Action
}

// Categorize maps a pipeline failure to its stable category.
func Categorize(err error) string {
	var (
		provErr     *llm.ProviderError
		malformed   *MalformedOutputError
		noMatch     *NoMatchError
		validation  *ValidationError
		unsupported *UnsupportedActionError
		remote      *calendar.RemoteError
	)

	switch {
	case errors.Is(err, calendar.ErrNotAuthenticated):
		return CategoryNotAuthenticated
	case errors.Is(err, llm.ErrEmptyResponse):
		return CategoryEmptyResponse
	case errors.As(err, &provErr):
		return CategoryProvider
	case errors.As(err, &malformed):
		return CategoryMalformedOutput
	case errors.As(err, &noMatch):
		return CategoryNoMatch
	case errors.As(err, &validation):
		return CategoryValidation
	case errors.As(err, &unsupported):
		return CategoryUnsupportedAction
	case errors.As(err, &remote):
		return CategoryRemote
	default:
		return CategoryInternal
	}
}
