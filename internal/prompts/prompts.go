package prompts

import (
	"errors"
	"fmt"
	"strings"
)

// Template names used by the pipeline stages.
const (
	DetectAction = "detect_action"
	CreateEvent  = "create_event"
	UpdateEvent  = "update_event"
	DeleteEvent  = "delete_event"
)

var ErrTemplateNotFound = errors.New("prompt template not found")

// registry maps template names to their text. Templates are plain strings
// with {key} placeholders, not a full templating language.
var registry = map[string]string{
	DetectAction: DetectActionTemplate,
	CreateEvent:  CreateEventTemplate,
	UpdateEvent:  UpdateEventTemplate,
	DeleteEvent:  DeleteEventTemplate,
}

// Render loads the named template and replaces every {key} placeholder with
// the matching variable. Placeholders without a matching variable are left
// verbatim; callers treat ErrTemplateNotFound as non-fatal and fall back to
// sending the unmodified user message.
func Render(name string, vars map[string]string) (string, error) {
	tmpl, ok := registry[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}

	if len(vars) == 0 {
		return tmpl, nil
	}

	pairs := make([]string, 0, len(vars)*2)
	for key, value := range vars {
		pairs = append(pairs, "{"+key+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl), nil
}

// Names returns the registered template names (for diagnostics).
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
