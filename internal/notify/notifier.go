package notify

import (
	"context"
	"time"
)

// Mutation describes one applied calendar change for notification purposes
type Mutation struct {
	Action       string
	EventID      string
	EventSummary string
	StartTime    time.Time
	EndTime      *time.Time
	Location     string
	Description  string
	Reasoning    string
}

// Notifier sends a confirmation for an applied mutation to a specific recipient
type Notifier interface {
	// Send sends a confirmation for a mutation to the specified recipient
	Send(ctx context.Context, mutation *Mutation, recipient string) error
	// Name returns the notifier type name (for logging)
	Name() string
	// IsConfigured returns true if the notifier has server-side config
	IsConfigured() bool
}
