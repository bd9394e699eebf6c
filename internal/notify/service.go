package notify

import (
	"context"
	"fmt"
)

// Service sends mutation confirmations to the configured recipient.
// Delivery failures are logged but never fail the calendar operation.
type Service struct {
	emailNotifier Notifier
	recipient     string
}

// NewService creates a notification service
func NewService(emailNotifier Notifier, recipient string) *Service {
	return &Service{
		emailNotifier: emailNotifier,
		recipient:     recipient,
	}
}

// NotifyMutation sends a confirmation for an applied mutation
func (s *Service) NotifyMutation(ctx context.Context, mutation *Mutation) {
	if s.recipient == "" {
		return
	}
	if s.emailNotifier == nil || !s.emailNotifier.IsConfigured() {
		return
	}

	if err := s.emailNotifier.Send(ctx, mutation, s.recipient); err != nil {
		fmt.Printf("Notification: %s failed: %v\n", s.emailNotifier.Name(), err)
		return
	}
}

// IsEmailAvailable returns true if email confirmations can be sent
func (s *Service) IsEmailAvailable() bool {
	return s.emailNotifier != nil && s.emailNotifier.IsConfigured() && s.recipient != ""
}
