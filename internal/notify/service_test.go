package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockNotifier for testing
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, mutation *Mutation, recipient string) error {
	args := m.Called(ctx, mutation, recipient)
	return args.Error(0)
}

func (m *MockNotifier) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockNotifier) IsConfigured() bool {
	args := m.Called()
	return args.Bool(0)
}

func TestIsEmailAvailable(t *testing.T) {
	t.Run("available when notifier configured", func(t *testing.T) {
		emailNotifier := &MockNotifier{}
		emailNotifier.On("IsConfigured").Return(true)

		service := NewService(emailNotifier, "user@example.com")
		assert.True(t, service.IsEmailAvailable())

		emailNotifier.AssertExpectations(t)
	})

	t.Run("not available when notifier not configured", func(t *testing.T) {
		emailNotifier := &MockNotifier{}
		emailNotifier.On("IsConfigured").Return(false)

		service := NewService(emailNotifier, "user@example.com")
		assert.False(t, service.IsEmailAvailable())
	})

	t.Run("not available when notifier is nil", func(t *testing.T) {
		service := NewService(nil, "user@example.com")
		assert.False(t, service.IsEmailAvailable())
	})

	t.Run("not available without a recipient", func(t *testing.T) {
		emailNotifier := &MockNotifier{}
		emailNotifier.On("IsConfigured").Return(true).Maybe()

		service := NewService(emailNotifier, "")
		assert.False(t, service.IsEmailAvailable())
	})
}

func TestNotifyMutation(t *testing.T) {
	mutation := &Mutation{Action: "create", EventSummary: "Lunch"}

	t.Run("sends to the configured recipient", func(t *testing.T) {
		emailNotifier := &MockNotifier{}
		emailNotifier.On("IsConfigured").Return(true)
		emailNotifier.On("Send", mock.Anything, mutation, "user@example.com").Return(nil)

		service := NewService(emailNotifier, "user@example.com")
		service.NotifyMutation(context.Background(), mutation)

		emailNotifier.AssertExpectations(t)
	})

	t.Run("skips when no recipient configured", func(t *testing.T) {
		emailNotifier := &MockNotifier{}

		service := NewService(emailNotifier, "")
		service.NotifyMutation(context.Background(), mutation)

		emailNotifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("skips when notifier not configured", func(t *testing.T) {
		emailNotifier := &MockNotifier{}
		emailNotifier.On("IsConfigured").Return(false)

		service := NewService(emailNotifier, "user@example.com")
		service.NotifyMutation(context.Background(), mutation)

		emailNotifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("delivery failure is swallowed", func(t *testing.T) {
		emailNotifier := &MockNotifier{}
		emailNotifier.On("IsConfigured").Return(true)
		emailNotifier.On("Name").Return("resend")
		emailNotifier.On("Send", mock.Anything, mutation, "user@example.com").Return(assert.AnError)

		service := NewService(emailNotifier, "user@example.com")
		service.NotifyMutation(context.Background(), mutation)

		emailNotifier.AssertExpectations(t)
	})

	t.Run("nil notifier does not panic", func(t *testing.T) {
		service := NewService(nil, "user@example.com")
		service.NotifyMutation(context.Background(), mutation)
	})
}
