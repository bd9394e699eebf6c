package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/minhvu-dev/calassist/internal/calendar"
)

// MockGateway simulates the LLM gateway with scripted responses. Responses
// are consumed in FIFO order; prompts are recorded for assertions.
type MockGateway struct {
	mu        sync.Mutex
	responses []gatewayResponse
	calls     []GatewayCall
}

type gatewayResponse struct {
	text string
	err  error
}

// GatewayCall records one Complete invocation.
type GatewayCall struct {
	Instructions string
	Input        string
}

// NewMockGateway creates a gateway mock with no scripted responses.
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

// EnqueueResponse scripts the next successful completion.
func (m *MockGateway) EnqueueResponse(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, gatewayResponse{text: text})
}

// EnqueueError scripts the next completion failure.
func (m *MockGateway) EnqueueError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, gatewayResponse{err: err})
}

// Complete pops the next scripted response.
func (m *MockGateway) Complete(_ context.Context, instructions, input string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, GatewayCall{Instructions: instructions, Input: input})
	if len(m.responses) == 0 {
		return "", fmt.Errorf("mock gateway: no scripted response for call %d", len(m.calls))
	}

	next := m.responses[0]
	m.responses = m.responses[1:]
	return next.text, next.err
}

// Calls returns all recorded invocations.
func (m *MockGateway) Calls() []GatewayCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]GatewayCall{}, m.calls...)
}

// MockTransport simulates the calendar transport for testing.
type MockTransport struct {
	mu            sync.Mutex
	authenticated bool
	events        []calendar.Event

	listErr   error
	insertErr error
	updateErr error
	deleteErr error

	Inserted []calendar.EventInput
	Updated  []UpdateCall
	Deleted  []string
}

// UpdateCall records one Update invocation.
type UpdateCall struct {
	EventID string
	Patch   calendar.EventPatch
}

// NewMockTransport creates an authenticated transport mock with no events.
func NewMockTransport() *MockTransport {
	return &MockTransport{authenticated: true}
}

// SetAuthenticated sets the authentication state.
func (m *MockTransport) SetAuthenticated(auth bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authenticated = auth
}

// AddEvent adds an event to the mock's store.
func (m *MockTransport) AddEvent(event calendar.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

// FailWith configures errors for subsequent calls; pass nil to clear.
func (m *MockTransport) FailWith(list, insert, update, del error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listErr, m.insertErr, m.updateErr, m.deleteErr = list, insert, update, del
}

// IsAuthenticated returns the configured authentication state.
func (m *MockTransport) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authenticated
}

// ListUpcoming returns the stored events, capped at maxResults.
func (m *MockTransport) ListUpcoming(maxResults int64, _, _ time.Time) ([]calendar.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}

	events := append([]calendar.Event{}, m.events...)
	if int64(len(events)) > maxResults {
		events = events[:maxResults]
	}
	return events, nil
}

// Insert records the input and returns it as a stored event.
func (m *MockTransport) Insert(input calendar.EventInput) (*calendar.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return nil, m.insertErr
	}

	m.Inserted = append(m.Inserted, input)
	end := input.EndTime
	event := calendar.Event{
		ID:          fmt.Sprintf("mock-event-%d", len(m.Inserted)),
		Summary:     input.Summary,
		Description: input.Description,
		Location:    input.Location,
		StartTime:   input.StartTime,
		EndTime:     &end,
		Attendees:   input.Attendees,
		Recurrence:  input.Recurrence,
	}
	m.events = append(m.events, event)
	return &event, nil
}

// Update records the patch and applies set fields to the stored event.
func (m *MockTransport) Update(eventID string, patch calendar.EventPatch) (*calendar.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return nil, m.updateErr
	}

	m.Updated = append(m.Updated, UpdateCall{EventID: eventID, Patch: patch})
	for i := range m.events {
		if m.events[i].ID != eventID {
			continue
		}
		if patch.Summary != nil {
			m.events[i].Summary = *patch.Summary
		}
		if patch.Description != nil {
			m.events[i].Description = *patch.Description
		}
		if patch.Location != nil {
			m.events[i].Location = *patch.Location
		}
		if patch.StartTime != nil {
			m.events[i].StartTime = *patch.StartTime
		}
		if patch.EndTime != nil {
			end := *patch.EndTime
			m.events[i].EndTime = &end
		}
		if patch.Attendees != nil {
			m.events[i].Attendees = *patch.Attendees
		}
		if patch.Recurrence != nil {
			m.events[i].Recurrence = *patch.Recurrence
		}
		eventCopy := m.events[i]
		return &eventCopy, nil
	}
	return nil, &calendar.RemoteError{Op: "update", Err: calendar.ErrEventNotFound}
}

// Delete records the id and removes the stored event.
func (m *MockTransport) Delete(eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}

	m.Deleted = append(m.Deleted, eventID)
	for i := range m.events {
		if m.events[i].ID == eventID {
			m.events = append(m.events[:i], m.events[i+1:]...)
			return nil
		}
	}
	return &calendar.RemoteError{Op: "delete", Err: calendar.ErrEventNotFound}
}
