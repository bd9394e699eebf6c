package pipeline

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/minhvu-dev/calassist/internal/calendar"
)

func TestFormatEvents(t *testing.T) {
	start := time.Date(2025, 6, 11, 9, 0, 0, 0, time.FixedZone("ICT", 7*3600))
	end := start.Add(time.Hour)

	tests := []struct {
		name     string
		events   []calendar.Event
		expected string
	}{
		{
			name:     "empty list",
			events:   nil,
			expected: "No existing events.",
		},
		{
			name: "event with end and location",
			events: []calendar.Event{
				{ID: "evt-1", Summary: "Standup", StartTime: start, EndTime: &end, Location: "Room 2"},
			},
			expected: "- [ID: evt-1] Standup @ 2025-06-11 09:00 - 2025-06-11 10:00 (Location: Room 2)",
		},
		{
			name: "event without end time",
			events: []calendar.Event{
				{ID: "evt-2", Summary: "Reminder", StartTime: start},
			},
			expected: "- [ID: evt-2] Reminder @ 2025-06-11 09:00",
		},
		{
			name: "multiple events on separate lines",
			events: []calendar.Event{
				{ID: "evt-1", Summary: "Standup", StartTime: start, EndTime: &end},
				{ID: "evt-2", Summary: "Lunch", StartTime: start.Add(3 * time.Hour)},
			},
			expected: "- [ID: evt-1] Standup @ 2025-06-11 09:00 - 2025-06-11 10:00\n- [ID: evt-2] Lunch @ 2025-06-11 12:00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatEvents(tt.events))
		})
	}
}

func TestFoldHistory(t *testing.T) {
	t.Run("no history returns text unchanged", func(t *testing.T) {
		assert.Equal(t, "book lunch", foldHistory("book lunch", nil))
	})

	t.Run("history precedes the new utterance", func(t *testing.T) {
		folded := foldHistory("then book it", []Turn{
			{Role: "user", Content: "am I free at noon?"},
			{Role: "assistant", Content: "Yes, you are free."},
		})
		assert.Equal(t, "Conversation so far:\nuser: am I free at noon?\nassistant: Yes, you are free.\n\nUser: then book it", folded)
	})

	t.Run("missing role defaults to user", func(t *testing.T) {
		folded := foldHistory("ok", []Turn{{Content: "hello"}})
		assert.Contains(t, folded, "user: hello")
	})

	t.Run("history is capped to the most recent turns", func(t *testing.T) {
		var history []Turn
		for i := 0; i < 25; i++ {
			history = append(history, Turn{Role: "user", Content: fmt.Sprintf("turn %d", i)})
		}

		folded := foldHistory("latest", history)
		assert.NotContains(t, folded, "turn 14")
		assert.Contains(t, folded, "turn 15")
		assert.Contains(t, folded, "turn 24")
		assert.Equal(t, maxHistoryTurns, strings.Count(folded, "user: turn"))
	})
}
