package pipeline

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/minhvu-dev/calassist/internal/calendar"
)

const (
	promptTimeLayout = "2006-01-02 15:04 (Monday) -07:00"
	// maxHistoryTurns bounds the conversation context folded into any
	// prompt, regardless of session length.
	maxHistoryTurns = 10
)

// formatEvents serializes the event list into the human-readable enumeration
// used as prompt context for resolution and creation.
func formatEvents(events []calendar.Event) string {
	if len(events) == 0 {
		return "No existing events."
	}

	var buf bytes.Buffer
	for _, event := range events {
		endStr := ""
		if event.EndTime != nil {
			endStr = fmt.Sprintf(" - %s", event.EndTime.Format("2006-01-02 15:04"))
		}
		buf.WriteString(fmt.Sprintf("- [ID: %s] %s @ %s%s",
			event.ID,
			event.Summary,
			event.StartTime.Format("2006-01-02 15:04"),
			endStr,
		))
		if event.Location != "" {
			buf.WriteString(fmt.Sprintf(" (Location: %s)", event.Location))
		}
		buf.WriteString("\n")
	}
	return strings.TrimRight(buf.String(), "\n")
}

// foldHistory joins the capped conversation history with the new utterance
// into a single request string for prompt composition.
func foldHistory(text string, history []Turn) string {
	if len(history) == 0 {
		return text
	}
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}

	var buf bytes.Buffer
	buf.WriteString("Conversation so far:\n")
	for _, turn := range history {
		role := turn.Role
		if role == "" {
			role = "user"
		}
		buf.WriteString(fmt.Sprintf("%s: %s\n", role, turn.Content))
	}
	buf.WriteString("\nUser: ")
	buf.WriteString(text)
	return buf.String()
}

func formatPromptTime(t time.Time) string {
	return t.Format(promptTimeLayout)
}
