package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gcal "google.golang.org/api/calendar/v3"
)

func strPtr(s string) *string { return &s }

func TestBuildPatchBodyOnlySuppliedFields(t *testing.T) {
	body := buildPatchBody(EventPatch{Summary: strPtr("X")})

	assert.Equal(t, "X", body.Summary)
	assert.Equal(t, []string{"Summary"}, body.ForceSendFields)

	// Absent fields must stay unset, not null-overwritten.
	assert.Nil(t, body.Start)
	assert.Nil(t, body.End)
	assert.Nil(t, body.Attendees)
	assert.Nil(t, body.Recurrence)
	assert.Empty(t, body.Description)
	assert.Empty(t, body.Location)
}

func TestBuildPatchBodyTimes(t *testing.T) {
	start := time.Date(2025, 6, 11, 15, 0, 0, 0, time.FixedZone("ICT", 7*3600))
	end := start.Add(time.Hour)

	body := buildPatchBody(EventPatch{StartTime: &start, EndTime: &end})

	require.NotNil(t, body.Start)
	require.NotNil(t, body.End)
	assert.Equal(t, "2025-06-11T15:00:00+07:00", body.Start.DateTime)
	assert.Equal(t, "2025-06-11T16:00:00+07:00", body.End.DateTime)
	assert.Empty(t, body.ForceSendFields)
}

func TestBuildPatchBodyAttendeesAndRecurrence(t *testing.T) {
	attendees := []string{"an@example.com", "binh@example.com"}
	rules := []string{"RRULE:FREQ=WEEKLY;COUNT=4"}

	body := buildPatchBody(EventPatch{Attendees: &attendees, Recurrence: &rules})

	require.Len(t, body.Attendees, 2)
	assert.Equal(t, "an@example.com", body.Attendees[0].Email)
	assert.Equal(t, rules, body.Recurrence)
	assert.ElementsMatch(t, []string{"Attendees", "Recurrence"}, body.ForceSendFields)
}

func TestEventPatchIsEmpty(t *testing.T) {
	assert.True(t, EventPatch{}.IsEmpty())
	assert.False(t, EventPatch{Summary: strPtr("")}.IsEmpty())
}

func TestParseGoogleEventTimes(t *testing.T) {
	loc := time.UTC

	t.Run("timed event", func(t *testing.T) {
		item := &gcal.Event{
			Start: &gcal.EventDateTime{DateTime: "2025-06-11T15:00:00+07:00"},
			End:   &gcal.EventDateTime{DateTime: "2025-06-11T16:00:00+07:00"},
		}
		start, end, allDay, err := parseGoogleEventTimes(item, loc)
		require.NoError(t, err)
		assert.False(t, allDay)
		assert.True(t, end.After(start))
	})

	t.Run("all-day event", func(t *testing.T) {
		item := &gcal.Event{
			Start: &gcal.EventDateTime{Date: "2025-06-11"},
			End:   &gcal.EventDateTime{Date: "2025-06-12"},
		}
		start, end, allDay, err := parseGoogleEventTimes(item, loc)
		require.NoError(t, err)
		assert.True(t, allDay)
		assert.Equal(t, 24*time.Hour, end.Sub(start))
	})

	t.Run("missing times", func(t *testing.T) {
		_, _, _, err := parseGoogleEventTimes(&gcal.Event{Start: &gcal.EventDateTime{}, End: &gcal.EventDateTime{}}, loc)
		require.Error(t, err)
	})
}
