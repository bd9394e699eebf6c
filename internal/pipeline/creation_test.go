package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhvu-dev/calassist/internal/calendar"
	"github.com/minhvu-dev/calassist/internal/llm"
	"github.com/minhvu-dev/calassist/internal/testutil"
)

func TestExtractCreationRelativeDate(t *testing.T) {
	// "tạo meeting với team vào 3pm mai" on 2025-06-10: the model resolves
	// "3pm mai" to the next day at 15:00 with a one-hour default duration.
	gw := testutil.NewMockGateway()
	gw.EnqueueResponse("```json\n" + `{
		"summary": "Meeting với team",
		"start_datetime": "2025-06-11T15:00:00+07:00",
		"end_datetime": "2025-06-11T16:00:00+07:00",
		"description": "",
		"location": "",
		"attendees": [],
		"recurrence": []
	}` + "\n```")

	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.FixedZone("ICT", 7*3600))
	payload, err := newTestPipeline(gw, nil).ExtractCreation(context.Background(), "tạo meeting với team vào 3pm mai", now, nil)
	require.NoError(t, err)

	assert.Equal(t, "Meeting với team", payload.Summary)
	assert.Equal(t, "2025-06-11T15:00:00+07:00", payload.StartTime.Format(time.RFC3339))
	assert.Equal(t, time.Hour, payload.EndTime.Sub(payload.StartTime))
}

func TestExtractCreationFullPayload(t *testing.T) {
	gw := testutil.NewMockGateway()
	gw.EnqueueResponse(`{
		"summary": "Sprint Review",
		"start_datetime": "2025-06-13T10:00:00+07:00",
		"end_datetime": "2025-06-13T11:30:00+07:00",
		"description": "Review sprint 42",
		"location": "Phòng họp 3",
		"attendees": ["an@example.com", "binh@example.com"],
		"recurrence": ["RRULE:FREQ=WEEKLY;COUNT=4"]
	}`)

	payload, err := newTestPipeline(gw, nil).ExtractCreation(context.Background(), "weekly sprint review", time.Now(), nil)
	require.NoError(t, err)

	assert.Equal(t, "Sprint Review", payload.Summary)
	assert.Equal(t, "Phòng họp 3", payload.Location)
	assert.Equal(t, []string{"an@example.com", "binh@example.com"}, payload.Attendees)
	assert.Equal(t, []string{"RRULE:FREQ=WEEKLY;COUNT=4"}, payload.Recurrence)

	input := payload.Input()
	assert.Equal(t, payload.Summary, input.Summary)
	assert.Equal(t, payload.StartTime, input.StartTime)
}

func TestExtractCreationValidation(t *testing.T) {
	tests := []struct {
		name     string
		response string
		reason   string
	}{
		{
			name:     "model reports an error",
			response: `{"error": "no date or time mentioned"}`,
			reason:   "no date or time mentioned",
		},
		{
			name:     "missing summary",
			response: `{"summary": "", "start_datetime": "2025-06-11T15:00:00+07:00", "end_datetime": "2025-06-11T16:00:00+07:00"}`,
			reason:   "summary",
		},
		{
			name:     "missing end datetime is never silently defaulted",
			response: `{"summary": "Meeting", "start_datetime": "2025-06-11T15:00:00+07:00"}`,
			reason:   "end_datetime",
		},
		{
			name:     "start equals end",
			response: `{"summary": "Meeting", "start_datetime": "2025-06-11T15:00:00+07:00", "end_datetime": "2025-06-11T15:00:00+07:00"}`,
			reason:   "before",
		},
		{
			name:     "start after end",
			response: `{"summary": "Meeting", "start_datetime": "2025-06-11T17:00:00+07:00", "end_datetime": "2025-06-11T16:00:00+07:00"}`,
			reason:   "before",
		},
		{
			name:     "datetime without offset layout",
			response: `{"summary": "Meeting", "start_datetime": "2025-06-11 15:00", "end_datetime": "2025-06-11 16:00"}`,
			reason:   "start_datetime",
		},
		{
			name:     "invalid attendee email",
			response: `{"summary": "Meeting", "start_datetime": "2025-06-11T15:00:00+07:00", "end_datetime": "2025-06-11T16:00:00+07:00", "attendees": ["definitely not an email"]}`,
			reason:   "attendee",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := testutil.NewMockGateway()
			gw.EnqueueResponse(tt.response)

			_, err := newTestPipeline(gw, nil).ExtractCreation(context.Background(), "request", time.Now(), nil)
			require.Error(t, err)

			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Contains(t, valErr.Reason, tt.reason)
		})
	}
}

func TestExtractCreationErrors(t *testing.T) {
	t.Run("provider failure propagates", func(t *testing.T) {
		gw := testutil.NewMockGateway()
		gw.EnqueueError(&llm.ProviderError{StatusCode: 500, Message: "boom"})

		_, err := newTestPipeline(gw, nil).ExtractCreation(context.Background(), "request", time.Now(), nil)
		require.Error(t, err)

		var provErr *llm.ProviderError
		assert.ErrorAs(t, err, &provErr)
	})

	t.Run("unparseable output", func(t *testing.T) {
		gw := testutil.NewMockGateway()
		gw.EnqueueResponse("sure, I'll create that meeting for you!")

		_, err := newTestPipeline(gw, nil).ExtractCreation(context.Background(), "request", time.Now(), nil)
		require.Error(t, err)

		var malformed *MalformedOutputError
		assert.ErrorAs(t, err, &malformed)
	})
}

func TestExtractCreationPromptContext(t *testing.T) {
	gw := testutil.NewMockGateway()
	gw.EnqueueResponse(`{"summary": "Lunch", "start_datetime": "2025-06-11T12:00:00+07:00", "end_datetime": "2025-06-11T13:00:00+07:00"}`)

	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.FixedZone("ICT", 7*3600))
	start := time.Date(2025, 6, 11, 12, 30, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	existing := []calendar.Event{{ID: "evt-1", Summary: "Team Lunch", StartTime: start, EndTime: &end}}

	_, err := newTestPipeline(gw, nil).ExtractCreation(context.Background(), "lunch tomorrow", now, existing)
	require.NoError(t, err)

	calls := gw.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Instructions, "2025-06-10 09:00 (Tuesday) +07:00")
	assert.Contains(t, calls[0].Instructions, "- [ID: evt-1] Team Lunch @ 2025-06-11 12:30")
}
