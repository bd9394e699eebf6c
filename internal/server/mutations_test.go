package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhvu-dev/calassist/internal/calendar"
	"github.com/minhvu-dev/calassist/internal/pipeline"
)

func TestMutationFromResult(t *testing.T) {
	start := time.Date(2025, 6, 11, 15, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	t.Run("created event", func(t *testing.T) {
		result := &pipeline.Result{
			Action: pipeline.ActionCreate,
			Data:   &calendar.Event{ID: "evt-1", Summary: "Lunch", StartTime: start, EndTime: &end, Location: "Cafe"},
		}

		mutation := mutationFromResult(result)
		require.NotNil(t, mutation)
		assert.Equal(t, "create", mutation.Action)
		assert.Equal(t, "Lunch", mutation.EventSummary)
		assert.Equal(t, "Cafe", mutation.Location)
	})

	t.Run("update carries reasoning", func(t *testing.T) {
		result := &pipeline.Result{
			Action: pipeline.ActionUpdate,
			Data: &pipeline.UpdateResult{
				Event:     &calendar.Event{ID: "evt-1", Summary: "Lunch", StartTime: start},
				Reasoning: "moved by an hour",
			},
		}

		mutation := mutationFromResult(result)
		require.NotNil(t, mutation)
		assert.Equal(t, "update", mutation.Action)
		assert.Equal(t, "moved by an hour", mutation.Reasoning)
	})

	t.Run("delete confirmation", func(t *testing.T) {
		result := &pipeline.Result{
			Action: pipeline.ActionDelete,
			Data:   &pipeline.DeleteConfirmation{EventID: "evt-1", EventSummary: "Lunch"},
		}

		mutation := mutationFromResult(result)
		require.NotNil(t, mutation)
		assert.Equal(t, "delete", mutation.Action)
		assert.Equal(t, "evt-1", mutation.EventID)
	})

	t.Run("unrecognized data yields nil", func(t *testing.T) {
		assert.Nil(t, mutationFromResult(&pipeline.Result{Action: pipeline.ActionCreate}))
	})
}

func TestActionRecordFromResult(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		result := &pipeline.Result{
			Action: pipeline.ActionCreate,
			Data:   &calendar.Event{ID: "evt-1", Summary: "Lunch"},
		}

		record := actionRecordFromResult("req-1", result)
		assert.Equal(t, "req-1", record.RequestID)
		assert.Equal(t, "create", record.Action)
		assert.Equal(t, "success", record.Status)
		assert.Equal(t, "evt-1", record.EventID)
		assert.Empty(t, record.ErrorCategory)
	})

	t.Run("missing action is stored as none", func(t *testing.T) {
		result := &pipeline.Result{
			Error: &pipeline.ErrorInfo{Category: "not_authenticated", Detail: "google calendar not authenticated"},
		}

		record := actionRecordFromResult("req-3", result)
		assert.Equal(t, "none", record.Action)
		assert.Equal(t, "error", record.Status)
		assert.Equal(t, "not_authenticated", record.ErrorCategory)
	})

	t.Run("failure", func(t *testing.T) {
		result := &pipeline.Result{
			Action: pipeline.ActionDelete,
			Error:  &pipeline.ErrorInfo{Category: "no_match", Detail: "nothing resolved"},
		}

		record := actionRecordFromResult("req-2", result)
		assert.Equal(t, "error", record.Status)
		assert.Equal(t, "no_match", record.ErrorCategory)
		assert.Equal(t, "nothing resolved", record.Detail)
	})
}
