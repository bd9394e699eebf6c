package server

import (
	"github.com/minhvu-dev/calassist/internal/calendar"
	"github.com/minhvu-dev/calassist/internal/database"
	"github.com/minhvu-dev/calassist/internal/notify"
	"github.com/minhvu-dev/calassist/internal/pipeline"
)

// mutationFromResult maps a successful pipeline result onto the notification
// payload. Returns nil when the result carries no recognizable event data.
func mutationFromResult(result *pipeline.Result) *notify.Mutation {
	switch data := result.Data.(type) {
	case *calendar.Event:
		return &notify.Mutation{
			Action:       string(result.Action),
			EventID:      data.ID,
			EventSummary: data.Summary,
			StartTime:    data.StartTime,
			EndTime:      data.EndTime,
			Location:     data.Location,
			Description:  data.Description,
		}
	case *pipeline.UpdateResult:
		if data.Event == nil {
			return nil
		}
		return &notify.Mutation{
			Action:       string(result.Action),
			EventID:      data.Event.ID,
			EventSummary: data.Event.Summary,
			StartTime:    data.Event.StartTime,
			EndTime:      data.Event.EndTime,
			Location:     data.Event.Location,
			Description:  data.Event.Description,
			Reasoning:    data.Reasoning,
		}
	case *pipeline.DeleteConfirmation:
		return &notify.Mutation{
			Action:       string(result.Action),
			EventID:      data.EventID,
			EventSummary: data.EventSummary,
		}
	default:
		return nil
	}
}

// actionRecordFromResult maps a pipeline result onto the audit log row.
// Runs that fail before classification carry no action; those are stored
// as "none" so every run leaves a row.
func actionRecordFromResult(requestID string, result *pipeline.Result) database.ActionRecord {
	action := string(result.Action)
	if action == "" {
		action = "none"
	}

	record := database.ActionRecord{
		RequestID: requestID,
		Action:    action,
		Status:    "success",
	}

	if result.Failed() {
		record.Status = "error"
		record.ErrorCategory = result.Error.Category
		record.Detail = result.Error.Detail
	}

	switch data := result.Data.(type) {
	case *calendar.Event:
		record.EventID = data.ID
		record.EventSummary = data.Summary
	case *pipeline.UpdateResult:
		if data.Event != nil {
			record.EventID = data.Event.ID
			record.EventSummary = data.Event.Summary
		}
	case *pipeline.DeleteConfirmation:
		record.EventID = data.EventID
		record.EventSummary = data.EventSummary
	}

	return record
}
