package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogActionAndGetByRequest(t *testing.T) {
	db := NewTestDB(t)

	_, err := db.LogAction(ActionRecord{
		RequestID:    "req-1",
		Action:       "create",
		EventID:      "evt-1",
		EventSummary: "Lunch",
		Status:       "success",
	})
	require.NoError(t, err)

	_, err = db.LogAction(ActionRecord{
		RequestID:     "req-2",
		Action:        "delete",
		Status:        "error",
		ErrorCategory: "no_match",
		Detail:        "no event resolved",
	})
	require.NoError(t, err)

	actions, err := db.GetActionsByRequest("req-1")
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, "create", actions[0].Action)
	assert.Equal(t, "evt-1", actions[0].EventID)
	assert.Equal(t, "success", actions[0].Status)
	assert.Empty(t, actions[0].ErrorCategory)

	actions, err = db.GetActionsByRequest("req-2")
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, "no_match", actions[0].ErrorCategory)
	assert.Equal(t, "no event resolved", actions[0].Detail)
}

func TestGetRecentActions(t *testing.T) {
	db := NewTestDB(t)

	for _, action := range []string{"create", "update", "delete"} {
		_, err := db.LogAction(ActionRecord{RequestID: "req-1", Action: action, Status: "success"})
		require.NoError(t, err)
	}

	actions, err := db.GetRecentActions(2)
	require.NoError(t, err)
	require.Len(t, actions, 2)

	// Newest first
	assert.Equal(t, "delete", actions[0].Action)
	assert.Equal(t, "update", actions[1].Action)
}

func TestLogActionAcceptsNoneAction(t *testing.T) {
	db := NewTestDB(t)

	_, err := db.LogAction(ActionRecord{
		RequestID:     "req-1",
		Action:        "none",
		Status:        "error",
		ErrorCategory: "not_authenticated",
	})
	require.NoError(t, err)

	actions, err := db.GetActionsByRequest("req-1")
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, "none", actions[0].Action)
}

func TestLogActionRejectsUnknownStatus(t *testing.T) {
	db := NewTestDB(t)

	_, err := db.LogAction(ActionRecord{RequestID: "req-1", Action: "create", Status: "partial"})
	assert.Error(t, err)
}
