package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTerminal(t *testing.T) {
	tests := []struct {
		name string
		ev   ProgressEvent
		want bool
	}{
		{"completion", NewCompletionEvent("Task Completed", "report", nil), true},
		{"error completion", NewCompletionEvent("Task Completed (Error)", "An error occurred: x", nil), true},
		{"plain system", NewProgressEvent(StageSystem, "warming up"), false},
		{"progress", NewProgressEvent(StageSearch, "Task Completed"), false},
		{"error event", NewErrorEvent("Task Completed"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ev.IsTerminal())
		})
	}
}

func TestNewCompletionEvent_MergesExtra(t *testing.T) {
	ev := NewCompletionEvent("Task Completed", "the report", map[string]any{"session_id": "abc"})
	assert.Equal(t, "the report", ev.Extra["report"])
	assert.Equal(t, "abc", ev.Extra["session_id"])
}

func TestProgressEvent_JSONRoundTrip(t *testing.T) {
	ev := NewCompletionEvent("Task Completed", "r", map[string]any{"session_id": "abc"})

	raw, err := json.Marshal(ev)
	require.NoError(t, err)

	var decoded ProgressEvent
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.True(t, decoded.IsTerminal())
	assert.Equal(t, ev.ID, decoded.ID)
}

func TestNewProgressEvent_PopulatesIdentity(t *testing.T) {
	a := NewProgressEvent(StagePlan, "m")
	b := NewProgressEvent(StagePlan, "m")
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.Timestamp.IsZero())
}
