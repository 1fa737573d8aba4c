package core

import (
	"time"

	"github.com/google/uuid"
)

// Stage identifies which part of the research loop produced a progress event.
type Stage string

const (
	// StagePlan covers query decomposition into sub-queries.
	StagePlan Stage = "plan"
	// StageSearch covers concurrent web searches for the planned sub-queries.
	StageSearch Stage = "search"
	// StageEvaluate covers the sufficiency verdict over gathered results.
	StageEvaluate Stage = "evaluate"
	// StageSummarize covers final report synthesis.
	StageSummarize Stage = "summarize"
	// StageSystem marks lifecycle events such as run completion.
	StageSystem Stage = "system"
	// StageError marks recovered or terminal failures.
	StageError Stage = "error"
)

// String returns the wire representation of the stage.
func (s Stage) String() string { return string(s) }

// ProgressEvent is the unit of communication between a running research agent
// and an observer. After emission it should be treated as immutable. Consumers
// must observe events in emission order; the progress.Channel preserves FIFO
// delivery between one producer and one consumer.
type ProgressEvent struct {
	ID        string         `json:"id"`
	Stage     Stage          `json:"stage"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// NewProgressEvent creates a progress event for the given stage.
func NewProgressEvent(stage Stage, message string) ProgressEvent {
	return ProgressEvent{
		ID:        NewID(),
		Stage:     stage,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// NewProgressEventWithExtra creates a progress event carrying a structured payload.
func NewProgressEventWithExtra(stage Stage, message string, extra map[string]any) ProgressEvent {
	e := NewProgressEvent(stage, message)
	e.Extra = extra
	return e
}

// NewErrorEvent creates a StageError event describing a recovered failure.
func NewErrorEvent(message string) ProgressEvent {
	return NewProgressEvent(StageError, message)
}

// NewCompletionEvent creates the terminal StageSystem event for a run. Exactly
// one completion event is emitted per run, carrying the final report and, if
// the report was persisted, the record id. The message starts with
// "Task Completed" so stream consumers can detect run termination.
func NewCompletionEvent(message, report string, extra map[string]any) ProgressEvent {
	e := NewProgressEvent(StageSystem, message)
	e.Extra = map[string]any{"report": report}
	for k, v := range extra {
		e.Extra[k] = v
	}
	return e
}

// IsTerminal reports whether the event ends a run's progress stream.
func (e ProgressEvent) IsTerminal() bool {
	return e.Stage == StageSystem && len(e.Message) >= len(taskCompletedPrefix) &&
		e.Message[:len(taskCompletedPrefix)] == taskCompletedPrefix
}

const taskCompletedPrefix = "Task Completed"

// NewID generates a new unique identifier for events and records.
func NewID() string { return uuid.NewString() }
