package runner

import (
	"context"
	"fmt"

	"github.com/hupe1980/researchmesh/agent"
	"github.com/hupe1980/researchmesh/core"
	"github.com/hupe1980/researchmesh/logging"
	"github.com/hupe1980/researchmesh/progress"
	"github.com/hupe1980/researchmesh/session"
)

// Options holds dependency overrides passed to New.
type Options struct {
	// SessionStore persists completed runs. Defaults to in-memory.
	SessionStore core.SessionStore
	// Logger defaults to NoOpLogger.
	Logger logging.Logger
	// EventBufferSize sets the consumer channel buffering.
	EventBufferSize int
}

// Runner executes research runs to completion. Public methods are safe for
// concurrent use; each run owns its own state and progress channel.
type Runner struct {
	agent           *agent.ResearchAgent
	sessionStore    core.SessionStore
	logger          logging.Logger
	eventBufferSize int
}

// New constructs a Runner around a research agent.
func New(a *agent.ResearchAgent, optFns ...func(o *Options)) *Runner {
	opts := Options{
		SessionStore:    session.NewInMemoryStore(),
		Logger:          logging.NoOpLogger{},
		EventBufferSize: 100,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Runner{
		agent:           a,
		sessionStore:    opts.SessionStore,
		logger:          opts.Logger,
		eventBufferSize: opts.EventBufferSize,
	}
}

// Run starts a research run for the query on behalf of ownerID and returns
// the ordered progress stream. The last event before the channel closes is
// always a terminal completion event carrying the final report (or an error
// report) and, when persisted, the record id.
func (r *Runner) Run(ctx context.Context, query, ownerID string) <-chan core.ProgressEvent {
	out := make(chan core.ProgressEvent, r.eventBufferSize)
	ch := progress.NewChannel()
	state := core.NewState(query)
	runID := core.NewID()

	// Agent task: producer side of the progress channel.
	agentDone := make(chan error, 1)
	go func() {
		defer ch.Close()
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Error("Agent panicked", "run_id", runID, "panic", rec)
				agentDone <- fmt.Errorf("agent panicked: %v", rec)
			}
		}()
		agentDone <- r.agent.Run(ctx, state, ch)
	}()

	// Relay task: consumer side, forwards events in arrival order, then
	// persists and emits the terminal event.
	go func() {
		defer close(out)
		for ev := range ch.Events() {
			out <- ev
		}

		err := <-agentDone
		if err != nil {
			r.logger.Error("Run failed", "run_id", runID, "error", err)
			out <- core.NewCompletionEvent("Task Completed (Error)",
				fmt.Sprintf("An error occurred: %v", err), nil)
			return
		}

		extra := map[string]any{}
		if rec, saveErr := r.sessionStore.Save(ctx, state.Query, state.Report, ownerID); saveErr != nil {
			// A persistence failure never alters the computed report.
			r.logger.Error("Failed to persist report", "run_id", runID, "error", saveErr)
			extra["persistence_error"] = saveErr.Error()
		} else {
			extra["session_id"] = rec.ID
		}

		r.logger.Info("Run completed", "run_id", runID,
			"loop_count", state.LoopCount, "result_blocks", len(state.Results))
		out <- core.NewCompletionEvent("Task Completed", state.Report, extra)
	}()

	return out
}

// RunSync executes a run to completion, returning the collected events and
// the final report extracted from the terminal event.
func (r *Runner) RunSync(ctx context.Context, query, ownerID string) ([]core.ProgressEvent, string, error) {
	var events []core.ProgressEvent
	var report string
	for ev := range r.Run(ctx, query, ownerID) {
		events = append(events, ev)
		if ev.IsTerminal() {
			if rep, ok := ev.Extra["report"].(string); ok {
				report = rep
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return events, report, err
	}
	return events, report, nil
}
