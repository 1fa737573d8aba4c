package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hupe1980/researchmesh/core"
	"github.com/hupe1980/researchmesh/model"
	"github.com/hupe1980/researchmesh/progress"
)

// plan decomposes the query into sub-queries via a structured model call.
// Decode or provider failure is a degraded mode, not a fatal error: the raw
// original query becomes the single sub-query.
func (a *ResearchAgent) plan(ctx context.Context, state *core.State, ch *progress.Channel) error {
	ch.Publish(core.NewProgressEvent(core.StagePlan, "Decomposing query into sub-tasks..."))

	if err := a.pacer.Wait(ctx); err != nil {
		return err
	}

	start := time.Now()
	raw, err := a.planner.GenerateStructured(ctx, model.Request{Prompt: a.planPrompt(state)}, planSchema)

	var plan SubQueryPlan
	if err == nil {
		err = json.Unmarshal(raw, &plan)
	}
	if err == nil && len(plan.SubQueries) == 0 {
		err = fmt.Errorf("planner returned no sub-queries")
	}
	a.logger.Debug("Planner call finished",
		"model", a.planner.Info().Name, "duration", time.Since(start), "error", err)

	if err != nil {
		// Degraded mode: research the raw query directly.
		state.SubQueries = []string{state.Query}
		ch.Publish(core.NewProgressEvent(core.StagePlan,
			fmt.Sprintf("Planning failed, using simple approach. Error: %v", err)))
		return nil
	}

	state.SubQueries = plan.SubQueries

	ch.Publish(core.NewProgressEventWithExtra(core.StagePlan,
		fmt.Sprintf("Generated %d sub-queries.", len(plan.SubQueries)),
		map[string]any{"research_plan": plan.ResearchPlan, "sub_queries": plan.SubQueries},
	))
	for i, q := range plan.SubQueries {
		ch.Publish(core.NewProgressEvent(core.StagePlan,
			fmt.Sprintf("Sub-query %d: %s", i+1, q)))
	}
	return nil
}
