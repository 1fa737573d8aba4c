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

// evalFallbackReasoning is recorded when the evaluator itself fails and the
// loop proceeds fail-open.
const evalFallbackReasoning = "Evaluation unavailable; proceeding with the gathered results."

// evaluate asks the evaluator model whether the accumulated results suffice.
// LoopCount is incremented exactly once per invocation, before any branching.
// An evaluator failure is treated as sufficient (fail-open) so a single
// provider error cannot deadlock the loop.
func (a *ResearchAgent) evaluate(ctx context.Context, state *core.State, ch *progress.Channel) (Verdict, error) {
	ch.Publish(core.NewProgressEvent(core.StageEvaluate,
		"Evaluating if gathered information is sufficient..."))

	if err := a.pacer.Wait(ctx); err != nil {
		return Verdict{}, err
	}

	start := time.Now()
	raw, err := a.evaluator.GenerateStructured(ctx,
		model.Request{Prompt: evaluatePrompt(state)}, evaluationSchema)

	var result Evaluation
	if err == nil {
		err = json.Unmarshal(raw, &result)
	}
	a.logger.Debug("Evaluator call finished",
		"model", a.evaluator.Info().Name, "duration", time.Since(start), "error", err)

	state.LoopCount++

	if err != nil {
		state.IsSufficient = true
		state.EvalReasoning = evalFallbackReasoning
		ch.Publish(core.NewProgressEvent(core.StageEvaluate,
			fmt.Sprintf("Evaluation failed, proceeding anyway. Error: %v", err)))
		return Verdict{Next: NextSummarize, Reasoning: evalFallbackReasoning}, nil
	}

	state.EvalReasoning = result.Reasoning

	if result.IsSufficient || state.LoopCount >= a.config.MaxLoops {
		state.IsSufficient = true
		ch.Publish(core.NewProgressEventWithExtra(core.StageEvaluate,
			"Information is sufficient. Proceeding to summary.",
			map[string]any{"reasoning": result.Reasoning, "loop_count": state.LoopCount},
		))
		return Verdict{Next: NextSummarize, Reasoning: result.Reasoning}, nil
	}

	state.IsSufficient = false
	ch.Publish(core.NewProgressEventWithExtra(core.StageEvaluate,
		"Information not sufficient. Loop restarting...",
		map[string]any{"reasoning": result.Reasoning, "loop_count": state.LoopCount},
	))
	return Verdict{Next: NextPlan, Reasoning: result.Reasoning}, nil
}
