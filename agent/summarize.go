package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/researchmesh/core"
	"github.com/hupe1980/researchmesh/model"
	"github.com/hupe1980/researchmesh/progress"
)

// summarize synthesizes the final report from all accumulated result blocks.
// It is the only step whose provider failure surfaces as a run error; the
// runner converts that into an error report terminal event.
func (a *ResearchAgent) summarize(ctx context.Context, state *core.State, ch *progress.Channel) error {
	ch.Publish(core.NewProgressEvent(core.StageSummarize, "Synthesizing final report..."))

	if err := a.pacer.Wait(ctx); err != nil {
		return err
	}

	start := time.Now()
	resp, err := a.summarizer.Generate(ctx, model.Request{
		Instructions: summarizeInstructions,
		Prompt:       summarizePrompt(state),
	})
	a.logger.Debug("Summarizer call finished",
		"model", a.summarizer.Info().Name, "duration", time.Since(start), "error", err)

	if err != nil {
		ch.Publish(core.NewErrorEvent(fmt.Sprintf("Report synthesis failed: %v", err)))
		return fmt.Errorf("summarize: %w", err)
	}

	state.Report = resp.Text

	ch.Publish(core.NewProgressEventWithExtra(core.StageSummarize,
		"Report generated successfully.",
		map[string]any{
			"word_count": len(strings.Fields(resp.Text)),
			"char_count": len(resp.Text),
		},
	))
	return nil
}
