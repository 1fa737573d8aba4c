package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/researchmesh/core"
	"github.com/hupe1980/researchmesh/progress"
)

// search fires one provider call per sub-query concurrently and appends one
// result block per sub-query, in sub-query order. A failing call never aborts
// the batch; its error text becomes a synthetic result block so block count
// growth stays deterministic.
func (a *ResearchAgent) search(ctx context.Context, state *core.State, ch *progress.Channel) error {
	ch.Publish(core.NewProgressEvent(core.StageSearch,
		fmt.Sprintf("Executing %d parallel searches...", len(state.SubQueries))))

	blocks := make([]string, len(state.SubQueries))
	var wg sync.WaitGroup

	for i, q := range state.SubQueries {
		wg.Add(1)
		go func(idx int, query string) {
			defer wg.Done()
			blocks[idx] = a.searchOne(ctx, idx, query, ch)
		}(i, q)
	}
	wg.Wait()

	// Append in sub-query order regardless of goroutine completion order.
	state.AppendResults(blocks...)

	ch.Publish(core.NewProgressEventWithExtra(core.StageSearch,
		"Parallel searches completed.",
		map[string]any{"total_blocks": len(state.Results)},
	))
	return nil
}

// searchOne runs a single sub-query search and formats its result block. The
// index-proportional stagger keeps the fan-out from bursting the provider.
func (a *ResearchAgent) searchOne(ctx context.Context, idx int, query string, ch *progress.Channel) string {
	if d := a.config.SearchStagger; d > 0 && idx > 0 {
		select {
		case <-ctx.Done():
			return formatResultBlock(query, ctx.Err().Error())
		case <-time.After(time.Duration(idx) * d):
		}
	}

	start := time.Now()
	results, err := a.searcher.Search(ctx, query)
	a.logger.Debug("Search call finished",
		"query", query, "result_count", len(results), "duration", time.Since(start), "error", err)

	if err != nil {
		ch.Publish(core.NewProgressEvent(core.StageSearch,
			fmt.Sprintf("Search failed for %q: %v", query, err)))
		return formatResultBlock(query, err.Error())
	}

	ch.Publish(core.NewProgressEventWithExtra(core.StageSearch,
		fmt.Sprintf("Found %d results for %q.", len(results), query),
		map[string]any{"sources": sampleSources(results, 3)},
	))

	snippets := make([]string, 0, len(results))
	for _, r := range results {
		snippets = append(snippets, r.Content)
	}
	return formatResultBlock(query, strings.Join(snippets, "\n"))
}

func formatResultBlock(query, content string) string {
	return fmt.Sprintf("Query: %s\nResults: %s\n", query, content)
}

// sampleSources returns up to n source identifiers for progress reporting.
func sampleSources(results []core.SearchResult, n int) []string {
	sources := make([]string, 0, n)
	for _, r := range results {
		if r.URL == "" {
			continue
		}
		sources = append(sources, r.URL)
		if len(sources) == n {
			break
		}
	}
	return sources
}
