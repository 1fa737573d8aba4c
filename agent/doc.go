// Package agent implements the cyclic research state machine:
//
//	Plan -> Search -> Evaluate -> {Plan | Summarize} -> Done
//
// The planner decomposes the user query into sub-queries, the searcher runs
// them concurrently against a web-search provider, and the evaluator decides
// whether the accumulated results suffice. At most Config.MaxLoops full
// cycles run before the loop is forced into summarization, so a reasoning
// provider that never signals sufficiency cannot stall a run.
//
// Failure policy: planning and evaluation recover locally (degraded plan,
// fail-open verdict), per-sub-query search failures become synthetic result
// blocks, and only summarization failures surface as run errors. Every
// recovered failure is described by a progress event.
package agent
