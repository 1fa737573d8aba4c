package agent

import (
	"fmt"

	"github.com/hupe1980/researchmesh/core"
)

func (a *ResearchAgent) planPrompt(state *core.State) string {
	prompt := fmt.Sprintf(
		"Decompose this query into specific search queries (max %d):\n\nQuery: %s",
		a.config.MaxSubQueries, state.Query,
	)
	if state.EvalReasoning != "" {
		prompt += fmt.Sprintf(
			"\n\nA previous round of searches was judged insufficient for this reason:\n%s\n\nPlan queries that close the identified gaps.",
			state.EvalReasoning,
		)
	}
	return prompt
}

func evaluatePrompt(state *core.State) string {
	return fmt.Sprintf(
		"Original Query: %s\n\nGathered Information:\n%s\n\nDoes the gathered information sufficiently answer the query in detail? Reason step by step.",
		state.Query, state.JoinedResults(),
	)
}

const summarizeInstructions = "You are a research analyst writing a final report. " +
	"Synthesize the gathered information, resolve contradictions between sources, " +
	"state your confidence in the conclusions, and cite sources inline. " +
	"Format the report nicely in Markdown."

func summarizePrompt(state *core.State) string {
	return fmt.Sprintf(
		"Original Query: %s\n\nGathered Information:\n%s\n\nWrite a comprehensive final report to answer the query using the above information.",
		state.Query, state.JoinedResults(),
	)
}
