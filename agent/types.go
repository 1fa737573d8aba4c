package agent

import (
	"github.com/hupe1980/researchmesh/internal/schema"
	"github.com/hupe1980/researchmesh/model"
)

// SubQueryPlan is the structured-output contract of the planning step.
type SubQueryPlan struct {
	ResearchPlan string   `json:"research_plan" description:"A short description of the overall research approach."`
	SubQueries   []string `json:"sub_queries" description:"A list of specific search queries to execute to gather information about the topic."`
}

// Evaluation is the structured-output contract of the evaluation step.
type Evaluation struct {
	IsSufficient bool   `json:"is_sufficient" description:"Whether the gathered search results contain enough detailed information to comprehensively answer the original query."`
	Reasoning    string `json:"reasoning" description:"Reasoning for why the information is or isn't sufficient."`
}

// Next selects the transition taken after an evaluation.
type Next int

const (
	// NextPlan loops back into another Plan/Search/Evaluate cycle.
	NextPlan Next = iota
	// NextSummarize proceeds to final report synthesis.
	NextSummarize
)

// Verdict is the tagged result of the evaluate step consumed by the driver
// loop: either continue researching or proceed to the summary, with the
// evaluator's reasoning attached.
type Verdict struct {
	Next      Next
	Reasoning string
}

var (
	planSchema = &model.ResponseSchema{
		Name:        "sub_query_plan",
		Description: "Decomposition of a research question into concrete web search queries.",
		Definition:  schema.FromStruct(SubQueryPlan{}),
	}

	evaluationSchema = &model.ResponseSchema{
		Name:        "evaluation_result",
		Description: "Sufficiency verdict over gathered search results.",
		Definition:  schema.FromStruct(Evaluation{}),
	}
)
