package core

import "strings"

// State is the mutable data threaded through one research run. A State is
// exclusively owned by one in-flight run and is never shared across runs, so
// it carries no internal locking.
//
// Contract:
//   - Query is immutable after construction.
//   - SubQueries is replaced (not appended) on every planning pass.
//   - Results is append-only; later evaluations always see the union of all
//     prior searches.
//   - LoopCount is incremented exactly once per evaluation pass.
//   - Report is set exactly once, by the summarize step.
type State struct {
	Query         string
	SubQueries    []string
	Results       []string
	LoopCount     int
	IsSufficient  bool
	EvalReasoning string
	Report        string
}

// NewState creates the state for a fresh research run.
func NewState(query string) *State {
	return &State{Query: query}
}

// AppendResults appends formatted result blocks in order. Existing blocks are
// never removed or reordered.
func (s *State) AppendResults(blocks ...string) {
	s.Results = append(s.Results, blocks...)
}

// JoinedResults returns all accumulated result blocks separated by blank
// lines, the form consumed by the evaluate and summarize prompts.
func (s *State) JoinedResults() string {
	return strings.Join(s.Results, "\n\n")
}
