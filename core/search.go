package core

import "context"

// SearchResult is a single normalized hit returned by a search provider.
type SearchResult struct {
	Title   string  `json:"title,omitempty"`
	URL     string  `json:"url,omitempty"`
	Content string  `json:"content"`
	Score   float64 `json:"score,omitempty"`
}

// Searcher is the web-search capability consumed by the research agent. A
// provider failure is reported via the error return; the agent converts such
// failures into synthetic result blocks so one failing sub-query never aborts
// a search batch.
type Searcher interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
}
