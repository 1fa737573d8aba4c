// Package search contains web-search capability adapters implementing
// core.Searcher. Each provider normalizes its wire format into
// core.SearchResult values; failures are reported as errors and converted by
// the agent into synthetic result blocks at the per-sub-query boundary.
package search
