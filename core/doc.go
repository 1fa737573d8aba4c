// Package core provides the foundational domain types and interfaces used by
// ResearchMesh. It defines the core abstractions for:
//
//   - Research runs (State: the mutable data threaded through the agent loop)
//   - Progress events (ordered status stream from a running agent)
//   - Search capabilities (Searcher + normalized SearchResult)
//   - Session records and pluggable persistence (SessionStore)
//   - Caller identity verification (Verifier)
//
// The package intentionally keeps implementation concerns (providers,
// persistence backends, the agent loop itself) out of scope, exposing small
// interfaces to enable custom backends and test doubles.
package core
