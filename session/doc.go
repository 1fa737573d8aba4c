// Package session provides core.SessionStore implementations for persisting
// completed research sessions.
//
//   - InMemoryStore: volatile map-backed store for tests and demo servers
//   - sqlite subpackage: durable single-file store for production use
//
// All store operations are owner-scoped: a record belonging to a different
// owner is indistinguishable from an absent record.
package session
