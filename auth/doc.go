// Package auth provides caller identity verification for the research
// service.
//
//   - StaticVerifier: fixed token-to-identity map for tests and local use
//   - Client: HTTP client for a GoTrue-style auth service (token
//     verification plus email/password signup and signin)
//
// The core loop never sees tokens; verification happens at the transport
// boundary and only the resolved owner identity flows inward.
package auth
