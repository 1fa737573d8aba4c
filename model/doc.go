// Package model defines the provider-agnostic abstractions for the reasoning
// capability used by the research agent.
//
// Core goals:
//   - Two call shapes behind one interface: free-text generation and
//     structured generation against a caller-supplied JSON schema
//   - Single-shot semantics: no internal retry; fallback policy lives in the
//     calling state-machine step, not the adapter
//   - Typed DecodeError when a structured response does not conform to the
//     requested schema
//   - Lightweight mocking for tests (MockModel)
//
// Providers (e.g. OpenAI, Anthropic) implement the Model interface so the
// agent loop remains decoupled from vendor SDKs.
package model
