// Package runner drives one research run per incoming query: it constructs
// fresh run state, executes the agent state machine in a background
// goroutine, relays progress events to the caller in emission order, and
// persists the final report.
//
// Guarantees:
//   - Event Ordering: events are delivered in the order produced by the agent.
//   - Terminal Event: every run ends with exactly one StageSystem completion
//     event, even when the agent fails or panics, so consumers never wait
//     indefinitely.
//   - Channel Lifecycle: the returned events channel is closed after the
//     terminal event.
package runner
