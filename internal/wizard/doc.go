// Package wizard implements the check-in wizard controller.
//
// The controller owns the single source of truth for a flow: which step is
// active and which user and session data have accumulated. Steps are
//
//	id-entry → {profile-loaded | registration} → session-entry → confirmation
//
// with "new entry" leading from confirmation back to id-entry, and Abort
// leading back from anywhere.
//
// # State
//
// State is a value. Every transition builds a new State and swaps it in
// whole; nothing mutates a published State in place. Each swap bumps
// State.Revision.
//
// Step screens (IDEntryScreen, RegistrationScreen, SessionScreen) hold the
// local form values, field errors and option lists of their step. Accessors
// return copies.
//
// # Error routing
//
// The same policy applies on every step:
//   - field errors, from local rules or from the backend, go to the active
//     screen's error map (registration and session entry also show a
//     "please correct the highlighted fields" banner)
//   - any other failure raises a blocking Alert with a generic, localized
//     message; the backend detail is logged, never shown
//
// Local rule failures never reach the network.
//
// # Concurrency and cancellation
//
// Controller is safe for concurrent use. While a lookup or submission is
// outstanding Loading reports true and every other action except Abort
// returns ErrBusy. Network calls run under a context tied to both the
// caller's context and the active step; any transition cancels it. A result
// that arrives after its step was left is discarded and the action returns
// ErrSuperseded.
//
// # Trace
//
// Every action that reaches a decision emits a Transition to the optional
// Observer. Seq values come from a logical clock, never wall time.
package wizard
