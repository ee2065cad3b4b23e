// Package deemo provides the client-side session core for the deemo
// volunteer-management service: login, signup, bearer-token persistence,
// profile retrieval, logout, and error surfacing behind a single
// observable session state.
//
// The package is designed for UI front ends: Engine methods are safe to call
// from multiple goroutines after initialization through [Builder.Build], and
// every state change is published synchronously to subscribed observers.
//
// # Architecture boundaries
//
// deemo is the public surface. It exposes [Engine], [Builder], [Config], and
// value types (Profile, Snapshot, ErrorDetail, etc.). The HTTP boundary lives
// in the api sub-package and the token slot in the credential sub-package;
// neither touches session state directly.
//
// # What this package must NOT do
//
//   - Reach into the credential slot from anywhere but Engine operations.
//   - Mutate session state outside the engine's single serialization point.
//   - Throw failures across the UI boundary: every failure is absorbed into
//     the observable LastError field.
//
// # Ordering contract
//
// State-mutating continuations execute atomically with respect to each other
// in the order their network responses arrive. A response issued before a
// Logout or a newer Login carries a stale generation and is discarded, so a
// late arrival can never resurrect a logged-out session.
package deemo
