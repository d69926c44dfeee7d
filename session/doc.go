// Package session owns the client-side authentication session: the in-memory
// state, its persistence across restarts, and local token-expiry checks.
//
// The [Store] is the single source of truth. The navigation guard, the HTTP
// layer, and the background expiry monitor all read it, and every mutation
// (login, logout, rehydration) funnels through its methods. The bearer token
// is persisted separately from the user blob and is never held in memory;
// both entries must be present for a restart to restore a logged-in session.
//
// # Degradation contract
//
// No Store operation propagates corruption. A user blob that fails to parse,
// or a token that fails to decode, degrades the session to logged-out and
// emits a diagnostic event. Only backend unavailability (an unreachable
// store) surfaces as an error.
//
// # What this package must NOT do
//
//   - Perform HTTP calls or navigation. It decides nothing about routes.
//   - Verify token signatures; it only reads the claimed expiry.
package session
