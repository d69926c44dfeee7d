// Package mallclient is the client-side session and API layer for the
// FreshMall storefront. It wraps the storefront's HTTP endpoints and owns the
// authenticated session's full lifecycle: establishing it at login,
// persisting it across restarts, attaching the bearer token to outgoing
// requests, checking expiry in the background, and tearing everything down on
// logout or server-declared auth failure.
//
// mallclient is the public surface. It exposes [Client], [Builder], [Config],
// and the classified [APIError]. Session state lives in the session
// subpackage, durable persistence in storage, navigation in router, and
// diagnostics in diag.
//
// # Architecture boundaries
//
// The session store is the single source of truth. The navigation guard and
// the response handling both read it and mutate it only through its API; the
// background monitor polls it and calls its Logout. The 401 handler delegates
// to the store rather than clearing storage behind its back, so in-memory
// state and persisted state cannot drift apart.
//
// # What this package must NOT do
//
//   - Issue or verify tokens. The bearer token is opaque; only its claimed
//     expiry is read locally, and the server stays the final arbiter.
//   - Crash on malformed persisted state. The worst case anywhere in this
//     package is a forced logout.
//   - Render anything. User-visible messages go through [diag.Notifier].
package mallclient
