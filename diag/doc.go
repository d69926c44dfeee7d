// Package diag provides the diagnostic surface shared by the mallclient
// subsystems: user-facing notifications and structured diagnostic events.
//
// Notifications ([Notifier]) carry short human-readable messages that a host
// application is expected to render (a toast, a status line, a log). Events
// ([Event], [Sink]) carry machine-readable detail about degraded states:
// corrupt persisted session data, token decode failures, forced logouts.
//
// # Architecture boundaries
//
// This package is a leaf. It owns message transport only and never inspects
// session state, storage, or HTTP responses; those decisions belong to the
// packages that emit.
//
// # What this package must NOT do
//
//   - Import mallclient or any of its subpackages (no upward imports).
//   - Block an emitter: [Dispatcher] buffers and, when configured, drops.
package diag
