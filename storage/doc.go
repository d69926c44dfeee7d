// Package storage provides the durable key/value storage behind the session
// subsystem. The session layer persists exactly two entries, the user blob
// and the bearer token, and treats a missing entry as "logged out", so every
// backend must report absence through [ErrNotFound] rather than inventing an
// empty value.
//
// Three backends ship with the module:
//
//   - [Memory]: process-local, for tests and ephemeral embeddings.
//   - [File]: one file per key under a state directory, for client devices
//     that must survive restarts.
//   - [Redis]: go-redis backed with a key prefix, for deployments that share
//     session state across processes (kiosks, server-side rendering).
//
// # What this package must NOT do
//
//   - Interpret values. Keys and values are opaque strings here; the session
//     package owns their meaning.
//   - Import session, router, or mallclient (no upward imports).
package storage
