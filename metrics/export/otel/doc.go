// Package otel bridges the mallclient counter registry into OpenTelemetry.
// Counters are exposed as observable instruments; a registered callback
// snapshots the registry on each collection, so the hot path stays on plain
// atomics and pays nothing for the export.
package otel
