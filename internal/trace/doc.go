// Package trace models the execution trace of a runner run and persists
// it.
//
// Events are stamped with a monotonic logical sequence number, never
// wall-clock time, so two runs of the same scenario produce identical
// traces. MarshalCanonical renders a snapshot as deterministic JSON
// (sorted keys, NFC-normalized strings, no HTML escaping) for golden
// file comparison.
//
// Store is a SQLite-backed run log. It records run metadata and events,
// not the graph itself: the engine's graph is never persisted.
package trace
