// Package sequencer implements a dependency-graph execution engine.
//
// Callers build a directed acyclic graph of items and the engine tracks
// which items are ready to start, which are in progress, and which are
// finished. A node becomes ready when every one of its parents has
// completed; parentless nodes are ready the moment they are inserted.
//
// EXECUTION MODEL:
//
// Caller-Driven Loop:
// The engine performs no execution of its own. The caller repeatedly:
//  1. calls DrainReady to activate every queued node, visiting each one
//  2. calls ScanActive to visit every active node; a visitor returning
//     true completes that node and may make children ready
//  3. stops when HasPending reports false
//
// Explicit completions outside the loop go through Complete.
//
// Readiness is evaluated incrementally: completing a node examines only
// that node's direct children, so a full run costs O(E) over the whole
// graph, never a rescan. A child with several parents is enqueued exactly
// once, when its last outstanding parent completes. Readiness is also
// evaluated eagerly at construction time, so chaining off parents that
// have already completed enqueues the new node immediately.
//
// CONCURRENCY:
//
// The engine is single-threaded and synchronous. All mutation happens
// inside caller-invoked operations; between calls the graph is quiescent.
// It is not safe for concurrent use without external synchronization, and
// visitors must not call back into the engine (drain and scan iterate
// over snapshots, so structural callbacks would observe stale state).
//
// The engine never deletes nodes: handles stay valid, and completed nodes
// persist in the arena, for the lifetime of the engine instance.
package sequencer
