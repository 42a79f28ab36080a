package sequencer

import "fmt"

// Handle is a stable, opaque reference to a node in a Sequencer's arena.
//
// A Handle stays valid for the lifetime of the engine instance that issued
// it. The zero value refers to no node and fails every lookup. Handles
// reference nodes by slot rather than by pointer, so the graph carries no
// ownership cycles.
type Handle struct {
	idx uint32
	gen uint32
}

// IsValid reports whether h could have been issued by a Sequencer.
// It does not prove the handle belongs to any particular instance.
func (h Handle) IsValid() bool {
	return h.gen != 0
}

// String renders the handle for logs and error messages.
func (h Handle) String() string {
	if !h.IsValid() {
		return "node(invalid)"
	}
	return fmt.Sprintf("node(%d.%d)", h.idx, h.gen)
}

// Status is the lifecycle state of a node.
//
// Status is monotonic per node: Inactive, then Active, then Completed.
// It never regresses, and Completed is terminal.
type Status int

const (
	// StatusInactive means the node has been created but not yet drained.
	StatusInactive Status = iota
	// StatusActive means the node has been drained and is being processed
	// by the caller.
	StatusActive
	// StatusCompleted means the node has finished. Terminal.
	StatusCompleted
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusInactive:
		return "inactive"
	case StatusActive:
		return "active"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// node is a single graph vertex. It is un-exported to enforce interaction
// through the Sequencer API using handles, not direct struct manipulation.
type node[I any] struct {
	// parents holds the handles of this node's predecessors, in
	// registration order. Empty iff the node is a root.
	parents []Handle
	// children holds the handles of this node's successors, in
	// registration order.
	children []Handle
	// status is the node's current lifecycle state.
	status Status
	// queued marks nodes sitting in the ready queue, so a node is never
	// enqueued twice.
	queued bool
	// item is the caller-supplied payload.
	item I
}

// slot is one arena entry. The generation tag mirrors the handle's so a
// zero-value or foreign handle can be rejected on lookup.
type slot[I any] struct {
	gen  uint32
	node node[I]
}
