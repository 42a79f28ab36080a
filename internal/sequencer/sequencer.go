package sequencer

import "fmt"

// Sequencer is a dependency-graph execution engine, generic over a single
// caller-supplied item type. The zero value is not usable; construct with
// New.
//
// A Sequencer must be owned by one logical thread of control. It holds no
// process-wide state, spawns nothing, and blocks on nothing.
type Sequencer[I any] struct {
	// slots is the node arena. Nodes are appended and never removed, so
	// handle indexes are stable for the engine's lifetime.
	slots []slot[I]
	// roots lists every parentless node, in insertion order.
	roots []Handle
	// queue holds nodes eligible for activation, in insertion order.
	queue []Handle
	// active holds nodes currently being processed by the caller, in
	// activation order. The contract leaves scan order unspecified, but
	// keeping it ordered makes runs reproducible.
	active []Handle
}

// New creates an empty Sequencer for items of type I.
func New[I any]() *Sequencer[I] {
	return &Sequencer[I]{}
}

// lookup resolves a handle to its arena index, rejecting zero-value and
// foreign handles.
func (s *Sequencer[I]) lookup(h Handle) (int, error) {
	i := int(h.idx)
	if !h.IsValid() || i >= len(s.slots) || s.slots[i].gen != h.gen {
		return 0, fmt.Errorf("%w: %s", ErrUnknownHandle, h)
	}
	return i, nil
}

// create appends a fresh Inactive node to the arena and returns its handle.
func (s *Sequencer[I]) create(item I) Handle {
	h := Handle{idx: uint32(len(s.slots)), gen: 1}
	s.slots = append(s.slots, slot[I]{gen: 1, node: node[I]{item: item}})
	return h
}

// createWithParents creates a node and registers it as a child of every
// parent. Parents must already be validated.
func (s *Sequencer[I]) createWithParents(parents []Handle, item I) Handle {
	h := s.create(item)
	for _, p := range parents {
		s.slots[p.idx].node.children = append(s.slots[p.idx].node.children, h)
	}
	s.slots[h.idx].node.parents = parents
	return h
}

// Insert creates a parentless node, adds it to the root list, and enqueues
// it immediately. Insert always succeeds.
func (s *Sequencer[I]) Insert(item I) Handle {
	h := s.create(item)
	s.roots = append(s.roots, h)
	s.enqueue(h)
	return h
}

// InsertChain creates nodes linked linearly: each node's only parent is
// the one before it. The first node is a root and is enqueued immediately.
// Returns the handle of the last node.
//
// An empty item sequence is invalid input: ErrNoItems, no nodes created.
func (s *Sequencer[I]) InsertChain(items ...I) (Handle, error) {
	if len(items) == 0 {
		return Handle{}, fmt.Errorf("insert chain: %w", ErrNoItems)
	}
	prev := s.Insert(items[0])
	for _, item := range items[1:] {
		prev = s.createWithParents([]Handle{prev}, item)
	}
	return prev, nil
}

// InsertChildChain creates a linear chain whose first node's parent set is
// exactly parents (duplicates removed, order preserved); the remaining
// items chain off it. Returns the handle of the last node.
//
// Readiness of the first node is evaluated eagerly against each parent's
// current status: if every parent has already completed, the node is
// enqueued immediately rather than waiting for a completion event that
// will never come.
//
// Empty parents or items are invalid input (ErrNoParents, ErrNoItems); an
// unknown parent reports ErrUnknownHandle. In every failure case no nodes
// are created and no edges are touched.
func (s *Sequencer[I]) InsertChildChain(parents []Handle, items ...I) (Handle, error) {
	if len(parents) == 0 {
		return Handle{}, fmt.Errorf("insert child chain: %w", ErrNoParents)
	}
	if len(items) == 0 {
		return Handle{}, fmt.Errorf("insert child chain: %w", ErrNoItems)
	}

	// Validate and deduplicate before mutating anything.
	seen := make(map[Handle]bool, len(parents))
	deduped := make([]Handle, 0, len(parents))
	for _, p := range parents {
		if _, err := s.lookup(p); err != nil {
			return Handle{}, fmt.Errorf("insert child chain: %w", err)
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		deduped = append(deduped, p)
	}

	first := s.createWithParents(deduped, items[0])
	s.enqueueIfReady(first)

	prev := first
	for _, item := range items[1:] {
		prev = s.createWithParents([]Handle{prev}, item)
	}
	return prev, nil
}

// Inject splices a chain between parent and its current children: the
// parent's children are detached, the chain is inserted as a child chain
// of parent, and the detached children are re-attached under the chain's
// last node, with their parent references rewritten to it. Downstream
// edges therefore survive without the caller rewriting them. Returns the
// handle of the chain's last node.
//
// An unknown parent reports ErrUnknownHandle; an empty item sequence
// reports ErrNoItems. In both cases the graph is unchanged.
func (s *Sequencer[I]) Inject(parent Handle, items ...I) (Handle, error) {
	pi, err := s.lookup(parent)
	if err != nil {
		return Handle{}, fmt.Errorf("inject: %w", err)
	}
	if len(items) == 0 {
		return Handle{}, fmt.Errorf("inject: %w", ErrNoItems)
	}

	detached := s.slots[pi].node.children
	s.slots[pi].node.children = nil

	last, err := s.InsertChildChain([]Handle{parent}, items...)
	if err != nil {
		// Inputs were validated above; restore and surface just in case.
		s.slots[pi].node.children = detached
		return Handle{}, fmt.Errorf("inject: %w", err)
	}

	ln := &s.slots[last.idx].node
	ln.children = append(ln.children, detached...)
	for _, c := range detached {
		cn := &s.slots[c.idx].node
		if cn.status != StatusInactive || cn.queued {
			// Already past readiness; the stale edge no longer matters.
			continue
		}
		for i, p := range cn.parents {
			if p == parent {
				cn.parents[i] = last
			}
		}
	}
	return last, nil
}

// DrainReady applies visit once to every node currently in the ready
// queue, in insertion order, transitioning each to Active, then empties
// the queue. The item pointer is valid only for the duration of the call.
//
// The visitor may mutate the item but must not call back into the engine.
func (s *Sequencer[I]) DrainReady(visit func(Handle, *I)) {
	queued := s.queue
	s.queue = nil
	for _, h := range queued {
		n := &s.slots[h.idx].node
		n.queued = false
		n.status = StatusActive
		s.active = append(s.active, h)
		visit(h, &n.item)
	}
}

// ScanActive invokes visit once for every node currently Active. The
// iteration order across distinct active nodes is unspecified and must
// not be relied upon. If visit returns true the node transitions to
// Completed and its children are evaluated for readiness.
//
// The visitor may mutate the item but must not call back into the engine.
func (s *Sequencer[I]) ScanActive(visit func(Handle, *I) bool) {
	snapshot := make([]Handle, len(s.active))
	copy(snapshot, s.active)
	for _, h := range snapshot {
		n := &s.slots[h.idx].node
		if visit(h, &n.item) {
			s.finish(h)
		}
	}
}

// Complete is an explicit completion signal for use outside ScanActive:
// the node transitions to Completed and its children are evaluated for
// readiness. Completing an already-Completed handle is a no-op, never a
// re-trigger. An unknown handle reports ErrUnknownHandle and leaves the
// engine untouched.
func (s *Sequencer[I]) Complete(h Handle) error {
	i, err := s.lookup(h)
	if err != nil {
		return fmt.Errorf("complete: %w", err)
	}
	if s.slots[i].node.status == StatusCompleted {
		return nil
	}
	s.finish(h)
	return nil
}

// HasPending reports whether any node is queued or active. A run loop
// ends when HasPending returns false.
func (s *Sequencer[I]) HasPending() bool {
	return len(s.queue) > 0 || len(s.active) > 0
}

// finish transitions a node to Completed, removes it from the active set
// or ready queue, and enqueues any children whose parents have now all
// completed. Work is proportional to the node's out-degree.
func (s *Sequencer[I]) finish(h Handle) {
	n := &s.slots[h.idx].node
	switch n.status {
	case StatusActive:
		for i, a := range s.active {
			if a == h {
				s.active = append(s.active[:i], s.active[i+1:]...)
				break
			}
		}
	case StatusInactive:
		// Completed without ever being drained. Pull it out of the queue
		// so it cannot re-activate after completing.
		if n.queued {
			n.queued = false
			for i, q := range s.queue {
				if q == h {
					s.queue = append(s.queue[:i], s.queue[i+1:]...)
					break
				}
			}
		}
	}
	n.status = StatusCompleted

	for _, c := range n.children {
		s.enqueueIfReady(c)
	}
}

// enqueueIfReady enqueues a child iff it is still Inactive, not already
// queued, and every parent has completed.
func (s *Sequencer[I]) enqueueIfReady(h Handle) {
	n := &s.slots[h.idx].node
	if n.status != StatusInactive || n.queued {
		return
	}
	for _, p := range n.parents {
		if s.slots[p.idx].node.status != StatusCompleted {
			return
		}
	}
	s.enqueue(h)
}

// enqueue appends a node to the ready queue and marks it queued.
func (s *Sequencer[I]) enqueue(h Handle) {
	s.slots[h.idx].node.queued = true
	s.queue = append(s.queue, h)
}

// Status returns the node's current lifecycle state.
func (s *Sequencer[I]) Status(h Handle) (Status, error) {
	i, err := s.lookup(h)
	if err != nil {
		return StatusInactive, err
	}
	return s.slots[i].node.status, nil
}

// Item returns a copy of the node's payload.
func (s *Sequencer[I]) Item(h Handle) (I, error) {
	i, err := s.lookup(h)
	if err != nil {
		var zero I
		return zero, err
	}
	return s.slots[i].node.item, nil
}

// Parents returns the node's parent handles in registration order.
// The result is a copy.
func (s *Sequencer[I]) Parents(h Handle) ([]Handle, error) {
	i, err := s.lookup(h)
	if err != nil {
		return nil, err
	}
	out := make([]Handle, len(s.slots[i].node.parents))
	copy(out, s.slots[i].node.parents)
	return out, nil
}

// Children returns the node's child handles in registration order.
// The result is a copy.
func (s *Sequencer[I]) Children(h Handle) ([]Handle, error) {
	i, err := s.lookup(h)
	if err != nil {
		return nil, err
	}
	out := make([]Handle, len(s.slots[i].node.children))
	copy(out, s.slots[i].node.children)
	return out, nil
}

// Roots returns every parentless node in insertion order. The result is
// a copy.
func (s *Sequencer[I]) Roots() []Handle {
	out := make([]Handle, len(s.roots))
	copy(out, s.roots)
	return out
}

// Len returns the number of nodes ever created in this engine instance.
// Completed nodes are never removed, so Len never decreases.
func (s *Sequencer[I]) Len() int {
	return len(s.slots)
}
