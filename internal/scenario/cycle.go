package scenario

// detectCycle checks the After graph for cycles using depth-first search
// with three node sets:
//   - permanent: fully visited, known cycle-free
//   - temporary: on the current recursion stack
//   - unvisited: everything else
//
// Steps must already be resolvable (unique IDs, known references).
func detectCycle(steps []Step) error {
	successors := make(map[string][]string, len(steps))
	for _, st := range steps {
		for _, ref := range st.After {
			successors[ref] = append(successors[ref], st.ID)
		}
	}

	permanent := make(map[string]bool, len(steps))
	temporary := make(map[string]bool)

	var visit func(id string) error
	visit = func(id string) error {
		if permanent[id] {
			return nil
		}
		if temporary[id] {
			// Hit a node already on the recursion stack: cycle.
			return &ValidationError{
				Step:    id,
				Field:   "after",
				Message: "dependency cycle detected",
			}
		}

		temporary[id] = true
		for _, next := range successors[id] {
			if err := visit(next); err != nil {
				return err
			}
		}
		delete(temporary, id)
		permanent[id] = true
		return nil
	}

	for _, st := range steps {
		if !permanent[st.ID] {
			if err := visit(st.ID); err != nil {
				return err
			}
		}
	}
	return nil
}
