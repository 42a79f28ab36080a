package trace

// EventType distinguishes the two observable node transitions.
type EventType string

const (
	// EventActivated records a node leaving the ready queue.
	EventActivated EventType = "activated"
	// EventCompleted records a node finishing.
	EventCompleted EventType = "completed"
)

// Event is one observable transition during a run.
type Event struct {
	// Seq is the logical sequence number, strictly increasing within a
	// run. All ordering uses Seq, never timestamps.
	Seq int64 `json:"seq"`

	// Tick is the drain/scan iteration the event occurred in (1-based).
	Tick int `json:"tick"`

	// Type is the transition kind.
	Type EventType `json:"type"`

	// Step is the scenario step ID the event belongs to.
	Step string `json:"step"`
}

// Snapshot is the complete trace of one run.
type Snapshot struct {
	// Scenario is the scenario name.
	Scenario string `json:"scenario"`

	// Token identifies the run.
	Token string `json:"token"`

	// Events is the ordered event log.
	Events []Event `json:"events"`
}

// MarshalCanonical renders the snapshot as deterministic JSON for golden
// comparison and hashing.
func (s *Snapshot) MarshalCanonical() ([]byte, error) {
	events := make([]any, len(s.Events))
	for i, e := range s.Events {
		events[i] = map[string]any{
			"seq":  e.Seq,
			"tick": e.Tick,
			"type": string(e.Type),
			"step": e.Step,
		}
	}
	return MarshalCanonicalValue(map[string]any{
		"scenario": s.Scenario,
		"token":    s.Token,
		"events":   events,
	})
}
