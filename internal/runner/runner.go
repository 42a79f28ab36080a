package runner

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/cadence/internal/scenario"
	"github.com/roach88/cadence/internal/sequencer"
	"github.com/roach88/cadence/internal/trace"
)

// DefaultMaxTicks caps the tick loop when neither the scenario nor the
// caller sets a limit. It bounds how long a stalled step can spin the
// loop before the run is declared stuck.
const DefaultMaxTicks = 1000

// task is the runtime state of one scenario step. The step definition
// stays immutable; only the countdown lives here.
type task struct {
	step      *scenario.Step
	remaining int
}

// activate runs the step's activation behavior.
func (t *task) activate(w io.Writer) {
	if t.step.Kind == scenario.KindPrint {
		fmt.Fprintln(w, t.step.Message)
	}
}

// tick advances the step by one scan and reports whether it finished.
func (t *task) tick() bool {
	if t.step.Kind == scenario.KindCount {
		t.remaining--
		return t.remaining <= 0
	}
	return true
}

// QuotaError reports a run that exceeded its tick quota. The steps still
// active at that point are the ones that never reported completion.
type QuotaError struct {
	Token    string
	Scenario string
	Limit    int
	Stuck    []string
}

// Error implements the error interface.
func (e *QuotaError) Error() string {
	return fmt.Sprintf("run %s of %q exceeded max ticks (%d); stuck steps: %v",
		e.Token, e.Scenario, e.Limit, e.Stuck)
}

// IsQuotaError reports whether err is a tick-quota failure.
// Handles wrapped errors.
func IsQuotaError(err error) bool {
	var qe *QuotaError
	return errors.As(err, &qe)
}

// Result is the outcome of one run.
type Result struct {
	// Token identifies the run.
	Token string
	// Scenario is the scenario name.
	Scenario string
	// Ticks is the number of drain/scan iterations executed.
	Ticks int
	// Events is the ordered trace of the run.
	Events []trace.Event
}

// Snapshot packages the result for canonical marshaling and storage.
func (r *Result) Snapshot() *trace.Snapshot {
	return &trace.Snapshot{
		Scenario: r.Scenario,
		Token:    r.Token,
		Events:   r.Events,
	}
}

// Runner executes scenarios. Construct with New; a zero Runner is not
// usable.
type Runner struct {
	tokens   TokenGenerator
	maxTicks int
	output   io.Writer
	logger   *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithTokenGenerator overrides the run token generator. Tests use
// NewFixedGenerator for deterministic traces.
func WithTokenGenerator(g TokenGenerator) Option {
	return func(r *Runner) { r.tokens = g }
}

// WithMaxTicks overrides the tick quota for every run, taking precedence
// over the scenario's max_ticks.
func WithMaxTicks(n int) Option {
	return func(r *Runner) { r.maxTicks = n }
}

// WithOutput sets the writer print steps emit to. Defaults to io.Discard.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) { r.output = w }
}

// WithLogger sets the runner's logger. Defaults to a discarding logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// New creates a Runner with production defaults: UUIDv7 tokens, the
// default tick quota, discarded print output.
func New(opts ...Option) *Runner {
	r := &Runner{
		tokens: UUIDv7Generator{},
		output: io.Discard,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes a validated scenario to completion and returns its trace.
//
// On a tick-quota breach the partial result is returned together with a
// QuotaError naming the stuck steps.
func (r *Runner) Run(s *scenario.Scenario) (*Result, error) {
	seq, err := build(s)
	if err != nil {
		return nil, fmt.Errorf("run %q: %w", s.Name, err)
	}

	limit := r.maxTicks
	if limit <= 0 {
		limit = s.MaxTicks
	}
	if limit <= 0 {
		limit = DefaultMaxTicks
	}

	res := &Result{
		Token:    r.tokens.Generate(),
		Scenario: s.Name,
		Events:   []trace.Event{},
	}
	clock := NewClock()
	logger := r.logger.With("run", res.Token, "scenario", s.Name)
	logger.Debug("run starting", "steps", len(s.Steps), "max_ticks", limit)

	for seq.HasPending() {
		if res.Ticks >= limit {
			qe := &QuotaError{
				Token:    res.Token,
				Scenario: s.Name,
				Limit:    limit,
				Stuck:    activeSteps(seq),
			}
			logger.Warn("run exceeded tick quota", "limit", limit, "stuck", qe.Stuck)
			return res, qe
		}
		res.Ticks++

		seq.DrainReady(func(h sequencer.Handle, t *task) {
			t.activate(r.output)
			res.Events = append(res.Events, trace.Event{
				Seq:  clock.Next(),
				Tick: res.Ticks,
				Type: trace.EventActivated,
				Step: t.step.ID,
			})
			logger.Debug("step activated", "step", t.step.ID, "tick", res.Ticks)
		})

		seq.ScanActive(func(h sequencer.Handle, t *task) bool {
			if !t.tick() {
				return false
			}
			res.Events = append(res.Events, trace.Event{
				Seq:  clock.Next(),
				Tick: res.Ticks,
				Type: trace.EventCompleted,
				Step: t.step.ID,
			})
			logger.Debug("step completed", "step", t.step.ID, "tick", res.Ticks)
			return true
		})
	}

	logger.Debug("run finished", "ticks", res.Ticks, "events", len(res.Events))
	return res, nil
}

// build translates a scenario into a sequencer graph. Steps are inserted
// in dependency order so every After reference resolves to an existing
// handle; rootless steps enter through Insert, the rest through
// InsertChildChain against their parents.
func build(s *scenario.Scenario) (*sequencer.Sequencer[task], error) {
	seq := sequencer.New[task]()
	handles := make(map[string]sequencer.Handle, len(s.Steps))

	pending := make([]*scenario.Step, len(s.Steps))
	for i := range s.Steps {
		pending[i] = &s.Steps[i]
	}

	for len(pending) > 0 {
		progressed := false
		next := pending[:0]
		for _, st := range pending {
			if !placeable(st, handles) {
				next = append(next, st)
				continue
			}
			t := task{step: st, remaining: st.Ticks}
			if len(st.After) == 0 {
				handles[st.ID] = seq.Insert(t)
			} else {
				parents := make([]sequencer.Handle, len(st.After))
				for i, ref := range st.After {
					parents[i] = handles[ref]
				}
				h, err := seq.InsertChildChain(parents, t)
				if err != nil {
					return nil, fmt.Errorf("insert step %q: %w", st.ID, err)
				}
				handles[st.ID] = h
			}
			progressed = true
		}
		if !progressed {
			// Unreachable for a validated scenario; a cycle would have
			// been rejected at load time.
			return nil, fmt.Errorf("unresolvable step order among %d steps", len(next))
		}
		pending = next
	}
	return seq, nil
}

// placeable reports whether every parent of st has been inserted.
func placeable(st *scenario.Step, handles map[string]sequencer.Handle) bool {
	for _, ref := range st.After {
		if _, ok := handles[ref]; !ok {
			return false
		}
	}
	return true
}

// activeSteps lists the IDs of the steps still active, for diagnostics.
func activeSteps(seq *sequencer.Sequencer[task]) []string {
	var ids []string
	seq.ScanActive(func(_ sequencer.Handle, t *task) bool {
		ids = append(ids, t.step.ID)
		return false
	})
	return ids
}
