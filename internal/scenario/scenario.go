package scenario

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Kind selects a step's behavior in the runner.
type Kind string

const (
	// KindCount completes after a fixed number of scans.
	KindCount Kind = "count"
	// KindPrint emits its message on activation and completes on the
	// first scan.
	KindPrint Kind = "print"
)

// Step is one node of the scenario graph.
type Step struct {
	// ID uniquely identifies the step within the scenario.
	ID string `yaml:"id"`

	// Kind selects the step behavior.
	Kind Kind `yaml:"kind"`

	// Ticks is the number of scans a count step takes to finish.
	Ticks int `yaml:"ticks,omitempty"`

	// Message is emitted when a print step activates.
	Message string `yaml:"message,omitempty"`

	// After lists the IDs of steps that must complete before this one
	// becomes ready. Empty means the step is a root.
	After []string `yaml:"after,omitempty"`
}

// Scenario is a declarative description of a step graph.
type Scenario struct {
	// Name uniquely identifies the scenario; also used for golden files.
	Name string `yaml:"name"`

	// Description explains what the scenario demonstrates.
	Description string `yaml:"description,omitempty"`

	// MaxTicks caps the runner's tick loop. Zero means the runner
	// default applies.
	MaxTicks int `yaml:"max_ticks,omitempty"`

	// Steps is the step graph. After references must resolve within
	// this list and must not form a cycle.
	Steps []Step `yaml:"steps"`
}

// ValidationError describes one problem found in a scenario.
type ValidationError struct {
	Step    string // offending step ID, empty for document-level issues
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Step != "" {
		return fmt.Sprintf("step %q: %s: %s", e.Step, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Load reads, decodes, and validates a scenario file.
func Load(path string) (*Scenario, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load scenario: %w", err)
	}
	return Parse(doc)
}

// Parse decodes and validates a scenario document.
func Parse(doc []byte) (*Scenario, error) {
	// Schema first: shape errors read better than decode surprises.
	if err := validateSchema(doc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}

	var s Scenario
	if err := yaml.Unmarshal(doc, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	return &s, nil
}

// Validate enforces the referential rules the schema cannot express:
// non-empty step list, unique IDs, resolvable After references, and an
// acyclic graph. All problems are reported, joined into one error.
func (s *Scenario) Validate() error {
	var errs []error

	if len(s.Steps) == 0 {
		errs = append(errs, &ValidationError{
			Field:   "steps",
			Message: "scenario has no steps",
		})
		return errors.Join(errs...)
	}

	byID := make(map[string]bool, len(s.Steps))
	for _, st := range s.Steps {
		if byID[st.ID] {
			errs = append(errs, &ValidationError{
				Step:    st.ID,
				Field:   "id",
				Message: "duplicate step id",
			})
			continue
		}
		byID[st.ID] = true
	}

	for _, st := range s.Steps {
		for _, ref := range st.After {
			if ref == st.ID {
				errs = append(errs, &ValidationError{
					Step:    st.ID,
					Field:   "after",
					Message: "step cannot run after itself",
				})
				continue
			}
			if !byID[ref] {
				errs = append(errs, &ValidationError{
					Step:    st.ID,
					Field:   "after",
					Message: fmt.Sprintf("unknown step id %q", ref),
				})
			}
		}
	}

	// Only meaningful on a resolvable graph.
	if len(errs) == 0 {
		if err := detectCycle(s.Steps); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
