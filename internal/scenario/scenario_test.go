package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDoc = `
name: build-pipeline
description: compile then link while docs build in parallel
max_ticks: 50
steps:
  - id: compile
    kind: count
    ticks: 3
  - id: docs
    kind: count
    ticks: 1
  - id: link
    kind: count
    ticks: 2
    after: [compile]
  - id: announce
    kind: print
    message: done
    after: [link, docs]
`

func TestParseValid(t *testing.T) {
	s, err := Parse([]byte(validDoc))
	require.NoError(t, err)

	assert.Equal(t, "build-pipeline", s.Name)
	assert.Equal(t, 50, s.MaxTicks)
	require.Len(t, s.Steps, 4)
	assert.Equal(t, KindCount, s.Steps[0].Kind)
	assert.Equal(t, []string{"link", "docs"}, s.Steps[3].After)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validDoc), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "build-pipeline", s.Name)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestParseSchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "unknown step kind",
			doc: `
name: bad
steps:
  - id: a
    kind: teleport
`,
		},
		{
			name: "empty name",
			doc: `
name: ""
steps:
  - id: a
    kind: print
`,
		},
		{
			name: "negative ticks",
			doc: `
name: bad
steps:
  - id: a
    kind: count
    ticks: -1
`,
		},
		{
			name: "unknown field",
			doc: `
name: bad
retries: 3
steps:
  - id: a
    kind: print
`,
		},
		{
			name: "zero max_ticks",
			doc: `
name: bad
max_ticks: 0
steps:
  - id: a
    kind: print
`,
		},
		{
			name: "not yaml",
			doc:  "{{{",
		},
		{
			name: "empty document",
			doc:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
		})
	}
}

func TestValidateReferences(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "no steps",
			doc:  "name: empty\nsteps: []\n",
			want: "no steps",
		},
		{
			name: "duplicate id",
			doc: `
name: bad
steps:
  - id: a
    kind: print
  - id: a
    kind: print
`,
			want: "duplicate step id",
		},
		{
			name: "unknown after reference",
			doc: `
name: bad
steps:
  - id: a
    kind: print
    after: [ghost]
`,
			want: `unknown step id "ghost"`,
		},
		{
			name: "self reference",
			doc: `
name: bad
steps:
  - id: a
    kind: print
    after: [a]
`,
			want: "after itself",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	doc := `
name: bad
steps:
  - id: a
    kind: print
    after: [ghost]
  - id: b
    kind: print
    after: [b]
`
	_, err := Parse([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
	assert.Contains(t, err.Error(), "after itself")
}

func TestDetectCycle(t *testing.T) {
	doc := `
name: cyclic
steps:
  - id: a
    kind: print
    after: [c]
  - id: b
    kind: print
    after: [a]
  - id: c
    kind: print
    after: [b]
`
	_, err := Parse([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestDetectCycleAcceptsDiamond(t *testing.T) {
	// A diamond shares a node on two paths but has no cycle.
	steps := []Step{
		{ID: "top", Kind: KindPrint},
		{ID: "left", Kind: KindPrint, After: []string{"top"}},
		{ID: "right", Kind: KindPrint, After: []string{"top"}},
		{ID: "bottom", Kind: KindPrint, After: []string{"left", "right"}},
	}
	assert.NoError(t, detectCycle(steps))
}

func TestValidationErrorMessage(t *testing.T) {
	e := &ValidationError{Step: "link", Field: "after", Message: "boom"}
	assert.Equal(t, `step "link": after: boom`, e.Error())

	doc := &ValidationError{Field: "steps", Message: "scenario has no steps"}
	assert.Equal(t, "steps: scenario has no steps", doc.Error())
}
