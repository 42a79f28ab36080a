package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScenario drops scenario YAML into a temp dir and returns its path.
func writeScenario(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validScenario = `name: pipeline
steps:
  - id: fetch
    kind: count
    ticks: 2
  - id: report
    kind: print
    message: done
    after: [fetch]
`

func TestValidateCommand(t *testing.T) {
	path := writeScenario(t, "pipeline.yaml", validScenario)

	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"validate", path})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "pipeline: ok (2 steps, 1 edges)")
}

func TestValidateCommandJSON(t *testing.T) {
	path := writeScenario(t, "pipeline.yaml", validScenario)

	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"validate", path, "--format", "json"})

	require.NoError(t, cmd.Execute())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "pipeline", data["scenario"])
	assert.Equal(t, float64(2), data["steps"])
	assert.Equal(t, float64(1), data["edges"])
}

func TestValidateCommandRejectsCycle(t *testing.T) {
	path := writeScenario(t, "cycle.yaml", `name: cycle
steps:
  - id: a
    kind: count
    ticks: 1
    after: [b]
  - id: b
    kind: count
    ticks: 1
    after: [a]
`)

	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"validate", path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out.String(), "cycle")
}

func TestValidateCommandMissingFile(t *testing.T) {
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"validate", filepath.Join(t.TempDir(), "absent.yaml")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}
