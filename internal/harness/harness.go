package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cadence/internal/runner"
	"github.com/roach88/cadence/internal/scenario"
)

// Run loads and executes a scenario fixture with a deterministic run
// token ("run-" plus the scenario name) and returns the result.
func Run(t *testing.T, path string) *runner.Result {
	t.Helper()

	s, err := scenario.Load(path)
	require.NoError(t, err, "load scenario %s", path)

	r := runner.New(runner.WithTokenGenerator(
		runner.NewFixedGenerator("run-" + s.Name),
	))
	res, err := r.Run(s)
	require.NoError(t, err, "run scenario %s", s.Name)
	return res
}

// RunWithGolden executes a scenario fixture and compares its canonical
// trace against testdata/golden/{name}.golden.
func RunWithGolden(t *testing.T, path string) {
	t.Helper()

	res := Run(t, path)
	traceJSON, err := res.Snapshot().MarshalCanonical()
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, res.Scenario, traceJSON)
}
