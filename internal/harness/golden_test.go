package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// The golden traces are the source of truth for the two scripted scenarios.
// Regenerate with: go test ./internal/harness -update
func TestGolden_ScenarioA(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenario-a.yaml"))
	require.NoError(t, err)
	require.NoError(t, RunWithGolden(t, s))
}

func TestGolden_ScenarioB(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenario-b.yaml"))
	require.NoError(t, err)
	require.NoError(t, RunWithGolden(t, s))
}
