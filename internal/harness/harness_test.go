package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	s, err := LoadScenario(filepath.Join("testdata", name+".yaml"))
	require.NoError(t, err)
	return s
}

// =============================================================================
// Golden scenarios
// =============================================================================

func TestScenarioCapLoadGolden(t *testing.T) {
	s := loadTestScenario(t, "cap_load")
	require.NoError(t, RunWithGolden(t, s))
}

func TestScenarioMmioReadGolden(t *testing.T) {
	s := loadTestScenario(t, "mmio_read")
	require.NoError(t, RunWithGolden(t, s))
}

func TestScenarioMemoryCycleGolden(t *testing.T) {
	s := loadTestScenario(t, "memory_cycle")
	require.NoError(t, RunWithGolden(t, s))
}

// =============================================================================
// Scenario mechanics
// =============================================================================

func TestRunChecksExpectations(t *testing.T) {
	s := loadTestScenario(t, "cap_load")
	s.Expect = map[string]int64{"ld": 99}

	_, err := Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ld")
	assert.Contains(t, err.Error(), "99")
}

func TestRunWantErrorMismatch(t *testing.T) {
	s := loadTestScenario(t, "cap_load")
	s.WantError = "CYCLE_DETECTED"

	_, err := Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run succeeded")
}

func TestRunSeedsRuntime(t *testing.T) {
	s := loadTestScenario(t, "mmio_read")
	s.Registers["STATUS"] = 21
	s.Expect = map[string]int64{"rd": 21}

	result, err := Run(s)
	require.NoError(t, err)
	assert.Equal(t, "scenario-mmio_read", result.RunID)
	assert.Len(t, result.Trace, 2)
}

func TestRunLowersEachGraphOnce(t *testing.T) {
	s := loadTestScenario(t, "cap_load")

	_, err := Run(s)
	require.NoError(t, err)
	cached := dagCache.Len()
	require.GreaterOrEqual(t, cached, 1)

	// A second run of the same graph document hits the shared cache.
	_, err = Run(s)
	require.NoError(t, err)
	assert.Equal(t, cached, dagCache.Len())
}

func TestLoadScenarioRejectsIncomplete(t *testing.T) {
	dir := t.TempDir()

	noName := filepath.Join(dir, "noname.yaml")
	require.NoError(t, os.WriteFile(noName, []byte("graph: g.json\n"), 0o644))
	_, err := LoadScenario(noName)
	assert.ErrorContains(t, err, "missing name")

	noGraph := filepath.Join(dir, "nograph.yaml")
	require.NoError(t, os.WriteFile(noGraph, []byte("name: x\n"), 0o644))
	_, err = LoadScenario(noGraph)
	assert.ErrorContains(t, err, "missing graph")
}

func TestLoadScenarioDefaultsRunID(t *testing.T) {
	s := loadTestScenario(t, "cap_load")
	assert.Equal(t, "scenario-cap_load", s.RunID)
}
