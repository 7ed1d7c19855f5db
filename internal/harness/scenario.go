package harness

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines one conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario; it names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Graph is the path to the graph document, relative to the scenario
	// file location.
	Graph string `yaml:"graph"`

	// RunID fixes the runtime's run id so golden files are stable.
	// Defaults to "scenario-" + Name.
	RunID string `yaml:"run_id,omitempty"`

	// Registers seeds the register namespace before execution.
	Registers map[string]int64 `yaml:"registers,omitempty"`

	// Memory seeds memory bytes before execution.
	Memory []MemoryCell `yaml:"memory,omitempty"`

	// Expect asserts final value bindings, keyed by exec node id.
	// Only integer bindings can be asserted this way.
	Expect map[string]int64 `yaml:"expect,omitempty"`

	// WantError expects the run to fail with the given error code
	// (validation E1xx, lowering, or runtime code). Empty means the run
	// must succeed.
	WantError string `yaml:"want_error,omitempty"`

	// dir is the scenario file's directory, for resolving Graph.
	dir string
}

// MemoryCell is one seeded memory byte.
type MemoryCell struct {
	Addr  uint64 `yaml:"addr"`
	Value uint8  `yaml:"value"`
}

// LoadScenario reads a scenario definition from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load scenario: %w", err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("scenario %s: missing name", path)
	}
	if s.Graph == "" {
		return nil, fmt.Errorf("scenario %s: missing graph", path)
	}
	if s.RunID == "" {
		s.RunID = "scenario-" + s.Name
	}
	s.dir = filepath.Dir(path)
	return &s, nil
}

// graphPath resolves the scenario's graph document location.
func (s *Scenario) graphPath() string {
	if filepath.IsAbs(s.Graph) {
		return s.Graph
	}
	return filepath.Join(s.dir, s.Graph)
}
