package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/eafipg/eafipg/internal/ir"
)

// traceSnapshot converts a result into the canonical value form compared
// against golden files. Canonical marshaling fixes key order, so two runs
// with identical traces produce identical bytes.
func traceSnapshot(scenarioName string, result *Result) ir.Value {
	trace := make(ir.Array, len(result.Trace))
	for i, ev := range result.Trace {
		trace[i] = ir.Object{
			"seq":     ir.Int(ev.Seq),
			"node_id": ir.String(ev.NodeID),
			"op":      ir.String(ev.Op),
		}
	}

	snap := ir.Object{
		"scenario_name": ir.String(scenarioName),
		"run_id":        ir.String(result.RunID),
		"trace":         trace,
	}
	if result.FailedCode != "" {
		snap["failed_code"] = ir.String(result.FailedCode)
	}
	return snap
}

// RunWithGolden executes a scenario and compares its trace snapshot
// against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	traceJSON, err := ir.MarshalCanonical(traceSnapshot(scenario.Name, result))
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, traceJSON)

	return nil
}
