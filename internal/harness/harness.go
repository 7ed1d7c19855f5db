package harness

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/eafipg/eafipg/internal/engine"
	"github.com/eafipg/eafipg/internal/ir"
	"github.com/eafipg/eafipg/internal/lower"
	"github.com/eafipg/eafipg/internal/validator"
)

// Result is the outcome of one scenario run.
type Result struct {
	RunID string

	// Trace is the executed node order. Empty when the scenario failed
	// before execution started.
	Trace []engine.TraceEvent

	// Values is the final value binding map.
	Values map[string]ir.Value

	// FailedCode is the error code the pipeline failed with, for
	// scenarios that expect a failure.
	FailedCode string
}

// Run executes a scenario through the full pipeline: decode, validate,
// lower, execute, then check expectations.
func Run(s *Scenario) (*Result, error) {
	data, err := os.ReadFile(s.graphPath())
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	g, err := ir.DecodeGraph(data)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	opts := []engine.Option{engine.WithRunID(s.RunID)}
	for name, v := range s.Registers {
		opts = append(opts, engine.WithRegister(name, v))
	}
	if len(s.Memory) > 0 {
		image := make(map[uint64]byte, len(s.Memory))
		for _, cell := range s.Memory {
			image[cell.Addr] = cell.Value
		}
		opts = append(opts, engine.WithMemoryImage(image))
	}
	rt := engine.NewRuntime(opts...)

	err = runPipeline(g, rt)
	if s.WantError != "" {
		if err == nil {
			return nil, fmt.Errorf("scenario %s: expected failure %s, run succeeded", s.Name, s.WantError)
		}
		code := errCode(err)
		if code != s.WantError {
			return nil, fmt.Errorf("scenario %s: expected failure %s, got %s (%v)", s.Name, s.WantError, code, err)
		}
		slog.Debug("scenario failed as expected", "scenario", s.Name, "code", code)
		return &Result{RunID: rt.RunID, Trace: rt.Trace, Values: rt.Values, FailedCode: code}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	for nodeID, want := range s.Expect {
		got, ok := rt.Values[nodeID]
		if !ok {
			return nil, fmt.Errorf("scenario %s: node %s bound no value", s.Name, nodeID)
		}
		if got != ir.Int(want) {
			return nil, fmt.Errorf("scenario %s: node %s bound %v, want %d", s.Name, nodeID, got, want)
		}
	}

	return &Result{RunID: rt.RunID, Trace: rt.Trace, Values: rt.Values}, nil
}

// dagCache is shared by every scenario, so suites that execute the same
// graph document repeatedly lower it once.
var dagCache = lower.NewDefaultCache()

// runPipeline is the production execution path the harness conforms to.
func runPipeline(g *ir.Graph, rt *engine.Runtime) error {
	if err := validator.Validate(g); err != nil {
		return err
	}
	dag, err := dagCache.Lower(g)
	if err != nil {
		return err
	}
	return engine.Run(rt, dag)
}

// errCode extracts the structured code from any pipeline error.
func errCode(err error) string {
	var verr *validator.Error
	if errors.As(err, &verr) {
		return verr.Code
	}
	var lerr *lower.Error
	if errors.As(err, &lerr) {
		return lerr.Code
	}
	var rerr *engine.RuntimeError
	if errors.As(err, &rerr) {
		return string(rerr.Code)
	}
	return ""
}
