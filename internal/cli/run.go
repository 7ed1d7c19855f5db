package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eafipg/eafipg/internal/engine"
	"github.com/eafipg/eafipg/internal/ir"
	"github.com/eafipg/eafipg/internal/lower"
	"github.com/eafipg/eafipg/internal/store"
	"github.com/eafipg/eafipg/internal/validator"
)

// RunResult is the JSON payload of a completed run.
type RunResult struct {
	RunID        string `json:"run_id"`
	GraphHash    string `json:"graph_hash"`
	Executed     int    `json:"executed"`
	SnapshotHash string `json:"snapshot_hash,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string
	var registers []string

	cmd := &cobra.Command{
		Use:   "run <graph-file>",
		Short: "Validate, lower, and execute a graph",
		Long: `Load a graph document, validate it, lower it to an execution DAG, and
execute it with a fresh runtime. With --db, the graph and the run's final
snapshot are persisted to the given SQLite database.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(rootOpts, args[0], dbPath, registers, cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database to persist the graph and snapshot")
	cmd.Flags().StringArrayVar(&registers, "register", nil,
		"seed a register before execution (NAME=VALUE, repeatable)")

	return cmd
}

func runRun(opts *RootOptions, path, dbPath string, registers []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	rtOpts, err := parseRegisters(registers)
	if err != nil {
		formatter.Error(ErrCodeIo, err.Error(), nil)
		return WrapExitError(ExitCommandError, "parse registers", err)
	}

	g, err := LoadGraph(path)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	if err := validator.Validate(g); err != nil {
		return outputValidationError(formatter, err)
	}

	graphHash, err := ir.GraphHash(g)
	if err != nil {
		return WrapExitError(ExitCommandError, "hash graph", err)
	}

	dag, err := dagCache.Lower(g)
	if err != nil {
		var lerr *lower.Error
		if errors.As(err, &lerr) {
			formatter.Error(lerr.Code, lerr.Message, map[string]string{"node_id": lerr.NodeID})
			return NewExitError(ExitFailure, lerr.Message)
		}
		return WrapExitError(ExitFailure, "lower graph", err)
	}

	rt := engine.NewRuntime(rtOpts...)
	formatter.VerboseLog("Run %s: %d exec nodes, %d exec edges", rt.RunID, len(dag.Nodes), len(dag.Edges))

	if err := engine.Run(rt, dag); err != nil {
		var rerr *engine.RuntimeError
		if errors.As(err, &rerr) {
			formatter.Error(string(rerr.Code), rerr.Message, rerr.Details)
			return NewExitError(ExitFailure, rerr.Message)
		}
		formatter.Error(ErrCodeIo, err.Error(), nil)
		return NewExitError(ExitFailure, err.Error())
	}

	result := RunResult{
		RunID:     rt.RunID,
		GraphHash: graphHash,
		Executed:  len(rt.Trace),
	}

	if dbPath != "" {
		snapHash, err := persistRun(cmd, dbPath, path, g, rt, graphHash)
		if err != nil {
			formatter.Error(ErrCodeIo, err.Error(), nil)
			return WrapExitError(ExitCommandError, "persist run", err)
		}
		result.SnapshotHash = snapHash
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	msg := fmt.Sprintf("run %s: executed %d nodes (graph %s)", result.RunID, result.Executed, shortHash(result.GraphHash))
	if result.SnapshotHash != "" {
		msg += fmt.Sprintf("\nsnapshot %s saved to %s", shortHash(result.SnapshotHash), dbPath)
	}
	return formatter.Success(msg)
}

// persistRun stores the executed graph and the run's snapshot.
func persistRun(cmd *cobra.Command, dbPath, graphFile string, g *ir.Graph, rt *engine.Runtime, graphHash string) (string, error) {
	s, err := store.Open(dbPath)
	if err != nil {
		return "", err
	}
	defer s.Close()

	name := strings.TrimSuffix(filepath.Base(graphFile), filepath.Ext(graphFile))
	if _, err := s.PutGraph(cmd.Context(), name, g); err != nil {
		return "", err
	}
	return s.PutSnapshot(cmd.Context(), rt.Snapshot(graphHash))
}

// parseRegisters converts repeated NAME=VALUE flags into runtime options.
func parseRegisters(specs []string) ([]engine.Option, error) {
	var opts []engine.Option
	for _, spec := range specs {
		name, raw, ok := strings.Cut(spec, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("register %q: want NAME=VALUE", spec)
		}
		v, err := strconv.ParseInt(raw, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("register %q: %w", spec, err)
		}
		opts = append(opts, engine.WithRegister(name, v))
	}
	return opts, nil
}

// shortHash abbreviates a content hash for text output.
func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
