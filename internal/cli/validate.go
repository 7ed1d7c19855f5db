package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eafipg/eafipg/internal/validator"
)

// ValidationResult is the JSON payload of a successful validate.
type ValidationResult struct {
	Valid      bool   `json:"valid"`
	Nodes      int    `json:"nodes"`
	Edges      int    `json:"edges"`
	Incidences int    `json:"incidences"`
	GraphFile  string `json:"graph_file"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var strictPhi, memoryAcyclic bool

	cmd := &cobra.Command{
		Use:   "validate <graph-file>",
		Short: "Check a graph against the structural rules",
		Long: `Check a graph document against the ten structural rules: id uniqueness,
referential integrity, layer validity, syntax child positions, phi arity,
capability chains, layer acyclicity, memory edge shape, control-flow
cardinality, and Mmio timing.

Validation is fail-fast: the first violated rule is reported with the
offending entity id.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], strictPhi, memoryAcyclic, cmd)
		},
	}

	cmd.Flags().BoolVar(&strictPhi, "strict-phi", false,
		"require phi arity to match control predecessor count")
	cmd.Flags().BoolVar(&memoryAcyclic, "memory-acyclic", false,
		"extend the acyclicity rule to the Memory layer")

	return cmd
}

func runValidate(opts *RootOptions, path string, strictPhi, memoryAcyclic bool, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	g, err := LoadGraph(path)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	formatter.VerboseLog("Loaded %s: %d nodes, %d edges, %d incidences",
		path, len(g.Nodes), len(g.Edges), len(g.Incidences))

	var vopts []validator.Option
	if strictPhi {
		vopts = append(vopts, validator.WithStrictPhi())
	}
	if memoryAcyclic {
		vopts = append(vopts, validator.WithMemoryAcyclic())
	}

	if err := validator.Validate(g, vopts...); err != nil {
		return outputValidationError(formatter, err)
	}

	if opts.Format == "json" {
		return formatter.Success(ValidationResult{
			Valid:      true,
			Nodes:      len(g.Nodes),
			Edges:      len(g.Edges),
			Incidences: len(g.Incidences),
			GraphFile:  path,
		})
	}
	return formatter.Success(fmt.Sprintf("%s: valid (%d nodes, %d edges, %d incidences)",
		path, len(g.Nodes), len(g.Edges), len(g.Incidences)))
}

// outputValidationError prints a rule violation and maps it to exit
// code 1. Validation failures are never downgraded: callers must stop.
func outputValidationError(f *OutputFormatter, err error) error {
	var verr *validator.Error
	if errors.As(err, &verr) {
		f.Error(verr.Code, verr.Message, map[string]string{
			"rule":      verr.Rule,
			"entity_id": verr.EntityID,
		})
		return NewExitError(ExitFailure, verr.Message)
	}
	f.Error(ErrCodeSchema, err.Error(), nil)
	return NewExitError(ExitFailure, err.Error())
}

// outputLoadError prints a load failure and maps it to an exit code:
// unreadable files are command errors, rejected documents are failures.
func outputLoadError(f *OutputFormatter, err error) error {
	var lerr *LoadError
	if errors.As(err, &lerr) {
		f.Error(lerr.Code, lerr.Message, map[string]string{"path": lerr.Path})
		if lerr.Code == ErrCodeIo {
			return WrapExitError(ExitCommandError, "load graph", err)
		}
		return WrapExitError(ExitFailure, "load graph", err)
	}
	f.Error(ErrCodeIo, err.Error(), nil)
	return WrapExitError(ExitCommandError, "load graph", err)
}
