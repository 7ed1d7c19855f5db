package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eafipg/eafipg/internal/ir"
	"github.com/eafipg/eafipg/internal/store"
)

// NewGraphCommand creates the graph command group: put, get, list.
func NewGraphCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Manage stored graphs",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "eafipg.db", "SQLite database path")

	cmd.AddCommand(newGraphPutCommand(rootOpts, &dbPath))
	cmd.AddCommand(newGraphGetCommand(rootOpts, &dbPath))
	cmd.AddCommand(newGraphListCommand(rootOpts, &dbPath))

	return cmd
}

func newGraphPutCommand(rootOpts *RootOptions, dbPath *string) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:           "put <graph-file>",
		Short:         "Store a graph under its content hash",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			g, err := LoadGraph(args[0])
			if err != nil {
				return outputLoadError(formatter, err)
			}

			if name == "" {
				name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}

			s, err := store.Open(*dbPath)
			if err != nil {
				formatter.Error(ErrCodeIo, err.Error(), nil)
				return WrapExitError(ExitCommandError, "open store", err)
			}
			defer s.Close()

			hash, err := s.PutGraph(cmd.Context(), name, g)
			if err != nil {
				formatter.Error(ErrCodeIo, err.Error(), nil)
				return WrapExitError(ExitCommandError, "put graph", err)
			}

			if rootOpts.Format == "json" {
				return formatter.Success(store.GraphInfo{Hash: hash, Name: name})
			}
			return formatter.Success(fmt.Sprintf("%s %s", hash, name))
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "graph name (defaults to the file name)")
	return cmd
}

func newGraphGetCommand(rootOpts *RootOptions, dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:           "get <hash>",
		Short:         "Print a stored graph document",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			s, err := store.Open(*dbPath)
			if err != nil {
				formatter.Error(ErrCodeIo, err.Error(), nil)
				return WrapExitError(ExitCommandError, "open store", err)
			}
			defer s.Close()

			g, err := s.GetGraph(cmd.Context(), args[0])
			if err != nil {
				code := ErrCodeIo
				if errors.Is(err, store.ErrNotFound) {
					code = "NOT_FOUND"
				}
				formatter.Error(code, err.Error(), nil)
				return WrapExitError(ExitCommandError, "get graph", err)
			}

			if rootOpts.Format == "json" {
				return formatter.Success(g)
			}
			body, err := ir.EncodeGraph(g)
			if err != nil {
				return WrapExitError(ExitCommandError, "encode graph", err)
			}
			var pretty json.RawMessage = body
			out, err := json.MarshalIndent(pretty, "", "  ")
			if err != nil {
				return WrapExitError(ExitCommandError, "encode graph", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

func newGraphListCommand(rootOpts *RootOptions, dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List stored graphs",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			s, err := store.Open(*dbPath)
			if err != nil {
				formatter.Error(ErrCodeIo, err.Error(), nil)
				return WrapExitError(ExitCommandError, "open store", err)
			}
			defer s.Close()

			infos, err := s.ListGraphs(cmd.Context())
			if err != nil {
				formatter.Error(ErrCodeIo, err.Error(), nil)
				return WrapExitError(ExitCommandError, "list graphs", err)
			}

			if rootOpts.Format == "json" {
				return formatter.Success(infos)
			}
			for _, info := range infos {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-20s %s\n", info.Hash, info.Name, info.CreatedAt)
			}
			return nil
		},
	}
}
