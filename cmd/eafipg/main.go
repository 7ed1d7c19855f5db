package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/eafipg/eafipg/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		// ExitErrors were already reported through the command's
		// output formatter; everything else (flag parse errors etc.)
		// still needs a line on stderr.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
