package main

import (
	"os"
	"strings"

	"github.com/flarebyte/buildprep/cmd/buildprep/common"
	"github.com/flarebyte/buildprep/cmd/buildprep/root"
)

func main() {
	if err := root.Execute(os.Args[1:]); err != nil {
		// Print a short, single-line error to stderr on failures. Tool
		// output has already been reported by the subcommand.
		msg := strings.Join(strings.Fields(err.Error()), " ")
		if msg == "" {
			msg = "error"
		}
		_, _ = os.Stderr.WriteString(msg + "\n")
		os.Exit(common.ExitCode(err))
	}
}
