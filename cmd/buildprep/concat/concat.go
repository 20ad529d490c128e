package concat

import (
	"errors"

	joiner "github.com/flarebyte/buildprep/internal/concat"
	"github.com/spf13/cobra"
)

var flagOutput string

// Cmd implements `buildprep concat`.
var Cmd = &cobra.Command{
	Use:           "concat --output <path> [input_file...]",
	Short:         "Concatenate files in order, each followed by a newline",
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagOutput == "" {
			return errors.New("missing required flag: --output")
		}
		return joiner.Files(flagOutput, args)
	},
}

func init() {
	Cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output file path")
}
