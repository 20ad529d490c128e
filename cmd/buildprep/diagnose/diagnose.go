package diagnose

import (
	"github.com/flarebyte/buildprep/cmd/buildprep/common"
	"github.com/spf13/cobra"
)

var (
	flagRepo   string
	flagPretty bool
	flagStrict bool
)

// Cmd implements `buildprep diagnose`.
var Cmd = &cobra.Command{
	Use:           "diagnose",
	Short:         "Report resolved external tools and repository state as JSON",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		tools, err := common.Tools(cmd)
		if err != nil {
			return err
		}
		rep := collect(tools, flagRepo)
		if err := writeReport(cmd.OutOrStdout(), rep, flagPretty); err != nil {
			return err
		}
		if flagStrict {
			if missing := rep.missing(); len(missing) > 0 {
				return common.ExitError{Code: common.ExitCodeFailure, Msg: "missing tools: " + joinNames(missing)}
			}
		}
		return nil
	},
}

func init() {
	Cmd.Flags().StringVar(&flagRepo, "repo", "", "Also report HEAD and cleanliness of this git working tree")
	Cmd.Flags().BoolVar(&flagPretty, "pretty", false, "Pretty JSON")
	Cmd.Flags().BoolVar(&flagStrict, "strict", false, "Exit 1 when any external tool cannot be found")
}
