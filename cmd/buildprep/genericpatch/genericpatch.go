package genericpatch

import (
	"github.com/flarebyte/buildprep/cmd/buildprep/common"
	"github.com/flarebyte/buildprep/internal/patch"
	"github.com/spf13/cobra"
)

// Cmd implements `buildprep patch`, which uses the system patch tool.
var Cmd = &cobra.Command{
	Use:           "patch <target_path> <patch_file_path>",
	Short:         "Apply a patch to a directory with the system patch tool",
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		tools, err := common.Tools(cmd)
		if err != nil {
			return err
		}
		log := common.Logger(cmd)
		applier := patch.Applier{Runner: common.Runner, Patch: tools.Patch, Log: log}
		if err := applier.ApplyGeneric(common.Context(cmd), args[0], args[1]); err != nil {
			// Exit status is always 1 here, whatever patch returned.
			return common.ExitError{Code: common.ExitCodeFailure, Msg: common.ReportToolError(log, err).Error()}
		}
		return nil
	},
}
