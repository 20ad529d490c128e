package embed

import (
	"github.com/flarebyte/buildprep/cmd/buildprep/common"
	objembed "github.com/flarebyte/buildprep/internal/embed"
	"github.com/spf13/cobra"
)

// Cmd implements `buildprep embed`.
var Cmd = &cobra.Command{
	Use:           "embed <input_file> <output_object_file> <arch>",
	Short:         "Wrap a raw binary file in a relocatable object (arch: x86, x64, arm, arm64)",
	Args:          cobra.ExactArgs(3),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		arch := objembed.Arch(args[2])
		// Reject unknown architectures before touching the environment.
		if _, err := objembed.Emulation(arch); err != nil {
			return err
		}
		tools, err := common.Tools(cmd)
		if err != nil {
			return err
		}
		e := objembed.Embedder{Runner: common.Runner, Linker: tools.Ld, Log: common.Logger(cmd)}
		if err := e.Embed(common.Context(cmd), args[0], args[1], arch); err != nil {
			return common.ReportToolError(common.Logger(cmd), err)
		}
		return nil
	},
}
