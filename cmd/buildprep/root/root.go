package root

import (
	"github.com/flarebyte/buildprep/cmd/buildprep/common"
	"github.com/flarebyte/buildprep/cmd/buildprep/concat"
	"github.com/flarebyte/buildprep/cmd/buildprep/diagnose"
	"github.com/flarebyte/buildprep/cmd/buildprep/embed"
	"github.com/flarebyte/buildprep/cmd/buildprep/genericpatch"
	"github.com/flarebyte/buildprep/cmd/buildprep/stagepatch"
	"github.com/flarebyte/buildprep/cmd/buildprep/syncpatch"
	"github.com/flarebyte/buildprep/cmd/buildprep/version"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for buildprep.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "buildprep",
		Short: "Build preparation utilities: stage and patch sources, embed binaries, concatenate files",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Show help when no subcommand is provided.
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().String(common.EnvFileFlag, "", "Dotenv file with BUILDPREP_GIT, BUILDPREP_PATCH or BUILDPREP_LD overrides")

	// Subcommands
	cmd.AddCommand(version.VersionCmd)
	cmd.AddCommand(stagepatch.Cmd)
	cmd.AddCommand(syncpatch.Cmd)
	cmd.AddCommand(genericpatch.Cmd)
	cmd.AddCommand(concat.Cmd)
	cmd.AddCommand(embed.Cmd)
	cmd.AddCommand(diagnose.Cmd)

	return cmd
}

// Execute runs the root command with provided args.
func Execute(args []string) error {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}
