package syncpatch

import (
	"errors"
	"os"

	"github.com/flarebyte/buildprep/cmd/buildprep/common"
	"github.com/flarebyte/buildprep/internal/config"
	"github.com/flarebyte/buildprep/internal/patch"
	"github.com/flarebyte/buildprep/internal/vcs"
	"github.com/spf13/cobra"
)

var (
	flagRepo          string
	flagSeries        string
	flagDetectReverse bool
)

// Committer records applied patches. Tests replace it.
var Committer patch.Committer = vcs.Committer{}

// Cmd implements `buildprep sync-patch`, the dependency-sync hook flow.
var Cmd = &cobra.Command{
	Use:           "sync-patch [patch_file_path]",
	Short:         "Check, apply and commit a patch in a version-controlled working copy",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		patches, err := patchList(args)
		if err != nil {
			return err
		}
		workDir := flagRepo
		if workDir == "" {
			if workDir, err = os.Getwd(); err != nil {
				return err
			}
		}
		tools, err := common.Tools(cmd)
		if err != nil {
			return err
		}
		log := common.Logger(cmd)
		applier := patch.Applier{
			Runner:        common.Runner,
			Git:           tools.Git,
			Committer:     Committer,
			Log:           log,
			DetectReverse: flagDetectReverse,
		}
		ctx := common.Context(cmd)
		for _, p := range patches {
			if _, err := applier.ApplyAndCommit(ctx, p, workDir); err != nil {
				return common.ReportToolError(log, err)
			}
		}
		return nil
	},
}

func patchList(args []string) ([]string, error) {
	switch {
	case flagSeries != "" && len(args) > 0:
		return nil, errors.New("pass either <patch_file_path> or --series, not both")
	case flagSeries != "":
		s, err := config.LoadSeries(flagSeries)
		if err != nil {
			return nil, err
		}
		return s.Patches, nil
	case len(args) == 1:
		return args, nil
	default:
		return nil, errors.New("missing required argument: <patch_file_path>")
	}
}

func init() {
	Cmd.Flags().StringVar(&flagRepo, "repo", "", "Working copy to patch (default: current directory)")
	Cmd.Flags().StringVar(&flagSeries, "series", "", "YAML manifest listing patches to apply in order")
	Cmd.Flags().BoolVar(&flagDetectReverse, "detect-reverse", true, "Treat a patch that reverses cleanly as already applied")
}
