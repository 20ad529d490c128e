package stagepatch

import (
	"fmt"
	"strings"

	"github.com/flarebyte/buildprep/cmd/buildprep/common"
	"github.com/flarebyte/buildprep/internal/config"
	"github.com/flarebyte/buildprep/internal/patch"
	"github.com/flarebyte/buildprep/internal/stager"
	"github.com/spf13/cobra"
)

var (
	flagSrcRoot           string
	flagDestRoot          string
	flagPatchFile         string
	flagPatchTargetFolder string
	flagDirsToCopy        string
	flagConfig            string
	flagExcludeIgnored    bool
)

// Cmd implements `buildprep stage-patch`.
var Cmd = &cobra.Command{
	Use:           "stage-patch",
	Short:         "Copy source directories into a clean destination and apply a patch",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := resolveOptions(cmd)
		if err != nil {
			return err
		}
		tools, err := common.Tools(cmd)
		if err != nil {
			return err
		}
		log := common.Logger(cmd)

		rep, err := (stager.Stager{Log: log}).Stage(opts.plan)
		if err != nil {
			log.Errorf("Error copying files: %v", err)
			return err
		}
		if missing := rep.Missing(); len(missing) > 0 {
			log.Warnf("Staged %d of %d selectors; skipped: %s", rep.Copied(), len(rep.Entries), strings.Join(missing, ", "))
		}

		applier := patch.Applier{Runner: common.Runner, Git: tools.Git, Log: log}
		if err := applier.Apply(common.Context(cmd), opts.patchFile, opts.patchTargetFolder); err != nil {
			return common.ReportToolError(log, err)
		}
		return nil
	},
}

type options struct {
	plan              stager.Plan
	patchFile         string
	patchTargetFolder string
}

// resolveOptions layers explicitly set flags over the optional CUE plan.
func resolveOptions(cmd *cobra.Command) (options, error) {
	var p config.StagePlan
	if flagConfig != "" {
		loaded, err := config.LoadStagePlan(flagConfig)
		if err != nil {
			return options{}, err
		}
		p = loaded
	}
	changed := func(name string) bool { return cmd.Flags().Changed(name) }
	if changed("src_root") || !p.HasSrcRoot {
		p.SrcRoot = flagSrcRoot
	}
	if changed("dest_root") || !p.HasDestRoot {
		p.DestRoot = flagDestRoot
	}
	if changed("patch_file") || !p.HasPatchFile {
		p.PatchFile = flagPatchFile
	}
	if changed("patch_target_folder") || !p.HasPatchTargetFolder {
		p.PatchTargetFolder = flagPatchTargetFolder
	}
	if changed("dirs_to_copy") || !p.HasDirsToCopy {
		p.DirsToCopy = stager.ParseCopySpec(flagDirsToCopy)
	}
	if changed("exclude-ignored") || !p.HasExcludeIgnored {
		p.ExcludeIgnored = flagExcludeIgnored
	}

	required := []struct {
		flag  string
		empty bool
	}{
		{"src_root", p.SrcRoot == ""},
		{"dest_root", p.DestRoot == ""},
		{"patch_file", p.PatchFile == ""},
		{"patch_target_folder", p.PatchTargetFolder == ""},
		{"dirs_to_copy", len(p.DirsToCopy) == 0},
	}
	for _, r := range required {
		if r.empty {
			return options{}, fmt.Errorf("missing required flag: --%s", r.flag)
		}
	}
	return options{
		plan: stager.Plan{
			SourceRoot:     p.SrcRoot,
			DestRoot:       p.DestRoot,
			Spec:           stager.CopySpec(p.DirsToCopy),
			ExcludeIgnored: p.ExcludeIgnored,
		},
		patchFile:         p.PatchFile,
		patchTargetFolder: p.PatchTargetFolder,
	}, nil
}

func init() {
	Cmd.Flags().StringVar(&flagSrcRoot, "src_root", "", "Path to the original source root directory")
	Cmd.Flags().StringVar(&flagDestRoot, "dest_root", "", "Path to the destination root directory (recreated empty)")
	Cmd.Flags().StringVar(&flagPatchFile, "patch_file", "", "Path to the patch file")
	Cmd.Flags().StringVar(&flagPatchTargetFolder, "patch_target_folder", "", "Folder the patch is applied in")
	Cmd.Flags().StringVar(&flagDirsToCopy, "dirs_to_copy", "", "Colon-separated list of subdirectories or files to copy (e.g. 'lib:include')")
	Cmd.Flags().StringVarP(&flagConfig, "config", "c", "", "Path to a stage plan (.cue); flags override its values")
	Cmd.Flags().BoolVar(&flagExcludeIgnored, "exclude-ignored", false, "Skip files excluded by .gitignore files under --src_root")
}
