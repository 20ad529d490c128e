package patch

import (
	"context"
	"path/filepath"
)

// Apply runs `git apply -p1` against a freshly staged targetFolder. There is
// no check phase: the target is expected to be clean. A tool failure is an
// ApplyError whose exit code is the tool's own.
func (a Applier) Apply(ctx context.Context, patchFile, targetFolder string) error {
	abs, err := absPath(patchFile)
	if err != nil {
		return err
	}
	absTarget, err := absPath(targetFolder)
	if err != nil {
		return err
	}
	a.Log.Infof("Applying patch %s to %s ...", abs, targetFolder)
	inv := gitApply(a.gitProgram(), targetFolder, abs)
	// A staged tree is not a work tree. Stop git from finding an enclosing
	// repository, which would make it skip paths outside the target.
	inv.Env["GIT_CEILING_DIRECTORIES"] = filepath.Dir(absTarget)
	if _, err := a.run(ctx, "apply", abs, inv, -1); err != nil {
		return err
	}
	a.Log.Infof("Patch %s applied successfully to %s.", abs, targetFolder)
	return nil
}
