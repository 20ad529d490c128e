package patch

import (
	"context"

	"github.com/flarebyte/buildprep/internal/toolexec"
)

// ApplyGeneric runs `patch -p1 -i <patch>` with targetPath as working
// directory. Failures always report exit status 1.
func (a Applier) ApplyGeneric(ctx context.Context, targetPath, patchFile string) error {
	absTarget, err := absPath(targetPath)
	if err != nil {
		return err
	}
	absPatch, err := absPath(patchFile)
	if err != nil {
		return err
	}
	inv := toolexec.Invocation{
		Program: a.patchProgram(),
		Args:    []string{stripLevel, "-i", absPatch},
		Dir:     absTarget,
		Env:     toolEnv(),
	}
	a.Log.Infof("Applying patch %s to %s ...", absPatch, absTarget)
	if _, err := a.run(ctx, "patch", absPatch, inv, 1); err != nil {
		return err
	}
	a.Log.Infof("Patch %s applied successfully.", absPatch)
	return nil
}
