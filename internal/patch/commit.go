package patch

import (
	"context"
	"errors"
	"fmt"
)

// CommitMessage is the message recorded for an applied patch.
func CommitMessage(absPatchFile string) string {
	return fmt.Sprintf("Applied patch %s", absPatchFile)
}

// ApplyAndCommit checks, applies, stages and commits patchFile inside the
// working copy workDir.
//
// A check failure whose stderr carries an already-applied signature ends in
// OutcomeAlreadyApplied with no mutation. Any other failure is terminal and
// nothing is rolled back.
func (a Applier) ApplyAndCommit(ctx context.Context, patchFile, workDir string) (Outcome, error) {
	if a.Committer == nil {
		return OutcomeApplied, errors.New("apply-and-commit: no committer configured")
	}
	abs, err := absPath(patchFile)
	if err != nil {
		return OutcomeApplied, err
	}
	git := a.gitProgram()

	a.Log.Infof("Checking patch %s ...", abs)
	res, err := a.run(ctx, "check", abs, gitApply(git, workDir, abs, "--check"), -1)
	if err != nil {
		var ae *ApplyError
		if !errors.As(err, &ae) {
			return OutcomeApplied, err
		}
		if IsAlreadyApplied(res.Stderr) {
			a.Log.Infof("Patch %s is already applied, nothing to do.", abs)
			return OutcomeAlreadyApplied, nil
		}
		if a.DetectReverse {
			rev, rerr := a.runner().Run(ctx, gitApply(git, workDir, abs, "--check", "--reverse"))
			if rerr == nil && rev.OK() {
				a.Log.Infof("Patch %s reverses cleanly, treating it as applied.", abs)
				return OutcomeAlreadyApplied, nil
			}
		}
		return OutcomeApplied, err
	}

	a.Log.Infof("Applying patch %s ...", abs)
	if _, err := a.run(ctx, "apply", abs, gitApply(git, workDir, abs), -1); err != nil {
		return OutcomeApplied, err
	}

	if err := a.Committer.CommitAll(ctx, workDir, CommitMessage(abs)); err != nil {
		return OutcomeApplied, &CommitError{PatchFile: abs, Err: err}
	}
	a.Log.Infof("Patch %s applied and committed.", abs)
	return OutcomeApplied, nil
}
