// Package patch applies unified diffs by driving external tools: `git apply`
// for the staged and check-then-commit flows, and `patch` for the generic
// flow. Diff syntax is never parsed here.
package patch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/flarebyte/buildprep/internal/logx"
	"github.com/flarebyte/buildprep/internal/toolexec"
)

const stripLevel = "-p1"

// Outcome is the terminal success state of an apply.
type Outcome int

const (
	OutcomeApplied Outcome = iota
	OutcomeAlreadyApplied
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeAlreadyApplied:
		return "already-applied"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// alreadyAppliedSignatures are stderr fragments that mean the change is
// already present in the target.
var alreadyAppliedSignatures = []string{
	"already exists in working directory",
	"Reversed (or previously applied) patch detected",
	"patch already applied",
}

// IsAlreadyApplied reports whether tool stderr carries an already-applied
// signature.
func IsAlreadyApplied(stderr string) bool {
	for _, sig := range alreadyAppliedSignatures {
		if strings.Contains(stderr, sig) {
			return true
		}
	}
	return false
}

// Committer records every working-copy change in dir as one commit.
type Committer interface {
	CommitAll(ctx context.Context, dir, message string) error
}

// Applier runs the patch tools. Git and Patch name the executables and
// default to "git" and "patch".
type Applier struct {
	Runner    toolexec.Runner
	Git       string
	Patch     string
	Committer Committer
	Log       *logx.Logger
	// DetectReverse treats a clean reverse check as already applied when the
	// forward check fails without a known signature.
	DetectReverse bool
}

func (a Applier) runner() toolexec.Runner {
	if a.Runner == nil {
		return toolexec.Exec{}
	}
	return a.Runner
}

func (a Applier) gitProgram() string {
	if a.Git == "" {
		return "git"
	}
	return a.Git
}

func (a Applier) patchProgram() string {
	if a.Patch == "" {
		return "patch"
	}
	return a.Patch
}

// run executes inv and turns a non-zero exit into an ApplyError. code is the
// exit status reported by that error; a negative code forwards the tool's.
func (a Applier) run(ctx context.Context, phase, patchFile string, inv toolexec.Invocation, code int) (toolexec.Result, error) {
	res, err := a.runner().Run(ctx, inv)
	if err != nil {
		return res, err
	}
	if res.OK() {
		return res, nil
	}
	if code < 0 {
		code = res.ExitCode
	}
	return res, &ApplyError{
		Phase:     phase,
		PatchFile: patchFile,
		Command:   inv.CommandLine(),
		Dir:       inv.Dir,
		Result:    res,
		Code:      code,
	}
}

func absPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", p, err)
	}
	return abs, nil
}

// toolEnv pins the message locale so stderr signatures stay matchable.
func toolEnv() map[string]string {
	return map[string]string{"LC_ALL": "C"}
}

func gitApply(program, dir, patchFile string, extra ...string) toolexec.Invocation {
	args := append([]string{"apply"}, extra...)
	args = append(args, stripLevel, patchFile)
	return toolexec.Invocation{Program: program, Args: args, Dir: dir, Env: toolEnv()}
}
