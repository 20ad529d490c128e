package patch

import (
	"fmt"

	"github.com/flarebyte/buildprep/internal/logx"
	"github.com/flarebyte/buildprep/internal/toolexec"
)

// ApplyError is a patch tool that exited non-zero without an
// already-applied signature.
type ApplyError struct {
	Phase     string
	PatchFile string
	Command   string
	Dir       string
	Result    toolexec.Result
	Code      int
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("error applying patch %s: %s: command exited with status %d", e.PatchFile, e.Phase, e.Result.ExitCode)
}

func (e *ApplyError) ExitCode() int { return e.Code }

// Report writes the command and captured output for the operator.
func (e *ApplyError) Report(log *logx.Logger) {
	log.Errorf("%s", e.Error())
	log.Block("Command", e.Command)
	log.Block("Stdout", e.Result.Stdout)
	log.Block("Stderr", e.Result.Stderr)
}

// CommitError wraps a failure to stage or commit applied changes.
type CommitError struct {
	PatchFile string
	Err       error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("error committing patch %s: %v", e.PatchFile, e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }

func (e *CommitError) ExitCode() int {
	if ec, ok := e.Err.(interface{ ExitCode() int }); ok {
		if c := ec.ExitCode(); c != 0 {
			return c
		}
	}
	return 1
}
