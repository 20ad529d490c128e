// Package toolexec runs external build tools and captures their results.
//
// A non-zero exit status is reported in Result, not as an error, so callers
// can apply their own policy (for example treating a known stderr signature
// as success). Errors are reserved for processes that could not be run at all.
package toolexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Invocation describes one external process call.
type Invocation struct {
	Program string
	Args    []string
	// Dir is the working directory of the process. It must be set explicitly;
	// an empty Dir means the current process directory.
	Dir string
	// Env entries are overlaid on the process environment.
	Env map[string]string
}

// CommandLine renders the invocation for diagnostics.
func (inv Invocation) CommandLine() string {
	parts := make([]string, 0, len(inv.Args)+1)
	parts = append(parts, inv.Program)
	parts = append(parts, inv.Args...)
	return strings.Join(parts, " ")
}

// Result is the captured outcome of a process that ran to completion.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// OK reports whether the process exited with status zero.
func (r Result) OK() bool { return r.ExitCode == 0 }

// Runner runs invocations. Exec is the production implementation; tests
// substitute fakes.
type Runner interface {
	Run(ctx context.Context, inv Invocation) (Result, error)
}

// NotFoundError reports a program that could not be located or started.
type NotFoundError struct {
	Program string
	Err     error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("program %s not found", e.Program)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// ExitCode is always 1: there is no tool status to forward.
func (e *NotFoundError) ExitCode() int { return 1 }

// Exec runs invocations as real child processes.
type Exec struct{}

// Run starts the program, waits for it and captures stdout and stderr.
func (Exec) Run(ctx context.Context, inv Invocation) (Result, error) {
	cmd := exec.CommandContext(ctx, inv.Program, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Env = applyEnvOverlay(os.Environ(), inv.Env)

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	if err := cmd.Start(); err != nil {
		var ee *exec.Error
		if errors.As(err, &ee) {
			return Result{ExitCode: -1}, &NotFoundError{Program: inv.Program, Err: err}
		}
		return Result{ExitCode: -1}, fmt.Errorf("program %s start failed: %w", inv.Program, err)
	}
	runErr := cmd.Wait()

	res := Result{
		Stdout: outBuf.String(),
		Stderr: errBuf.String(),
	}
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		res.ExitCode = -1
		return res, fmt.Errorf("program %s execution failed: %w", inv.Program, runErr)
	}
	return res, nil
}

func applyEnvOverlay(base []string, overlay map[string]string) []string {
	if len(overlay) == 0 {
		return append([]string(nil), base...)
	}
	m := map[string]string{}
	order := make([]string, 0, len(base))
	for _, kv := range base {
		i := strings.IndexByte(kv, '=')
		if i <= 0 {
			continue
		}
		k := kv[:i]
		if _, seen := m[k]; !seen {
			order = append(order, k)
		}
		m[k] = kv[i+1:]
	}
	for k, v := range overlay {
		if _, seen := m[k]; !seen {
			order = append(order, k)
		}
		m[k] = v
	}
	out := make([]string, 0, len(order))
	for _, k := range order {
		out = append(out, k+"="+m[k])
	}
	return out
}

// Locate resolves program the way Exec would, without running it.
func Locate(program string) (string, error) {
	p, err := exec.LookPath(program)
	if err != nil {
		return "", &NotFoundError{Program: program, Err: err}
	}
	return p, nil
}
