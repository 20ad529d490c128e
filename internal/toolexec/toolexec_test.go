package toolexec

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func requirePOSIXShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("exec tests require POSIX shell")
	}
}

func TestExecRun_SuccessCapturesStdout(t *testing.T) {
	requirePOSIXShell(t)
	r, err := Exec{}.Run(context.Background(), Invocation{Program: "sh", Args: []string{"-c", "printf 'ok'"}})
	if err != nil {
		t.Fatalf("run err: %v", err)
	}
	if !r.OK() || r.Stdout != "ok" || r.Stderr != "" {
		t.Fatalf("unexpected result: %+v", r)
	}
}

func TestExecRun_NonZeroExitIsNotAnError(t *testing.T) {
	requirePOSIXShell(t)
	r, err := Exec{}.Run(context.Background(), Invocation{Program: "sh", Args: []string{"-c", "printf 'bad' >&2; exit 7"}})
	if err != nil {
		t.Fatalf("run err: %v", err)
	}
	if r.ExitCode != 7 || r.Stderr != "bad" {
		t.Fatalf("unexpected result: %+v", r)
	}
}

func TestExecRun_UsesExplicitWorkingDir(t *testing.T) {
	requirePOSIXShell(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "marker"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	r, err := Exec{}.Run(context.Background(), Invocation{Program: "sh", Args: []string{"-c", "ls"}, Dir: dir})
	if err != nil {
		t.Fatalf("run err: %v", err)
	}
	if strings.TrimSpace(r.Stdout) != "marker" {
		t.Fatalf("unexpected stdout: %q", r.Stdout)
	}
}

func TestExecRun_EnvOverlay(t *testing.T) {
	requirePOSIXShell(t)
	r, err := Exec{}.Run(context.Background(), Invocation{
		Program: "sh",
		Args:    []string{"-c", "printf '%s' \"$BUILDPREP_TEST_VAR\""},
		Env:     map[string]string{"BUILDPREP_TEST_VAR": "v1"},
	})
	if err != nil {
		t.Fatalf("run err: %v", err)
	}
	if r.Stdout != "v1" {
		t.Fatalf("unexpected stdout: %q", r.Stdout)
	}
}

func TestExecRun_MissingProgram(t *testing.T) {
	_, err := Exec{}.Run(context.Background(), Invocation{Program: "buildprep-definitely-missing-tool"})
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.ExitCode() != 1 {
		t.Fatalf("unexpected exit code: %d", nf.ExitCode())
	}
	if got := err.Error(); got != "program buildprep-definitely-missing-tool not found" {
		t.Fatalf("unexpected message: %s", got)
	}
}

func TestInvocationCommandLine(t *testing.T) {
	inv := Invocation{Program: "git", Args: []string{"apply", "-p1", "/tmp/x.patch"}}
	if got := inv.CommandLine(); got != "git apply -p1 /tmp/x.patch" {
		t.Fatalf("unexpected command line: %q", got)
	}
}

func TestApplyEnvOverlay_OverridesAndAppends(t *testing.T) {
	got := applyEnvOverlay([]string{"A=1", "B=2", "bogus"}, map[string]string{"B": "3", "C": "4"})
	joined := strings.Join(got, ",")
	for _, want := range []string{"A=1", "B=3", "C=4"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("missing %s in %v", want, got)
		}
	}
	if len(got) != 3 {
		t.Fatalf("unexpected env: %v", got)
	}
}

func TestLocate(t *testing.T) {
	if _, err := Locate("sh"); err != nil {
		t.Skipf("sh not on PATH: %v", err)
	}
	_, err := Locate("buildprep-definitely-missing-tool")
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Program != "buildprep-definitely-missing-tool" {
		t.Fatalf("unexpected error: %v", err)
	}
}
