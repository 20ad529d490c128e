package embed

import (
	"bytes"
	"context"
	"debug/elf"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/flarebyte/buildprep/internal/toolexec"
	"github.com/stretchr/testify/require"
)

type recordingRunner struct {
	calls []toolexec.Invocation
	res   toolexec.Result
}

func (r *recordingRunner) Run(_ context.Context, inv toolexec.Invocation) (toolexec.Result, error) {
	r.calls = append(r.calls, inv)
	return r.res, nil
}

func TestEmulation_ClosedSet(t *testing.T) {
	cases := []struct {
		arch Arch
		want string
	}{
		{ArchX86, "elf_i386"},
		{ArchX64, "elf_x86_64"},
		{ArchARM, "armelf_linux_eabi"},
		{ArchARM64, "aarch64linux"},
	}
	for _, tc := range cases {
		got, err := Emulation(tc.arch)
		require.NoError(t, err)
		require.Equal(t, tc.want, got, string(tc.arch))
	}
	for _, bad := range []Arch{"", "X64", "amd64", "riscv64"} {
		_, err := Emulation(bad)
		var ue *UnsupportedArchitectureError
		require.True(t, errors.As(err, &ue), "arch %q", bad)
	}
}

func TestEmbed_BuildsLinkerArguments(t *testing.T) {
	r := &recordingRunner{}
	err := Embedder{Runner: r}.Embed(context.Background(), "res/font.bin", "out/font.o", ArchARM64)
	require.NoError(t, err)
	require.Len(t, r.calls, 1)
	require.Equal(t, "ld", r.calls[0].Program)
	require.Equal(t, []string{
		"-r", "--no-warn-execstack", "-z", "noexecstack",
		"-m", "aarch64linux", "-b", "binary",
		"-o", "out/font.o", "res/font.bin",
	}, r.calls[0].Args)
}

func TestEmbed_UnsupportedArchDoesNotInvokeLinker(t *testing.T) {
	r := &recordingRunner{}
	err := Embedder{Runner: r}.Embed(context.Background(), "in.bin", "out.o", Arch("mips"))
	var ue *UnsupportedArchitectureError
	require.True(t, errors.As(err, &ue))
	require.Equal(t, "mips", ue.Arch)
	require.Equal(t, 1, ue.ExitCode())
	require.Contains(t, err.Error(), `"mips"`)
	require.Contains(t, err.Error(), "arm, arm64, x64, x86")
	require.Empty(t, r.calls)
}

func TestEmbed_LinkerFailurePropagatesStatus(t *testing.T) {
	r := &recordingRunner{res: toolexec.Result{ExitCode: 3, Stderr: "ld: cannot open"}}
	err := Embedder{Runner: r, Linker: "/opt/ld"}.Embed(context.Background(), "in.bin", "out.o", ArchX64)
	var le *LinkError
	require.True(t, errors.As(err, &le))
	require.Equal(t, 3, le.ExitCode())
	require.Equal(t, "/opt/ld", r.calls[0].Program)
}

func TestEmbed_RealLinkerProducesRelocatableObject(t *testing.T) {
	if _, err := exec.LookPath("ld"); err != nil {
		t.Skip("ld not available")
	}
	dir := t.TempDir()
	payload := []byte("\x00\x01payload\xff")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blob.bin"), payload, 0o644))

	// ld names symbols after the input path, so run from dir with a
	// relative input.
	inv, err := Embedder{}.Invocation("blob.bin", "blob.o", ArchX64)
	require.NoError(t, err)
	inv.Dir = dir
	res, err := toolexec.Exec{}.Run(context.Background(), inv)
	require.NoError(t, err)
	if !res.OK() {
		t.Skipf("host ld cannot emit %s: %s", "elf_x86_64", res.Stderr)
	}

	f, err := elf.Open(filepath.Join(dir, "blob.o"))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	require.Equal(t, elf.ET_REL, f.Type)
	require.Equal(t, elf.EM_X86_64, f.Machine)
	data := f.Section(".data")
	require.NotNil(t, data)
	b, err := data.Data()
	require.NoError(t, err)
	require.True(t, bytes.Equal(payload, b))

	syms, err := f.Symbols()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, s := range syms {
		names[s.Name] = true
	}
	require.True(t, names["_binary_blob_bin_start"])
	require.True(t, names["_binary_blob_bin_end"])
}
