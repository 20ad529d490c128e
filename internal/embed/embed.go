// Package embed wraps raw binary files into relocatable ELF objects using ld.
package embed

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/flarebyte/buildprep/internal/logx"
	"github.com/flarebyte/buildprep/internal/toolexec"
)

// Arch is a target architecture identifier.
type Arch string

const (
	ArchX86   Arch = "x86"
	ArchX64   Arch = "x64"
	ArchARM   Arch = "arm"
	ArchARM64 Arch = "arm64"
)

// emulations maps each supported architecture to its ld -m emulation.
var emulations = map[Arch]string{
	ArchX86:   "elf_i386",
	ArchX64:   "elf_x86_64",
	ArchARM:   "armelf_linux_eabi",
	ArchARM64: "aarch64linux",
}

// Emulation returns the linker emulation for arch.
func Emulation(arch Arch) (string, error) {
	m, ok := emulations[arch]
	if !ok {
		return "", &UnsupportedArchitectureError{Arch: string(arch)}
	}
	return m, nil
}

// Supported lists the accepted identifiers in sorted order.
func Supported() []string {
	out := make([]string, 0, len(emulations))
	for a := range emulations {
		out = append(out, string(a))
	}
	sort.Strings(out)
	return out
}

type UnsupportedArchitectureError struct {
	Arch string
}

func (e *UnsupportedArchitectureError) Error() string {
	return fmt.Sprintf("unsupported architecture %q (supported: %s)", e.Arch, strings.Join(Supported(), ", "))
}

func (e *UnsupportedArchitectureError) ExitCode() int { return 1 }

// LinkError is a non-zero linker exit.
type LinkError struct {
	Command string
	Result  toolexec.Result
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("linker failed with status %d: %s", e.Result.ExitCode, e.Command)
}

func (e *LinkError) ExitCode() int {
	if e.Result.ExitCode > 0 {
		return e.Result.ExitCode
	}
	return 1
}

// Embedder runs the linker. Linker defaults to "ld".
type Embedder struct {
	Runner toolexec.Runner
	Linker string
	Log    *logx.Logger
}

// Invocation builds the linker call for inputFile. The input path is passed
// unchanged because ld derives the _binary_<path>_start/_end/_size symbol
// names from it.
func (e Embedder) Invocation(inputFile, outputObject string, arch Arch) (toolexec.Invocation, error) {
	emu, err := Emulation(arch)
	if err != nil {
		return toolexec.Invocation{}, err
	}
	linker := e.Linker
	if linker == "" {
		linker = "ld"
	}
	return toolexec.Invocation{
		Program: linker,
		Args: []string{
			"-r",
			"--no-warn-execstack",
			"-z", "noexecstack",
			"-m", emu,
			"-b", "binary",
			"-o", outputObject,
			inputFile,
		},
	}, nil
}

// Embed produces outputObject holding the verbatim bytes of inputFile.
func (e Embedder) Embed(ctx context.Context, inputFile, outputObject string, arch Arch) error {
	inv, err := e.Invocation(inputFile, outputObject, arch)
	if err != nil {
		return err
	}
	runner := e.Runner
	if runner == nil {
		runner = toolexec.Exec{}
	}
	res, err := runner.Run(ctx, inv)
	if err != nil {
		return err
	}
	if !res.OK() {
		le := &LinkError{Command: inv.CommandLine(), Result: res}
		e.Log.Errorf("%s", le.Error())
		e.Log.Block("Stdout", res.Stdout)
		e.Log.Block("Stderr", res.Stderr)
		return le
	}
	e.Log.Infof("Embedded %s into %s (%s)", inputFile, outputObject, arch)
	return nil
}
