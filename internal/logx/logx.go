// Package logx prints operator-facing progress lines. Info goes to the out
// writer, warnings and errors to the err writer. Prefixes are colored only
// when the destination is a terminal.
package logx

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

type Logger struct {
	out   io.Writer
	err   io.Writer
	warn  func(format string, a ...any) string
	fail  func(format string, a ...any) string
	color bool
}

// New returns a logger writing to out and err.
func New(out, err io.Writer) *Logger {
	l := &Logger{out: out, err: err, color: isTerminal(err)}
	warn := color.New(color.FgYellow)
	fail := color.New(color.FgRed, color.Bold)
	if l.color {
		warn.EnableColor()
		fail.EnableColor()
	} else {
		warn.DisableColor()
		fail.DisableColor()
	}
	l.warn = warn.SprintfFunc()
	l.fail = fail.SprintfFunc()
	return l
}

// Std returns a logger bound to the process stdout and stderr.
func Std() *Logger { return New(os.Stdout, os.Stderr) }

// Discard returns a logger that drops everything.
func Discard() *Logger { return New(io.Discard, io.Discard) }

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (l *Logger) Infof(format string, a ...any) {
	if l == nil {
		return
	}
	_, _ = fmt.Fprintf(l.out, format+"\n", a...)
}

func (l *Logger) Warnf(format string, a ...any) {
	if l == nil {
		return
	}
	_, _ = fmt.Fprintf(l.err, "%s %s\n", l.warn("Warning:"), fmt.Sprintf(format, a...))
}

func (l *Logger) Errorf(format string, a ...any) {
	if l == nil {
		return
	}
	_, _ = fmt.Fprintf(l.err, "%s %s\n", l.fail("Error:"), fmt.Sprintf(format, a...))
}

// Block writes a labelled multi-line value to the err writer, e.g. captured
// tool output. Empty values are still printed so the label is visible.
func (l *Logger) Block(label, body string) {
	if l == nil {
		return
	}
	_, _ = fmt.Fprintf(l.err, "%s: %s\n", label, strings.TrimRight(body, "\n"))
}
