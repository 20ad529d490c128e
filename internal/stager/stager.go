// Package stager builds a clean destination tree from selected entries of a
// source tree.
package stager

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/flarebyte/buildprep/internal/logx"
)

// Kind is the resolved type of a selector.
type Kind string

const (
	KindDir     Kind = "dir"
	KindFile    Kind = "file"
	KindMissing Kind = "missing"
)

// CopySpec is an ordered list of selectors relative to the source root.
type CopySpec []string

// ParseCopySpec splits a colon separated selector list. Empty segments are
// dropped.
func ParseCopySpec(s string) CopySpec {
	var out CopySpec
	for _, part := range strings.Split(s, ":") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// Plan describes one staging run.
type Plan struct {
	SourceRoot string
	DestRoot   string
	Spec       CopySpec
	// ExcludeIgnored skips files excluded by .gitignore files found under
	// SourceRoot.
	ExcludeIgnored bool
}

// Entry is the outcome for one selector.
type Entry struct {
	Selector string
	Kind     Kind
}

// Report lists selector outcomes in CopySpec order.
type Report struct {
	Entries []Entry
}

// Copied returns the number of selectors that were copied.
func (r Report) Copied() int {
	return len(r.Entries) - len(r.Missing())
}

// Missing returns the selectors that resolved to nothing.
func (r Report) Missing() []string {
	var out []string
	for _, e := range r.Entries {
		if e.Kind == KindMissing {
			out = append(out, e.Selector)
		}
	}
	return out
}

// StagingError is a copy failure for one selector. The destination is left
// as it was when the failure happened.
type StagingError struct {
	Selector string
	Path     string
	Err      error
}

func (e *StagingError) Error() string {
	if e.Selector == "" {
		return fmt.Sprintf("staging %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("staging %s (%s): %v", e.Selector, e.Path, e.Err)
}

func (e *StagingError) Unwrap() error { return e.Err }

func (e *StagingError) ExitCode() int { return 1 }

// Stager copies plans. A nil Log discards output.
type Stager struct {
	Log *logx.Logger
}

// Stage recreates plan.DestRoot and copies every selector into it.
func (s Stager) Stage(plan Plan) (Report, error) {
	if err := resetDir(plan.DestRoot); err != nil {
		return Report{}, &StagingError{Path: plan.DestRoot, Err: err}
	}
	s.Log.Infof("Copying directories from %s to %s...", plan.SourceRoot, plan.DestRoot)

	var ignore *ignoreMatcher
	if plan.ExcludeIgnored {
		ignore = newIgnoreMatcher(plan.SourceRoot)
	}

	rep := Report{Entries: make([]Entry, 0, len(plan.Spec))}
	for _, sel := range plan.Spec {
		src := filepath.Join(plan.SourceRoot, sel)
		dst := filepath.Join(plan.DestRoot, sel)
		ent := Entry{Selector: sel}

		info, err := os.Stat(src)
		switch {
		case err != nil && os.IsNotExist(err):
			ent.Kind = KindMissing
			s.Log.Warnf("%s not found or not a directory/file to copy.", src)
		case err != nil:
			return rep, &StagingError{Selector: sel, Path: src, Err: err}
		case info.IsDir():
			ent.Kind = KindDir
			if err := copyTree(src, dst, plan.SourceRoot, ignore); err != nil {
				return rep, &StagingError{Selector: sel, Path: src, Err: err}
			}
			s.Log.Infof("  Copied %s/", sel)
		case info.Mode().IsRegular():
			ent.Kind = KindFile
			if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
				return rep, &StagingError{Selector: sel, Path: dst, Err: err}
			}
			if err := copyFile(src, dst, info); err != nil {
				return rep, &StagingError{Selector: sel, Path: src, Err: err}
			}
			s.Log.Infof("  Copied %s", sel)
		default:
			// Sockets, devices and the like count as absent.
			ent.Kind = KindMissing
			s.Log.Warnf("%s not found or not a directory/file to copy.", src)
		}
		rep.Entries = append(rep.Entries, ent)
	}
	s.Log.Infof("All specified directories/files copied.")
	return rep, nil
}

func resetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}
