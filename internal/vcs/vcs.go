// Package vcs stages and commits working-copy changes through go-git.
package vcs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const (
	defaultAuthorName  = "buildprep"
	defaultAuthorEmail = "buildprep@localhost"
)

// Error is a repository operation failure.
type Error struct {
	Op  string
	Dir string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("vcs %s %s: %v", e.Op, e.Dir, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) ExitCode() int { return 1 }

// Committer commits the whole working copy containing a directory.
type Committer struct {
	// Author overrides the signature read from git configuration.
	Author *object.Signature
	Now    func() time.Time
}

// CommitAll stages every change (additions, modifications and deletions) in
// the repository containing dir and records them as one commit.
func (c Committer) CommitAll(ctx context.Context, dir, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	repo, err := open(dir)
	if err != nil {
		return err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return &Error{Op: "worktree", Dir: dir, Err: err}
	}
	wt.Excludes = append(wt.Excludes, userExcludes()...)
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return &Error{Op: "add", Dir: dir, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	sig := c.signature(repo)
	if _, err := wt.Commit(message, &git.CommitOptions{Author: sig, Committer: sig}); err != nil {
		return &Error{Op: "commit", Dir: dir, Err: err}
	}
	return nil
}

// Head returns the commit hash HEAD points to, or "" for an unborn branch.
func Head(dir string) (string, error) {
	repo, err := open(dir)
	if err != nil {
		return "", err
	}
	ref, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return "", nil
	}
	if err != nil {
		return "", &Error{Op: "head", Dir: dir, Err: err}
	}
	return ref.Hash().String(), nil
}

// Clean reports whether the working copy has no staged or unstaged changes.
func Clean(dir string) (bool, error) {
	repo, err := open(dir)
	if err != nil {
		return false, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return false, &Error{Op: "worktree", Dir: dir, Err: err}
	}
	st, err := wt.Status()
	if err != nil {
		return false, &Error{Op: "status", Dir: dir, Err: err}
	}
	return st.IsClean(), nil
}

func open(dir string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, &Error{Op: "open", Dir: dir, Err: err}
	}
	return repo, nil
}

func (c Committer) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// signature resolves the author from, in order: the explicit Author, the
// GIT_AUTHOR_* environment, repository and global config, then a fixed
// fallback.
func (c Committer) signature(repo *git.Repository) *object.Signature {
	if c.Author != nil {
		sig := *c.Author
		if sig.When.IsZero() {
			sig.When = c.now()
		}
		return &sig
	}
	name, email := os.Getenv("GIT_AUTHOR_NAME"), os.Getenv("GIT_AUTHOR_EMAIL")
	if name == "" || email == "" {
		if cfg, err := repo.ConfigScoped(config.GlobalScope); err == nil {
			if name == "" {
				name = cfg.User.Name
			}
			if email == "" {
				email = cfg.User.Email
			}
		}
	}
	if name == "" {
		name = defaultAuthorName
	}
	if email == "" {
		email = defaultAuthorEmail
	}
	return &object.Signature{Name: name, Email: email, When: c.now()}
}

// userExcludes returns the ignore patterns git applies outside the work tree:
// core.excludesfile from the global and system config, or the XDG default
// ignore file when no global excludesfile is configured. Unreadable sources
// are skipped.
func userExcludes() []gitignore.Pattern {
	rootFS := osfs.New("/")
	var out []gitignore.Pattern
	global, _ := gitignore.LoadGlobalPatterns(rootFS)
	out = append(out, global...)
	if len(global) == 0 {
		out = append(out, xdgIgnorePatterns()...)
	}
	system, _ := gitignore.LoadSystemPatterns(rootFS)
	return append(out, system...)
}

func xdgIgnorePatterns() []gitignore.Pattern {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		base = filepath.Join(home, ".config")
	}
	data, err := os.ReadFile(filepath.Join(base, "git", "ignore"))
	if err != nil {
		return nil
	}
	var out []gitignore.Pattern
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, gitignore.ParsePattern(line, nil))
	}
	return out
}
