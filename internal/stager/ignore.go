package stager

import (
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	gitgitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

type ignoreMatcher struct {
	m gitgitignore.Matcher
}

// newIgnoreMatcher reads every .gitignore under root. Unreadable files are
// skipped; a tree without ignore files yields a matcher that never matches.
func newIgnoreMatcher(root string) *ignoreMatcher {
	patterns, err := gitgitignore.ReadPatterns(osfs.New(root), nil)
	if err != nil || len(patterns) == 0 {
		return &ignoreMatcher{}
	}
	return &ignoreMatcher{m: gitgitignore.NewMatcher(patterns)}
}

// match reports whether absolute path p under root is ignored.
func (im *ignoreMatcher) match(root, p string, isDir bool) bool {
	if im == nil || im.m == nil {
		return false
	}
	rel, err := filepath.Rel(root, p)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}
	return im.m.Match(strings.Split(filepath.ToSlash(rel), "/"), isDir)
}
