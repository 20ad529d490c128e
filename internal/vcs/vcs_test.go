package vcs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

var testAuthor = &object.Signature{
	Name:  "Test",
	Email: "test@example.com",
	When:  time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC),
}

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return dir
}

func TestHead_UnbornBranch(t *testing.T) {
	dir := initRepo(t)
	h, err := Head(dir)
	require.NoError(t, err)
	require.Equal(t, "", h)
}

func TestCommitAll_RecordsAdditionsModificationsAndDeletions(t *testing.T) {
	dir := initRepo(t)
	c := Committer{Author: testAuthor}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("v1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "drop.txt"), []byte("x\n"), 0o644))
	require.NoError(t, c.CommitAll(context.Background(), dir, "initial"))
	first, err := Head(dir)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("v2\n"), 0o644))
	require.NoError(t, os.Remove(filepath.Join(dir, "drop.txt")))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "new.txt"), []byte("n\n"), 0o644))

	// Commit from a subdirectory: the whole working copy is staged.
	require.NoError(t, c.CommitAll(context.Background(), filepath.Join(dir, "sub"), "Applied patch /tmp/x.patch"))

	clean, err := Clean(dir)
	require.NoError(t, err)
	require.True(t, clean)

	repo, err := git.PlainOpen(dir)
	require.NoError(t, err)
	ref, err := repo.Head()
	require.NoError(t, err)
	require.NotEqual(t, first, ref.Hash().String())
	commit, err := repo.CommitObject(ref.Hash())
	require.NoError(t, err)
	require.Equal(t, "Applied patch /tmp/x.patch", commit.Message)
	require.Equal(t, "Test", commit.Author.Name)
	require.Equal(t, plumbing.NewHash(first), commit.ParentHashes[0])

	tree, err := commit.Tree()
	require.NoError(t, err)
	_, err = tree.File("drop.txt")
	require.ErrorIs(t, err, object.ErrFileNotFound)
	f, err := tree.File("keep.txt")
	require.NoError(t, err)
	body, err := f.Contents()
	require.NoError(t, err)
	require.Equal(t, "v2\n", body)
}

func TestCommitAll_NotARepository(t *testing.T) {
	err := Committer{Author: testAuthor}.CommitAll(context.Background(), t.TempDir(), "m")
	var ve *Error
	require.True(t, errors.As(err, &ve), "got %v", err)
	require.Equal(t, "open", ve.Op)
	require.Equal(t, 1, ve.ExitCode())
}

func TestCommitAll_CancelledContext(t *testing.T) {
	dir := initRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, Committer{}.CommitAll(ctx, dir, "m"), context.Canceled)
}

func TestSignature_FallsBackWhenUnconfigured(t *testing.T) {
	dir := initRepo(t)
	t.Setenv("GIT_AUTHOR_NAME", "Env Name")
	t.Setenv("GIT_AUTHOR_EMAIL", "env@example.com")
	repo, err := git.PlainOpen(dir)
	require.NoError(t, err)
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	sig := Committer{Now: func() time.Time { return now }}.signature(repo)
	require.Equal(t, "Env Name", sig.Name)
	require.Equal(t, "env@example.com", sig.Email)
	require.True(t, sig.When.Equal(now))
}

func committedPaths(t *testing.T, dir string) []string {
	t.Helper()
	repo, err := git.PlainOpen(dir)
	require.NoError(t, err)
	ref, err := repo.Head()
	require.NoError(t, err)
	commit, err := repo.CommitObject(ref.Hash())
	require.NoError(t, err)
	tree, err := commit.Tree()
	require.NoError(t, err)
	var out []string
	require.NoError(t, tree.Files().ForEach(func(f *object.File) error {
		out = append(out, f.Name)
		return nil
	}))
	return out
}

func TestCommitAll_HonoursGlobalExcludesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	excludes := filepath.Join(home, "global-ignore")
	require.NoError(t, os.WriteFile(excludes, []byte("*.o\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".gitconfig"),
		[]byte("[core]\n\texcludesfile = "+excludes+"\n"), 0o644))

	dir := initRepo(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "a.txt"), []byte("a\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "artifact.o"), []byte("obj"), 0o644))

	require.NoError(t, Committer{Author: testAuthor}.CommitAll(context.Background(), dir, "m"))
	require.Equal(t, []string{"src/a.txt"}, committedPaths(t, dir))
}

func TestCommitAll_HonoursXDGIgnoreFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "xdg"))
	require.NoError(t, os.MkdirAll(filepath.Join(home, "xdg", "git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, "xdg", "git", "ignore"), []byte("# build output\n*.o\n"), 0o644))

	dir := initRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "artifact.o"), []byte("obj"), 0o644))

	require.NoError(t, Committer{Author: testAuthor}.CommitAll(context.Background(), dir, "m"))
	require.Equal(t, []string{"a.txt"}, committedPaths(t, dir))
}
