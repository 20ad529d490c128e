package stager

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// copyTree merges src into dst. Existing destination files are overwritten.
// Symlinks are followed and their targets copied; a dangling link is an
// error. root is the staging source root, used to evaluate ignore rules.
func copyTree(src, dst, root string, ignore *ignoreMatcher) error {
	return copyTreeSeen(src, dst, root, ignore, map[string]bool{})
}

func copyTreeSeen(src, dst, root string, ignore *ignoreMatcher, seen map[string]bool) error {
	real, err := filepath.EvalSymlinks(src)
	if err != nil {
		return err
	}
	if seen[real] {
		return fmt.Errorf("symlink loop at %s", src)
	}
	seen[real] = true
	defer delete(seen, real)

	return filepath.WalkDir(real, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(real, p)
		if err != nil {
			return err
		}
		logical := filepath.Join(src, rel)
		if ignore != nil && p != real && ignore.match(root, logical, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		out := filepath.Join(dst, rel)
		info, err := os.Stat(p)
		if err != nil {
			return err
		}
		switch {
		case info.IsDir() && d.Type()&fs.ModeSymlink != 0:
			return copyTreeSeen(logical, out, root, ignore, seen)
		case info.IsDir():
			if err := os.MkdirAll(out, 0o755); err != nil {
				return err
			}
			return os.Chmod(out, info.Mode().Perm()|0o700)
		case info.Mode().IsRegular():
			return copyFile(p, out, info)
		default:
			return nil
		}
	})
}

// copyFile copies content, permission bits and modification time.
func copyFile(src, dst string, info fs.FileInfo) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	// Replace rather than truncate so read-only destinations are handled.
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm()|0o200)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}
	mt := info.ModTime()
	return os.Chtimes(dst, mt, mt)
}
