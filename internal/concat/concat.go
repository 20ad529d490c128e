// Package concat joins files in order.
package concat

import (
	"fmt"
	"io"
	"os"
)

// Files writes each input to output in order, each followed by a newline.
// The output is truncated first; no inputs yields an empty file.
func Files(output string, inputs []string) error {
	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("concat: create %s: %w", output, err)
	}
	if err := Write(out, inputs); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("concat: close %s: %w", output, err)
	}
	return nil
}

// Write streams the inputs to w.
func Write(w io.Writer, inputs []string) error {
	for _, p := range inputs {
		if err := appendFile(w, p); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return fmt.Errorf("concat: write: %w", err)
		}
	}
	return nil
}

func appendFile(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("concat: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("concat: copy %s: %w", path, err)
	}
	return nil
}
