package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Series is an ordered list of patches for sync-patch.
//
//	patches:
//	  - 0001-fix-build.patch
//	  - 0002-disable-tests.patch
type Series struct {
	Patches []string `yaml:"patches"`
}

// LoadSeries reads a YAML series manifest. Relative patch paths are
// resolved against the manifest's directory.
func LoadSeries(path string) (Series, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Series{}, fmt.Errorf("failed to read series: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	var s Series
	if err := dec.Decode(&s); err != nil {
		return Series{}, fmt.Errorf("invalid series: %v", err)
	}
	if len(s.Patches) == 0 {
		return Series{}, errors.New("invalid series: no patches listed")
	}
	base := filepath.Dir(path)
	for i, p := range s.Patches {
		if p == "" {
			return Series{}, fmt.Errorf("invalid series: empty patch entry at index %d", i)
		}
		if !filepath.IsAbs(p) {
			s.Patches[i] = filepath.Join(base, p)
		}
	}
	return s, nil
}
