package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"github.com/flarebyte/buildprep/internal/stager"
)

const CurrentConfigVersion = "1"

var SupportedConfigVersions = []string{CurrentConfigVersion}

func IsSupportedConfigVersion(v string) bool {
	for _, s := range SupportedConfigVersions {
		if v == s {
			return true
		}
	}
	return false
}

func SupportedConfigVersionsCSV() string {
	return strings.Join(SupportedConfigVersions, ", ")
}

// StagePlan is the stage-patch configuration read from a CUE file. Has*
// flags record which fields were present so command-line flags can be
// layered on top. Relative srcRoot, destRoot, patchFile and
// patchTargetFolder values are resolved against the plan file's directory,
// as patch series entries are. dirsToCopy entries stay relative to srcRoot.
//
//	{
//	  configVersion:     "1"
//	  srcRoot:           "third_party/lib"
//	  destRoot:          "out/gen/lib"
//	  patchFile:         "patches/lib.patch"
//	  patchTargetFolder: "out/gen/lib"
//	  dirsToCopy:        ["src", "include"] // or "src:include"
//	  excludeIgnored:    false
//	}
type StagePlan struct {
	ConfigVersion     string
	SrcRoot           string
	DestRoot          string
	PatchFile         string
	PatchTargetFolder string
	DirsToCopy        []string
	ExcludeIgnored    bool

	HasSrcRoot           bool
	HasDestRoot          bool
	HasPatchFile         bool
	HasPatchTargetFolder bool
	HasDirsToCopy        bool
	HasExcludeIgnored    bool
}

// LoadStagePlan validates and extracts a stage-patch plan from a CUE file.
// Required field: configVersion (string). Everything else is optional.
func LoadStagePlan(path string) (StagePlan, error) {
	v, err := compileCUE(path)
	if err != nil {
		return StagePlan{}, err
	}
	if err := requireStringField(v, "configVersion"); err != nil {
		return StagePlan{}, err
	}
	var p StagePlan
	if err := v.LookupPath(cue.ParsePath("configVersion")).Decode(&p.ConfigVersion); err != nil {
		return StagePlan{}, fmt.Errorf("invalid value for configVersion: %v", err)
	}
	if !IsSupportedConfigVersion(p.ConfigVersion) {
		return StagePlan{}, fmt.Errorf("unsupported configVersion: %q (supported: %s)", p.ConfigVersion, SupportedConfigVersionsCSV())
	}

	fields := []struct {
		name string
		dst  *string
		has  *bool
	}{
		{"srcRoot", &p.SrcRoot, &p.HasSrcRoot},
		{"destRoot", &p.DestRoot, &p.HasDestRoot},
		{"patchFile", &p.PatchFile, &p.HasPatchFile},
		{"patchTargetFolder", &p.PatchTargetFolder, &p.HasPatchTargetFolder},
	}
	base := filepath.Dir(path)
	for _, f := range fields {
		if err := optionalString(v, f.name, f.dst, f.has); err != nil {
			return StagePlan{}, err
		}
		if *f.has && *f.dst != "" && !filepath.IsAbs(*f.dst) {
			*f.dst = filepath.Join(base, *f.dst)
		}
	}
	if err := optionalBool(v, "excludeIgnored", &p.ExcludeIgnored, &p.HasExcludeIgnored); err != nil {
		return StagePlan{}, err
	}

	dv := v.LookupPath(cue.ParsePath("dirsToCopy"))
	if dv.Exists() {
		switch dv.Kind() {
		case cue.StringKind:
			var s string
			if err := dv.Decode(&s); err != nil {
				return StagePlan{}, fmt.Errorf("invalid value for dirsToCopy: %v", err)
			}
			p.DirsToCopy = stager.ParseCopySpec(s)
		case cue.ListKind:
			if err := dv.Decode(&p.DirsToCopy); err != nil {
				return StagePlan{}, fmt.Errorf("invalid value for dirsToCopy: %v", err)
			}
		default:
			return StagePlan{}, fmt.Errorf("invalid type for field: dirsToCopy (expected string or list)")
		}
		p.HasDirsToCopy = true
	}
	return p, nil
}
