package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that override external tool locations.
const (
	EnvGit   = "BUILDPREP_GIT"
	EnvPatch = "BUILDPREP_PATCH"
	EnvLd    = "BUILDPREP_LD"
)

// Tools names the external executables.
type Tools struct {
	Git   string
	Patch string
	Ld    string
}

func DefaultTools() Tools {
	return Tools{Git: "git", Patch: "patch", Ld: "ld"}
}

// LoadTools resolves tool locations from the process environment, falling
// back to envFile (dotenv format, optional) and then to defaults. The
// process environment always wins over the file.
func LoadTools(envFile string) (Tools, error) {
	fileVals := map[string]string{}
	if envFile != "" {
		m, err := godotenv.Read(envFile)
		if err != nil {
			return Tools{}, fmt.Errorf("failed to read env file: %w", err)
		}
		fileVals = m
	}
	lookup := func(key, def string) string {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v
		}
		if v := fileVals[key]; v != "" {
			return v
		}
		return def
	}
	d := DefaultTools()
	return Tools{
		Git:   lookup(EnvGit, d.Git),
		Patch: lookup(EnvPatch, d.Patch),
		Ld:    lookup(EnvLd, d.Ld),
	}, nil
}
