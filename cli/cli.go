// Package cli carries version metadata injected by external build scripts.
package cli

// Version and Date should be set at build time using ldflags, e.g.:
//
//	-ldflags "-X 'github.com/flarebyte/buildprep/cli.Version=1.2.3' -X 'github.com/flarebyte/buildprep/cli.Date=2026-10-19'"
var (
	Version string
	Date    string
)
