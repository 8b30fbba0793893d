// Package app provides the core application structure for the combicalc CLI.
// It handles application lifecycle, operation dispatching, and version management.
package app

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strings"
)

// Build-time variables set via -ldflags:
//
//	go build -ldflags="-X github.com/agbru/combicalc/internal/app.Version=v0.3.0 -X github.com/agbru/combicalc/internal/app.Commit=abc123 -X github.com/agbru/combicalc/internal/app.BuildDate=2026-01-01T00:00:00Z" ./cmd/combicalc
var (
	// Version is the semantic version of the application.
	Version = "dev"
	// Commit is the short Git commit hash.
	Commit = "unknown"
	// BuildDate is the ISO 8601 timestamp of the build.
	BuildDate = "unknown"
)

// HasVersionFlag reports whether args request the version, in any position
// before a "--" terminator (e.g. "combicalc -server --version").
func HasVersionFlag(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "--":
			return false
		case "--version", "-version", "-V":
			return true
		}
	}
	return false
}

// VersionData is the version information of the running binary.
type VersionData struct {
	Version   string   `json:"version"`
	Commit    string   `json:"commit"`
	BuildDate string   `json:"build_date"`
	GoVersion string   `json:"go_version"`
	OS        string   `json:"os"`
	Arch      string   `json:"arch"`
	Counters  []string `json:"counters"`
}

// GetVersionInfo returns the version information, listing the given
// registered counters.
func GetVersionInfo(counters []string) VersionData {
	return VersionData{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		Counters:  counters,
	}
}

// PrintVersion writes the version information, as indented JSON when
// asJSON is set.
//
// Parameters:
//   - out: The writer to output version information to.
//   - counters: The registered counter names. Builds with the gmp tag list
//     "gmp" here.
//   - asJSON: Selects JSON output.
func PrintVersion(out io.Writer, counters []string, asJSON bool) error {
	info := GetVersionInfo(counters)
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}
	_, err := fmt.Fprintf(out, "combicalc %s\n  Commit:     %s\n  Built:      %s\n  Go version: %s\n  OS/Arch:    %s/%s\n  Counters:   %s\n",
		info.Version, info.Commit, info.BuildDate, info.GoVersion, info.OS, info.Arch, strings.Join(info.Counters, ", "))
	return err
}
