// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/ranaumarnadeem/opentestability/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/ranaumarnadeem/opentestability/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/ranaumarnadeem/opentestability/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// When they are not set, Version and Commit fall back to the module and
// VCS information embedded by the Go toolchain.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// AnalysisVersion identifies the analysis algorithms. It is part of every
// cache key, so bumping it invalidates cached reports.
const AnalysisVersion = "1"

var (
	// Version is the semantic version (e.g., "v1.2.3").
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision" && Commit == "none":
			Commit = s.Value
		case s.Key == "vcs.time" && Date == "unknown":
			Date = s.Value
		}
	}
}

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
