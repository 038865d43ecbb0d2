// Package version holds build-time version information.
package version

import "fmt"

// Version is set with -ldflags at build time:
// go build -ldflags "-X git.home.luguber.info/inful/docmatrix/internal/version.Version=v1.0.0".
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String is the one-line form printed by --version.
func String() string {
	return fmt.Sprintf("docmatrix %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
