// Package version carries build metadata injected at link time.
package version

import "fmt"

var (
	// Version is the semantic version of the binary, overridden via -ldflags "-X".
	Version = "0.1.0"
	// Commit is the git commit hash recorded at build time.
	Commit = "dev"
	// BuildDate is the build timestamp recorded at build time.
	BuildDate = "unknown"
)

// Full formats the version triple for --version output and logs.
func Full() string {
	return fmt.Sprintf("%s (commit:%s, built:%s)", Version, Commit, BuildDate)
}
