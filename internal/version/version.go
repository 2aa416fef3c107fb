// Package version exposes build metadata stamped in via -ldflags.
package version

import "fmt"

// Overridden at build time, for example:
//
//	go build -ldflags "-X whiteboard-studio/internal/version.Version=1.2.0"
var (
	// Version is the release version.
	Version = "0.1.0"

	// BuildTime is when the binary was built, UTC.
	BuildTime = "unknown"

	// GitCommit is the abbreviated commit the binary was built from.
	GitCommit = "unknown"
)

// String returns the version, with the commit when one was stamped in.
func String() string {
	if GitCommit == "unknown" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, GitCommit)
}
