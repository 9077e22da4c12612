// FILE: src/internal/version/version.go
package version

import "fmt"

var (
	// Version is set at compile time via -ldflags
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
	// AppName identifies this binary in its own version string, distinct
	// from Config.AppName which tags the uploaded object keys.
	AppName = "logship"
)

// Returns a formatted version string
func String() string {
	if Version == "dev" {
		return fmt.Sprintf("%s dev (commit: %s, built: %s)", AppName, GitCommit, BuildTime)
	}
	return fmt.Sprintf("%s %s (commit: %s, built: %s)", AppName, Version, GitCommit, BuildTime)
}

// Returns just the version tag
func Short() string {
	return Version
}