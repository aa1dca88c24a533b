// Package version exposes build metadata set via -ldflags.
package version

import "fmt"

// Set at build time:
//
//	go build -ldflags "-X github.com/rshade/nutriscan/pkg/version.version=v1.2.3 \
//	  -X github.com/rshade/nutriscan/pkg/version.gitCommit=$(git rev-parse --short HEAD)"
//
//nolint:gochecknoglobals // Populated by the linker.
var (
	version   = "0.1.0-dev"
	gitCommit = ""
	buildDate = ""
)

// GetVersion returns the semantic version.
func GetVersion() string {
	return version
}

// GetGitCommit returns the commit the binary was built from, if known.
func GetGitCommit() string {
	return gitCommit
}

// GetBuildDate returns the build timestamp, if known.
func GetBuildDate() string {
	return buildDate
}

// String renders the full version line.
func String() string {
	s := version
	if gitCommit != "" {
		s += fmt.Sprintf(" (%s)", gitCommit)
	}
	if buildDate != "" {
		s += " built " + buildDate
	}
	return s
}
