// Package version provides centralized version information for adaptive.
// The cache schema tag is derived from Version, so bumping it invalidates
// every persisted detection result.
package version

// These variables can be overridden at build time using ldflags:
// go build -ldflags "-X adaptive/internal/version.Version=1.0.0 -X adaptive/internal/version.Commit=abc123"
var (
	// Version is the semantic version of adaptive
	Version = "0.7.0-beta"

	// Commit is the git commit hash (set at build time)
	Commit = "unknown"

	// BuildDate is the build timestamp (set at build time)
	BuildDate = "unknown"
)

// CacheSchema returns the tag embedded in every cache key and entry.
func CacheSchema() string {
	return Version
}

// Info returns a formatted version string
func Info() string {
	if Commit != "unknown" && len(Commit) > 7 {
		return Version + " (" + Commit[:7] + ")"
	}
	return Version
}

// Full returns complete version information
func Full() string {
	return "adaptive version " + Version + "\n" +
		"Commit: " + Commit + "\n" +
		"Built: " + BuildDate
}
