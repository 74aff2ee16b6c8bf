package version

// Version is the zipper release, set at build time with
// -ldflags "-X github.com/tinyzimmer/zipper/pkg/version.Version=..."
var Version = "0.0.0-dev"

// Commit is the git commit the binary was built from, set at build time.
var Commit = "unknown"
