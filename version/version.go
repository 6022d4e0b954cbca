// Package version records build information stamped in at link time via
// -ldflags "-X github.com/tsawler/bibrec/version.GitRelease=...".
package version

var (
	GitRelease    = "dev"
	GitCommit     = "unknown"
	GitCommitDate = "unknown"
)
