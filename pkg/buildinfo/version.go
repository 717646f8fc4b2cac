// Package buildinfo exposes version information stamped in at link time:
//
//	go build -ldflags "-X github.com/matzehuels/sketchreveal/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/sketchreveal/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/sketchreveal/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String is a multi-line summary for `sketchreveal version` and the server
// banner.
func String() string {
	return fmt.Sprintf("sketchreveal %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// UserAgent identifies outgoing HTTP requests.
func UserAgent() string {
	return "sketchreveal/" + Version
}

// Template is the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (commit %s, built %s)\n", Version, Commit, Date)
}
