// Package buildinfo carries the version stamped into the depfetch binary.
//
// Release builds set the variables with the linker:
//
//	go build -ldflags "-X github.com/matzehuels/depfetch/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/depfetch/pkg/buildinfo.Commit=$(git rev-parse --short HEAD)" \
//	    ./cmd/depfetch
package buildinfo

import (
	"fmt"
	"runtime"
)

// Stamped by the linker; the defaults identify a local build.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent is sent with every repository request so repository managers
// can attribute traffic, e.g. "depfetch/v0.3.0 (linux/amd64)".
func UserAgent() string {
	return fmt.Sprintf("depfetch/%s (%s/%s)", Version, runtime.GOOS, runtime.GOARCH)
}

// Template is the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (commit %s, built %s, %s)\n", Version, Commit, Date, runtime.Version())
}
