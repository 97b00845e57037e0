// Package version reports the idserver build version.
package version

import (
	"fmt"
	"runtime/debug"
)

var (
	// Set with ldflags:
	//  -ldflags "-X 'github.com/reoring/idjson/internal/version.Version=v0.1.0' -X '...GitCommit=abc123'"
	Version   string
	GitCommit string
)

// String returns "<version>@<commit>", falling back to the module build info
// when no version was linked in.
func String() string {
	v := Version
	if v == "" {
		v = "devel"
		if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			v = bi.Main.Version
		}
	}
	if GitCommit == "" {
		return v
	}
	return fmt.Sprintf("%s@%s", v, GitCommit)
}
