// Package version exposes build information, set via -ldflags at release
// time.
package version

import "fmt"

var (
	// Version is the semantic version of the build.
	Version = "dev"
	// Commit is the git commit the binary was built from.
	Commit = "unknown"
	// Date is the build timestamp.
	Date = "unknown"
)

// Info describes the running build.
type Info struct {
	Version string
	Commit  string
	Date    string
}

// Get returns the build information.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

func (i Info) String() string {
	return fmt.Sprintf("paramexport %s (commit %s, built %s)", i.Version, i.Commit, i.Date)
}
