// Package version holds build-time version information.
// The variables are overridden at build time via -ldflags.
package version

import (
	"fmt"
	"runtime"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// Short returns only the version number.
func Short() string {
	return Version
}

// Info returns detailed version information for display.
func Info() string {
	return fmt.Sprintf("mdllama %s\n  commit: %s\n  built:  %s\n  go:     %s",
		Version, Commit, BuildTime, runtime.Version())
}
