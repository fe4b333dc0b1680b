// Package version reports the build of the escrituras binary. Release builds
// set the variables with -ldflags; other builds fall back to the VCS stamp
// the Go toolchain embeds.
package version

import (
	"fmt"
	"runtime/debug"
)

// These variables are set at build time via ldflags
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String returns the version string
func String() string {
	commit, built := Commit, BuildTime
	if info, ok := debug.ReadBuildInfo(); ok {
		commit, built = fromSettings(info.Settings, commit, built)
	}
	return fmt.Sprintf("escrituras %s (commit: %s, built: %s)", Version, short(commit), built)
}

// fromSettings fills the unknown values from the vcs.revision and vcs.time stamps.
func fromSettings(settings []debug.BuildSetting, commit, built string) (string, string) {
	for _, s := range settings {
		switch {
		case s.Key == "vcs.revision" && commit == "unknown":
			commit = s.Value
		case s.Key == "vcs.time" && built == "unknown":
			built = s.Value
		}
	}
	return commit, built
}

func short(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
