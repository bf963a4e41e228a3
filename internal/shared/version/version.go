// Package version reports the build version stamped in with -ldflags.
package version

import (
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/mod/semver"
)

// Set via -ldflags "-X finsim/internal/shared/version.Version=v1.2.3".
var (
	Version = "dev"
	Commit  = "unknown"
)

// Normalize ensures version string has "v" prefix for semver compatibility.
// Examples: "1.2.3" -> "v1.2.3", "v1.2.3" -> "v1.2.3"
func Normalize(version string) string {
	version = strings.TrimSpace(version)
	if version == "" {
		return ""
	}
	if !strings.HasPrefix(version, "v") {
		return "v" + version
	}
	return version
}

// IsRelease reports whether v is a valid semver release without prerelease
// or build suffixes.
func IsRelease(v string) bool {
	v = Normalize(v)
	return semver.IsValid(v) && semver.Prerelease(v) == "" && semver.Build(v) == ""
}

// String renders the version line printed by `finsim version`.
func String() string {
	v := Normalize(Version)
	if !semver.IsValid(v) {
		v = Version
	}
	kind := "development build"
	if IsRelease(v) {
		kind = "release"
	}
	return fmt.Sprintf("finsim %s (%s, commit %s, %s)", v, kind, Commit, runtime.Version())
}
