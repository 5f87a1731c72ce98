// Package version reports the build version.
package version

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Current is overridden at build time:
//
//	go build -ldflags "-X adpilot/internal/shared/version.Current=1.4.0"
var Current = "dev"

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

// IsRelease reports whether v is a semantic version rather than a
// development build label such as "dev".
func IsRelease(v string) bool {
	return semver.IsValid(Normalize(v))
}

// Display returns the canonical form of Current, or Current unchanged for
// development builds.
func Display() string {
	if !IsRelease(Current) {
		return Current
	}
	return semver.Canonical(Normalize(Current))
}
