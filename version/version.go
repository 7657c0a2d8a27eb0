// Package version holds the release version of the adapter.
//
// This package should not import any other pg-fdw packages.
package version

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// The main version number that is being run at the moment.
var fdwVersion = "0.1.0"

// A pre-release marker for the version. If this is "" (empty string)
// then it means that it is a final release. Otherwise, this is a pre-release
// such as "dev" (in development), "beta", "rc1", etc.
var prerelease = "dev"

// FdwVersion is an instance of semver.Version, parsed at init so a malformed
// version fails fast.
var FdwVersion *semver.Version

var VersionString string

func init() {
	VersionString = fdwVersion
	if prerelease != "" {
		VersionString = fmt.Sprintf("%s-%s", fdwVersion, prerelease)
	}
	FdwVersion = semver.MustParse(VersionString)
}

// IsPrerelease reports whether this build carries a pre-release marker.
func IsPrerelease() bool {
	return FdwVersion.Prerelease() != ""
}
