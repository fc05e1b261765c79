package version

import (
	"fmt"
	"strings"
)

// Characters allowed in the appBuild metadata string.
const validCharacters = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-"

const (
	appMajor uint = 0
	appMinor uint = 1
	appPatch uint = 0
)

// appBuild is a variable so release builds can stamp it with
// '-ldflags "-X github.com/emberchain/emberd/version.appBuild=foo"'.
// Only characters from validCharacters are accepted.
var appBuild string

// version memoizes the formatted version string.
var version = ""

// Version returns the application version as a semver-style string, with the
// build metadata appended when present.
func Version() string {
	if version == "" {
		version = fmt.Sprintf("%d.%d.%d", appMajor, appMinor, appPatch)

		// Build metadata containing characters outside validCharacters
		// is dropped rather than emitted malformed.
		if build := sanitizeAppBuild(appBuild); build != "" {
			version = fmt.Sprintf("%s-%s", version, build)
		}
	}

	return version
}

func sanitizeAppBuild(str string) string {
	for _, r := range str {
		if !strings.ContainsRune(validCharacters, r) {
			return ""
		}
	}
	return str
}
