package version

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var versionContent string

// Get returns the embedded version string, with whitespace trimmed.
func Get() string {
	return strings.TrimSpace(versionContent)
}
