package version

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var raw string

// Get reports the release version recorded in the VERSION file.
func Get() string {
	return strings.TrimSpace(raw)
}
