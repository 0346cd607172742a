package guide

import (
	"regexp"
	"strings"
)

var (
	nonFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)
	hyphenRuns       = regexp.MustCompile(`-+`)
)

// ServiceSlug reduces a service name to a lowercase filename-safe slug.
// Names with no usable characters become "service".
func ServiceSlug(serviceName string) string {
	s := nonFilenameChars.ReplaceAllString(serviceName, "-")
	s = hyphenRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		s = "service"
	}
	return strings.ToLower(s)
}

// OutputFilename returns the conventional guide filename for a service:
// {slug}-slo-implementation-guide.md, with an -ERROR suffix for error
// documents.
func OutputFilename(serviceName string, isError bool) string {
	slug := ServiceSlug(serviceName)
	if isError {
		return slug + "-slo-implementation-guide-ERROR.md"
	}
	return slug + "-slo-implementation-guide.md"
}
