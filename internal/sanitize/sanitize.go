// Package sanitize scrubs prompt injection attempts from worksheet text
// before it is embedded in a model prompt.
package sanitize

import (
	"regexp"
	"strings"
)

// injectionPatterns match instruction override phrasing and chat role
// markers. Matches are removed outright, not escaped.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(previous|above|all)\s+(instructions|prompts|rules)`),
	regexp.MustCompile(`(?i)forget\s+(everything|all|previous)`),
	regexp.MustCompile(`(?i)you\s+are\s+now`),
	regexp.MustCompile(`(?i)system\s*:\s*`),
	regexp.MustCompile(`(?i)assistant\s*:\s*`),
	regexp.MustCompile(`(?i)user\s*:\s*`),
}

var blankRuns = regexp.MustCompile(`\n{10,}`)

// Scrub removes injection phrasing, backtick fences, and long runs of
// blank lines from worksheet text, then trims surrounding whitespace.
func Scrub(text string) string {
	if text == "" {
		return ""
	}
	out := text
	for _, re := range injectionPatterns {
		out = re.ReplaceAllString(out, "")
	}
	out = strings.ReplaceAll(out, "```", "")
	out = blankRuns.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}
