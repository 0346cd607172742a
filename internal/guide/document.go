package guide

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// RequiredSections lists the headings every generated guide must cover.
var RequiredSections = []string{
	"Service Overview",
	"SLI Definitions",
	"SLO Targets",
	"Error Budgets",
	"Implementation Steps",
	"Monitoring and Alerting",
	"Validation and Testing",
	"Maintenance and Review",
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05") + " UTC"
}

// FormatDocument wraps generated guide content in a complete Markdown
// document with a metadata header. A short headingless first line is
// promoted to the document's main heading.
func FormatDocument(content, serviceName, platform string, now time.Time) string {
	header := fmt.Sprintf("# SLO Implementation Guide\n\n**Service:** %s  \n**Observability Platform:** %s  \n**Generated:** %s  \n**Methodology:** SLODLC (SLO Development Lifecycle)\n\n---\n\n",
		serviceName, platform, formatTimestamp(now))

	cleaned := strings.TrimSpace(content)
	if cleaned != "" && !strings.HasPrefix(cleaned, "#") {
		firstLine, _, _ := strings.Cut(cleaned, "\n")
		if firstLine != "" && len(firstLine) < 100 {
			rest := strings.TrimLeftFunc(cleaned[len(firstLine):], unicode.IsSpace)
			cleaned = "# " + firstLine + "\n\n" + rest
		}
	}

	doc := header + cleaned
	if !strings.HasSuffix(doc, "\n") {
		doc += "\n"
	}
	return doc
}

// MissingSections reports which required sections a guide does not mention.
func MissingSections(doc string) []string {
	var missing []string
	for _, section := range RequiredSections {
		if !strings.Contains(doc, section) {
			missing = append(missing, section)
		}
	}
	return missing
}

// FormatErrorDocument builds the Markdown error report written in place of
// a guide when generation fails.
func FormatErrorDocument(errorMessage, serviceName, errorDetails string, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# SLO Implementation Guide Generation Error\n\n**Service:** %s\n**Timestamp:** %s\n\n## Error\n\n%s\n\n",
		serviceName, formatTimestamp(now), errorMessage)
	if errorDetails != "" {
		fmt.Fprintf(&b, "## Error Details\n\n```\n%s\n```\n\n", errorDetails)
	}
	b.WriteString("## Next Steps\n\nPlease review the error above and:\n1. Check that your Discovery worksheet is properly formatted\n2. Verify that all required fields are provided\n3. Ensure the file is a valid Markdown document\n4. Try again or contact support if the issue persists\n\n")
	return b.String()
}
