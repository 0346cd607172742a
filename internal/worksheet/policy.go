// Package worksheet validates SLODLC Discovery worksheets before their
// content is passed to a model.
package worksheet

// DefaultMaxFileSize caps worksheet files at 5 MB.
const DefaultMaxFileSize = 5 * 1024 * 1024

// DefaultExtensions defines the file extensions accepted as worksheets.
var DefaultExtensions = []string{".md"}

// DenyPattern pairs a content regexp with the reason reported on match.
type DenyPattern struct {
	Pattern string `yaml:"pattern"`
	Reason  string `yaml:"reason"`
}

// DefaultDenyPatterns defines content patterns that block a worksheet.
var DefaultDenyPatterns = []DenyPattern{
	{Pattern: `(?i)<script[^>]*>`, Reason: "Script tags detected"},
	{Pattern: `(?i)(exec|eval|system|subprocess|os\.system)`, Reason: "Executable code patterns detected"},
	{Pattern: `(?i)on\w+\s*=`, Reason: "JavaScript event handlers detected"},
	{Pattern: `(?i)data:text/html`, Reason: "Data URI with HTML content detected"},
	{Pattern: `(?i)data:[^;]+;base64,[A-Za-z0-9+/=]{100,}`, Reason: "Large base64 encoded content detected"},
}
