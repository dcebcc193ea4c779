package report

import "strings"

// OutputFormat represents an output format type
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)

// String returns the string representation of the format
func (f OutputFormat) String() string {
	return string(f)
}

var outputFormats = []OutputFormat{OutputFormatText, OutputFormatJSON, OutputFormatYAML}

// ParseOutputFormat returns the format named by s.
func ParseOutputFormat(s string) (OutputFormat, bool) {
	for _, f := range outputFormats {
		if string(f) == strings.ToLower(s) {
			return f, true
		}
	}
	return "", false
}

// SupportedFormats returns the supported format names joined for help text.
func SupportedFormats() string {
	names := make([]string, len(outputFormats))
	for i, f := range outputFormats {
		names[i] = f.String()
	}
	return strings.Join(names, ", ")
}
