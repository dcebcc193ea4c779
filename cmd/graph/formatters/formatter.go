// Package formatters renders module import graphs.
package formatters

import (
	"fmt"

	"github.com/LegacyCodeHQ/fence/importgraph"
)

// FormatOptions contains optional parameters for formatting import graphs.
type FormatOptions struct {
	// Label is an optional title for the graph
	Label string
	// Highlight marks modules to draw emphasized
	Highlight map[string]bool
}

// Formatter is the interface that all graph formatters must implement.
type Formatter interface {
	// Format converts an import graph to a formatted string representation.
	Format(g *importgraph.Graph, opts FormatOptions) (string, error)
}

// NewFormatter creates a Formatter for the specified format type.
func NewFormatter(format string) (Formatter, error) {
	f, ok := ParseOutputFormat(format)
	if !ok {
		return nil, fmt.Errorf("unknown format: %s (valid options: %s)", format, SupportedFormats())
	}

	switch f {
	case OutputFormatJSON:
		return &JSONFormatter{}, nil
	case OutputFormatMermaid:
		return &MermaidFormatter{}, nil
	default:
		return &DOTFormatter{}, nil
	}
}

func lineLabel(details []importgraph.ImportDetail) string {
	label := ""
	for i, d := range details {
		if i > 0 {
			label += ", "
		}
		label += fmt.Sprintf("l.%d", d.LineNumber)
	}
	return label
}
