package formatters

import (
	"fmt"
	"strings"

	"github.com/LegacyCodeHQ/fence/importgraph"
)

// MermaidFormatter formats import graphs as a Mermaid flowchart.
type MermaidFormatter struct{}

// Format converts the import graph to Mermaid flowchart syntax.
// Node ids are assigned in module order so output is stable.
func (f *MermaidFormatter) Format(g *importgraph.Graph, opts FormatOptions) (string, error) {
	var sb strings.Builder

	if opts.Label != "" {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("title: %s\n", opts.Label))
		sb.WriteString("---\n")
	}
	sb.WriteString("flowchart LR\n")

	ids := make(map[string]string)
	var highlighted []string
	for i, module := range g.Modules() {
		id := fmt.Sprintf("n%d", i)
		ids[module] = id
		sb.WriteString(fmt.Sprintf("  %s[%q]\n", id, module))
		if opts.Highlight[module] {
			highlighted = append(highlighted, id)
		}
	}

	for _, edge := range g.Edges() {
		label := lineLabel(g.GetImportDetails(edge.Importer, edge.Imported))
		if label == "" {
			sb.WriteString(fmt.Sprintf("  %s --> %s\n", ids[edge.Importer], ids[edge.Imported]))
			continue
		}
		sb.WriteString(fmt.Sprintf("  %s -->|%q| %s\n", ids[edge.Importer], label, ids[edge.Imported]))
	}

	if len(highlighted) > 0 {
		sb.WriteString(fmt.Sprintf("  classDef highlight fill:%s\n", highlightColor))
		sb.WriteString(fmt.Sprintf("  class %s highlight\n", strings.Join(highlighted, ",")))
	}

	return sb.String(), nil
}
