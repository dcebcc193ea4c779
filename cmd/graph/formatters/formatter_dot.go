package formatters

import (
	"fmt"
	"strings"

	"github.com/LegacyCodeHQ/fence/importgraph"
)

const highlightColor = "lightcoral"

// DOTFormatter formats import graphs as Graphviz DOT.
type DOTFormatter struct{}

// Format converts the import graph to Graphviz DOT format.
func (f *DOTFormatter) Format(g *importgraph.Graph, opts FormatOptions) (string, error) {
	var sb strings.Builder
	sb.WriteString("digraph imports {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=box];\n")

	if opts.Label != "" {
		sb.WriteString(fmt.Sprintf("  label=%q;\n", opts.Label))
		sb.WriteString("  labelloc=t;\n")
		sb.WriteString("  labeljust=l;\n")
	}
	sb.WriteString("\n")

	for _, module := range g.Modules() {
		if opts.Highlight[module] {
			sb.WriteString(fmt.Sprintf("  %q [style=filled, fillcolor=%s];\n", module, highlightColor))
			continue
		}
		sb.WriteString(fmt.Sprintf("  %q;\n", module))
	}

	edges := g.Edges()
	if len(edges) > 0 {
		sb.WriteString("\n")
	}
	for _, edge := range edges {
		label := lineLabel(g.GetImportDetails(edge.Importer, edge.Imported))
		if label == "" {
			sb.WriteString(fmt.Sprintf("  %q -> %q;\n", edge.Importer, edge.Imported))
			continue
		}
		sb.WriteString(fmt.Sprintf("  %q -> %q [label=%q];\n", edge.Importer, edge.Imported, label))
	}

	sb.WriteString("}\n")
	return sb.String(), nil
}
