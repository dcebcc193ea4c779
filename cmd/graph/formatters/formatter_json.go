package formatters

import (
	"encoding/json"

	"github.com/LegacyCodeHQ/fence/importgraph"
)

// JSONFormatter formats import graphs as JSON.
type JSONFormatter struct{}

type jsonGraph struct {
	Label   string       `json:"label,omitempty"`
	Modules []string     `json:"modules"`
	Imports []jsonImport `json:"imports"`
}

type jsonImport struct {
	Importer    string `json:"importer"`
	Imported    string `json:"imported"`
	LineNumbers []int  `json:"line_numbers,omitempty"`
}

// Format converts the import graph to JSON with modules and imports in sorted order.
func (f *JSONFormatter) Format(g *importgraph.Graph, opts FormatOptions) (string, error) {
	out := jsonGraph{
		Label:   opts.Label,
		Modules: g.Modules(),
		Imports: []jsonImport{},
	}
	if out.Modules == nil {
		out.Modules = []string{}
	}

	for _, edge := range g.Edges() {
		imp := jsonImport{Importer: edge.Importer, Imported: edge.Imported}
		for _, d := range g.GetImportDetails(edge.Importer, edge.Imported) {
			imp.LineNumbers = append(imp.LineNumbers, d.LineNumber)
		}
		out.Imports = append(out.Imports, imp)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}
