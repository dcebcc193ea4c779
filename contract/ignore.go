package contract

import (
	"fmt"
	"strings"

	"github.com/LegacyCodeHQ/fence/importgraph"
)

const (
	importArrow = "->"
	wildcard    = "*"
)

// ImportExpression names a direct import to ignore. Either side may contain
// "*" segments, each matching exactly one module name segment.
type ImportExpression struct {
	Importer string `json:"importer" yaml:"importer"`
	Imported string `json:"imported" yaml:"imported"`
}

// ParseImportExpression parses "importer -> imported".
func ParseImportExpression(s string) (ImportExpression, error) {
	importer, imported, ok := strings.Cut(s, importArrow)
	if !ok {
		return ImportExpression{}, fmt.Errorf("invalid import expression %q: expected \"importer -> imported\"", s)
	}

	expr := ImportExpression{
		Importer: strings.TrimSpace(importer),
		Imported: strings.TrimSpace(imported),
	}
	if expr.Importer == "" || expr.Imported == "" {
		return ImportExpression{}, fmt.Errorf("invalid import expression %q: importer and imported must not be empty", s)
	}
	if strings.Contains(expr.Imported, importArrow) {
		return ImportExpression{}, fmt.Errorf("invalid import expression %q: more than one %q", s, importArrow)
	}
	if strings.ContainsAny(expr.Importer+expr.Imported, " \t") {
		return ImportExpression{}, fmt.Errorf("invalid import expression %q: module names must not contain spaces", s)
	}
	return expr, nil
}

func (e ImportExpression) String() string {
	return fmt.Sprintf("%s %s %s", e.Importer, importArrow, e.Imported)
}

// HasWildcard reports whether either side contains a wildcard segment.
func (e ImportExpression) HasWildcard() bool {
	return strings.Contains(e.Importer, wildcard) || strings.Contains(e.Imported, wildcard)
}

// Matches reports whether the direct import imp is named by the expression.
func (e ImportExpression) Matches(imp importgraph.Import, separator string) bool {
	return matchModule(e.Importer, imp.Importer, separator) && matchModule(e.Imported, imp.Imported, separator)
}

func matchModule(pattern, module, separator string) bool {
	if !strings.Contains(pattern, wildcard) {
		return pattern == module
	}

	patternParts := strings.Split(pattern, separator)
	moduleParts := strings.Split(module, separator)
	if len(patternParts) != len(moduleParts) {
		return false
	}
	for i, part := range patternParts {
		if part != wildcard && part != moduleParts[i] {
			return false
		}
	}
	return true
}

// resolvedExpression pairs an expression with the concrete imports it names.
type resolvedExpression struct {
	expr    ImportExpression
	imports []importgraph.Import
}

// resolveImportExpressions expands wildcards against the graph's current edges.
// Expressions without wildcards resolve to themselves whether or not the edge exists.
func resolveImportExpressions(graph ImportGraph, exprs []ImportExpression) []resolvedExpression {
	var edges []importgraph.Import
	resolved := make([]resolvedExpression, 0, len(exprs))

	for _, expr := range exprs {
		if !expr.HasWildcard() {
			resolved = append(resolved, resolvedExpression{
				expr:    expr,
				imports: []importgraph.Import{{Importer: expr.Importer, Imported: expr.Imported}},
			})
			continue
		}

		if edges == nil {
			edges = graph.Edges()
		}
		r := resolvedExpression{expr: expr}
		for _, edge := range edges {
			if expr.Matches(edge, graph.Separator()) {
				r.imports = append(r.imports, edge)
			}
		}
		resolved = append(resolved, r)
	}

	return resolved
}

func flattenImports(resolved []resolvedExpression) []importgraph.Import {
	var imports []importgraph.Import
	for _, r := range resolved {
		imports = append(imports, r.imports...)
	}
	return imports
}

// unmatchedExpressions returns the expressions for which nothing was removed.
func unmatchedExpressions(resolved []resolvedExpression, removal *importgraph.Removal) []ImportExpression {
	var unmatched []ImportExpression
	for _, r := range resolved {
		matched := false
		for _, imp := range r.imports {
			if removal.Removed(imp) {
				matched = true
				break
			}
		}
		if !matched {
			unmatched = append(unmatched, r.expr)
		}
	}
	return unmatched
}
