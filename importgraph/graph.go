// Package importgraph holds the directed module import graph that contracts are checked against.
package importgraph

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	graphlib "github.com/dominikbraun/graph"
)

// DefaultSeparator separates the segments of dotted module names.
const DefaultSeparator = "."

// ErrModuleNotFound is returned when a query names a module the graph does not contain.
var ErrModuleNotFound = errors.New("module not found in graph")

// ImportDetail is one source-level occurrence of a direct import.
type ImportDetail struct {
	Importer     string `json:"importer"`
	Imported     string `json:"imported"`
	LineNumber   int    `json:"line_number"`
	LineContents string `json:"line_contents"`
}

// Import identifies a direct import edge.
type Import struct {
	Importer string `json:"importer"`
	Imported string `json:"imported"`
}

func (i Import) String() string {
	return fmt.Sprintf("%s -> %s", i.Importer, i.Imported)
}

// Graph is a directed graph of module names. An edge importer -> imported
// carries the ordered list of places the import occurs.
//
// Graph is not safe for concurrent use.
type Graph struct {
	g         graphlib.Graph[string, string]
	separator string
}

// Option configures a Graph.
type Option func(*Graph)

// WithSeparator sets the module name separator used for descendant queries.
func WithSeparator(separator string) Option {
	return func(g *Graph) {
		g.separator = separator
	}
}

// New creates an empty Graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		g:         graphlib.New(graphlib.StringHash, graphlib.Directed()),
		separator: DefaultSeparator,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Separator returns the module name separator.
func (g *Graph) Separator() string {
	return g.separator
}

// AddModule adds a module node. Adding an existing module is a no-op.
func (g *Graph) AddModule(module string) error {
	if err := g.g.AddVertex(module); err != nil && !errors.Is(err, graphlib.ErrVertexAlreadyExists) {
		return fmt.Errorf("failed to add module %s: %w", module, err)
	}
	return nil
}

// ContainsModule reports whether module is a node of the graph.
func (g *Graph) ContainsModule(module string) bool {
	_, err := g.g.Vertex(module)
	return err == nil
}

// Modules returns all module names in sorted order.
func (g *Graph) Modules() []string {
	adjacency, err := g.g.AdjacencyMap()
	if err != nil {
		return nil
	}

	modules := make([]string, 0, len(adjacency))
	for module := range adjacency {
		modules = append(modules, module)
	}
	sort.Strings(modules)
	return modules
}

// AddImport records that importer imports imported, creating both modules if needed.
// Details are appended after any already recorded for the edge.
func (g *Graph) AddImport(importer, imported string, details ...ImportDetail) error {
	if err := g.AddModule(importer); err != nil {
		return err
	}
	if err := g.AddModule(imported); err != nil {
		return err
	}

	normalized := make([]ImportDetail, 0, len(details))
	for _, d := range details {
		d.Importer = importer
		d.Imported = imported
		normalized = append(normalized, d)
	}

	existing, err := g.g.Edge(importer, imported)
	if errors.Is(err, graphlib.ErrEdgeNotFound) {
		if err := g.g.AddEdge(importer, imported, graphlib.EdgeData(normalized)); err != nil {
			return fmt.Errorf("failed to add import %s -> %s: %w", importer, imported, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read import %s -> %s: %w", importer, imported, err)
	}
	if len(normalized) == 0 {
		return nil
	}

	merged := append(append([]ImportDetail(nil), edgeDetails(existing.Properties.Data)...), normalized...)
	if err := g.g.UpdateEdge(importer, imported, graphlib.EdgeData(merged)); err != nil {
		return fmt.Errorf("failed to update import %s -> %s: %w", importer, imported, err)
	}
	return nil
}

// RemoveImport removes the direct import edge. Removing an absent edge is a no-op.
func (g *Graph) RemoveImport(importer, imported string) error {
	err := g.g.RemoveEdge(importer, imported)
	if err != nil && !errors.Is(err, graphlib.ErrEdgeNotFound) {
		return fmt.Errorf("failed to remove import %s -> %s: %w", importer, imported, err)
	}
	return nil
}

// DirectImportExists reports whether importer directly imports imported.
func (g *Graph) DirectImportExists(importer, imported string) bool {
	_, err := g.g.Edge(importer, imported)
	return err == nil
}

// GetImportDetails returns a copy of the details recorded for a direct import,
// in the order they were added. It returns nil when the edge does not exist.
func (g *Graph) GetImportDetails(importer, imported string) []ImportDetail {
	edge, err := g.g.Edge(importer, imported)
	if err != nil {
		return nil
	}

	details := edgeDetails(edge.Properties.Data)
	if len(details) == 0 {
		return nil
	}
	return append([]ImportDetail(nil), details...)
}

// Edges returns every direct import, sorted by importer then imported.
func (g *Graph) Edges() []Import {
	edges, err := g.g.Edges()
	if err != nil {
		return nil
	}

	imports := make([]Import, 0, len(edges))
	for _, e := range edges {
		imports = append(imports, Import{Importer: e.Source, Imported: e.Target})
	}
	sort.Slice(imports, func(i, j int) bool {
		if imports[i].Importer != imports[j].Importer {
			return imports[i].Importer < imports[j].Importer
		}
		return imports[i].Imported < imports[j].Imported
	})
	return imports
}

// ModuleCount returns the number of modules.
func (g *Graph) ModuleCount() int {
	n, err := g.g.Order()
	if err != nil {
		return 0
	}
	return n
}

// ImportCount returns the number of direct import edges.
func (g *Graph) ImportCount() int {
	n, err := g.g.Size()
	if err != nil {
		return 0
	}
	return n
}

// FindChildren returns the modules exactly one level below module.
func (g *Graph) FindChildren(module string) []string {
	prefix := module + g.separator

	var children []string
	for _, candidate := range g.Modules() {
		rest, ok := strings.CutPrefix(candidate, prefix)
		if ok && rest != "" && !strings.Contains(rest, g.separator) {
			children = append(children, candidate)
		}
	}
	return children
}

// FindDescendants returns every module below module, in sorted order.
// A module that is not itself a node may still have descendants; only when
// there is neither the module nor anything below it is ErrModuleNotFound returned.
func (g *Graph) FindDescendants(module string) ([]string, error) {
	prefix := module + g.separator

	var descendants []string
	for _, candidate := range g.Modules() {
		if strings.HasPrefix(candidate, prefix) {
			descendants = append(descendants, candidate)
		}
	}

	if len(descendants) == 0 && !g.ContainsModule(module) {
		return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, module)
	}
	return descendants, nil
}

// FindShortestChain returns the modules along a path with the fewest imports
// from importer to imported, both ends included. It returns nil when imported is
// unreachable, or when importer and imported are the same module.
func (g *Graph) FindShortestChain(importer, imported string) ([]string, error) {
	for _, module := range []string{importer, imported} {
		if !g.ContainsModule(module) {
			return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, module)
		}
	}
	if importer == imported {
		return nil, nil
	}

	chain, err := graphlib.ShortestPath(g.g, importer, imported)
	if errors.Is(err, graphlib.ErrTargetNotReachable) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find chain %s -> %s: %w", importer, imported, err)
	}
	return chain, nil
}

// Copy returns an independent deep copy of the graph.
func (g *Graph) Copy() *Graph {
	clone := New(WithSeparator(g.separator))
	for _, module := range g.Modules() {
		_ = clone.AddModule(module)
	}
	for _, imp := range g.Edges() {
		_ = clone.AddImport(imp.Importer, imp.Imported, g.GetImportDetails(imp.Importer, imp.Imported)...)
	}
	return clone
}

func edgeDetails(data any) []ImportDetail {
	details, _ := data.([]ImportDetail)
	return details
}
