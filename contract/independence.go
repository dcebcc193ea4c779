package contract

import (
	"fmt"
	"io"

	"github.com/LegacyCodeHQ/fence/importgraph"
)

// IndependenceContract checks that a set of modules do not depend on each other,
// directly or indirectly, in either direction. Each module stands for itself and
// all of its descendants.
type IndependenceContract struct {
	name          string
	modules       []Module
	ignoreImports []ImportExpression
}

var _ Contract = (*IndependenceContract)(nil)

// NewIndependenceContract creates an independence contract. Imports named in
// ignoreImports are treated as absent while checking.
func NewIndependenceContract(name string, modules []Module, ignoreImports []ImportExpression) *IndependenceContract {
	return &IndependenceContract{
		name:          name,
		modules:       append([]Module(nil), modules...),
		ignoreImports: append([]ImportExpression(nil), ignoreImports...),
	}
}

func (c *IndependenceContract) Name() string {
	return c.name
}

func (c *IndependenceContract) Type() Type {
	return TypeIndependence
}

// Modules returns the declared modules in declaration order.
func (c *IndependenceContract) Modules() []Module {
	return append([]Module(nil), c.modules...)
}

// Check reports every chain by which one declared module imports another.
// Ignored imports are removed from graph for the duration of the check and
// restored before Check returns, on every path.
func (c *IndependenceContract) Check(graph ImportGraph) (check *Check, err error) {
	resolved := resolveImportExpressions(graph, c.ignoreImports)

	removal, err := importgraph.RemoveImports(graph, flattenImports(resolved))
	if err != nil {
		return nil, fmt.Errorf("failed to remove ignored imports: %w", err)
	}
	defer func() {
		if restoreErr := removal.Restore(); restoreErr != nil && err == nil {
			check, err = nil, fmt.Errorf("failed to restore ignored imports: %w", restoreErr)
		}
	}()

	closures := make(map[Module][]Module, len(c.modules))
	for _, module := range c.modules {
		closure, err := subpackageClosure(graph, module)
		if err != nil {
			return nil, err
		}
		closures[module] = closure
	}

	check = &Check{}
	for _, pair := range orderedPairs(c.modules) {
		group := ViolationGroup{Downstream: pair.downstream, Upstream: pair.upstream}

		for _, importer := range closures[pair.downstream] {
			for _, imported := range closures[pair.upstream] {
				chain, err := graph.FindShortestChain(importer.String(), imported.String())
				if err != nil {
					return nil, fmt.Errorf("failed to find chain from %s to %s: %w", importer, imported, err)
				}
				if len(chain) < 2 {
					continue
				}
				group.Chains = append(group.Chains, chainDetails(graph, chain))
			}
		}

		if len(group.Chains) > 0 {
			check.InvalidChains = append(check.InvalidChains, group)
		}
	}

	check.Kept = len(check.InvalidChains) == 0
	check.UnmatchedIgnores = unmatchedExpressions(resolved, removal)
	return check, nil
}

// RenderBroken writes the violation report for a broken check.
func (c *IndependenceContract) RenderBroken(w io.Writer, check *Check) error {
	return renderInvalidChains(w, check.InvalidChains)
}

// subpackageClosure returns the module and all of its descendants that exist in graph.
func subpackageClosure(graph ImportGraph, module Module) ([]Module, error) {
	descendants, err := graph.FindDescendants(module.String())
	if err != nil {
		return nil, fmt.Errorf("failed to find descendants of %s: %w", module, err)
	}

	closure := make([]Module, 0, len(descendants)+1)
	if graph.ContainsModule(module.String()) {
		closure = append(closure, module)
	}
	for _, d := range descendants {
		closure = append(closure, Module(d))
	}
	return closure, nil
}

type modulePair struct {
	downstream Module
	upstream   Module
}

// orderedPairs returns the 2-permutations of modules in declaration order.
func orderedPairs(modules []Module) []modulePair {
	var pairs []modulePair
	for i, downstream := range modules {
		for j, upstream := range modules {
			if i != j {
				pairs = append(pairs, modulePair{downstream: downstream, upstream: upstream})
			}
		}
	}
	return pairs
}

func chainDetails(graph ImportGraph, chain []string) ImportChain {
	imports := make(ImportChain, 0, len(chain)-1)
	for i := 0; i < len(chain)-1; i++ {
		details := graph.GetImportDetails(chain[i], chain[i+1])
		lineNumbers := make([]int, 0, len(details))
		for _, d := range details {
			lineNumbers = append(lineNumbers, d.LineNumber)
		}
		imports = append(imports, DirectImport{
			Importer:    Module(chain[i]),
			Imported:    Module(chain[i+1]),
			LineNumbers: lineNumbers,
		})
	}
	return imports
}
