// Package contract checks declared architectural contracts against an import graph.
package contract

import (
	"fmt"
	"io"

	"github.com/LegacyCodeHQ/fence/importgraph"
)

// ImportGraph is the graph contract that contract checks consume.
// Checks mutate the graph transiently, so it must not be shared with concurrent readers.
type ImportGraph interface {
	importgraph.EdgeEditor

	Separator() string
	ContainsModule(module string) bool
	Edges() []importgraph.Import
	FindDescendants(module string) ([]string, error)
	FindShortestChain(importer, imported string) ([]string, error)
}

// Module is a dotted name identifying a package or subpackage node.
type Module string

func (m Module) String() string {
	return string(m)
}

// DirectImport is one edge of an import chain with the source lines it occurs on.
type DirectImport struct {
	Importer    Module `json:"importer" yaml:"importer"`
	Imported    Module `json:"imported" yaml:"imported"`
	LineNumbers []int  `json:"line_numbers" yaml:"line_numbers"`
}

// ImportChain is a connected sequence of direct imports.
type ImportChain []DirectImport

// ViolationGroup collects every chain by which downstream imports upstream.
type ViolationGroup struct {
	Downstream Module        `json:"downstream_module" yaml:"downstream_module"`
	Upstream   Module        `json:"upstream_module" yaml:"upstream_module"`
	Chains     []ImportChain `json:"chains" yaml:"chains"`
}

// Check is the outcome of checking one contract.
type Check struct {
	Kept             bool               `json:"kept" yaml:"kept"`
	InvalidChains    []ViolationGroup   `json:"invalid_chains" yaml:"invalid_chains"`
	UnmatchedIgnores []ImportExpression `json:"unmatched_ignore_imports,omitempty" yaml:"unmatched_ignore_imports,omitempty"`
}

// Type names a contract variant.
type Type string

const (
	TypeIndependence Type = "independence"
)

// Types returns every supported contract type.
func Types() []Type {
	return []Type{TypeIndependence}
}

// Contract is a declared rule that an import graph either keeps or breaks.
type Contract interface {
	Name() string
	Type() Type
	Check(graph ImportGraph) (*Check, error)
	RenderBroken(w io.Writer, check *Check) error
}

// Definition is the validated, variant-neutral description of a contract.
type Definition struct {
	Name          string
	Type          Type
	Modules       []Module
	IgnoreImports []ImportExpression
}

// New builds the contract variant named by def.Type.
func New(def Definition) (Contract, error) {
	switch def.Type {
	case TypeIndependence:
		return NewIndependenceContract(def.Name, def.Modules, def.IgnoreImports), nil
	default:
		return nil, fmt.Errorf("unknown contract type %q for contract %q (valid options: %s)", def.Type, def.Name, TypeIndependence)
	}
}
