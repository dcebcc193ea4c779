// Package buildertest provides GraphBuilder doubles for tests that don't want to parse source.
package buildertest

import (
	"github.com/LegacyCodeHQ/fence/builder"
	"github.com/LegacyCodeHQ/fence/importgraph"
)

// BuildArguments are the arguments a builder was last called with.
type BuildArguments struct {
	RootPackages            []string
	IncludeExternalPackages bool
}

// FakeBuilder returns an injected graph instead of building one.
// Without an injected graph it returns an empty graph.
type FakeBuilder struct {
	graph *importgraph.Graph

	// BuildArguments holds the arguments of the last Build call, or nil.
	BuildArguments *BuildArguments
}

var _ builder.GraphBuilder = (*FakeBuilder)(nil)

// InjectGraph sets the graph that Build returns.
func (b *FakeBuilder) InjectGraph(g *importgraph.Graph) {
	b.graph = g
}

func (b *FakeBuilder) Build(rootPackages []string, includeExternalPackages bool) (*importgraph.Graph, error) {
	b.BuildArguments = &BuildArguments{
		RootPackages:            append([]string(nil), rootPackages...),
		IncludeExternalPackages: includeExternalPackages,
	}
	if b.graph == nil {
		return importgraph.New(), nil
	}
	return b.graph, nil
}

// ErrorBuilder fails every build with Err.
type ErrorBuilder struct {
	Err error
}

var _ builder.GraphBuilder = ErrorBuilder{}

func (b ErrorBuilder) Build([]string, bool) (*importgraph.Graph, error) {
	return nil, b.Err
}
