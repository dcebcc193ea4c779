// Package builder defines how import graphs are built from source trees.
package builder

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/LegacyCodeHQ/fence/importgraph"
	sitter "github.com/smacker/go-tree-sitter"
)

// GraphBuilder builds an import graph for the given root packages.
type GraphBuilder interface {
	Build(rootPackages []string, includeExternalPackages bool) (*importgraph.Graph, error)
}

// SourceSyntaxError reports a source file that could not be parsed.
type SourceSyntaxError struct {
	Filename   string
	LineNumber int
	Text       string
}

func (e *SourceSyntaxError) Error() string {
	return fmt.Sprintf("syntax error in %s, line %d: %s", e.Filename, e.LineNumber, e.Text)
}

// FindSyntaxError returns the first error or missing node in a parsed tree, or nil.
func FindSyntaxError(filename string, root *sitter.Node, source []byte) *SourceSyntaxError {
	if root == nil || !root.HasError() {
		return nil
	}

	node := firstErrorNode(root)
	if node == nil {
		node = root
	}
	line := int(node.StartPoint().Row) + 1
	return &SourceSyntaxError{
		Filename:   filename,
		LineNumber: line,
		Text:       LineContents(source, line),
	}
}

func firstErrorNode(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || !(child.HasError() || child.IsMissing()) {
			continue
		}
		if found := firstErrorNode(child); found != nil {
			return found
		}
	}
	return nil
}

// LineContents returns the trimmed text of the 1-based line in source.
func LineContents(source []byte, line int) string {
	lines := bytes.Split(source, []byte("\n"))
	if line < 1 || line > len(lines) {
		return ""
	}
	return strings.TrimSpace(string(lines[line-1]))
}
