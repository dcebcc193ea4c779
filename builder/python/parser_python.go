package python

import (
	"context"
	"fmt"
	"strings"

	"github.com/LegacyCodeHQ/fence/builder"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Import is one import statement target found in a Python file.
type Import struct {
	// Module is the imported module as written, e.g. "a.b" or "..a" for relative imports.
	Module string
	// Names are the names listed after "from ... import"; empty for plain imports and wildcards.
	Names        []string
	LineNumber   int
	LineContents string
}

// Level returns the number of leading dots of a relative import, or 0.
func (i Import) Level() int {
	return len(i.Module) - len(strings.TrimLeft(i.Module, "."))
}

// ParseImports parses Python source code and extracts its imports in source order.
// A file with syntax errors yields a *builder.SourceSyntaxError.
func ParseImports(filename string, sourceCode []byte) ([]Import, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, sourceCode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Python code: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if syntaxErr := builder.FindSyntaxError(filename, root, sourceCode); syntaxErr != nil {
		return nil, syntaxErr
	}

	return extractImportsFromTree(root, sourceCode), nil
}

// extractImportsFromTree walks the tree and extracts imports, including ones nested
// in functions and conditionals.
func extractImportsFromTree(rootNode *sitter.Node, sourceCode []byte) []Import {
	var imports []Import

	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}

		switch n.Type() {
		case "import_statement":
			line := int(n.StartPoint().Row) + 1
			for _, module := range extractImportStatementModules(n, sourceCode) {
				imports = append(imports, Import{
					Module:       module,
					LineNumber:   line,
					LineContents: builder.LineContents(sourceCode, line),
				})
			}
			return
		case "import_from_statement":
			line := int(n.StartPoint().Row) + 1
			module, names := extractImportFrom(n, sourceCode)
			if module != "" {
				imports = append(imports, Import{
					Module:       module,
					Names:        names,
					LineNumber:   line,
					LineContents: builder.LineContents(sourceCode, line),
				})
			}
			return
		case "future_import_statement":
			return
		}

		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}

	walk(rootNode)
	return imports
}

func extractImportStatementModules(node *sitter.Node, sourceCode []byte) []string {
	var modules []string
	for i := 0; i < int(node.ChildCount()); i++ {
		if module := importedName(node.Child(i), sourceCode); module != "" {
			modules = append(modules, module)
		}
	}
	return modules
}

// extractImportFrom returns the module of a from-import and the names it imports.
func extractImportFrom(node *sitter.Node, sourceCode []byte) (string, []string) {
	var module string
	var names []string
	afterImport := false

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		if child.Type() == "import" {
			afterImport = true
			continue
		}
		if !afterImport {
			switch child.Type() {
			case "relative_import", "dotted_name":
				module = strings.TrimSpace(child.Content(sourceCode))
			}
			continue
		}
		if name := importedName(child, sourceCode); name != "" {
			names = append(names, name)
		}
	}

	return module, names
}

func importedName(node *sitter.Node, sourceCode []byte) string {
	if node == nil {
		return ""
	}
	switch node.Type() {
	case "dotted_name":
		return strings.TrimSpace(node.Content(sourceCode))
	case "aliased_import":
		if name := node.ChildByFieldName("name"); name != nil {
			return strings.TrimSpace(name.Content(sourceCode))
		}
	}
	return ""
}
