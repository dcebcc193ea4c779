package golang

import (
	"context"
	"fmt"
	"strings"

	"github.com/LegacyCodeHQ/fence/builder"
	sitter "github.com/smacker/go-tree-sitter"
	tsgolang "github.com/smacker/go-tree-sitter/golang"
)

// Import is one import spec of a Go file.
type Import struct {
	Path         string
	LineNumber   int
	LineContents string
}

const goImportQueryPattern = `
(import_spec
  path: (interpreted_string_literal) @import.path)
`

// ParseImports parses Go source code and extracts its import specs in source order.
// A file with syntax errors yields a *builder.SourceSyntaxError.
func ParseImports(filename string, sourceCode []byte) ([]Import, error) {
	lang := tsgolang.GetLanguage()

	parser := sitter.NewParser()
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(context.Background(), nil, sourceCode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Go code: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if syntaxErr := builder.FindSyntaxError(filename, root, sourceCode); syntaxErr != nil {
		return nil, syntaxErr
	}

	return queryGoImports(root, sourceCode)
}

// queryGoImports executes the import query and extracts import paths with their lines
func queryGoImports(rootNode *sitter.Node, sourceCode []byte) ([]Import, error) {
	query, err := sitter.NewQuery([]byte(goImportQueryPattern), tsgolang.GetLanguage())
	if err != nil {
		return nil, fmt.Errorf("failed to create query: %w", err)
	}
	defer query.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	cursor.Exec(query, rootNode)

	var imports []Import
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}

		match = cursor.FilterPredicates(match, sourceCode)

		for _, capture := range match.Captures {
			line := int(capture.Node.StartPoint().Row) + 1
			imports = append(imports, Import{
				Path:         cleanGoImportPath(capture.Node.Content(sourceCode)),
				LineNumber:   line,
				LineContents: builder.LineContents(sourceCode, line),
			})
		}
	}

	return imports, nil
}

// cleanGoImportPath removes quotes and trims whitespace from import paths
func cleanGoImportPath(raw string) string {
	return strings.TrimSpace(strings.Trim(raw, "`\""))
}
