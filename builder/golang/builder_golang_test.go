package golang

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/LegacyCodeHQ/fence/builder"
	"github.com/LegacyCodeHQ/fence/importgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGoMod = `module example.com/app

go 1.22

require (
	github.com/spf13/cobra v1.8.0
	golang.org/x/mod v0.20.0
)
`

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func sampleModule(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"go.mod": testGoMod,
		"main.go": `package main

import "example.com/app/internal/api"

func main() { api.Serve() }
`,
		"internal/api/api.go": `package api

import (
	"fmt"

	"example.com/app/internal/store"
	"github.com/spf13/cobra/doc"
)

func Serve() { fmt.Println(store.Name, doc.X) }
`,
		"internal/api/routes.go": `package api

import "example.com/app/internal/store"

var routes = store.Name
`,
		"internal/api/api_test.go": `package api

import "example.com/app/internal/testkit"
`,
		"internal/store/store.go": `package store

import "golang.org/x/mod/modfile"

var Name = modfile.File{}
`,
		"internal/testkit/testkit.go": "package testkit\n",
		"internal/testdata/fixture.go": `package fixture

import "example.com/app/internal/store"
`,
	})
	return dir
}

func TestBuild_PackagesAndImports(t *testing.T) {
	dir := sampleModule(t)
	b := &Builder{Dir: dir}

	g, err := b.Build([]string{"example.com/app/internal"}, false)
	require.NoError(t, err)

	assert.Equal(t, Separator, g.Separator())
	assert.Equal(t, []string{
		"example.com/app/internal/api",
		"example.com/app/internal/store",
		"example.com/app/internal/testkit",
	}, g.Modules())
	assert.Equal(t, []importgraph.Import{
		{Importer: "example.com/app/internal/api", Imported: "example.com/app/internal/store"},
	}, g.Edges())

	details := g.GetImportDetails("example.com/app/internal/api", "example.com/app/internal/store")
	require.Len(t, details, 2)
	assert.Equal(t, 6, details[0].LineNumber)
	assert.Equal(t, `"example.com/app/internal/store"`, details[0].LineContents)
	assert.Equal(t, 3, details[1].LineNumber)
}

func TestBuild_RootPackageIsWholeModule(t *testing.T) {
	dir := sampleModule(t)
	b := &Builder{Dir: dir}

	g, err := b.Build([]string{"example.com/app"}, false)
	require.NoError(t, err)

	assert.True(t, g.ContainsModule("example.com/app"))
	assert.True(t, g.DirectImportExists("example.com/app", "example.com/app/internal/api"))
}

func TestBuild_IncludeExternalPackages(t *testing.T) {
	dir := sampleModule(t)
	b := &Builder{Dir: dir}

	g, err := b.Build([]string{"example.com/app/internal"}, true)
	require.NoError(t, err)

	assert.True(t, g.DirectImportExists("example.com/app/internal/api", "fmt"))
	assert.True(t, g.DirectImportExists("example.com/app/internal/api", "github.com/spf13/cobra"))
	assert.True(t, g.DirectImportExists("example.com/app/internal/store", "golang.org/x/mod"))
	assert.False(t, g.ContainsModule("github.com/spf13/cobra/doc"))
}

func TestBuild_MissingGoMod(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"main.go": "package main\n"})

	_, err := (&Builder{Dir: dir}).Build([]string{"example.com/app"}, false)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBuild_SyntaxError(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"go.mod":         testGoMod,
		"pkg/broken.go":  "package pkg\n\nfunc {\n",
		"pkg/healthy.go": "package pkg\n",
	})

	_, err := (&Builder{Dir: dir}).Build([]string{"example.com/app"}, false)

	var syntaxErr *builder.SourceSyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, filepath.Join(dir, "pkg", "broken.go"), syntaxErr.Filename)
}

func TestBuild_UsesContentReader(t *testing.T) {
	dir := t.TempDir()
	sources := map[string]string{
		filepath.Join(dir, "go.mod"):        "module example.com/app\n",
		filepath.Join(dir, "a", "a.go"):     "package a\n\nimport \"example.com/app/b\"\n",
		filepath.Join(dir, "b", "b.go"):     "package b\n",
		filepath.Join(dir, "b", "b_test.go"): "package b\n\nimport \"example.com/app/a\"\n",
	}
	reader := func(path string) ([]byte, error) {
		content, ok := sources[path]
		if !ok {
			return nil, os.ErrNotExist
		}
		return []byte(content), nil
	}

	b := &Builder{
		Dir:           dir,
		Files:         []string{filepath.Join(dir, "a", "a.go"), filepath.Join(dir, "b", "b.go"), filepath.Join(dir, "b", "b_test.go")},
		ContentReader: reader,
	}

	g, err := b.Build([]string{"example.com/app"}, false)
	require.NoError(t, err)

	assert.Equal(t, []importgraph.Import{
		{Importer: "example.com/app/a", Imported: "example.com/app/b"},
	}, g.Edges())
}

func TestImportResolver_Squash(t *testing.T) {
	r := &importResolver{requiredModules: []string{"github.com/aws/aws-sdk-go-v2/service/s3", "github.com/aws/aws-sdk-go-v2"}}

	assert.Equal(t, "github.com/aws/aws-sdk-go-v2/service/s3", r.squash("github.com/aws/aws-sdk-go-v2/service/s3/types"))
	assert.Equal(t, "github.com/aws/aws-sdk-go-v2", r.squash("github.com/aws/aws-sdk-go-v2/aws"))
	assert.Equal(t, "net", r.squash("net/http"))
	assert.Equal(t, "example.org/unlisted/pkg", r.squash("example.org/unlisted/pkg"))
}
