// Package golang builds import graphs of Go packages, keyed by import path.
package golang

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/LegacyCodeHQ/fence/builder"
	"github.com/LegacyCodeHQ/fence/importgraph"
	"github.com/LegacyCodeHQ/fence/vcs"
	"golang.org/x/mod/modfile"
)

// Separator separates the segments of Go package import paths.
const Separator = "/"

const (
	sourceExtension = ".go"
	testFileSuffix  = "_test.go"
	goModFile       = "go.mod"
)

// Extensions returns the file extensions the builder reads.
func Extensions() []string {
	return []string{sourceExtension}
}

// Builder builds a package graph of the Go module rooted at Dir.
// Root packages are import path prefixes such as "example.com/app/internal".
// Test files are not read.
type Builder struct {
	Dir string
	// Files are absolute source paths to consider; nil means every .go file under Dir.
	Files         []string
	ContentReader vcs.ContentReader
}

var _ builder.GraphBuilder = (*Builder)(nil)

// Build parses the non-test files of every package under the root packages.
// External imports are dropped unless includeExternalPackages is set, in which case
// each is squashed to its required module (or its first path element for the
// standard library).
func (b *Builder) Build(rootPackages []string, includeExternalPackages bool) (*importgraph.Graph, error) {
	absDir, err := filepath.Abs(b.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", b.Dir, err)
	}

	goModPath := filepath.Join(absDir, goModFile)
	goMod, err := b.readContent(goModPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", goModPath, err)
	}
	mod, err := modfile.ParseLax(goModPath, goMod, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", goModPath, err)
	}
	if mod.Module == nil || mod.Module.Mod.Path == "" {
		return nil, fmt.Errorf("%s has no module directive", goModPath)
	}

	files, err := b.sourceFiles(absDir)
	if err != nil {
		return nil, err
	}

	r := &importResolver{
		rootPackages:    rootPackages,
		includeExternal: includeExternalPackages,
		requiredModules: requiredModules(mod),
	}

	packages := packageFiles(absDir, mod.Module.Mod.Path, files)
	g := importgraph.New(importgraph.WithSeparator(Separator))

	for _, pkg := range sortedKeys(packages) {
		if !r.isInternal(pkg) {
			continue
		}
		if err := g.AddModule(pkg); err != nil {
			return nil, err
		}

		for _, file := range packages[pkg] {
			content, err := b.readContent(file)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", file, err)
			}

			imports, err := ParseImports(file, content)
			if err != nil {
				return nil, err
			}

			for _, imp := range imports {
				target, ok := r.target(imp.Path)
				if !ok || target == pkg {
					continue
				}
				detail := importgraph.ImportDetail{LineNumber: imp.LineNumber, LineContents: imp.LineContents}
				if err := g.AddImport(pkg, target, detail); err != nil {
					return nil, err
				}
			}
		}
	}

	return g, nil
}

func (b *Builder) sourceFiles(absDir string) ([]string, error) {
	if b.Files != nil {
		return b.Files, nil
	}
	files, err := vcs.ListFiles(absDir, sourceExtension)
	if err != nil {
		return nil, fmt.Errorf("failed to list Go files in %s: %w", absDir, err)
	}
	return files, nil
}

func (b *Builder) readContent(path string) ([]byte, error) {
	if b.ContentReader != nil {
		return b.ContentReader(path)
	}
	return vcs.FilesystemContentReader()(path)
}

// packageFiles groups non-test Go files by the import path of their directory.
func packageFiles(absDir, modulePath string, files []string) map[string][]string {
	packages := make(map[string][]string)
	for _, file := range files {
		if filepath.Ext(file) != sourceExtension || strings.HasSuffix(file, testFileSuffix) {
			continue
		}
		rel, err := filepath.Rel(absDir, filepath.Dir(file))
		if err != nil || strings.HasPrefix(rel, "..") || hasSkippedSegment(rel) {
			continue
		}

		importPath := modulePath
		if rel != "." {
			importPath = path.Join(modulePath, filepath.ToSlash(rel))
		}
		packages[importPath] = append(packages[importPath], file)
	}

	for _, files := range packages {
		sort.Strings(files)
	}
	return packages
}

func hasSkippedSegment(rel string) bool {
	for _, segment := range strings.Split(filepath.ToSlash(rel), "/") {
		if segment == "testdata" || strings.HasPrefix(segment, "_") || strings.HasPrefix(segment, ".") && segment != "." {
			return true
		}
	}
	return false
}

type importResolver struct {
	rootPackages    []string
	includeExternal bool
	requiredModules []string
}

func (r *importResolver) isInternal(importPath string) bool {
	for _, root := range r.rootPackages {
		if importPath == root || strings.HasPrefix(importPath, root+Separator) {
			return true
		}
	}
	return false
}

func (r *importResolver) target(importPath string) (string, bool) {
	if r.isInternal(importPath) {
		return importPath, true
	}
	if !r.includeExternal {
		return "", false
	}
	return r.squash(importPath), true
}

// squash maps an external import path to the module that provides it.
func (r *importResolver) squash(importPath string) string {
	for _, modPath := range r.requiredModules {
		if importPath == modPath || strings.HasPrefix(importPath, modPath+Separator) {
			return modPath
		}
	}

	first, _, _ := strings.Cut(importPath, Separator)
	if !strings.Contains(first, ".") {
		return first
	}
	return importPath
}

// requiredModules returns required module paths, longest first so nested modules win.
func requiredModules(mod *modfile.File) []string {
	paths := make([]string, 0, len(mod.Require))
	for _, req := range mod.Require {
		paths = append(paths, req.Mod.Path)
	}
	sort.Slice(paths, func(i, j int) bool {
		if len(paths[i]) != len(paths[j]) {
			return len(paths[i]) > len(paths[j])
		}
		return paths[i] < paths[j]
	})
	return paths
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
