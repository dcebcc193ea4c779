// Package python builds import graphs of Python packages.
package python

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/LegacyCodeHQ/fence/builder"
	"github.com/LegacyCodeHQ/fence/importgraph"
	"github.com/LegacyCodeHQ/fence/vcs"
)

const (
	sourceExtension = ".py"
	initFile        = "__init__.py"
)

// Extensions returns the file extensions the builder reads.
func Extensions() []string {
	return []string{sourceExtension}
}

// Builder builds a graph of dotted module names from Python sources under Dir.
// A root package "myapp" is the directory Dir/myapp or the module Dir/myapp.py.
type Builder struct {
	Dir string
	// Files are absolute source paths to consider; nil means every .py file under Dir.
	Files         []string
	ContentReader vcs.ContentReader
}

var _ builder.GraphBuilder = (*Builder)(nil)

type moduleFile struct {
	name      string
	path      string
	isPackage bool
}

// Build parses every module of the root packages and records their imports.
// Imports of other top-level packages are dropped, or squashed into a single
// node per top-level package when includeExternalPackages is set.
func (b *Builder) Build(rootPackages []string, includeExternalPackages bool) (*importgraph.Graph, error) {
	for _, root := range rootPackages {
		if root == "" || strings.Contains(root, importgraph.DefaultSeparator) {
			return nil, fmt.Errorf("invalid root package %q: must be a top-level package name", root)
		}
	}

	files, err := b.sourceFiles()
	if err != nil {
		return nil, err
	}

	modules, err := b.indexModules(files, rootPackages)
	if err != nil {
		return nil, err
	}

	g := importgraph.New()
	known := make(map[string]bool)
	for _, m := range modules {
		for _, name := range withAncestors(m.name) {
			if err := g.AddModule(name); err != nil {
				return nil, err
			}
			known[name] = true
		}
	}

	r := &importResolver{
		known:           known,
		rootPackages:    toSet(rootPackages),
		includeExternal: includeExternalPackages,
	}

	for _, m := range sortedModules(modules) {
		content, err := b.readContent(m.path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", m.path, err)
		}

		imports, err := ParseImports(m.path, content)
		if err != nil {
			return nil, err
		}

		for _, imp := range imports {
			for _, target := range r.resolve(m, imp) {
				detail := importgraph.ImportDetail{LineNumber: imp.LineNumber, LineContents: imp.LineContents}
				if err := g.AddImport(m.name, target, detail); err != nil {
					return nil, err
				}
			}
		}
	}

	return g, nil
}

func (b *Builder) sourceFiles() ([]string, error) {
	if b.Files != nil {
		return b.Files, nil
	}
	files, err := vcs.ListFiles(b.Dir, sourceExtension)
	if err != nil {
		return nil, fmt.Errorf("failed to list Python files in %s: %w", b.Dir, err)
	}
	return files, nil
}

func (b *Builder) readContent(path string) ([]byte, error) {
	if b.ContentReader != nil {
		return b.ContentReader(path)
	}
	return vcs.FilesystemContentReader()(path)
}

func (b *Builder) indexModules(files []string, rootPackages []string) (map[string]moduleFile, error) {
	absDir, err := filepath.Abs(b.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", b.Dir, err)
	}
	roots := toSet(rootPackages)

	modules := make(map[string]moduleFile)
	for _, file := range files {
		if filepath.Ext(file) != sourceExtension {
			continue
		}
		rel, err := filepath.Rel(absDir, file)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}

		name, isPackage, ok := moduleNameForPath(rel)
		if !ok || !roots[topLevel(name)] {
			continue
		}
		modules[name] = moduleFile{name: name, path: file, isPackage: isPackage}
	}

	return modules, nil
}

// moduleNameForPath maps "a/b/c.py" to "a.b.c" and "a/b/__init__.py" to "a.b".
func moduleNameForPath(rel string) (string, bool, bool) {
	parts := strings.Split(filepath.ToSlash(rel), "/")
	last := parts[len(parts)-1]

	isPackage := last == initFile
	if isPackage {
		parts = parts[:len(parts)-1]
	} else {
		parts[len(parts)-1] = strings.TrimSuffix(last, sourceExtension)
	}
	if len(parts) == 0 {
		return "", false, false
	}
	for _, part := range parts {
		if part == "" || strings.ContainsAny(part, ".- ") {
			return "", false, false
		}
	}
	return strings.Join(parts, "."), isPackage, true
}

type importResolver struct {
	// known holds every module and namespace package of the root packages.
	known           map[string]bool
	rootPackages    map[string]bool
	includeExternal bool
}

// resolve returns the graph modules that imp in importer refers to.
func (r *importResolver) resolve(importer moduleFile, imp Import) []string {
	base, ok := r.absoluteModule(importer, imp)
	if !ok {
		return nil
	}

	var candidates []string
	if len(imp.Names) == 0 {
		candidates = append(candidates, base)
	}
	for _, name := range imp.Names {
		candidates = append(candidates, base+"."+name)
	}

	seen := make(map[string]bool)
	var targets []string
	for _, candidate := range candidates {
		target, ok := r.target(candidate)
		if !ok || target == importer.name || seen[target] {
			continue
		}
		seen[target] = true
		targets = append(targets, target)
	}
	return targets
}

func (r *importResolver) absoluteModule(importer moduleFile, imp Import) (string, bool) {
	level := imp.Level()
	if level == 0 {
		return imp.Module, true
	}

	pkg := importer.name
	if !importer.isPackage {
		pkg = parent(pkg)
	}
	for i := 1; i < level; i++ {
		pkg = parent(pkg)
	}
	if pkg == "" {
		return "", false
	}

	if rest := imp.Module[level:]; rest != "" {
		return pkg + "." + rest, true
	}
	return pkg, true
}

// target maps a dotted name to the nearest module that exists, or to the squashed
// external package.
func (r *importResolver) target(name string) (string, bool) {
	top := topLevel(name)
	if !r.rootPackages[top] {
		if r.includeExternal && top != "" {
			return top, true
		}
		return "", false
	}

	for candidate := name; candidate != ""; candidate = parent(candidate) {
		if r.known[candidate] {
			return candidate, true
		}
	}
	return "", false
}

func withAncestors(name string) []string {
	var names []string
	for candidate := name; candidate != ""; candidate = parent(candidate) {
		names = append(names, candidate)
	}
	return names
}

func parent(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return ""
	}
	return name[:i]
}

func topLevel(name string) string {
	top, _, _ := strings.Cut(name, ".")
	return top
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func sortedModules(modules map[string]moduleFile) []moduleFile {
	result := make([]moduleFile, 0, len(modules))
	for _, m := range modules {
		result = append(result, m)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].name < result[j].name })
	return result
}
