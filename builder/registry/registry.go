// Package registry maps configured language names to graph builders.
package registry

import (
	"fmt"
	"sort"

	"github.com/LegacyCodeHQ/fence/builder"
	"github.com/LegacyCodeHQ/fence/builder/golang"
	"github.com/LegacyCodeHQ/fence/builder/python"
	"github.com/LegacyCodeHQ/fence/vcs"
)

// DefaultLanguage is used when a configuration names no language.
const DefaultLanguage = "python"

// Source describes where a builder reads files from.
type Source struct {
	Dir string
	// Files restricts the build to these absolute paths; nil means walk Dir.
	Files         []string
	ContentReader vcs.ContentReader
}

// Module describes pluggable language support.
type Module interface {
	Name() string
	DisplayName() string
	Extensions() []string
	Separator() string
	Maturity() MaturityLevel
	NewBuilder(src Source) builder.GraphBuilder
}

type pythonModule struct{}

func (pythonModule) Name() string            { return "python" }
func (pythonModule) DisplayName() string     { return "Python" }
func (pythonModule) Extensions() []string    { return python.Extensions() }
func (pythonModule) Separator() string       { return "." }
func (pythonModule) Maturity() MaturityLevel { return MaturityActivelyTested }

func (pythonModule) NewBuilder(src Source) builder.GraphBuilder {
	return &python.Builder{Dir: src.Dir, Files: src.Files, ContentReader: src.ContentReader}
}

type goModule struct{}

func (goModule) Name() string            { return "go" }
func (goModule) DisplayName() string     { return "Go" }
func (goModule) Extensions() []string    { return golang.Extensions() }
func (goModule) Separator() string       { return golang.Separator }
func (goModule) Maturity() MaturityLevel { return MaturityBasicTests }

func (goModule) NewBuilder(src Source) builder.GraphBuilder {
	return &golang.Builder{Dir: src.Dir, Files: src.Files, ContentReader: src.ContentReader}
}

var modules = []Module{
	goModule{},
	pythonModule{},
}

// Modules returns supported language modules in deterministic order.
func Modules() []Module {
	return append([]Module(nil), modules...)
}

// Names returns the configuration names of all supported languages.
func Names() []string {
	names := make([]string, len(modules))
	for i, module := range modules {
		names[i] = module.Name()
	}
	return names
}

// ModuleForName returns the module registered under name.
// An empty name resolves to DefaultLanguage.
func ModuleForName(name string) (Module, error) {
	if name == "" {
		name = DefaultLanguage
	}
	for _, module := range modules {
		if module.Name() == name {
			return module, nil
		}
	}
	return nil, fmt.Errorf("unsupported language %q (supported: %v)", name, Names())
}

// SourceExtensions returns every extension read by any supported language, sorted.
func SourceExtensions() []string {
	seen := make(map[string]bool)
	for _, module := range modules {
		for _, ext := range module.Extensions() {
			seen[ext] = true
		}
	}
	extensions := make([]string, 0, len(seen))
	for ext := range seen {
		extensions = append(extensions, ext)
	}
	sort.Strings(extensions)
	return extensions
}
