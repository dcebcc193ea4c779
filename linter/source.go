package linter

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/LegacyCodeHQ/fence/builder"
	"github.com/LegacyCodeHQ/fence/builder/registry"
	"github.com/LegacyCodeHQ/fence/config"
	"github.com/LegacyCodeHQ/fence/vcs"
)

// NewSource describes the files under dir. With an empty commitID the working
// tree is read; otherwise files and contents come from that commit.
func NewSource(dir, commitID string, exts []string) (registry.Source, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return registry.Source{}, fmt.Errorf("failed to resolve path %s: %w", dir, err)
	}
	if commitID == "" {
		return registry.Source{Dir: absDir}, nil
	}

	repoRoot, err := vcs.GetRepositoryRoot(absDir)
	if err != nil {
		return registry.Source{}, err
	}
	if resolved, err := filepath.EvalSymlinks(absDir); err == nil {
		absDir = resolved
	}

	treeFiles, err := vcs.GetCommitTreeFiles(repoRoot, commitID)
	if err != nil {
		return registry.Source{}, err
	}

	wanted := make(map[string]bool, len(exts))
	for _, ext := range exts {
		wanted[ext] = true
	}

	files := make([]string, 0, len(treeFiles))
	for _, file := range treeFiles {
		if !wanted[filepath.Ext(file)] {
			continue
		}
		rel, err := filepath.Rel(absDir, file)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if inSkippedDir(rel) {
			continue
		}
		files = append(files, file)
	}

	return registry.Source{
		Dir:           absDir,
		Files:         files,
		ContentReader: vcs.GitCommitContentReader(repoRoot, commitID),
	}, nil
}

func inSkippedDir(rel string) bool {
	parts := strings.Split(filepath.Dir(rel), string(filepath.Separator))
	for _, part := range parts {
		if vcs.IsSkippedDir(part) {
			return true
		}
	}
	return false
}

// NewBuilder returns the graph builder for cfg's language reading from dir at commitID.
func NewBuilder(cfg *config.Config, dir, commitID string) (builder.GraphBuilder, error) {
	module, err := registry.ModuleForName(cfg.Language)
	if err != nil {
		return nil, err
	}
	src, err := NewSource(dir, commitID, module.Extensions())
	if err != nil {
		return nil, err
	}
	return module.NewBuilder(src), nil
}
