package vcs

import (
	"io/fs"
	"os"
	"path/filepath"
)

// ContentReader is a function that reads file content given a file path.
// This allows the caller to control how files are read (filesystem, git, etc.)
type ContentReader func(filePath string) ([]byte, error)

// FilesystemContentReader returns a ContentReader that reads files from disk.
func FilesystemContentReader() ContentReader {
	return os.ReadFile
}

var skippedDirs = map[string]bool{
	".git":          true,
	".hg":           true,
	".venv":         true,
	"venv":          true,
	"node_modules":  true,
	"__pycache__":   true,
	".mypy_cache":   true,
	".pytest_cache": true,
	".tox":          true,
	"vendor":        true,
}

// IsSkippedDir reports whether a directory with the given base name is never scanned for sources.
func IsSkippedDir(name string) bool {
	return skippedDirs[name]
}

// ListFiles walks root and returns the absolute paths of all files whose extension is in exts.
// Tool and VCS directories are skipped.
func ListFiles(root string, exts ...string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(exts))
	for _, ext := range exts {
		wanted[ext] = true
	}

	var files []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if path != absRoot && IsSkippedDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if len(wanted) == 0 || wanted[filepath.Ext(path)] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}
