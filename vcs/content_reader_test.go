package vcs

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListFiles_FiltersByExtensionAndSkipsToolDirs(t *testing.T) {
	dir := resolvedTempDir(t)
	createFile(t, dir, "myapp/__init__.py", "")
	createFile(t, dir, "myapp/api/views.py", "")
	createFile(t, dir, "myapp/README.md", "")
	createFile(t, dir, "myapp/__pycache__/views.cpython-312.py", "")
	createFile(t, dir, ".venv/lib/site.py", "")

	files, err := ListFiles(dir, ".py")
	require.NoError(t, err)
	sort.Strings(files)

	assert.Equal(t, []string{
		filepath.Join(dir, "myapp", "__init__.py"),
		filepath.Join(dir, "myapp", "api", "views.py"),
	}, files)
}

func TestListFiles_NoExtensionsReturnsEverything(t *testing.T) {
	dir := resolvedTempDir(t)
	createFile(t, dir, "a.go", "")
	createFile(t, dir, "go.mod", "")

	files, err := ListFiles(dir)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestFilesystemContentReader(t *testing.T) {
	dir := resolvedTempDir(t)
	path := createFile(t, dir, "a.py", "import os\n")

	content, err := FilesystemContentReader()(path)
	require.NoError(t, err)
	assert.Equal(t, "import os\n", string(content))
}
