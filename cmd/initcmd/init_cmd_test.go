package initcmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/LegacyCodeHQ/fence/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func executeInit(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewCommand()
	cmd.SetArgs(args)

	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	return stdout.String(), err
}

func pythonProject(t *testing.T) string {
	return writeProject(t, map[string]string{
		"myapp/__init__.py":     "",
		"myapp/api/__init__.py": "",
		"myapp/api/views.py":    "",
		"myapp/db/__init__.py":  "",
		"myapp/utils.py":        "",
	})
}

func TestInitCommand_WritesStarterConfig(t *testing.T) {
	dir := pythonProject(t)

	output, err := executeInit(t, "-r", dir, "--root", "myapp")
	require.NoError(t, err)
	assert.Contains(t, output, "with 1 contract(s).")

	cfg, err := config.LoadConfig("", dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"myapp"}, cfg.RootPackages)
	assert.Equal(t, "python", cfg.Language)
	require.Len(t, cfg.Contracts, 1)
	assert.Equal(t, config.ContractConfig{
		Name:    "myapp subpackages are independent",
		Type:    "independence",
		Modules: []string{"myapp.api", "myapp.db", "myapp.utils"},
	}, cfg.Contracts[0])
}

func TestInitCommand_RefusesToOverwrite(t *testing.T) {
	dir := pythonProject(t)

	_, err := executeInit(t, "-r", dir, "--root", "myapp", "-q")
	require.NoError(t, err)

	_, err = executeInit(t, "-r", dir, "--root", "myapp", "-q")
	require.ErrorIs(t, err, config.ErrConfigExists)

	output, err := executeInit(t, "-r", dir, "--root", "myapp", "--force", "-q")
	require.NoError(t, err)
	assert.Empty(t, output)
}

func TestInitCommand_GoModule(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"go.mod":               "module example.com/app\n",
		"internal/a/a.go":      "package a\n",
		"internal/b/b.go":      "package b\n\nimport \"example.com/app/internal/a\"\n",
		"internal/b/b_test.go": "package b\n",
	})

	_, err := executeInit(t, "-r", dir, "--root", "example.com/app/internal", "--language", "go", "-q")
	require.NoError(t, err)

	cfg, err := config.LoadConfig("", dir)
	require.NoError(t, err)
	assert.Equal(t, "go", cfg.Language)
	assert.Equal(t, []string{"example.com/app/internal/a", "example.com/app/internal/b"}, cfg.Contracts[0].Modules)
}

func TestInitCommand_NothingToDeclare(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"myapp/__init__.py": "",
		"myapp/only.py":     "",
	})

	_, err := executeInit(t, "-r", dir, "--root", "myapp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "two or more subpackages")
	assert.NoFileExists(t, filepath.Join(dir, config.FileName))
}

func TestInitCommand_RequiresRoot(t *testing.T) {
	_, err := executeInit(t, "-r", t.TempDir())
	assert.Error(t, err)
}

func TestInitCommand_UnknownLanguage(t *testing.T) {
	_, err := executeInit(t, "--root", "myapp", "--language", "cobol")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported language "cobol"`)
}
