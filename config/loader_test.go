package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LegacyCodeHQ/fence/config"
)

const sampleConfig = `root_packages: [myapp]
contracts:
  - name: Feature modules are independent
    type: independence
    modules: [myapp.api, myapp.db]
    ignore_imports:
      - myapp.api.views -> myapp.db.models
`

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig_SearchesDirectory(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".fence.yaml", sampleConfig)

	cfg, err := config.LoadConfig("", dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"myapp"}, cfg.RootPackages)
	assert.Equal(t, config.DefaultLanguage, cfg.Language)
	assert.False(t, cfg.IncludeExternalPackages)
	require.Len(t, cfg.Contracts, 1)
	assert.Equal(t, "Feature modules are independent", cfg.Contracts[0].Name)
	assert.Equal(t, []string{"myapp.api", "myapp.db"}, cfg.Contracts[0].Modules)
	assert.Equal(t, []string{"myapp.api.views -> myapp.db.models"}, cfg.Contracts[0].IgnoreImports)
}

func TestLoadConfig_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "contracts.yaml", sampleConfig+"language: go\ninclude_external_packages: true\n")

	cfg, err := config.LoadConfig(path, "")
	require.NoError(t, err)

	assert.Equal(t, "go", cfg.Language)
	assert.True(t, cfg.IncludeExternalPackages)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".fence.yaml", sampleConfig)
	t.Setenv("FENCE_INCLUDE_EXTERNAL_PACKAGES", "true")

	cfg, err := config.LoadConfig("", dir)
	require.NoError(t, err)

	assert.True(t, cfg.IncludeExternalPackages)
}

func TestLoadConfig_NotFound(t *testing.T) {
	_, err := config.LoadConfig("", t.TempDir())
	assert.ErrorIs(t, err, config.ErrNoConfig)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, config.ErrNoConfig)
}

func TestLoadConfig_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".fence.yaml", "root_packages: []\ncontracts: []\n")

	_, err := config.LoadConfig("", dir)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".fence.yaml", "root_packages: [myapp\n")

	_, err := config.LoadConfig("", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}
