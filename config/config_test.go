package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LegacyCodeHQ/fence/config"
	"github.com/LegacyCodeHQ/fence/contract"
)

func validConfig() config.Config {
	return config.Config{
		RootPackages: []string{"myapp"},
		Language:     "python",
		Contracts: []config.ContractConfig{
			{
				Name:          "Feature modules are independent",
				Type:          "independence",
				Modules:       []string{"myapp.api", "myapp.db"},
				IgnoreImports: []string{"myapp.api.views -> myapp.db.models"},
			},
		},
	}
}

func TestValidate_ValidConfig_NoError(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	require.NoError(t, cfg.Validate())
}

func TestValidate_EmptyLanguageUsesDefault(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Language = ""
	require.NoError(t, cfg.Validate())
}

func TestValidate_EmptyModuleListAllowed(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Contracts[0].Modules = nil
	cfg.Contracts[0].IgnoreImports = nil
	require.NoError(t, cfg.Validate())
}

func TestValidate_InvalidConfigs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		message string
	}{
		{
			name:    "no root packages",
			mutate:  func(c *config.Config) { c.RootPackages = nil },
			message: "root_packages must not be empty",
		},
		{
			name:    "blank root package",
			mutate:  func(c *config.Config) { c.RootPackages = []string{" "} },
			message: "root_packages must not contain empty names",
		},
		{
			name:    "unknown language",
			mutate:  func(c *config.Config) { c.Language = "cobol" },
			message: `unsupported language "cobol"`,
		},
		{
			name:    "no contracts",
			mutate:  func(c *config.Config) { c.Contracts = nil },
			message: "contracts must not be empty",
		},
		{
			name:    "unnamed contract",
			mutate:  func(c *config.Config) { c.Contracts[0].Name = "" },
			message: "contracts[0]: name is required",
		},
		{
			name: "duplicate contract name",
			mutate: func(c *config.Config) {
				c.Contracts = append(c.Contracts, c.Contracts[0])
			},
			message: `contract "Feature modules are independent": duplicate name`,
		},
		{
			name:    "unknown type",
			mutate:  func(c *config.Config) { c.Contracts[0].Type = "layers" },
			message: `unknown type "layers"`,
		},
		{
			name:    "duplicate module",
			mutate:  func(c *config.Config) { c.Contracts[0].Modules = []string{"myapp.api", "myapp.api"} },
			message: "module myapp.api listed more than once",
		},
		{
			name:    "malformed ignore",
			mutate:  func(c *config.Config) { c.Contracts[0].IgnoreImports = []string{"myapp.api"} },
			message: `invalid import expression "myapp.api"`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.ErrorIs(t, err, config.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	t.Parallel()

	cfg := config.Config{
		Language: "cobol",
		Contracts: []config.ContractConfig{
			{Name: "a", Type: "unknown"},
		},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "root_packages must not be empty")
	assert.Contains(t, err.Error(), `unsupported language "cobol"`)
	assert.Contains(t, err.Error(), `unknown type "unknown"`)
}

func TestDefinitions(t *testing.T) {
	t.Parallel()

	cfg := validConfig()

	defs, err := cfg.Definitions()
	require.NoError(t, err)

	assert.Equal(t, []contract.Definition{
		{
			Name:    "Feature modules are independent",
			Type:    contract.TypeIndependence,
			Modules: []contract.Module{"myapp.api", "myapp.db"},
			IgnoreImports: []contract.ImportExpression{
				{Importer: "myapp.api.views", Imported: "myapp.db.models"},
			},
		},
	}, defs)
}
