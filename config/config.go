// Package config loads and validates fence configuration files.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/LegacyCodeHQ/fence/builder/registry"
	"github.com/LegacyCodeHQ/fence/contract"
)

// Config is the top-level configuration of a fence run.
// Field tags use mapstructure for viper unmarshalling and yaml for Save.
type Config struct {
	RootPackages            []string         `mapstructure:"root_packages" yaml:"root_packages"`
	IncludeExternalPackages bool             `mapstructure:"include_external_packages" yaml:"include_external_packages"`
	Language                string           `mapstructure:"language" yaml:"language"`
	Contracts               []ContractConfig `mapstructure:"contracts" yaml:"contracts"`
}

// ContractConfig declares one contract.
type ContractConfig struct {
	Name          string   `mapstructure:"name" yaml:"name"`
	Type          string   `mapstructure:"type" yaml:"type"`
	Modules       []string `mapstructure:"modules" yaml:"modules"`
	IgnoreImports []string `mapstructure:"ignore_imports" yaml:"ignore_imports,omitempty"`
}

// DefaultLanguage is the language assumed when none is configured.
const DefaultLanguage = registry.DefaultLanguage

// Sentinel errors for configuration validation.
var (
	// ErrInvalidConfig wraps every validation failure.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrNoConfig indicates no configuration file was found.
	ErrNoConfig = errors.New("no configuration found")
)

// Validate checks Config invariants and reports every problem found.
func (c *Config) Validate() error {
	var errs []error

	if len(c.RootPackages) == 0 {
		errs = append(errs, errors.New("root_packages must not be empty"))
	}
	for _, pkg := range c.RootPackages {
		if strings.TrimSpace(pkg) == "" {
			errs = append(errs, errors.New("root_packages must not contain empty names"))
			break
		}
	}

	if _, err := registry.ModuleForName(c.Language); err != nil {
		errs = append(errs, err)
	}

	if len(c.Contracts) == 0 {
		errs = append(errs, errors.New("contracts must not be empty"))
	}

	names := make(map[string]bool, len(c.Contracts))
	for i, cc := range c.Contracts {
		label := fmt.Sprintf("contracts[%d]", i)
		if cc.Name == "" {
			errs = append(errs, fmt.Errorf("%s: name is required", label))
		} else {
			label = fmt.Sprintf("contract %q", cc.Name)
			if names[cc.Name] {
				errs = append(errs, fmt.Errorf("%s: duplicate name", label))
			}
			names[cc.Name] = true
		}
		errs = append(errs, cc.validate(label)...)
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

func (cc ContractConfig) validate(label string) []error {
	var errs []error

	if !isKnownType(cc.Type) {
		errs = append(errs, fmt.Errorf("%s: unknown type %q (supported: %v)", label, cc.Type, contract.Types()))
	}

	seen := make(map[string]bool, len(cc.Modules))
	for _, module := range cc.Modules {
		if strings.TrimSpace(module) == "" {
			errs = append(errs, fmt.Errorf("%s: modules must not contain empty names", label))
			continue
		}
		if seen[module] {
			errs = append(errs, fmt.Errorf("%s: module %s listed more than once", label, module))
		}
		seen[module] = true
	}

	for _, expr := range cc.IgnoreImports {
		if _, err := contract.ParseImportExpression(expr); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", label, err))
		}
	}

	return errs
}

func isKnownType(t string) bool {
	for _, known := range contract.Types() {
		if string(known) == t {
			return true
		}
	}
	return false
}

// Definitions converts the validated contract declarations into contract definitions.
func (c *Config) Definitions() ([]contract.Definition, error) {
	defs := make([]contract.Definition, 0, len(c.Contracts))
	for _, cc := range c.Contracts {
		def := contract.Definition{
			Name: cc.Name,
			Type: contract.Type(cc.Type),
		}
		for _, module := range cc.Modules {
			def.Modules = append(def.Modules, contract.Module(module))
		}
		for _, raw := range cc.IgnoreImports {
			expr, err := contract.ParseImportExpression(raw)
			if err != nil {
				return nil, fmt.Errorf("contract %q: %w", cc.Name, err)
			}
			def.IgnoreImports = append(def.IgnoreImports, expr)
		}
		defs = append(defs, def)
	}
	return defs, nil
}
