package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".fence"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for fence settings.
const envPrefix = "FENCE"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise .fence.yaml is searched for in searchDir.
// A missing config file is reported as ErrNoConfig.
func LoadConfig(configPath, searchDir string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		if searchDir == "" {
			searchDir = "."
		}
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(searchDir)
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("%w in %s", ErrNoConfig, searchDir)
		}
		return nil, fmt.Errorf("read config: %w", readErr)
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config %s: %w", viperCfg.ConfigFileUsed(), validateErr)
	}

	return &cfg, nil
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("root_packages", []string{})
	viperCfg.SetDefault("include_external_packages", false)
	viperCfg.SetDefault("language", DefaultLanguage)
}
