// Package config loads the metaobjects project configuration from
// metaobjects.yml (or .yaml) in the working directory, with environment
// variable overrides.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the metaobjects project configuration.
type Config struct {
	ProjectName string         `mapstructure:"project_name"`
	Sources     []string       `mapstructure:"sources"`
	Generate    GenerateConfig `mapstructure:"generate"`
	Server      ServerConfig   `mapstructure:"server"`
}

// GenerateConfig configures code generation.
type GenerateConfig struct {
	Output     string   `mapstructure:"output"`
	Generators []string `mapstructure:"generators"`
}

// ServerConfig configures the introspection API server.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Load reads metaobjects.yml from the current directory. A missing file
// yields the defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8800)
	v.SetDefault("generate.output", "generated")
	v.SetDefault("generate.generators", []string{"jsonschema"})

	v.SetConfigName("metaobjects")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
