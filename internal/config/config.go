// Package config loads the structured server description used by
// "mcserver config apply".
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/ISOnRM/minecraft-server/internal/errors"
	"github.com/ISOnRM/minecraft-server/internal/server"
)

// EnvPrefix prefixes environment overrides, e.g. MCSERVER_MEMORY_MAX.
const EnvPrefix = "MCSERVER"

// ServerConfig describes one server directory and what to do with it.
type ServerConfig struct {
	ServerDir  string           `mapstructure:"server_dir"`
	JavaPath   string           `mapstructure:"java_path"`
	Memory     MemoryConfig     `mapstructure:"memory"`
	Core       CoreConfig       `mapstructure:"core"`
	Plugins    []string         `mapstructure:"plugins"`
	Properties PropertiesConfig `mapstructure:"properties"`
	World      WorldConfig      `mapstructure:"world"`
	Start      bool             `mapstructure:"start"`
}

// MemoryConfig holds the heap limits in gigabytes.
type MemoryConfig struct {
	Min int `mapstructure:"min"`
	Max int `mapstructure:"max"`
}

// CoreConfig selects how the core is acquired. With neither set the newest
// core already in the directory is used.
type CoreConfig struct {
	URL   string      `mapstructure:"url"`
	Paper PaperConfig `mapstructure:"paper"`
}

// PaperConfig pins a Paper build; either field may be "latest".
type PaperConfig struct {
	Version string `mapstructure:"version"`
	Build   string `mapstructure:"build"`
}

// PropertiesConfig lists server.properties edits. Keys are lower-cased by
// the loader, which matches the vanilla property names.
type PropertiesConfig struct {
	Port   int               `mapstructure:"port"`
	Values map[string]string `mapstructure:"values"`
}

// WorldConfig names a world archive to restore before start.
type WorldConfig struct {
	Unpack string `mapstructure:"unpack"`
}

// DefaultConfig returns a ServerConfig with defaults for every optional key.
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		JavaPath: "java",
		Memory:   MemoryConfig{Min: 2, Max: 4},
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("server_dir", d.ServerDir)
	v.SetDefault("java_path", d.JavaPath)
	v.SetDefault("memory.min", d.Memory.Min)
	v.SetDefault("memory.max", d.Memory.Max)
	v.SetDefault("core.url", "")
	v.SetDefault("core.paper.version", "")
	v.SetDefault("core.paper.build", "")
	v.SetDefault("plugins", []string{})
	v.SetDefault("properties.port", 0)
	v.SetDefault("world.unpack", "")
	v.SetDefault("start", d.Start)
}

// Load reads path (JSON, YAML or TOML, chosen by extension), applies
// defaults and MCSERVER_* environment overrides, and validates the result.
func Load(path string) (*ServerConfig, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfig, path, err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfig, path, err)
	}

	var cfg ServerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfig, path, err)
	}
	return &cfg, nil
}

// Validate checks that all config values are valid and fills in the Paper
// build when only a version is given. Memory is only checked when the
// config starts the server.
func (c *ServerConfig) Validate() error {
	if c.ServerDir == "" {
		return fmt.Errorf("server_dir must be set")
	}
	if c.JavaPath == "" {
		return fmt.Errorf("java_path must not be empty")
	}
	if c.Start {
		// same rule server start applies: signs are dropped, min < max
		if _, err := server.NewMemory(c.Memory.Min, c.Memory.Max); err != nil {
			return err
		}
	}
	if c.Core.URL != "" && c.Core.Paper.Version != "" {
		return fmt.Errorf("core.url and core.paper are mutually exclusive")
	}
	if c.Core.Paper.Build != "" && c.Core.Paper.Version == "" {
		return fmt.Errorf("core.paper.build requires core.paper.version")
	}
	if c.Core.Paper.Version != "" && c.Core.Paper.Build == "" {
		c.Core.Paper.Build = "latest"
	}
	if c.Properties.Port != 0 && (c.Properties.Port < 1 || c.Properties.Port > 65535) {
		return fmt.Errorf("invalid port %d: must be 1-65535", c.Properties.Port)
	}
	for i, u := range c.Plugins {
		if strings.TrimSpace(u) == "" {
			return fmt.Errorf("plugins[%d] is empty", i)
		}
	}
	return nil
}
