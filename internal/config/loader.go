// Package config provides configuration loading, defaults, and validation for
// the MolCanon service.
package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix namespaces every environment override.
const envPrefix = "MOLCANON"

// newViper returns a viper instance wired for this service: YAML files,
// automatic MOLCANON_* env binding, and a "." to "_" key replacer so
// "database.host" resolves from MOLCANON_DATABASE_HOST.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// Load reads the YAML file at configPath with MOLCANON_* environment
// variables taking precedence, fills defaults, and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return finalize(v)
}

// LoadFromEnv builds a Config from MOLCANON_* environment variables alone.
// Container deployments that mount no config file use this path.
func LoadFromEnv() (*Config, error) {
	return finalize(newViper())
}

// MustLoad is Load for main(), where a config failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}

// finalize unmarshals the viper state, applies defaults, and validates.
func finalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch invokes onChange with a freshly parsed Config every time configPath
// changes on disk.  A change that fails to parse or validate is dropped
// rather than handed to the callback, so the running process never sees a
// broken config.  Only settings that are safe to change at runtime, such as
// the log level, should be applied from the callback.
//
// Watch returns immediately; viper owns the watching goroutine.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)

	// Watching needs an initial read; Load has already surfaced any error.
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := finalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
}
