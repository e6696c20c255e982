// Package config provides configuration types, defaults, and persistence for keyreg.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/zjrosen/keyreg/internal/presentation"
	"github.com/zjrosen/keyreg/internal/source"
	"github.com/zjrosen/keyreg/internal/tracing"
	"github.com/zjrosen/keyreg/internal/transform"
)

// Config holds all configuration options for keyreg.
type Config struct {
	Log        LogConfig        `mapstructure:"log"`
	Server     ServerConfig     `mapstructure:"server"`
	Watch      WatchConfig      `mapstructure:"watch"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Tracing    tracing.Config   `mapstructure:"tracing"`
	Registries []RegistryConfig `mapstructure:"registries"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level string `mapstructure:"level"` // debug, info (default), warn, error
	File  string `mapstructure:"file"`  // empty logs to stderr
}

// ServerConfig controls the introspection endpoint.
type ServerConfig struct {
	Addr     string `mapstructure:"addr"`      // listen address, e.g. ":8080"
	BasePath string `mapstructure:"base_path"` // mount point, e.g. "/registry"
	Format   string `mapstructure:"format"`    // "json" (default) or "yaml"
}

// WatchConfig controls automatic reloads when a data file changes.
type WatchConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Debounce time.Duration `mapstructure:"debounce"`
}

// CacheConfig controls memoization of transformed records.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"` // 0 keeps entries until the next reload
}

// RegistryConfig declares one named data set.
type RegistryConfig struct {
	Name      string            `mapstructure:"name" yaml:"name"`
	Source    source.Descriptor `mapstructure:"source" yaml:"source"`
	Transform transform.Spec    `mapstructure:"transform" yaml:"transform,omitempty"`
}

// Defaults returns the default configuration. It declares no registries.
func Defaults() Config {
	return Config{
		Log: LogConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Addr:     ":8080",
			BasePath: "/registry",
			Format:   string(presentation.FormatJSON),
		},
		Watch: WatchConfig{
			Enabled:  true,
			Debounce: 250 * time.Millisecond,
		},
		Cache: CacheConfig{
			Enabled: false,
			TTL:     10 * time.Minute,
		},
		Tracing: tracing.DefaultConfig(),
	}
}

// Validate checks the whole configuration.
func (c Config) Validate() error {
	if err := ValidateServer(c.Server); err != nil {
		return err
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	if err := c.Tracing.Validate(); err != nil {
		return err
	}
	return ValidateRegistries(c.Registries)
}

// ValidateServer checks server configuration for errors.
func ValidateServer(s ServerConfig) error {
	if s.BasePath != "" && !strings.HasPrefix(s.BasePath, "/") {
		return fmt.Errorf("server.base_path %q must start with /", s.BasePath)
	}
	if _, err := presentation.ParseFormat(s.Format); err != nil {
		return fmt.Errorf("server.format: %w", err)
	}
	return nil
}

// ValidateRegistries checks registry declarations for errors.
// Returns nil for an empty list.
func ValidateRegistries(regs []RegistryConfig) error {
	seen := make(map[string]bool, len(regs))
	for i, reg := range regs {
		if reg.Name == "" {
			return fmt.Errorf("registry %d: name is required", i)
		}
		if strings.Contains(reg.Name, "/") {
			return fmt.Errorf("registry %d (%s): name must not contain /", i, reg.Name)
		}
		if seen[reg.Name] {
			return fmt.Errorf("registry %d (%s): duplicate name", i, reg.Name)
		}
		seen[reg.Name] = true

		if err := reg.Source.Validate(); err != nil {
			return fmt.Errorf("registry %d (%s): %w", i, reg.Name, err)
		}
		if err := reg.Transform.Validate(); err != nil {
			return fmt.Errorf("registry %d (%s): transform: %w", i, reg.Name, err)
		}
	}
	return nil
}

// Registry returns the declaration named name.
func (c Config) Registry(name string) (RegistryConfig, bool) {
	for _, reg := range c.Registries {
		if reg.Name == name {
			return reg, true
		}
	}
	return RegistryConfig{}, false
}
