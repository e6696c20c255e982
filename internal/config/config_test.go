package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/keyreg/internal/source"
	"github.com/zjrosen/keyreg/internal/transform"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Equal(t, "/registry", cfg.Server.BasePath)
	require.Equal(t, "json", cfg.Server.Format)
	require.True(t, cfg.Watch.Enabled)
	require.Equal(t, 250*time.Millisecond, cfg.Watch.Debounce)
	require.False(t, cfg.Cache.Enabled)
	require.Empty(t, cfg.Registries)
	require.False(t, cfg.Tracing.Enabled)
	require.NoError(t, cfg.Validate())
}

func TestValidateServer(t *testing.T) {
	tests := []struct {
		name    string
		server  ServerConfig
		wantErr string
	}{
		{name: "defaults", server: Defaults().Server},
		{name: "empty format is json", server: ServerConfig{BasePath: "/x"}},
		{name: "root base path", server: ServerConfig{BasePath: "/"}},
		{name: "relative base path", server: ServerConfig{BasePath: "registry"}, wantErr: "must start with /"},
		{name: "unknown format", server: ServerConfig{Format: "xml"}, wantErr: "server.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateServer(tt.server)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateRegistries(t *testing.T) {
	valid := RegistryConfig{Name: "errors", Source: source.Descriptor{Path: "errors.yaml"}}

	tests := []struct {
		name    string
		regs    []RegistryConfig
		wantErr string
	}{
		{name: "empty list", regs: nil},
		{name: "single", regs: []RegistryConfig{valid}},
		{name: "missing name", regs: []RegistryConfig{{Source: valid.Source}}, wantErr: "name is required"},
		{name: "slash in name", regs: []RegistryConfig{{Name: "a/b", Source: valid.Source}}, wantErr: "must not contain /"},
		{name: "duplicate", regs: []RegistryConfig{valid, valid}, wantErr: "duplicate name"},
		{name: "missing path", regs: []RegistryConfig{{Name: "x"}}, wantErr: "path is required"},
		{
			name:    "unknown extension",
			regs:    []RegistryConfig{{Name: "x", Source: source.Descriptor{Path: "x.toml"}}},
			wantErr: "registry 0 (x)",
		},
		{
			name: "rename without target",
			regs: []RegistryConfig{{
				Name:      "x",
				Source:    valid.Source,
				Transform: transform.Spec{Rename: []transform.RenameRule{{From: "msg"}}},
			}},
			wantErr: "transform: rename 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegistries(tt.regs)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_NegativeDurations(t *testing.T) {
	cfg := Defaults()
	cfg.Watch.Debounce = -time.Second
	require.ErrorContains(t, cfg.Validate(), "watch.debounce")

	cfg = Defaults()
	cfg.Cache.TTL = -time.Second
	require.ErrorContains(t, cfg.Validate(), "cache.ttl")
}

func TestValidate_Tracing(t *testing.T) {
	cfg := Defaults()
	cfg.Tracing.Enabled = true
	cfg.Tracing.Exporter = "zipkin"

	require.ErrorContains(t, cfg.Validate(), "unsupported tracing exporter")
}

func TestConfig_Registry(t *testing.T) {
	cfg := Defaults()
	cfg.Registries = []RegistryConfig{
		{Name: "errors", Source: source.Descriptor{Path: "errors.yaml"}},
		{Name: "messages", Source: source.Descriptor{Path: "messages.json"}},
	}

	reg, ok := cfg.Registry("messages")
	require.True(t, ok)
	require.Equal(t, "messages.json", reg.Source.Path)

	_, ok = cfg.Registry("missing")
	require.False(t, ok)
}

func TestDefaultConfigTemplate_ParsesAndValidates(t *testing.T) {
	var doc struct {
		Registries []RegistryConfig `yaml:"registries"`
		Server     struct {
			BasePath string `yaml:"base_path"`
		} `yaml:"server"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(DefaultConfigTemplate()), &doc))

	require.Equal(t, "/registry", doc.Server.BasePath)
	require.Len(t, doc.Registries, 1)
	require.Equal(t, "errors", doc.Registries[0].Name)
	require.Equal(t, []string{"status"}, doc.Registries[0].Transform.Strip)
	require.NoError(t, ValidateRegistries(doc.Registries))
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")

	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))
}

func TestAddRegistry_NewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	err := AddRegistry(path, RegistryConfig{
		Name:   "errors",
		Source: source.Descriptor{Format: "yaml", Path: "errors.yaml"},
	})
	require.NoError(t, err)

	regs := readRegistries(t, path)
	require.Len(t, regs, 1)
	require.Equal(t, "errors", regs[0].Name)
	require.True(t, regs[0].Transform.IsZero())
}

func TestAddRegistry_PreservesComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	err := AddRegistry(path, RegistryConfig{
		Name:      "messages",
		Source:    source.Descriptor{Path: "messages.json"},
		Transform: transform.Spec{Rename: []transform.RenameRule{{From: "msg", To: "message"}}},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "# Structured logging")
	require.Contains(t, string(data), "# Declared data sets.")

	regs := readRegistries(t, path)
	require.Len(t, regs, 2)
	require.Equal(t, "errors", regs[0].Name)
	require.Equal(t, "messages", regs[1].Name)
	require.Equal(t, []transform.RenameRule{{From: "msg", To: "message"}}, regs[1].Transform.Rename)
}

func TestAddRegistry_NullRegistries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\nregistries:\n"), 0o600))

	require.NoError(t, AddRegistry(path, RegistryConfig{Name: "a", Source: source.Descriptor{Path: "a.yaml"}}))

	regs := readRegistries(t, path)
	require.Len(t, regs, 1)
}

func TestAddRegistry_Duplicate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	err := AddRegistry(path, RegistryConfig{Name: "errors", Source: source.Descriptor{Path: "other.yaml"}})

	require.ErrorContains(t, err, "already declared")
}

func TestAddRegistry_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	err := AddRegistry(path, RegistryConfig{Name: "x"})

	require.ErrorIs(t, err, source.ErrInvalidDescriptor)
	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr))
}

func readRegistries(t *testing.T, path string) []RegistryConfig {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc struct {
		Registries []RegistryConfig `yaml:"registries"`
	}
	require.NoError(t, yaml.Unmarshal(data, &doc))
	return doc.Registries
}
