package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zjrosen/keyreg/internal/log"
)

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# keyreg configuration

# Structured logging
log:
  level: info      # debug, info, warn, error
  # file: keyreg.log  # log to a file instead of stderr

# Introspection endpoint (keyreg serve)
server:
  addr: ":8080"
  base_path: /registry   # GET /registry/<name> returns the full listing
  format: json           # json or yaml; ?format= overrides per request

# Reload a registry when its data file changes
watch:
  enabled: true
  debounce: 250ms

# Memoize transformed records until the next reload
cache:
  enabled: false
  ttl: 10m

# OpenTelemetry spans for reloads and requests (keyreg serve)
tracing:
  enabled: false
  exporter: file           # file, stdout, otlp or none
  file_path: traces.jsonl
  otlp_endpoint: localhost:4317

# Declared data sets. Relative paths resolve against this file's directory.
registries:
  - name: errors
    source:
      format: yaml
      path: data/errors.yaml
    transform:
      strip: [status]   # status belongs in the response envelope, not the body
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
