// Package paths provides path resolution utilities.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// Resolve resolves p for use on the OS filesystem.
//
// Input normalization:
//   - "~/data/errors.yaml" -> "$HOME/data/errors.yaml"
//   - "/abs/errors.yaml" -> "/abs/errors.yaml"
//   - "data/errors.yaml" with baseDir "/etc/app" -> "/etc/app/data/errors.yaml"
//   - "data/errors.yaml" with baseDir "" -> "data/errors.yaml"
func Resolve(baseDir, p string) string {
	if p == "" {
		return ""
	}
	p = expandHome(p)
	if filepath.IsAbs(p) || baseDir == "" {
		return filepath.Clean(p)
	}
	return filepath.Join(expandHome(baseDir), p)
}

// ConfigDir returns the directory holding configFile, or "" when no config
// file is in use.
func ConfigDir(configFile string) string {
	if configFile == "" {
		return ""
	}
	return filepath.Dir(expandHome(configFile))
}

// expandHome replaces a leading "~" with the user's home directory.
// The path is returned unchanged if the home directory is unavailable.
func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
