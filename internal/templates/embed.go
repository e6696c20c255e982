// Package templates embeds the sample data sets written by keyreg init.
package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// sampleData embeds the starter data files.
// The structure is:
//   - data/<registry-name>.yaml
//
//go:embed data
var sampleData embed.FS

// DataFS returns the embedded filesystem rooted at the data directory.
func DataFS() fs.FS {
	sub, err := fs.Sub(sampleData, "data")
	if err != nil {
		// data is embedded above, so Sub cannot fail
		panic(err)
	}
	return sub
}

// WriteSampleData copies every embedded data file into dir/data.
// Existing files are left untouched. Returns the paths written.
func WriteSampleData(dir string) ([]string, error) {
	fsys := DataFS()
	target := filepath.Join(dir, "data")
	if err := os.MkdirAll(target, 0o750); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	var written []string
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		dst := filepath.Join(target, filepath.FromSlash(path))
		if _, err := os.Stat(dst); err == nil {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		if err := os.WriteFile(dst, data, 0o600); err != nil {
			return fmt.Errorf("writing %s: %w", dst, err)
		}
		written = append(written, dst)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return written, nil
}
