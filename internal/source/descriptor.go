package source

import (
	"fmt"

	"github.com/zjrosen/keyreg/internal/paths"
)

// Descriptor is the configuration form of a file source.
type Descriptor struct {
	Format string `mapstructure:"format" yaml:"format"` // "yaml" or "json"; inferred from Path when empty
	Path   string `mapstructure:"path" yaml:"path"`     // relative paths resolve against the config directory
}

// Validate checks the descriptor without touching the filesystem.
func (d Descriptor) Validate() error {
	if d.Path == "" {
		return fmt.Errorf("%w: path is required", ErrInvalidDescriptor)
	}
	if _, err := d.format(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
	}
	return nil
}

// Source resolves the descriptor into a File source. baseDir anchors relative
// paths; an empty baseDir leaves them relative to the working directory.
func (d Descriptor) Source(baseDir string) (File, error) {
	if err := d.Validate(); err != nil {
		return File{}, err
	}
	format, _ := d.format()
	return File{
		Path:   paths.Resolve(baseDir, d.Path),
		Format: format,
	}, nil
}

func (d Descriptor) format() (Format, error) {
	if d.Format == "" {
		return FormatFromPath(d.Path)
	}
	return ParseFormat(d.Format)
}
