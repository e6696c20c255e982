package source

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/zjrosen/keyreg/internal/domain/record"
	"github.com/zjrosen/keyreg/internal/log"
)

// File loads records from a YAML or JSON file.
type File struct {
	// Path locates the file. With FS set it is an fs.FS path (slash-separated,
	// unrooted); otherwise an OS path.
	Path string
	// Format selects the parser. Inferred from the extension when empty.
	Format Format
	// FS optionally serves the file, e.g. from an embed.FS.
	FS fs.FS
}

// Load reads and parses the file.
func (f File) Load() (*record.Set, error) {
	origin := f.String()
	if f.Path == "" {
		return nil, wrap(origin, fmt.Errorf("%w: path is required", ErrInvalidDescriptor))
	}

	format := f.Format
	if format == "" {
		inferred, err := FormatFromPath(f.Path)
		if err != nil {
			return nil, wrap(origin, err)
		}
		format = inferred
	}

	data, err := f.read()
	if err != nil {
		log.Debug(log.CatSource, "source read failed", "origin", origin, "error", err)
		return nil, wrap(origin, err)
	}

	entries, err := Parse(format, data)
	if err != nil {
		log.Debug(log.CatSource, "source parse failed", "origin", origin, "format", format, "error", err)
		return nil, wrap(origin, err)
	}
	log.Debug(log.CatSource, "source parsed",
		"origin", origin,
		"format", format,
		"bytes", len(data),
		"entries", len(entries))
	return build(origin, entries)
}

func (f File) read() ([]byte, error) {
	if f.FS != nil {
		return fs.ReadFile(f.FS, f.Path)
	}
	return os.ReadFile(f.Path) //nolint:gosec // G304: path comes from operator configuration
}

func (f File) String() string {
	if f.Format == "" {
		return "file:" + f.Path
	}
	return fmt.Sprintf("file:%s (%s)", f.Path, f.Format)
}
