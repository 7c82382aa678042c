package emit

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// FSWriter writes documents into a directory, creating it on first use.
type FSWriter struct {
	fs  afero.Fs
	dir string
}

// NewFSWriter creates a writer for dir on fs.
func NewFSWriter(fs afero.Fs, dir string) *FSWriter {
	return &FSWriter{fs: fs, dir: dir}
}

// Write stores data as dir/name.
func (w *FSWriter) Write(_ context.Context, name string, data []byte) error {
	if err := w.fs.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory '%s': %w", w.dir, err)
	}
	path := filepath.Join(w.dir, name)
	if err := afero.WriteFile(w.fs, path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file '%s': %w", path, err)
	}
	return nil
}
