// Package osfilesystem backs ports.FileSystem with the host filesystem: it
// reads PFM inputs and writes FPX outputs, summaries and debug files.
package osfilesystem

import (
	"os"
	"path/filepath"

	"github.com/user/pfmshot/pkg/ports"
)

// FileSystem implements ports.FileSystem.
type FileSystem struct{}

func New() *FileSystem {
	return &FileSystem{}
}

// ReadFile loads a whole file; PFM decoding needs the full payload length
// up front.
func (fs *FileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes an encoded file in a single attempt. An existing FPX file
// is truncated, never appended to. Missing parent directories are created.
func (fs *FileSystem) WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// MkdirAll creates the debug output directory and its parents.
func (fs *FileSystem) MkdirAll(path string) error {
	return os.MkdirAll(path, 0755)
}

var _ ports.FileSystem = (*FileSystem)(nil)
