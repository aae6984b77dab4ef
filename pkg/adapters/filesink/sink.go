// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/user/pfmshot/pkg/ports"
)

// File names written below the debug directory.
const (
	HeaderFile  = "header.json"
	PreviewFile = "preview.png"
	RunFile     = "run.json"
)

// Sink saves debug output to files.
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
}

// New creates a new FileSink.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveHeaderJSON saves the parsed input header.
func (s *Sink) SaveHeaderJSON(data []byte) error {
	return s.save(HeaderFile, data)
}

// SavePreview saves the tone-mapped input preview as PNG.
func (s *Sink) SavePreview(img image.Image) error {
	data, err := s.renderer.EncodePNG(img)
	if err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	return s.save(PreviewFile, data)
}

// SaveRunJSON saves the pipeline result.
func (s *Sink) SaveRunJSON(data []byte) error {
	return s.save(RunFile, data)
}

func (s *Sink) save(name string, data []byte) error {
	if err := s.fs.MkdirAll(s.baseDir); err != nil {
		return err
	}
	return s.fs.WriteFile(filepath.Join(s.baseDir, name), data)
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
