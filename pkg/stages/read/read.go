// Package read implements the stage that loads the input raster.
package read

import (
	"context"
	"fmt"

	"github.com/user/pfmshot/pkg/pfm"
	"github.com/user/pfmshot/pkg/pipeline"
	"github.com/user/pfmshot/pkg/ports"
)

// Stage loads a Portable FloatMap file into a RasterImage.
type Stage struct {
	fs     ports.FileSystem
	logger ports.Logger
}

// New creates a new read stage.
func New(fs ports.FileSystem, logger ports.Logger) *Stage {
	return &Stage{
		fs:     fs,
		logger: logger.WithComponent("reader"),
	}
}

// Execute reads and decodes the file at input.Path.
//
// I/O failures wrap pipeline.ErrIO and structural problems wrap
// pipeline.ErrFormat. No image is returned on error.
func (s *Stage) Execute(ctx context.Context, input pipeline.ReadInput) (pipeline.ReadResult, error) {
	if err := ctx.Err(); err != nil {
		return pipeline.ReadResult{}, err
	}

	data, err := s.fs.ReadFile(input.Path)
	if err != nil {
		return pipeline.ReadResult{}, fmt.Errorf("%w: %s: %v", pipeline.ErrIO, input.Path, err)
	}
	s.logger.Debug("Read %d bytes from %s", len(data), input.Path)

	img, header, err := pfm.Decode(data)
	if err != nil {
		return pipeline.ReadResult{}, fmt.Errorf("%s: %w", input.Path, err)
	}
	s.logger.Debug("Parsed %dx%d raster, %s samples at offset %d",
		header.Width, header.Height, header.Info(len(data)).ByteOrder, header.PayloadOffset)

	return pipeline.ReadResult{
		Image:  img,
		Header: header.Info(len(data)),
	}, nil
}

// Ensure Stage implements pipeline.Stage
var _ pipeline.Stage[pipeline.ReadInput, pipeline.ReadResult] = (*Stage)(nil)
