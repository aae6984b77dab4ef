package ports

import (
	"image"
)

// PreviewOptions controls how a float raster is turned into a viewable image.
type PreviewOptions struct {
	MaxSize  int     // Longest edge of the preview in pixels (0 = original size)
	Exposure float64 // Exposure adjustment in stops applied before tone mapping
}

// Renderer abstracts preview rendering of high dynamic range rasters.
type Renderer interface {
	// ToneMap converts interleaved RGB float samples to an 8-bit image.
	ToneMap(width, height int, samples []float32, opts PreviewOptions) image.Image

	// EncodePNG encodes an image as PNG.
	EncodePNG(img image.Image) ([]byte, error)
}
