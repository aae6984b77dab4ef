package ports

import (
	"image"
)

// DebugSink abstracts debug output for intermediate results.
// It allows saving intermediate processing results for debugging purposes.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveHeaderJSON saves the parsed input header as JSON.
	SaveHeaderJSON(data []byte) error

	// SavePreview saves a tone-mapped preview of the input raster.
	SavePreview(img image.Image) error

	// SaveRunJSON saves the pipeline result as JSON.
	SaveRunJSON(data []byte) error
}
