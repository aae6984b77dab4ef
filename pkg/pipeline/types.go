package pipeline

import (
	"github.com/user/pfmshot/pkg/ports"
)

// ChannelsPerPixel is the number of interleaved samples per pixel (RGB).
const ChannelsPerPixel = 3

// BytesPerSample is the size of one float32 sample.
const BytesPerSample = 4

// =============================================================================
// Common Types
// =============================================================================

// RasterImage is a decoded floating-point RGB image.
//
// Samples are row-major, top row first, with three interleaved channels per
// pixel, so len(Samples) == Width*Height*3. A RasterImage is never modified
// after it has been returned by a reader.
type RasterImage struct {
	Width   int
	Height  int
	Samples []float32
}

// NewRasterImage allocates a zeroed image of the given size.
func NewRasterImage(width, height int) *RasterImage {
	return &RasterImage{
		Width:   width,
		Height:  height,
		Samples: make([]float32, width*height*ChannelsPerPixel),
	}
}

// PayloadSize returns the size in bytes of the sample data.
func (img *RasterImage) PayloadSize() int {
	return len(img.Samples) * BytesPerSample
}

// At returns the RGB samples of the pixel at (x, y).
func (img *RasterImage) At(x, y int) (r, g, b float32) {
	i := (y*img.Width + x) * ChannelsPerPixel
	return img.Samples[i], img.Samples[i+1], img.Samples[i+2]
}

// FloatPixelFormat is the layout the pipeline submits frames in: three
// float32 channels in host byte order without row padding.
var FloatPixelFormat = ports.PixelFormat{
	Channels:   ChannelsPerPixel,
	DataType:   ports.TypeFloat32,
	Endianness: ports.NativeEndian,
	Align:      0,
}

// =============================================================================
// Read Stage Types
// =============================================================================

// ReadInput contains parameters for loading the input container.
type ReadInput struct {
	Path string
}

// ReadResult contains the decoded image and header facts about the file.
type ReadResult struct {
	Image  *RasterImage
	Header HeaderInfo
}

// HeaderInfo describes the parsed container header.
type HeaderInfo struct {
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	ScaleToken    string `json:"scale"`
	ByteOrder     string `json:"byte_order"`
	PayloadOffset int    `json:"payload_offset"`
	FileSize      int    `json:"file_size"`
}

// =============================================================================
// Encode Stage Types
// =============================================================================

// EncodeInput contains parameters for encoding.
type EncodeInput struct {
	Image           *RasterImage
	Options         ports.EncoderOptions
	Workers         int  // Scheduler workers (0 = number of CPUs)
	InitialCapacity int  // Starting size of the output buffer (0 = default)
	Verify          bool // Decode the output and compare it with the input
}

// EncodeResult contains the encoded bytes and drain statistics.
type EncodeResult struct {
	Data          []byte
	Growths       int // Number of output buffer doublings
	FinalCapacity int // Output buffer capacity when draining finished
	Steps         int // Number of ProcessOutput calls
	Verified      bool
}
