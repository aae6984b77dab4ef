// Package ports defines interfaces for external collaborators of the pipeline.
package ports

// DataType identifies the scalar type of submitted pixel samples.
type DataType int

const (
	// TypeFloat32 is a 32-bit IEEE-754 float per sample.
	TypeFloat32 DataType = iota + 1
)

// Endianness selects the byte order of submitted pixel samples.
type Endianness int

const (
	// NativeEndian means the host byte order.
	NativeEndian Endianness = iota
	LittleEndian
	BigEndian
)

// PixelFormat describes the memory layout of a submitted frame.
type PixelFormat struct {
	Channels   uint32     // Interleaved channels per pixel
	DataType   DataType   // Sample type
	Endianness Endianness // Sample byte order
	Align      int        // Row alignment in bytes (0 = tightly packed)
}

// EncoderStatus is the result of a single ProcessOutput call.
type EncoderStatus int

const (
	// StatusSuccess means all output has been produced.
	StatusSuccess EncoderStatus = iota
	// StatusNeedMoreOutput means the destination was filled and more output is pending.
	StatusNeedMoreOutput
	// StatusError means the encoder failed; see ImageEncoder.Err.
	StatusError
)

// String returns the string representation of the status.
func (s EncoderStatus) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusNeedMoreOutput:
		return "need more output"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// ImageEncoder abstracts a stateful single-frame image encoder.
//
// The lifecycle is: SetDimensions, AddImageFrame, ProcessOutput until it
// reports StatusSuccess, Close. Close must be safe to call on every path.
type ImageEncoder interface {
	// SetDimensions configures the image size in pixels.
	SetDimensions(width, height int) error

	// AddImageFrame submits the complete pixel buffer of the only frame.
	// The encoder may keep a reference to pixels until Close.
	AddImageFrame(format PixelFormat, pixels []float32) error

	// ProcessOutput writes the next chunk of compressed output into dst and
	// returns the number of bytes written. StatusNeedMoreOutput asks the
	// caller to call again with fresh space; the encoder resumes where it
	// stopped.
	ProcessOutput(dst []byte) (int, EncoderStatus)

	// Err returns the reason for the last StatusError, if any.
	Err() error

	// Close releases encoder resources.
	Close() error
}

// EncoderOptions configures the encoder collaborator.
type EncoderOptions struct {
	Codec      string // Compression codec name (e.g. "zstd")
	Level      int    // Codec-specific compression level (0 = codec default)
	StripeRows int    // Rows per independently compressed stripe
	Shuffle    bool   // Byte-plane shuffle samples before compression
}
