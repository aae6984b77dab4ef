// Package pfm reads and writes Portable FloatMap (PFM) raster files.
//
// Only the 3 channel variant is supported:
//
//	PF\n
//	<width> <height>\n
//	1.0\n or -1.0\n
//	width*height*3 float32 samples, bottom row first
//
// A scale token of "1.0" declares big-endian samples and "-1.0" declares
// little-endian samples. Files whose byte order differs from the host are
// rejected rather than converted.
package pfm

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"math/bits"
	"strconv"

	"github.com/user/pfmshot/pkg/pipeline"
)

const (
	// Signature is the first header line of a 3 channel PFM file.
	Signature = "PF"

	// ScaleBigEndian is the scale token declaring big-endian samples.
	ScaleBigEndian = "1.0"

	// ScaleLittleEndian is the scale token declaring little-endian samples.
	ScaleLittleEndian = "-1.0"
)

// Header holds the parsed PFM header.
type Header struct {
	Width         int
	Height        int
	ScaleToken    string
	ByteOrder     binary.ByteOrder
	PayloadOffset int // Offset of the first sample byte
}

// PayloadSize returns the number of sample bytes the header declares. The
// second result is false when that number does not fit in 64 bits.
func (h Header) PayloadSize() (uint64, bool) {
	hi, lo := bits.Mul64(uint64(h.Height)*uint64(h.Width), pipeline.ChannelsPerPixel*pipeline.BytesPerSample)
	return lo, hi == 0
}

// Info converts the header into the pipeline's header description.
func (h Header) Info(fileSize int) pipeline.HeaderInfo {
	return pipeline.HeaderInfo{
		Width:         h.Width,
		Height:        h.Height,
		ScaleToken:    h.ScaleToken,
		ByteOrder:     byteOrderName(h.ByteOrder),
		PayloadOffset: h.PayloadOffset,
		FileSize:      fileSize,
	}
}

// ParseHeader parses the three header lines at the start of data.
func ParseHeader(data []byte) (Header, error) {
	var h Header
	pos := 0

	sig, pos, err := nextToken(data, pos, '\n')
	if err != nil || sig != Signature {
		return h, ErrInvalidSignature
	}

	widthToken, pos, err := nextToken(data, pos, ' ')
	if err != nil {
		return h, err
	}
	heightToken, pos, err := nextToken(data, pos, '\n')
	if err != nil {
		return h, err
	}
	width, err := parseDimension(widthToken)
	if err != nil {
		return h, fmt.Errorf("%w: width %q", ErrInvalidDimensions, widthToken)
	}
	height, err := parseDimension(heightToken)
	if err != nil {
		return h, fmt.Errorf("%w: height %q", ErrInvalidDimensions, heightToken)
	}

	scale, pos, err := nextToken(data, pos, '\n')
	if err != nil {
		return h, err
	}
	switch scale {
	case ScaleBigEndian:
		h.ByteOrder = binary.BigEndian
	case ScaleLittleEndian:
		h.ByteOrder = binary.LittleEndian
	default:
		return h, fmt.Errorf("%w: got %q", ErrInvalidScale, scale)
	}

	h.Width = width
	h.Height = height
	h.ScaleToken = scale
	h.PayloadOffset = pos
	return h, nil
}

// Decode parses a complete PFM file held in data.
//
// The payload length is validated before the byte order, so a truncated
// file always reports ErrSizeMismatch. On error no image is returned.
func Decode(data []byte) (*pipeline.RasterImage, Header, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return nil, h, err
	}

	actual := uint64(len(data) - h.PayloadOffset)
	expected, ok := h.PayloadSize()
	if !ok {
		return nil, h, fmt.Errorf("%w: %d * %d * 3 * 4 bytes of pixel data overflows, got %d",
			ErrSizeMismatch, h.Height, h.Width, actual)
	}
	if actual != expected {
		return nil, h, fmt.Errorf("%w: expected %d * %d * 3 * 4 = %d bytes of pixel data after a %d byte header, got %d",
			ErrSizeMismatch, h.Height, h.Width, expected, h.PayloadOffset, actual)
	}

	if h.ByteOrder != NativeByteOrder() {
		return nil, h, fmt.Errorf("%w: file is %s, host is %s",
			ErrUnsupportedByteOrder, byteOrderName(h.ByteOrder), byteOrderName(NativeByteOrder()))
	}

	img := pipeline.NewRasterImage(h.Width, h.Height)
	stride := h.Width * pipeline.ChannelsPerPixel
	offset := h.PayloadOffset
	for y := h.Height - 1; y >= 0; y-- {
		row := img.Samples[y*stride : (y+1)*stride]
		for i := range row {
			row[i] = math.Float32frombits(h.ByteOrder.Uint32(data[offset:]))
			offset += pipeline.BytesPerSample
		}
	}

	return img, h, nil
}

// nextToken returns the bytes between pos and the next delim, and the
// position just past the delimiter.
func nextToken(data []byte, pos int, delim byte) (string, int, error) {
	if pos > len(data) {
		return "", pos, ErrTruncatedHeader
	}
	idx := bytes.IndexByte(data[pos:], delim)
	if idx < 0 {
		return "", pos, ErrTruncatedHeader
	}
	return string(data[pos : pos+idx]), pos + idx + 1, nil
}

func parseDimension(token string) (int, error) {
	v, err := strconv.ParseUint(token, 10, 32)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}
