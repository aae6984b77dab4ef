package fpxencoder

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/pfmshot/pkg/pipeline"
)

// Brand is the ftyp major brand of FPX files.
const Brand = "fpx1"

const (
	formatVersion   = 1
	sampleFloat32   = 1
	flagShuffled    = 1 << 0
	streamHeaderLen = 1 + 4 + 4 + 1 + 1 + 1 + 1 + 4 + 4
	stripeHeaderLen = 4 + 4
	maxDimension    = 1 << 30
	maxPixels       = 1 << 28
)

// streamHeader is the fixed header at the start of the mdat payload.
// All fields are big-endian.
type streamHeader struct {
	Version     uint8
	Width       uint32
	Height      uint32
	Channels    uint8
	SampleType  uint8
	Codec       Codec
	Flags       uint8
	StripeRows  uint32
	StripeCount uint32
}

func (h streamHeader) appendTo(b []byte) []byte {
	b = append(b, h.Version)
	b = binary.BigEndian.AppendUint32(b, h.Width)
	b = binary.BigEndian.AppendUint32(b, h.Height)
	b = append(b, h.Channels, h.SampleType, uint8(h.Codec), h.Flags)
	b = binary.BigEndian.AppendUint32(b, h.StripeRows)
	b = binary.BigEndian.AppendUint32(b, h.StripeCount)
	return b
}

func parseStreamHeader(b []byte) (streamHeader, error) {
	var h streamHeader
	if len(b) < streamHeaderLen {
		return h, fmt.Errorf("%w: header is %d bytes, need %d", ErrInvalidStream, len(b), streamHeaderLen)
	}
	h.Version = b[0]
	h.Width = binary.BigEndian.Uint32(b[1:])
	h.Height = binary.BigEndian.Uint32(b[5:])
	h.Channels = b[9]
	h.SampleType = b[10]
	h.Codec = Codec(b[11])
	h.Flags = b[12]
	h.StripeRows = binary.BigEndian.Uint32(b[13:])
	h.StripeCount = binary.BigEndian.Uint32(b[17:])

	switch {
	case h.Version != formatVersion:
		return h, fmt.Errorf("%w: version %d", ErrInvalidStream, h.Version)
	case h.Channels != pipeline.ChannelsPerPixel || h.SampleType != sampleFloat32:
		return h, fmt.Errorf("%w: %d channels of sample type %d", ErrInvalidStream, h.Channels, h.SampleType)
	case !validDimensions(int(h.Width), int(h.Height)):
		return h, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, h.Width, h.Height)
	case h.StripeCount != stripeCount(int(h.Width), int(h.Height), int(h.StripeRows)):
		return h, fmt.Errorf("%w: %d stripes of %d rows for height %d", ErrInvalidStream, h.StripeCount, h.StripeRows, h.Height)
	}
	if _, ok := codecNames[h.Codec]; !ok {
		return h, fmt.Errorf("%w: %d", ErrUnknownCodec, h.Codec)
	}
	return h, nil
}

// validDimensions reports whether an image of this size can be encoded.
func validDimensions(width, height int) bool {
	if width < 0 || height < 0 || width > maxDimension || height > maxDimension {
		return false
	}
	return uint64(width)*uint64(height) <= maxPixels
}

// stripeCount returns the number of stripes an image is split into.
// Images without samples have no stripes.
func stripeCount(width, height, rows int) uint32 {
	if width == 0 || height == 0 {
		return 0
	}
	if rows <= 0 {
		return math.MaxUint32
	}
	return uint32((height + rows - 1) / rows)
}

// writeContainer wraps payload in the ftyp and mdat boxes.
func writeContainer(payload []byte) ([]byte, error) {
	var buf bytes.Buffer
	ftyp := mp4.NewFtyp(Brand, 0, []string{Brand})
	if err := ftyp.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode ftyp: %w", err)
	}
	mdat := &mp4.MdatBox{Data: payload}
	if err := mdat.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode mdat: %w", err)
	}
	return buf.Bytes(), nil
}

// readContainer returns the mdat payload of an FPX file.
func readContainer(data []byte) ([]byte, error) {
	r := bytes.NewReader(data)
	var pos uint64
	var brand string
	var payload []byte
	for pos < uint64(len(data)) {
		box, err := mp4.DecodeBox(pos, r)
		if err != nil {
			return nil, fmt.Errorf("%w: box at %d: %v", ErrInvalidStream, pos, err)
		}
		switch b := box.(type) {
		case *mp4.FtypBox:
			brand = b.MajorBrand()
		case *mp4.MdatBox:
			if brand == "" {
				return nil, fmt.Errorf("%w: mdat before ftyp", ErrInvalidStream)
			}
			payload = b.Data
		}
		pos += box.Size()
	}
	if brand != Brand {
		return nil, fmt.Errorf("%w: brand %q", ErrInvalidStream, brand)
	}
	if payload == nil {
		return nil, fmt.Errorf("%w: missing mdat", ErrInvalidStream)
	}
	return payload, nil
}

// Decode reconstructs the image stored in an FPX file.
func Decode(data []byte) (*pipeline.RasterImage, error) {
	payload, err := readContainer(data)
	if err != nil {
		return nil, err
	}
	h, err := parseStreamHeader(payload)
	if err != nil {
		return nil, err
	}

	img := pipeline.NewRasterImage(int(h.Width), int(h.Height))
	rowBytes := int(h.Width) * pipeline.ChannelsPerPixel * pipeline.BytesPerSample
	pos := streamHeaderLen
	for i := 0; i < int(h.StripeCount); i++ {
		if len(payload)-pos < stripeHeaderLen {
			return nil, fmt.Errorf("%w: stripe %d header truncated", ErrInvalidStream, i)
		}
		rawLen := int(binary.BigEndian.Uint32(payload[pos:]))
		packedLen := int(binary.BigEndian.Uint32(payload[pos+4:]))
		pos += stripeHeaderLen

		firstRow := i * int(h.StripeRows)
		rows := min(int(h.StripeRows), int(h.Height)-firstRow)
		if rawLen != rows*rowBytes {
			return nil, fmt.Errorf("%w: stripe %d declares %d bytes, expected %d", ErrInvalidStream, i, rawLen, rows*rowBytes)
		}
		if packedLen > len(payload)-pos {
			return nil, fmt.Errorf("%w: stripe %d truncated", ErrInvalidStream, i)
		}

		raw, err := decompress(h.Codec, payload[pos:pos+packedLen], rawLen)
		if err != nil {
			return nil, fmt.Errorf("stripe %d: %w", i, err)
		}
		pos += packedLen
		if h.Flags&flagShuffled != 0 {
			raw = unshuffle(raw)
		}

		samples := img.Samples[firstRow*int(h.Width)*pipeline.ChannelsPerPixel:]
		for j := 0; j < len(raw)/pipeline.BytesPerSample; j++ {
			samples[j] = math.Float32frombits(binary.LittleEndian.Uint32(raw[j*4:]))
		}
	}
	if pos != len(payload) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrInvalidStream, len(payload)-pos)
	}

	return img, nil
}
