package fpxencoder

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec identifies the stripe compression algorithm.
type Codec uint8

const (
	CodecNone Codec = iota
	CodecZstd
	CodecLZ4
	CodecBrotli
)

var codecNames = map[Codec]string{
	CodecNone:   "none",
	CodecZstd:   "zstd",
	CodecLZ4:    "lz4",
	CodecBrotli: "brotli",
}

// String returns the codec name.
func (c Codec) String() string {
	if name, ok := codecNames[c]; ok {
		return name
	}
	return fmt.Sprintf("codec(%d)", uint8(c))
}

// ParseCodec parses a codec name. The empty string selects zstd.
func ParseCodec(name string) (Codec, error) {
	if name == "" {
		return CodecZstd, nil
	}
	name = strings.ToLower(name)
	for c, n := range codecNames {
		if n == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}

// Codecs returns the supported codec names.
func Codecs() []string {
	return []string{"zstd", "lz4", "brotli", "none"}
}

var lz4Levels = []lz4.CompressionLevel{
	lz4.Fast, lz4.Level1, lz4.Level2, lz4.Level3, lz4.Level4,
	lz4.Level5, lz4.Level6, lz4.Level7, lz4.Level8, lz4.Level9,
}

// validateLevel checks level against the codec's range. Zero always means
// the codec default.
func validateLevel(c Codec, level int) error {
	var lo, hi int
	switch c {
	case CodecNone:
		lo, hi = 0, 0
	case CodecZstd:
		lo, hi = 0, 22
	case CodecLZ4:
		lo, hi = 0, len(lz4Levels)-1
	case CodecBrotli:
		lo, hi = 0, brotli.BestCompression
	default:
		return fmt.Errorf("%w: %d", ErrUnknownCodec, c)
	}
	if level < lo || level > hi {
		return fmt.Errorf("%w: %s accepts %d..%d, got %d", ErrInvalidLevel, c, lo, hi, level)
	}
	return nil
}

// compressor compresses independent stripes. Implementations must be safe
// for concurrent use.
type compressor interface {
	compress(raw []byte) ([]byte, error)
	close()
}

func newCompressor(c Codec, level, concurrency int) (compressor, error) {
	if err := validateLevel(c, level); err != nil {
		return nil, err
	}
	switch c {
	case CodecNone:
		return noneCompressor{}, nil
	case CodecZstd:
		encLevel := zstd.SpeedDefault
		if level > 0 {
			encLevel = zstd.EncoderLevelFromZstd(level)
		}
		if concurrency < 1 {
			concurrency = 1
		}
		enc, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(encLevel),
			zstd.WithEncoderConcurrency(concurrency),
		)
		if err != nil {
			return nil, fmt.Errorf("create zstd encoder: %w", err)
		}
		return &zstdCompressor{enc: enc}, nil
	case CodecLZ4:
		return lz4Compressor{level: lz4Levels[level]}, nil
	case CodecBrotli:
		if level == 0 {
			level = brotli.DefaultCompression
		}
		return brotliCompressor{level: level}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCodec, c)
	}
}

type noneCompressor struct{}

func (noneCompressor) compress(raw []byte) ([]byte, error) { return raw, nil }
func (noneCompressor) close()                              {}

type zstdCompressor struct {
	enc *zstd.Encoder
}

func (z *zstdCompressor) compress(raw []byte) ([]byte, error) {
	return z.enc.EncodeAll(raw, nil), nil
}

func (z *zstdCompressor) close() {
	z.enc.Close()
}

type lz4Compressor struct {
	level lz4.CompressionLevel
}

func (l lz4Compressor) compress(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if err := zw.Apply(lz4.CompressionLevelOption(l.level)); err != nil {
		return nil, fmt.Errorf("configure lz4: %w", err)
	}
	if _, err := zw.Write(raw); err != nil {
		_ = zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (lz4Compressor) close() {}

type brotliCompressor struct {
	level int
}

func (b brotliCompressor) compress(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	bw := brotli.NewWriterLevel(&buf, b.level)
	if _, err := bw.Write(raw); err != nil {
		_ = bw.Close()
		return nil, err
	}
	if err := bw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (brotliCompressor) close() {}

// decompress expands one stripe. It never returns more than expected bytes.
func decompress(c Codec, packed []byte, expected int) ([]byte, error) {
	var out []byte
	var err error
	switch c {
	case CodecNone:
		out = packed
	case CodecZstd:
		var dec *zstd.Decoder
		dec, err = zstd.NewReader(bytes.NewReader(packed), zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidStream, c, err)
		}
		defer dec.Close()
		out, err = io.ReadAll(io.LimitReader(dec, int64(expected)+1))
	case CodecLZ4:
		out, err = io.ReadAll(io.LimitReader(lz4.NewReader(bytes.NewReader(packed)), int64(expected)+1))
	case CodecBrotli:
		out, err = io.ReadAll(io.LimitReader(brotli.NewReader(bytes.NewReader(packed)), int64(expected)+1))
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCodec, c)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidStream, c, err)
	}
	if len(out) != expected {
		return nil, fmt.Errorf("%w: %s stripe expanded to %d bytes, expected %d", ErrInvalidStream, c, len(out), expected)
	}
	return out, nil
}

// shuffle groups byte k of every 4-byte sample into plane k, which
// compresses float data noticeably better.
func shuffle(raw []byte) []byte {
	n := len(raw) / 4
	out := make([]byte, len(raw))
	for i := 0; i < n; i++ {
		for p := 0; p < 4; p++ {
			out[p*n+i] = raw[i*4+p]
		}
	}
	return out
}

// unshuffle reverses shuffle.
func unshuffle(planes []byte) []byte {
	n := len(planes) / 4
	out := make([]byte, len(planes))
	for i := 0; i < n; i++ {
		for p := 0; p < 4; p++ {
			out[i*4+p] = planes[p*n+i]
		}
	}
	return out
}
