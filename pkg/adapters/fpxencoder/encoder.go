// Package fpxencoder provides a lossless encoder for floating-point RGB
// rasters implementing ports.ImageEncoder.
//
// The output is an ISO-BMFF file: an ftyp box with the "fpx1" brand
// followed by an mdat box holding a small header and the image split into
// stripes of rows. Stripes are compressed independently, in parallel, on the
// ports.ParallelRunner the encoder was created with.
package fpxencoder

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/user/pfmshot/pkg/pipeline"
	"github.com/user/pfmshot/pkg/ports"
)

// DefaultStripeRows is the number of rows compressed as one unit.
const DefaultStripeRows = 64

type encoderState int

const (
	stateNew encoderState = iota
	stateConfigured
	stateFramed
	stateFlushing
	stateDone
	stateFailed
	stateClosed
)

// Encoder implements ports.ImageEncoder.
type Encoder struct {
	mu sync.Mutex

	runner  ports.ParallelRunner
	codec   Codec
	level   int
	rows    int
	shuffle bool

	state  encoderState
	width  int
	height int
	pixels []float32

	pending []byte
	off     int
	err     error
}

// ValidateOptions checks the codec name and level without creating an encoder.
func ValidateOptions(opts ports.EncoderOptions) error {
	codec, err := ParseCodec(opts.Codec)
	if err != nil {
		return err
	}
	return validateLevel(codec, opts.Level)
}

// New creates an encoder that schedules stripe compression on runner.
func New(runner ports.ParallelRunner, opts ports.EncoderOptions) (*Encoder, error) {
	if err := ValidateOptions(opts); err != nil {
		return nil, err
	}
	codec, _ := ParseCodec(opts.Codec)
	rows := opts.StripeRows
	if rows <= 0 {
		rows = DefaultStripeRows
	}
	return &Encoder{
		runner:  runner,
		codec:   codec,
		level:   opts.Level,
		rows:    rows,
		shuffle: opts.Shuffle,
	}, nil
}

// SetDimensions configures the image size.
func (e *Encoder) SetDimensions(width, height int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != stateNew {
		return e.failLocked(fmt.Errorf("%w: SetDimensions in state %d", ErrOutOfOrder, e.state))
	}
	if !validDimensions(width, height) {
		return e.failLocked(fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height))
	}
	e.width = width
	e.height = height
	e.state = stateConfigured
	return nil
}

// AddImageFrame submits the pixels of the single frame. The slice is read,
// never modified, and must stay unchanged until the output has been drained.
func (e *Encoder) AddImageFrame(format ports.PixelFormat, pixels []float32) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != stateConfigured {
		return e.failLocked(fmt.Errorf("%w: AddImageFrame in state %d", ErrOutOfOrder, e.state))
	}
	if err := checkFormat(format); err != nil {
		return e.failLocked(err)
	}
	want := e.width * e.height * pipeline.ChannelsPerPixel
	if len(pixels) != want {
		return e.failLocked(fmt.Errorf("%w: got %d samples for %dx%d, expected %d",
			ErrUnsupportedFormat, len(pixels), e.width, e.height, want))
	}
	e.pixels = pixels
	e.state = stateFramed
	return nil
}

// ProcessOutput copies the next chunk of the bitstream into dst.
//
// The first call compresses the image. It reports StatusNeedMoreOutput
// while bytes remain and StatusSuccess together with the final chunk.
func (e *Encoder) ProcessOutput(dst []byte) (int, ports.EncoderStatus) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case stateFramed:
		data, err := e.encode()
		if err != nil {
			e.failLocked(err)
			return 0, ports.StatusError
		}
		e.pending = data
		e.off = 0
		e.pixels = nil
		e.state = stateFlushing
	case stateFlushing:
	case stateDone:
		return 0, ports.StatusSuccess
	case stateClosed:
		e.err = ErrClosed
		return 0, ports.StatusError
	case stateFailed:
		return 0, ports.StatusError
	default:
		e.failLocked(fmt.Errorf("%w: ProcessOutput before AddImageFrame", ErrOutOfOrder))
		return 0, ports.StatusError
	}

	n := copy(dst, e.pending[e.off:])
	e.off += n
	if e.off < len(e.pending) {
		return n, ports.StatusNeedMoreOutput
	}
	e.pending = nil
	e.state = stateDone
	return n, ports.StatusSuccess
}

// Err returns the error behind the last StatusError.
func (e *Encoder) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// Close releases the frame and any pending output. It is safe to call more
// than once.
func (e *Encoder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pixels = nil
	e.pending = nil
	e.state = stateClosed
	return nil
}

func (e *Encoder) failLocked(err error) error {
	e.err = err
	e.state = stateFailed
	return err
}

// encode compresses all stripes and assembles the container.
func (e *Encoder) encode() ([]byte, error) {
	count := stripeCount(e.width, e.height, e.rows)

	comp, err := newCompressor(e.codec, e.level, e.runner.Workers())
	if err != nil {
		return nil, err
	}
	defer comp.close()

	stride := e.width * pipeline.ChannelsPerPixel
	stripes := make([][]byte, count)
	rawLens := make([]int, count)
	err = e.runner.Run(int(count), func(i int) error {
		first := i * e.rows
		last := min(first+e.rows, e.height)
		samples := e.pixels[first*stride : last*stride]

		raw := make([]byte, len(samples)*pipeline.BytesPerSample)
		for j, v := range samples {
			binary.LittleEndian.PutUint32(raw[j*4:], math.Float32bits(v))
		}
		if e.shuffle {
			raw = shuffle(raw)
		}
		packed, err := comp.compress(raw)
		if err != nil {
			return fmt.Errorf("compress stripe %d: %w", i, err)
		}
		stripes[i] = packed
		rawLens[i] = len(raw)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var flags uint8
	if e.shuffle {
		flags |= flagShuffled
	}
	header := streamHeader{
		Version:     formatVersion,
		Width:       uint32(e.width),
		Height:      uint32(e.height),
		Channels:    pipeline.ChannelsPerPixel,
		SampleType:  sampleFloat32,
		Codec:       e.codec,
		Flags:       flags,
		StripeRows:  uint32(e.rows),
		StripeCount: count,
	}

	size := streamHeaderLen
	for _, s := range stripes {
		size += stripeHeaderLen + len(s)
	}
	payload := header.appendTo(make([]byte, 0, size))
	for i, s := range stripes {
		payload = binary.BigEndian.AppendUint32(payload, uint32(rawLens[i]))
		payload = binary.BigEndian.AppendUint32(payload, uint32(len(s)))
		payload = append(payload, s...)
	}

	return writeContainer(payload)
}

// checkFormat accepts three tightly packed float32 channels in host order.
func checkFormat(f ports.PixelFormat) error {
	if f.Channels != pipeline.ChannelsPerPixel {
		return fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, f.Channels)
	}
	if f.DataType != ports.TypeFloat32 {
		return fmt.Errorf("%w: data type %d", ErrUnsupportedFormat, f.DataType)
	}
	if f.Align != 0 {
		return fmt.Errorf("%w: row alignment %d", ErrUnsupportedFormat, f.Align)
	}
	if f.Endianness != ports.NativeEndian && f.Endianness != hostEndianness() {
		return fmt.Errorf("%w: non-native byte order", ErrUnsupportedFormat)
	}
	return nil
}

func hostEndianness() ports.Endianness {
	var probe [2]byte
	binary.NativeEndian.PutUint16(probe[:], 1)
	if probe[0] == 1 {
		return ports.LittleEndian
	}
	return ports.BigEndian
}

// Ensure Encoder implements ports.ImageEncoder
var _ ports.ImageEncoder = (*Encoder)(nil)
