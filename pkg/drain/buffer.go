package drain

import (
	"fmt"
	"math"

	"github.com/user/pfmshot/pkg/pipeline"
)

// Buffer is a growable output buffer with an explicit write position.
//
// The prefix [0, Len()) always holds bytes that were already produced. The
// space after it is scratch handed out by Free and is only meaningful once
// Advance has accounted for it.
type Buffer struct {
	data    []byte
	written int
}

// NewBuffer creates a Buffer with the given capacity.
func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = DefaultInitialCapacity
	}
	return &Buffer{data: make([]byte, capacity)}
}

// Len returns the number of produced bytes.
func (b *Buffer) Len() int {
	return b.written
}

// Cap returns the total capacity.
func (b *Buffer) Cap() int {
	return len(b.data)
}

// Free returns the unwritten region. It is invalidated by Grow.
func (b *Buffer) Free() []byte {
	return b.data[b.written:]
}

// Advance marks n more bytes of the free region as produced.
func (b *Buffer) Advance(n int) error {
	if n < 0 || n > len(b.data)-b.written {
		return fmt.Errorf("%w: %d bytes reported written into %d bytes of space",
			pipeline.ErrEncode, n, len(b.data)-b.written)
	}
	b.written += n
	return nil
}

// Grow doubles the capacity, keeping the produced prefix byte for byte.
// A maxCapacity of zero means no limit other than the int range.
func (b *Buffer) Grow(maxCapacity int) error {
	old := len(b.data)
	if old > math.MaxInt/2 {
		return fmt.Errorf("%w: output buffer of %d bytes cannot grow", pipeline.ErrEncode, old)
	}
	next := old * 2
	if maxCapacity > 0 && next > maxCapacity {
		return fmt.Errorf("%w: output exceeds the %d byte limit", pipeline.ErrEncode, maxCapacity)
	}

	data := make([]byte, next)
	copy(data, b.data[:b.written])
	b.data = data
	return nil
}

// Bytes returns the produced bytes with no spare capacity.
func (b *Buffer) Bytes() []byte {
	return b.data[:b.written:b.written]
}
