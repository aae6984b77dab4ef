package mocks

import (
	"sync"

	"github.com/user/pfmshot/pkg/ports"
)

// ImageEncoder is a mock implementation of ports.ImageEncoder.
//
// Without ProcessOutputFunc it emits Output in chunks that fit dst,
// reporting StatusNeedMoreOutput until everything has been written.
type ImageEncoder struct {
	mu sync.Mutex

	SetDimensionsFunc func(width, height int) error
	AddImageFrameFunc func(format ports.PixelFormat, pixels []float32) error
	ProcessOutputFunc func(dst []byte) (int, ports.EncoderStatus)
	ErrFunc           func() error
	CloseFunc         func() error

	// Output is the bitstream produced by the default ProcessOutput.
	Output []byte
	offset int

	// Recorded calls for verification
	SetDimensionsCalls []DimensionsCall
	AddImageFrameCalls []FrameCall
	ProcessOutputCalls []int // len(dst) of every call
	CloseCalls         int
}

// DimensionsCall records a call to SetDimensions.
type DimensionsCall struct {
	Width  int
	Height int
}

// FrameCall records a call to AddImageFrame.
type FrameCall struct {
	Format  ports.PixelFormat
	Samples int
}

func (m *ImageEncoder) SetDimensions(width, height int) error {
	m.mu.Lock()
	m.SetDimensionsCalls = append(m.SetDimensionsCalls, DimensionsCall{Width: width, Height: height})
	m.mu.Unlock()
	if m.SetDimensionsFunc != nil {
		return m.SetDimensionsFunc(width, height)
	}
	return nil
}

func (m *ImageEncoder) AddImageFrame(format ports.PixelFormat, pixels []float32) error {
	m.mu.Lock()
	m.AddImageFrameCalls = append(m.AddImageFrameCalls, FrameCall{Format: format, Samples: len(pixels)})
	m.mu.Unlock()
	if m.AddImageFrameFunc != nil {
		return m.AddImageFrameFunc(format, pixels)
	}
	return nil
}

func (m *ImageEncoder) ProcessOutput(dst []byte) (int, ports.EncoderStatus) {
	m.mu.Lock()
	m.ProcessOutputCalls = append(m.ProcessOutputCalls, len(dst))
	m.mu.Unlock()
	if m.ProcessOutputFunc != nil {
		return m.ProcessOutputFunc(dst)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	n := copy(dst, m.Output[m.offset:])
	m.offset += n
	if m.offset < len(m.Output) {
		return n, ports.StatusNeedMoreOutput
	}
	return n, ports.StatusSuccess
}

func (m *ImageEncoder) Err() error {
	if m.ErrFunc != nil {
		return m.ErrFunc()
	}
	return nil
}

func (m *ImageEncoder) Close() error {
	m.mu.Lock()
	m.CloseCalls++
	m.mu.Unlock()
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

var _ ports.ImageEncoder = (*ImageEncoder)(nil)
