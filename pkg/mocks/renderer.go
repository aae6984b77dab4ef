package mocks

import (
	"image"

	"github.com/user/pfmshot/pkg/ports"
)

// Renderer is a mock implementation of ports.Renderer.
type Renderer struct {
	ToneMapFunc   func(width, height int, samples []float32, opts ports.PreviewOptions) image.Image
	EncodePNGFunc func(img image.Image) ([]byte, error)

	// Recorded calls for verification
	ToneMapCalls   []ports.PreviewOptions
	EncodePNGCalls []image.Rectangle
}

func (m *Renderer) ToneMap(width, height int, samples []float32, opts ports.PreviewOptions) image.Image {
	m.ToneMapCalls = append(m.ToneMapCalls, opts)
	if m.ToneMapFunc != nil {
		return m.ToneMapFunc(width, height, samples, opts)
	}
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

func (m *Renderer) EncodePNG(img image.Image) ([]byte, error) {
	m.EncodePNGCalls = append(m.EncodePNGCalls, img.Bounds())
	if m.EncodePNGFunc != nil {
		return m.EncodePNGFunc(img)
	}
	return []byte{0x89, 'P', 'N', 'G'}, nil
}

var _ ports.Renderer = (*Renderer)(nil)
